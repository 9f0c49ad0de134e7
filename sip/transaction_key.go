package sip

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipcore/internal/util"
)

// MagicCookie is the RFC 3261 branch prefix.
const MagicCookie = "z9hG4bK"

// IsRFC3261Branch reports whether the branch starts with [MagicCookie].
func IsRFC3261Branch(branch string) bool {
	return strings.HasPrefix(branch, MagicCookie)
}

// GenerateBranch returns a random RFC 3261 branch.
func GenerateBranch() string {
	return MagicCookie + "." + util.RandString(32)
}

// TransactionKey correlates an event with the transaction that produced it.
// It is implemented by [ServerTransactionKey] and [ClientTransactionKey] only.
// Keys are comparable and can be used as map keys.
// The zero value of a key means "no transaction".
type TransactionKey interface {
	// IsZero reports whether the key is absent.
	IsZero() bool
	// IsValid reports whether all key fields required for matching are set.
	IsValid() bool
	String() string
	slog.LogValuer

	transactionKey()
}

// IsZeroKey reports whether key is nil or a zero key.
func IsZeroKey(key TransactionKey) bool {
	return key == nil || key.IsZero()
}

// ServerTransactionKey is the key of a server transaction.
// It is used for matching requests to the server transaction (RFC 3261 section 17.2.3).
//
// Keys built with [NewServerTransactionKey] are normalized, so == and [ServerTransactionKey.Equal]
// give the same result.
//
//nolint:recvcheck
type ServerTransactionKey struct {
	// Branch parameter of the topmost Via header field.
	Branch string `json:"branch,omitempty"`
	// Host and port of the topmost Via header field.
	SentBy string `json:"sent_by,omitempty"`
	// Method of the request that created the transaction.
	// ACK requests are matched with the INVITE method.
	Method string `json:"method,omitempty"`
}

// NewServerTransactionKey returns a normalized server transaction key.
func NewServerTransactionKey(branch, sentBy string, method RequestMethod) ServerTransactionKey {
	if method.Equal(RequestMethodAck) {
		method = RequestMethodInvite
	}
	return ServerTransactionKey{
		Branch: branch,
		SentBy: util.LCase(sentBy),
		Method: string(method.ToUpper()),
	}
}

func (ServerTransactionKey) transactionKey() {}

// Equal checks whether the key is equal to another key.
func (k ServerTransactionKey) Equal(val any) bool {
	var other ServerTransactionKey
	switch v := val.(type) {
	case ServerTransactionKey:
		other = v
	case *ServerTransactionKey:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	return k.Branch == other.Branch &&
		util.EqFold(k.SentBy, other.SentBy) &&
		util.EqFold(k.Method, other.Method)
}

// IsValid checks whether the key is valid.
func (k ServerTransactionKey) IsValid() bool {
	return IsRFC3261Branch(k.Branch) && k.SentBy != "" && k.Method != ""
}

// IsZero checks whether the key is zero.
func (k ServerTransactionKey) IsZero() bool {
	return k.Branch == "" && k.SentBy == "" && k.Method == ""
}

// LogValue returns a [slog.Value] for the key.
func (k ServerTransactionKey) LogValue() slog.Value {
	if k.IsZero() {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.String("branch", k.Branch),
		slog.String("sent_by", k.SentBy),
		slog.String("method", k.Method),
	)
}

// MarshalBinary returns a canonical binary representation of the key that can be used as
// a stable hash.
func (k ServerTransactionKey) MarshalBinary() ([]byte, error) {
	sentBy := util.LCase(k.SentBy)
	method := util.UCase(k.Method)

	size := util.SizePrefixedString(k.Branch) +
		util.SizePrefixedString(sentBy) +
		util.SizePrefixedString(method)

	buf := make([]byte, 0, size)
	buf = util.AppendPrefixedString(buf, k.Branch)
	buf = util.AppendPrefixedString(buf, sentBy)
	buf = util.AppendPrefixedString(buf, method)
	return buf, nil
}

// UnmarshalBinary populates the key fields from a binary representation produced by
// [ServerTransactionKey.MarshalBinary].
func (k *ServerTransactionKey) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return errtrace.Wrap(NewInvalidArgumentError("invalid data"))
	}

	var (
		rest = data
		err  error
		key  ServerTransactionKey
	)
	if key.Branch, rest, err = util.ConsumePrefixedString(rest); err != nil {
		return errtrace.Wrap(err)
	}
	if key.SentBy, rest, err = util.ConsumePrefixedString(rest); err != nil {
		return errtrace.Wrap(err)
	}
	if key.Method, rest, err = util.ConsumePrefixedString(rest); err != nil {
		return errtrace.Wrap(err)
	}
	if len(rest) != 0 {
		return errtrace.Wrap(NewInvalidArgumentError("unexpected trailing data"))
	}

	*k = key
	return nil
}

// String returns the hex encoded binary form of the key.
func (k ServerTransactionKey) String() string {
	data, _ := k.MarshalBinary()
	return hex.EncodeToString(data)
}

func (k ServerTransactionKey) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		f.Write([]byte(k.String()))
	case 'q':
		f.Write([]byte(strconv.Quote(k.String())))
	default:
		if !f.Flag('+') && !f.Flag('#') {
			f.Write([]byte(k.String()))
			return
		}

		type hideMethods ServerTransactionKey
		type ServerTransactionKey hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), ServerTransactionKey(k))
	}
}

// ClientTransactionKey is the key of a client transaction.
// It is used for matching responses to the request that created the transaction
// (RFC 3261 section 17.1.3).
//
//nolint:recvcheck
type ClientTransactionKey struct {
	// Branch parameter of the topmost Via header field.
	Branch string `json:"branch,omitempty"`
	// Method of the request that created the transaction.
	Method string `json:"method,omitempty"`
}

// NewClientTransactionKey returns a normalized client transaction key.
func NewClientTransactionKey(branch string, method RequestMethod) ClientTransactionKey {
	return ClientTransactionKey{
		Branch: branch,
		Method: string(method.ToUpper()),
	}
}

func (ClientTransactionKey) transactionKey() {}

// Equal checks whether the key is equal to another key.
func (k ClientTransactionKey) Equal(val any) bool {
	var other ClientTransactionKey
	switch v := val.(type) {
	case ClientTransactionKey:
		other = v
	case *ClientTransactionKey:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	return k.Branch == other.Branch && util.EqFold(k.Method, other.Method)
}

// IsValid checks whether the key is valid.
func (k ClientTransactionKey) IsValid() bool {
	return k.Branch != "" && k.Method != ""
}

// IsZero checks whether the key is zero.
func (k ClientTransactionKey) IsZero() bool {
	return k.Branch == "" && k.Method == ""
}

// LogValue returns a [slog.Value] for the key.
func (k ClientTransactionKey) LogValue() slog.Value {
	if k.IsZero() {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.String("branch", k.Branch),
		slog.String("method", k.Method),
	)
}

func (k ClientTransactionKey) MarshalBinary() ([]byte, error) {
	method := util.UCase(k.Method)

	buf := make([]byte, 0, util.SizePrefixedString(k.Branch)+util.SizePrefixedString(method))
	buf = util.AppendPrefixedString(buf, k.Branch)
	buf = util.AppendPrefixedString(buf, method)
	return buf, nil
}

func (k *ClientTransactionKey) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return errtrace.Wrap(NewInvalidArgumentError("invalid data"))
	}

	var (
		rest = data
		err  error
		key  ClientTransactionKey
	)
	if key.Branch, rest, err = util.ConsumePrefixedString(rest); err != nil {
		return errtrace.Wrap(err)
	}
	if key.Method, rest, err = util.ConsumePrefixedString(rest); err != nil {
		return errtrace.Wrap(err)
	}
	if len(rest) != 0 {
		return errtrace.Wrap(NewInvalidArgumentError("unexpected trailing data"))
	}

	*k = key
	return nil
}

func (k ClientTransactionKey) String() string {
	data, _ := k.MarshalBinary()
	return hex.EncodeToString(data)
}

func (k ClientTransactionKey) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		f.Write([]byte(k.String()))
	case 'q':
		f.Write([]byte(strconv.Quote(k.String())))
	default:
		if !f.Flag('+') && !f.Flag('#') {
			f.Write([]byte(k.String()))
			return
		}

		type hideMethods ClientTransactionKey
		type ClientTransactionKey hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), ClientTransactionKey(k))
	}
}
