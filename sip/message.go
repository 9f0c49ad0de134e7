package sip

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ghettovoice/sipcore/internal/util"
)

// ProtoVersion is the protocol name and version written into start lines.
const ProtoVersion = "SIP/2.0"

// Header is a single header field.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered list of header fields.
// Header names are matched case-insensitively.
type Headers []Header

// Get returns the value of the first header with the given name.
func (hs Headers) Get(name string) (string, bool) {
	for _, h := range hs {
		if util.EqFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Values returns values of all headers with the given name in order.
func (hs Headers) Values(name string) []string {
	var vals []string
	for _, h := range hs {
		if util.EqFold(h.Name, name) {
			vals = append(vals, h.Value)
		}
	}
	return vals
}

// Add appends a header field.
func (hs *Headers) Add(name, value string) {
	*hs = append(*hs, Header{name, value})
}

func (hs Headers) renderTo(sb *strings.Builder) {
	for _, h := range hs {
		sb.WriteString(h.Name)
		sb.WriteString(": ")
		sb.WriteString(h.Value)
		sb.WriteString("\r\n")
	}
}

func renderBody(sb *strings.Builder, hs Headers, body []byte) {
	hs.renderTo(sb)
	if _, ok := hs.Get("Content-Length"); !ok {
		sb.WriteString("Content-Length: ")
		sb.WriteString(strconv.Itoa(len(body)))
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")
	sb.Write(body)
}

// Request is a parsed SIP request.
type Request struct {
	Method  RequestMethod
	URI     string
	Headers Headers
	Body    []byte
}

// NewRequest creates a request with the given method and Request-URI.
func NewRequest(method RequestMethod, uri string, hdrs ...Header) *Request {
	return &Request{
		Method:  method.ToUpper(),
		URI:     uri,
		Headers: Headers(hdrs),
	}
}

// IsAck reports whether the request is an ACK.
// ACKs for 2xx responses are delivered to the core without a server transaction.
func (r *Request) IsAck() bool {
	return r != nil && r.Method.Equal(RequestMethodAck)
}

// StartLine returns the Request-Line without the trailing CRLF.
func (r *Request) StartLine() string {
	if r == nil {
		return ""
	}
	return string(r.Method) + " " + r.URI + " " + ProtoVersion
}

// String renders the whole request.
func (r *Request) String() string {
	if r == nil {
		return "<nil>"
	}

	var sb strings.Builder
	sb.WriteString(r.StartLine())
	sb.WriteString("\r\n")
	renderBody(&sb, r.Headers, r.Body)
	return sb.String()
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	return &Request{
		Method:  r.Method,
		URI:     r.URI,
		Headers: slices.Clone(r.Headers),
		Body:    slices.Clone(r.Body),
	}
}

// LogValue implements [slog.LogValuer].
func (r *Request) LogValue() slog.Value {
	if r == nil {
		return slog.Value{}
	}
	attrs := []slog.Attr{
		slog.String("method", string(r.Method)),
		slog.String("uri", r.URI),
	}
	if callID, ok := r.Headers.Get("Call-ID"); ok {
		attrs = append(attrs, slog.String("call_id", callID))
	}
	return slog.GroupValue(attrs...)
}

// Response is a parsed SIP response.
type Response struct {
	Status  ResponseStatus
	Reason  string
	Headers Headers
	Body    []byte
}

// NewResponse creates a response with the given status.
// Empty reason is replaced with the status default reason phrase.
func NewResponse(sts ResponseStatus, reason string, hdrs ...Header) *Response {
	if reason == "" {
		reason = sts.Reason()
	}
	return &Response{
		Status:  sts,
		Reason:  reason,
		Headers: Headers(hdrs),
	}
}

// StartLine returns the Status-Line without the trailing CRLF.
func (r *Response) StartLine() string {
	if r == nil {
		return ""
	}
	return ProtoVersion + " " + strconv.FormatUint(uint64(r.Status), 10) + " " + r.Reason
}

// String renders the whole response.
func (r *Response) String() string {
	if r == nil {
		return "<nil>"
	}

	var sb strings.Builder
	sb.WriteString(r.StartLine())
	sb.WriteString("\r\n")
	renderBody(&sb, r.Headers, r.Body)
	return sb.String()
}

// Clone returns a deep copy of the response.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	return &Response{
		Status:  r.Status,
		Reason:  r.Reason,
		Headers: slices.Clone(r.Headers),
		Body:    slices.Clone(r.Body),
	}
}

// LogValue implements [slog.LogValuer].
func (r *Response) LogValue() slog.Value {
	if r == nil {
		return slog.Value{}
	}
	attrs := []slog.Attr{
		slog.Uint64("status", uint64(r.Status)),
		slog.String("reason", r.Reason),
	}
	if callID, ok := r.Headers.Get("Call-ID"); ok {
		attrs = append(attrs, slog.String("call_id", callID))
	}
	return slog.GroupValue(attrs...)
}
