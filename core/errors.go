package core

import "github.com/ghettovoice/sipcore/internal/errorutil"

const (
	// ErrInvalidArgument is returned for a nil or unknown target and for an error event without a transaction key.
	ErrInvalidArgument = errorutil.ErrInvalidArgument
	// ErrHandleClosed is returned when notifying or serving a closed [Handle].
	ErrHandleClosed Error = "handle closed"
	// ErrHandleBusy is returned by [Handle.Serve] when the handle is already served.
	ErrHandleBusy Error = "handle already served"
	// ErrMailboxFull is returned when a bounded mailbox with [OverflowReject] policy is full.
	ErrMailboxFull Error = "mailbox full"
)

// Error represents a core error.
// See [errorutil.Error].
type Error = errorutil.Error

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return errorutil.NewInvalidArgumentError(args...) //errtrace:skip
}
