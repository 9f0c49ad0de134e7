package core

import (
	"context"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipcore/sip"
)

// DispatchRequest delivers an inbound request to tgt.
//
// The key is zero for ACK requests delivered by the transport without a server transaction.
// For a [*Handle] target the request is queued and the call returns without waiting,
// for a [Static] target the handler's HandleRequest is called and its error is returned as is.
func DispatchRequest(ctx context.Context, tgt Target, req *sip.Request, key sip.ServerTransactionKey) error {
	switch t := tgt.(type) {
	case *Handle:
		return errtrace.Wrap(t.Notify(ctx, RequestEvent(req, key)))
	case staticTarget:
		return t.h.HandleRequest(ctx, req, key) //errtrace:skip
	default:
		return errtrace.Wrap(invalidTargetError(tgt))
	}
}

// DispatchResponse delivers an inbound response to tgt.
//
// The key is zero for stray responses that matched no client transaction.
// See [DispatchRequest] for the delivery semantics.
func DispatchResponse(ctx context.Context, tgt Target, res *sip.Response, key sip.ClientTransactionKey) error {
	switch t := tgt.(type) {
	case *Handle:
		return errtrace.Wrap(t.Notify(ctx, ResponseEvent(res, key)))
	case staticTarget:
		return t.h.HandleResponse(ctx, res, key) //errtrace:skip
	default:
		return errtrace.Wrap(invalidTargetError(tgt))
	}
}

// DispatchError delivers a transaction or transport failure to tgt.
//
// The key must be a non-zero [sip.ServerTransactionKey] or [sip.ClientTransactionKey],
// otherwise [ErrInvalidArgument] is returned and nothing is delivered.
// See [DispatchRequest] for the delivery semantics.
func DispatchError(ctx context.Context, tgt Target, reason error, key sip.TransactionKey) error {
	if sip.IsZeroKey(key) {
		return errtrace.Wrap(NewInvalidArgumentError("missing transaction key"))
	}

	switch t := tgt.(type) {
	case *Handle:
		return errtrace.Wrap(t.Notify(ctx, ErrorEvent(reason, key)))
	case staticTarget:
		return t.h.HandleError(ctx, reason, key) //errtrace:skip
	default:
		return errtrace.Wrap(invalidTargetError(tgt))
	}
}

// DispatchEvent delivers a prepared event to tgt using the function matching the event kind.
func DispatchEvent(ctx context.Context, tgt Target, ev Event) error {
	switch ev.Kind {
	case EventRequest:
		return DispatchRequest(ctx, tgt, ev.Request, ev.ServerKey()) //errtrace:skip
	case EventResponse:
		return DispatchResponse(ctx, tgt, ev.Response, ev.ClientKey()) //errtrace:skip
	case EventError:
		return DispatchError(ctx, tgt, ev.Reason, ev.Key) //errtrace:skip
	default:
		return errtrace.Wrap(NewInvalidArgumentError("unknown event kind %d", ev.Kind))
	}
}

func invalidTargetError(tgt Target) error {
	if tgt == nil {
		return NewInvalidArgumentError("nil target") //errtrace:skip
	}
	return NewInvalidArgumentError("unsupported target %T", tgt) //errtrace:skip
}
