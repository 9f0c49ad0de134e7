package core

import (
	"context"
	"log/slog"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipcore/sip"
)

// EventKind is the kind of a dispatched [Event].
type EventKind uint8

const (
	// EventUnknown is the zero kind, [Event.Deliver] rejects it.
	EventUnknown EventKind = iota
	// EventRequest is an inbound request.
	EventRequest
	// EventResponse is an inbound response.
	EventResponse
	// EventError is a transaction or transport failure.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventRequest:
		return "request"
	case EventResponse:
		return "response"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a notification queued into a [Handle] mailbox.
//
// Key is nil when the event is not bound to a transaction,
// otherwise it holds a [sip.ServerTransactionKey] or a [sip.ClientTransactionKey].
type Event struct {
	Kind     EventKind
	Request  *sip.Request
	Response *sip.Response
	Reason   error
	Key      sip.TransactionKey
}

// RequestEvent builds an [EventRequest] event. Zero key is stored as nil.
func RequestEvent(req *sip.Request, key sip.ServerTransactionKey) Event {
	ev := Event{Kind: EventRequest, Request: req}
	if !key.IsZero() {
		ev.Key = key
	}
	return ev
}

// ResponseEvent builds an [EventResponse] event. Zero key is stored as nil.
func ResponseEvent(res *sip.Response, key sip.ClientTransactionKey) Event {
	ev := Event{Kind: EventResponse, Response: res}
	if !key.IsZero() {
		ev.Key = key
	}
	return ev
}

// ErrorEvent builds an [EventError] event. Zero key is stored as nil.
func ErrorEvent(reason error, key sip.TransactionKey) Event {
	ev := Event{Kind: EventError, Reason: reason}
	if !sip.IsZeroKey(key) {
		ev.Key = key
	}
	return ev
}

// ServerKey returns the server transaction key of the event or zero key.
func (ev Event) ServerKey() sip.ServerTransactionKey {
	k, _ := ev.Key.(sip.ServerTransactionKey)
	return k
}

// ClientKey returns the client transaction key of the event or zero key.
func (ev Event) ClientKey() sip.ClientTransactionKey {
	k, _ := ev.Key.(sip.ClientTransactionKey)
	return k
}

// Deliver calls the h method matching the event kind and returns its error unchanged.
func (ev Event) Deliver(ctx context.Context, h Handler) error {
	switch ev.Kind {
	case EventRequest:
		return h.HandleRequest(ctx, ev.Request, ev.ServerKey()) //errtrace:skip
	case EventResponse:
		return h.HandleResponse(ctx, ev.Response, ev.ClientKey()) //errtrace:skip
	case EventError:
		return h.HandleError(ctx, ev.Reason, ev.Key) //errtrace:skip
	default:
		return errtrace.Wrap(NewInvalidArgumentError("unknown event kind %d", ev.Kind))
	}
}

// LogValue implements [slog.LogValuer].
func (ev Event) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 3)
	attrs = append(attrs, slog.String("kind", ev.Kind.String()))
	switch ev.Kind {
	case EventRequest:
		attrs = append(attrs, slog.Any("request", ev.Request))
	case EventResponse:
		attrs = append(attrs, slog.Any("response", ev.Response))
	case EventError:
		attrs = append(attrs, slog.Any("reason", ev.Reason))
	}
	if ev.Key != nil {
		attrs = append(attrs, slog.Any("key", ev.Key))
	}
	return slog.GroupValue(attrs...)
}
