package core

import (
	"context"

	"github.com/ghettovoice/sipcore/sip"
)

// Handler is implemented by the application core.
//
// Methods are called synchronously by the goroutine that dispatches the event
// (a transaction or the transport) when the handler is used as a [Static] target,
// or by [Handle.Serve] when it serves a live handle. A slow handler blocks its caller
// for the whole call, so implementations should hand long work off to other goroutines.
type Handler interface {
	// HandleRequest handles an inbound request.
	// The key is zero for ACK requests that have no server transaction.
	HandleRequest(ctx context.Context, req *sip.Request, key sip.ServerTransactionKey) error
	// HandleResponse handles an inbound response.
	// The key is zero for stray responses that matched no client transaction.
	HandleResponse(ctx context.Context, res *sip.Response, key sip.ClientTransactionKey) error
	// HandleError handles a transaction or transport failure.
	// The key is never nil or zero.
	HandleError(ctx context.Context, reason error, key sip.TransactionKey) error
}

// HandlerFuncs is an adapter to use ordinary functions as a [Handler].
// Events for nil functions are ignored.
type HandlerFuncs struct {
	Request  func(ctx context.Context, req *sip.Request, key sip.ServerTransactionKey) error
	Response func(ctx context.Context, res *sip.Response, key sip.ClientTransactionKey) error
	Error    func(ctx context.Context, reason error, key sip.TransactionKey) error
}

// HandleRequest implements [Handler].
func (f HandlerFuncs) HandleRequest(ctx context.Context, req *sip.Request, key sip.ServerTransactionKey) error {
	if f.Request == nil {
		return nil
	}
	return f.Request(ctx, req, key) //errtrace:skip
}

// HandleResponse implements [Handler].
func (f HandlerFuncs) HandleResponse(ctx context.Context, res *sip.Response, key sip.ClientTransactionKey) error {
	if f.Response == nil {
		return nil
	}
	return f.Response(ctx, res, key) //errtrace:skip
}

// HandleError implements [Handler].
func (f HandlerFuncs) HandleError(ctx context.Context, reason error, key sip.TransactionKey) error {
	if f.Error == nil {
		return nil
	}
	return f.Error(ctx, reason, key) //errtrace:skip
}
