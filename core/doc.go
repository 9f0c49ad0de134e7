// Package core routes events produced by the transaction and transport layers
// to the application core (user agent, registrar, proxy).
//
// Three event kinds are routed: inbound requests, inbound responses and
// transaction/transport errors. Each event is delivered to a [Target], which is
// one of two variants:
//
//   - [*Handle] is a live handle: a mailbox drained by an independently running
//     goroutine (see [Handle.Serve]). Dispatching to a handle enqueues an [Event]
//     and returns without waiting for it to be processed.
//   - [Static] wraps a [Handler] implementation. Dispatching to it calls the
//     matching handler method in-line and returns the handler's error as is.
//
// The package-level [DispatchRequest], [DispatchResponse] and [DispatchError]
// functions take the target explicitly. A [Dispatcher] binds a target at
// construction time and adds logging and dispatch observers on top of them.
//
// Requests delivered without a server transaction (ACKs for 2xx responses) carry a
// zero [sip.ServerTransactionKey]; responses that match no client transaction carry
// a zero [sip.ClientTransactionKey]. Errors are always bound to a transaction, so
// [DispatchError] rejects an absent key.
package core

//go:generate go tool errtrace -w .
//go:generate go tool mockgen -destination=coremock/handler_mock.go -package=coremock . Handler
