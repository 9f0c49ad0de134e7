// Package sip contains the SIP values that flow between the transaction layer
// and the application core: parsed requests and responses, request methods,
// response statuses and transaction keys.
//
// Values of this package are produced by the message and transaction layers.
// The core dispatcher passes them through without inspecting their contents.
package sip

//go:generate go tool errtrace -w .
