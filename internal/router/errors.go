// Package router fans inbound messages out to a worker pool while keeping
// each user's messages serialized. It sits between the channel
// modules and the conversation engine: channels Submit, workers dispatch.
package router

import "errors"

// Sentinel errors for router operations.
var (
	// ErrInboxFull indicates the router's message inbox is at capacity
	// and the incoming message was dropped. Callers should back off or
	// alert the operator.
	ErrInboxFull = errors.New("router: inbox full, message dropped")

	// ErrRouterStopped indicates the router has been shut down and is
	// no longer accepting messages.
	ErrRouterStopped = errors.New("router: stopped")

	// ErrNoHandler indicates no message handler has been configured.
	// The router has nothing to dispatch to without one.
	ErrNoHandler = errors.New("router: no handler configured")
)
