// Package middleware implements the onion-model chain the session manager
// runs incoming messages through before they reach the registered
// application handlers (§4.11).
//
// Onion model execution order:
//
//	Chain(A, B, C)(handler)  →  A(B(C(handler)))
//
//	Request:   A.before → B.before → C.before → handler
//	Response:  handler → C.after → B.after → A.after
//
// Each middleware can:
//   - Do pre-processing (before calling next)
//   - Call next(ctx, clientID, msg) to pass to the next layer
//   - Do post-processing (after next returns)
//   - Short-circuit by returning an error without calling next (e.g., rate limiting)
package middleware

import (
	"context"

	"igtlink/codec"
)

// HandlerFunc is invoked for every frame a session.Manager reads off a
// connection (§4.11: handlers are "invoked with (client-id, type-name,
// body-bytes)" — msg.Header.TypeName and msg.Content together carry that).
type HandlerFunc func(ctx context.Context, clientID string, msg *codec.Message) error

// Middleware takes a handler and returns a new handler that wraps it.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes multiple middlewares into a single middleware, with the
// first middleware in the list as the outermost layer.
//
//	chain := Chain(Logging, Timeout, RateLimit)
//	handler := chain(businessHandler)
//	// Execution: Logging → Timeout → RateLimit → businessHandler → RateLimit → Timeout → Logging
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
