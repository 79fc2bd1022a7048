package middleware

import (
	"context"
	"time"

	"igtlink/codec"
	"igtlink/ierr"
)

// TimeOutMiddleware enforces a maximum duration for each dispatched
// message's handler.
//
// Implementation:
//  1. Create a context with timeout (ctx.Done() fires when timeout expires)
//  2. Run the next handler in a goroutine, sending its result to a channel
//  3. Select between the result channel and ctx.Done()
//
// Note: the handler goroutine is NOT cancelled — it continues running in the
// background. The timeout only controls when the caller gives up waiting.
// For true cancellation, the handler must check ctx.Done() internally.
func TimeOutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, clientID string, msg *codec.Message) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- next(ctx, clientID, msg)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return ierr.ErrTimeout
			}
		}
	}
}
