package middleware

import (
	"context"
	"errors"
	"log"
	"time"

	"igtlink/codec"
	"igtlink/ierr"
)

// RetryMiddleware re-invokes next when it fails with a transient error
// (timeout or I/O), using exponential backoff between attempts. Any other
// error is returned immediately without retrying.
func RetryMiddleware(maxRetries int, baseDelay time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, clientID string, msg *codec.Message) error {
			err := next(ctx, clientID, msg)
			for i := 0; i < maxRetries; i++ {
				if err == nil {
					return nil
				}
				if !errors.Is(err, ierr.ErrTimeout) && !errors.Is(err, ierr.ErrIo) {
					return err
				}
				log.Printf("retry attempt %d for client=%s type=%s due to error: %v", i+1, clientID, msg.Header.TypeName, err)
				time.Sleep(baseDelay * time.Duration(uint(1)<<uint(i)))
				err = next(ctx, clientID, msg)
			}
			return err
		}
	}
}
