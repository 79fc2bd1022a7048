package middleware

import (
	"context"
	"log"
	"time"

	"igtlink/codec"
)

// LoggingMiddleware records the client-id, type_name, and duration for each
// dispatched message. It captures the start time before calling next, and
// logs the elapsed time after next returns.
//
// Example output:
//
//	client=3 type=TRANSFORM duration=42µs
//	client=3 type=TRANSFORM error=invalid field
func LoggingMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, clientID string, msg *codec.Message) error {
			start := time.Now()

			err := next(ctx, clientID, msg)

			duration := time.Since(start)
			log.Printf("client=%s type=%s duration=%s", clientID, msg.Header.TypeName, duration)
			if err != nil {
				log.Printf("client=%s type=%s error=%v", clientID, msg.Header.TypeName, err)
			}
			return err
		}
	}
}
