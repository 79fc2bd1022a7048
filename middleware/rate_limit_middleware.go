package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"igtlink/codec"
	"igtlink/ierr"
)

// RateLimitMiddleware creates a rate limiter using the token bucket algorithm,
// applied per dispatched message across all clients sharing this chain.
//
// Token bucket: tokens are added at rate r per second, up to a burst size.
// Each message consumes one token. If the bucket is empty, the message is
// rejected. Unlike a leaky bucket (constant drain rate), token bucket
// allows short bursts — more suitable for tracking/imaging streams that
// arrive in bunches.
//
// CRITICAL: the limiter is created in the OUTER closure (once per
// middleware creation), NOT in the inner handler function. If created
// per-message, every message would get a fresh full bucket, defeating the
// entire purpose of rate limiting.
//
// Parameters:
//   - r: token refill rate (tokens per second)
//   - burst: maximum bucket size (allows this many messages in a burst)
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, clientID string, msg *codec.Message) error {
			if !limiter.Allow() {
				return ierr.ErrRateLimited
			}
			return next(ctx, clientID, msg)
		}
	}
}
