package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"igtlink/codec"
	"igtlink/ierr"
	"igtlink/message"
)

func testMessage() *codec.Message {
	return codec.New(message.NewQuery(message.GetStatusTypeName), "TestDevice")
}

func echoHandler(ctx context.Context, clientID string, msg *codec.Message) error {
	return nil
}

func slowHandler(ctx context.Context, clientID string, msg *codec.Message) error {
	time.Sleep(200 * time.Millisecond)
	return nil
}

func TestLogging(t *testing.T) {
	handler := LoggingMiddleware()(echoHandler)

	if err := handler(context.Background(), "1", testMessage()); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
}

func TestTimeoutPass(t *testing.T) {
	handler := TimeOutMiddleware(500 * time.Millisecond)(echoHandler)

	if err := handler(context.Background(), "1", testMessage()); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
}

func TestTimeoutExceeded(t *testing.T) {
	handler := TimeOutMiddleware(50 * time.Millisecond)(slowHandler)

	err := handler(context.Background(), "1", testMessage())
	if !errors.Is(err, ierr.ErrTimeout) {
		t.Fatalf("expect ierr.ErrTimeout, got %v", err)
	}
}

func TestRateLimit(t *testing.T) {
	// rate=1 per second, burst=2: first two pass immediately, third is rejected.
	handler := RateLimitMiddleware(1, 2)(echoHandler)
	msg := testMessage()

	for i := 0; i < 2; i++ {
		if err := handler(context.Background(), "1", msg); err != nil {
			t.Fatalf("message %d should pass, got error: %v", i, err)
		}
	}

	err := handler(context.Background(), "1", msg)
	if !errors.Is(err, ierr.ErrRateLimited) {
		t.Fatalf("message 3 should be rate limited, got: %v", err)
	}
}

func TestChain(t *testing.T) {
	chained := Chain(LoggingMiddleware(), TimeOutMiddleware(500*time.Millisecond))
	handler := chained(echoHandler)

	if err := handler(context.Background(), "1", testMessage()); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
}

func TestRetrySucceedsAfterTransientError(t *testing.T) {
	attempts := 0
	flaky := func(ctx context.Context, clientID string, msg *codec.Message) error {
		attempts++
		if attempts < 2 {
			return ierr.ErrIo
		}
		return nil
	}

	handler := RetryMiddleware(3, time.Millisecond)(flaky)
	if err := handler(context.Background(), "1", testMessage()); err != nil {
		t.Fatalf("expect eventual success, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expect 2 attempts, got %d", attempts)
	}
}

func TestRetryDoesNotRetryNonTransientError(t *testing.T) {
	attempts := 0
	alwaysInvalid := func(ctx context.Context, clientID string, msg *codec.Message) error {
		attempts++
		return ierr.ErrInvalidField
	}

	handler := RetryMiddleware(3, time.Millisecond)(alwaysInvalid)
	err := handler(context.Background(), "1", testMessage())
	if !errors.Is(err, ierr.ErrInvalidField) {
		t.Fatalf("expect ierr.ErrInvalidField, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expect exactly 1 attempt for a non-transient error, got %d", attempts)
	}
}
