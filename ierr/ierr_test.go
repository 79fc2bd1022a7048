package ierr

import (
	"errors"
	"testing"
)

func TestCrcMismatchErrorUnwrapsToSentinel(t *testing.T) {
	err := &CrcMismatchError{Expected: 1, Actual: 2}
	if !errors.Is(err, ErrCrcMismatch) {
		t.Fatal("expect errors.Is to match ErrCrcMismatch through Unwrap")
	}
	var target *CrcMismatchError
	if !errors.As(err, &target) || target.Expected != 1 || target.Actual != 2 {
		t.Fatalf("expect errors.As to recover field values, got %+v", target)
	}
}

func TestFieldErrorUnwrapsToSentinel(t *testing.T) {
	err := &FieldError{Field: "name", Reason: "too long"}
	if !errors.Is(err, ErrInvalidField) {
		t.Fatal("expect errors.Is to match ErrInvalidField through Unwrap")
	}
}

func TestUnknownTypeErrorUnwrapsToSentinel(t *testing.T) {
	err := &UnknownTypeError{Name: "CUSTOM"}
	if !errors.Is(err, ErrUnknownMessageType) {
		t.Fatal("expect errors.Is to match ErrUnknownMessageType through Unwrap")
	}
}

func TestReconnectExhaustedErrorUnwrapsToSentinel(t *testing.T) {
	err := &ReconnectExhaustedError{Attempts: 5}
	if !errors.Is(err, ErrReconnectExhausted) {
		t.Fatal("expect errors.Is to match ErrReconnectExhausted through Unwrap")
	}
}
