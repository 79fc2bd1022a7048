// Package ierr defines the error taxonomy shared by every layer of the
// OpenIGTLink engine: wire codec, typed-body codecs, transports, and the
// session manager. Callers use errors.Is/errors.As against the sentinels
// below instead of matching on error strings.
package ierr

import "fmt"

// Sentinel kinds. Wrap these with fmt.Errorf("...: %w", Err*) to attach
// context; errors.Is still matches through the wrap.
var (
	// ErrInvalidHeader marks malformed header bytes or an unsupported version.
	ErrInvalidHeader = fmt.Errorf("igtlink: invalid header")
	// ErrCrcMismatch marks a body whose CRC-64 does not match the header, only
	// ever returned when CRC verification was requested.
	ErrCrcMismatch = fmt.Errorf("igtlink: crc mismatch")
	// ErrTruncated marks fewer bytes available than body_size requires.
	ErrTruncated = fmt.Errorf("igtlink: truncated frame")
	// ErrUnknownMessageType marks a type_name with no registered decoder,
	// returned only by strict decode paths; decode_any never returns it.
	ErrUnknownMessageType = fmt.Errorf("igtlink: unknown message type")
	// ErrInvalidField marks a body that failed a type-specific check.
	ErrInvalidField = fmt.Errorf("igtlink: invalid field")
	// ErrConnectionClosed marks a clean EOF at a frame boundary.
	ErrConnectionClosed = fmt.Errorf("igtlink: connection closed")
	// ErrIo wraps an underlying transport failure.
	ErrIo = fmt.Errorf("igtlink: io error")
	// ErrTls wraps a handshake or record-layer failure.
	ErrTls = fmt.Errorf("igtlink: tls error")
	// ErrReconnectExhausted marks a reconnect state machine that reached
	// max_attempts without success.
	ErrReconnectExhausted = fmt.Errorf("igtlink: reconnect attempts exhausted")
	// ErrInvalidConfig marks a builder-time misconfiguration.
	ErrInvalidConfig = fmt.Errorf("igtlink: invalid config")
	// ErrRateLimited marks a message rejected by a rate-limit middleware.
	ErrRateLimited = fmt.Errorf("igtlink: rate limit exceeded")
	// ErrTimeout marks a handler that did not complete within its deadline.
	ErrTimeout = fmt.Errorf("igtlink: request timed out")
)

// CrcMismatchError carries the expected and actual CRC alongside
// ErrCrcMismatch so callers can report both values.
type CrcMismatchError struct {
	Expected uint64
	Actual   uint64
}

func (e *CrcMismatchError) Error() string {
	return fmt.Sprintf("igtlink: crc mismatch: expected %#x, got %#x", e.Expected, e.Actual)
}

func (e *CrcMismatchError) Unwrap() error { return ErrCrcMismatch }

// FieldError carries the offending field name alongside ErrInvalidField.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("igtlink: invalid field %q: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidField }

// UnknownTypeError carries the offending type_name alongside ErrUnknownMessageType.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("igtlink: unknown message type %q", e.Name)
}

func (e *UnknownTypeError) Unwrap() error { return ErrUnknownMessageType }

// ReconnectExhaustedError carries the attempt count alongside ErrReconnectExhausted.
type ReconnectExhaustedError struct {
	Attempts int
}

func (e *ReconnectExhaustedError) Error() string {
	return fmt.Sprintf("igtlink: reconnect exhausted after %d attempts", e.Attempts)
}

func (e *ReconnectExhaustedError) Unwrap() error { return ErrReconnectExhausted }
