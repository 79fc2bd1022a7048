// Package message implements the typed-body codecs for every OpenIGTLink
// message kind: TRANSFORM, STATUS, CAPABILITY, IMAGE, POSITION, STRING,
// SENSOR, POINT, NDARRAY, TDATA/QTDATA, COMMAND, the query family
// (GET_*), and the streaming-control family (STT_*/STP_*/RTS_*).
//
// Each type implements Content, the per-type half of the full-message codec
// in package codec: TypeName identifies the wire type_name, EncodeContent
// produces the body bytes, and a package-level Decode<Type> function parses
// them back. Content mirrors the shape of a Codec
// interface (Encode/Decode/Type), but keyed by a fixed type name instead of
// a pluggable format, since the wire layout per type is not negotiable.
package message

// Content is implemented by every typed message body, plus Unknown.
type Content interface {
	// TypeName returns the 12-byte (or shorter) wire type name, e.g.
	// "TRANSFORM", "STATUS", "GET_CAPABIL".
	TypeName() string
	// EncodeContent serializes the body to bytes, not including the header.
	EncodeContent() ([]byte, error)
}

// DecodeFunc parses a type's body bytes into a Content. Registered per type
// name in the package-level registry (see registry.go) and invoked by
// package codec's DecodeAny.
type DecodeFunc func(body []byte) (Content, error)

// Unknown wraps a frame whose type_name has no registered decoder. It
// satisfies Content so decode_any never has to special-case it: its
// EncodeContent returns the raw body byte-for-byte, preserving round-trip
// fidelity for traffic this build doesn't interpret.
type Unknown struct {
	Name string
	Body []byte
}

func (u Unknown) TypeName() string { return u.Name }

func (u Unknown) EncodeContent() ([]byte, error) {
	return append([]byte(nil), u.Body...), nil
}
