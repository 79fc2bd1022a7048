// Package codec implements the full-message codec (§4.5): it ties
// package wire's framing to package message's typed bodies, producing the
// on-wire bytes for a Message and parsing them back, either strictly typed
// or dynamically dispatched by type_name.
//
// Encode/Decode work against a registered-by-key implementation, except
// the "key" here is the fixed wire type_name rather than a pluggable
// serialization format — OpenIGTLink's body layout per type is not
// negotiable the way a JSON-vs-binary choice would be.
package codec

import (
	"fmt"
	"time"

	"igtlink/ierr"
	"igtlink/message"
	"igtlink/wire"
)

// Message is a full OpenIGTLink frame in memory: a header plus its typed
// content, with an optional version-3 extended-header region.
type Message struct {
	Header  wire.Header
	Content message.Content

	ext *wire.ExtendedHeaderRegion
}

// New builds a version-2 Message for content, addressed to deviceName,
// timestamped now.
func New(content message.Content, deviceName string) *Message {
	return &Message{
		Header: wire.Header{
			Version:    wire.Version2,
			TypeName:   content.TypeName(),
			DeviceName: deviceName,
			Timestamp:  wire.NewTimestamp(time.Now()),
		},
		Content: content,
	}
}

// SetExtendedHeader attaches opaque extended-header bytes and upgrades the
// message to version 3. An empty (but non-nil conceptually — any call,
// including with an empty slice) call still upgrades the version, per
// version3_extended_header.rs example 4.
func (m *Message) SetExtendedHeader(data []byte) {
	if m.ext == nil {
		m.ext = &wire.ExtendedHeaderRegion{}
	}
	m.ext.Data = append([]byte(nil), data...)
	m.Header.Version = wire.Version3
}

// ClearExtendedHeader removes the extended-header region and downgrades the
// message back to version 2.
func (m *Message) ClearExtendedHeader() {
	m.ext = nil
	m.Header.Version = wire.Version2
}

// ExtendedHeader returns the current extended-header bytes, if any.
func (m *Message) ExtendedHeader() ([]byte, bool) {
	if m.ext == nil {
		return nil, false
	}
	return m.ext.Data, true
}

// SetMetadata replaces the version-3 metadata table, upgrading to version 3
// if necessary.
func (m *Message) SetMetadata(entries wire.Metadata) {
	if m.ext == nil {
		m.ext = &wire.ExtendedHeaderRegion{}
	}
	m.ext.Metadata = entries
	m.Header.Version = wire.Version3
}

// Metadata returns the current metadata table, or nil if none is set.
func (m *Message) Metadata() wire.Metadata {
	if m.ext == nil {
		return nil
	}
	return m.ext.Metadata
}

// Encode produces header‖body, computing body_size and CRC from the
// actual encoded content bytes before writing the frame header.
func (m *Message) Encode() ([]byte, error) {
	contentBytes, err := m.Content.EncodeContent()
	if err != nil {
		return nil, err
	}

	body := contentBytes
	if m.Header.Version == wire.Version3 {
		ext := m.ext
		if ext == nil {
			ext = &wire.ExtendedHeaderRegion{}
		}
		extBytes, err := ext.Encode()
		if err != nil {
			return nil, err
		}
		body = append(extBytes, contentBytes...)
	}

	h := m.Header
	h.TypeName = m.Content.TypeName()
	h.BodySize = uint64(len(body))
	h.CRC = wire.CRC64(body)

	headerBytes, err := wire.EncodeHeader(h)
	if err != nil {
		return nil, err
	}
	m.Header = h
	return append(headerBytes, body...), nil
}

// DecodeOptions controls per-call decode behavior.
type DecodeOptions struct {
	// VerifyCRC enables CRC-64 verification against the header. When false,
	// the CRC field is still read but never checked — useful for
	// loopback/low-latency paths per §4.5.
	VerifyCRC bool
}

// splitBody peels the version-3 extended-header region (if present) off
// the raw body, returning the remaining content bytes.
func splitBody(h wire.Header, body []byte) ([]byte, *wire.ExtendedHeaderRegion, error) {
	if h.Version != wire.Version3 {
		return body, nil, nil
	}
	region, rest, err := wire.DecodeExtendedHeaderRegion(body)
	if err != nil {
		return nil, nil, err
	}
	return rest, &region, nil
}

func verifyCRC(h wire.Header, body []byte, opts DecodeOptions) error {
	if !opts.VerifyCRC {
		return nil
	}
	actual := wire.CRC64(body)
	if actual != h.CRC {
		return &ierr.CrcMismatchError{Expected: h.CRC, Actual: actual}
	}
	return nil
}

// DecodeTyped parses data as a frame whose content is decoded with fn. It
// fails with an *ierr.UnknownTypeError if the header's type_name does not
// match wantType. Use this when the caller knows exactly what type to
// expect (e.g. decoding a GET_STATUS response as Status).
func DecodeTyped(data []byte, wantType string, fn message.DecodeFunc, opts DecodeOptions) (*Message, error) {
	if len(data) < wire.HeaderSize {
		return nil, fmt.Errorf("%w: frame shorter than header", ierr.ErrTruncated)
	}
	h, err := wire.DecodeHeader(data[:wire.HeaderSize])
	if err != nil {
		return nil, err
	}
	if uint64(len(data)-wire.HeaderSize) < h.BodySize {
		return nil, fmt.Errorf("%w: declared body_size %d exceeds available %d bytes", ierr.ErrTruncated, h.BodySize, len(data)-wire.HeaderSize)
	}
	body := data[wire.HeaderSize : wire.HeaderSize+int(h.BodySize)]
	if err := verifyCRC(h, body, opts); err != nil {
		return nil, err
	}
	if h.TypeName != wantType {
		return nil, &ierr.UnknownTypeError{Name: h.TypeName}
	}
	content, ext, err := decodeContent(h, body, fn)
	if err != nil {
		return nil, err
	}
	return &Message{Header: h, Content: content, ext: ext}, nil
}

func decodeContent(h wire.Header, body []byte, fn message.DecodeFunc) (message.Content, *wire.ExtendedHeaderRegion, error) {
	rest, ext, err := splitBody(h, body)
	if err != nil {
		return nil, nil, err
	}
	content, err := fn(rest)
	if err != nil {
		return nil, nil, err
	}
	return content, ext, nil
}

// DecodeAny parses data and dispatches on header.TypeName. An unregistered
// type_name yields a message.Unknown rather than an error (§4.5).
func DecodeAny(data []byte, opts DecodeOptions) (*Message, error) {
	if len(data) < wire.HeaderSize {
		return nil, fmt.Errorf("%w: frame shorter than header", ierr.ErrTruncated)
	}
	h, err := wire.DecodeHeader(data[:wire.HeaderSize])
	if err != nil {
		return nil, err
	}
	if uint64(len(data)-wire.HeaderSize) < h.BodySize {
		return nil, fmt.Errorf("%w: declared body_size %d exceeds available %d bytes", ierr.ErrTruncated, h.BodySize, len(data)-wire.HeaderSize)
	}
	body := data[wire.HeaderSize : wire.HeaderSize+int(h.BodySize)]
	if err := verifyCRC(h, body, opts); err != nil {
		return nil, err
	}

	rest, ext, err := splitBody(h, body)
	if err != nil {
		return nil, err
	}

	fn, ok := message.Lookup(h.TypeName)
	var content message.Content
	if !ok {
		content = message.Unknown{Name: h.TypeName, Body: append([]byte(nil), rest...)}
	} else {
		content, err = fn(rest)
		if err != nil {
			return nil, err
		}
	}
	return &Message{Header: h, Content: content, ext: ext}, nil
}
