// Header framing follows the classic fixed-prefix-then-declared-length
// shape: a fixed block is written/read first, with the body length carried
// inline so the receiver knows exactly how many more bytes to read off the
// stream.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"igtlink/ierr"
)

// HeaderSize is the fixed on-wire size of a Header: 58 bytes.
const HeaderSize = 58

const (
	typeNameSize   = 12
	deviceNameSize = 20
)

// Supported header versions. Version 3 framing is signalled purely by data
// (an ExtendedHeaderRegion at the front of the body), never by a distinct
// Go type — see ExtendedHeaderRegion.
const (
	Version2 uint16 = 2
	Version3 uint16 = 3
)

// Header is the 58-byte OpenIGTLink frame header.
type Header struct {
	Version    uint16
	TypeName   string
	DeviceName string
	Timestamp  Timestamp
	BodySize   uint64
	CRC        uint64
}

// EncodeHeader lays out h's fields into a fresh 58-byte buffer. BodySize and
// CRC are taken from h as given — callers building a full frame should set
// them from the actual encoded body before calling EncodeHeader (see
// package codec's Encode).
func EncodeHeader(h Header) ([]byte, error) {
	if h.Version != Version2 && h.Version != Version3 {
		return nil, fmt.Errorf("%w: unsupported version %d", ierr.ErrInvalidHeader, h.Version)
	}
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(buf[0:2], h.Version)
	if err := PutFixedString(buf[2:2+typeNameSize], h.TypeName); err != nil {
		return nil, fmt.Errorf("%w: type_name: %v", ierr.ErrInvalidHeader, err)
	}
	if err := PutFixedString(buf[14:14+deviceNameSize], h.DeviceName); err != nil {
		return nil, fmt.Errorf("%w: device_name: %v", ierr.ErrInvalidHeader, err)
	}
	putTimestamp(buf[34:42], h.Timestamp)
	binary.BigEndian.PutUint64(buf[42:50], h.BodySize)
	binary.BigEndian.PutUint64(buf[50:58], h.CRC)
	return buf, nil
}

// DecodeHeader parses exactly 58 bytes into a Header. buf must have length
// HeaderSize; use ReadHeader to read from a stream of unknown framing.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) != HeaderSize {
		return Header{}, fmt.Errorf("%w: header must be %d bytes, got %d", ierr.ErrInvalidHeader, HeaderSize, len(buf))
	}
	version := binary.BigEndian.Uint16(buf[0:2])
	if version != Version2 && version != Version3 {
		return Header{}, fmt.Errorf("%w: unsupported version %d", ierr.ErrInvalidHeader, version)
	}
	typeName, err := FixedString(buf[2 : 2+typeNameSize])
	if err != nil {
		return Header{}, fmt.Errorf("%w: type_name: %v", ierr.ErrInvalidHeader, err)
	}
	deviceName, err := FixedString(buf[14 : 14+deviceNameSize])
	if err != nil {
		return Header{}, fmt.Errorf("%w: device_name: %v", ierr.ErrInvalidHeader, err)
	}
	return Header{
		Version:    version,
		TypeName:   typeName,
		DeviceName: deviceName,
		Timestamp:  getTimestamp(buf[34:42]),
		BodySize:   binary.BigEndian.Uint64(buf[42:50]),
		CRC:        binary.BigEndian.Uint64(buf[50:58]),
	}, nil
}

// ReadHeader reads exactly HeaderSize bytes from r and decodes them.
// A clean EOF before any byte is read yields ierr.ErrConnectionClosed; a
// partial header yields ierr.ErrTruncated.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if n == 0 && err == io.EOF {
			return Header{}, ierr.ErrConnectionClosed
		}
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return Header{}, fmt.Errorf("%w: %v", ierr.ErrTruncated, err)
		}
		return Header{}, fmt.Errorf("%w: %v", ierr.ErrIo, err)
	}
	return DecodeHeader(buf)
}

// ReadBody reads exactly n bytes from r for the body following a header.
func ReadBody(r io.Reader, n uint64) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrTruncated, err)
	}
	return buf, nil
}
