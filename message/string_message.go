package message

import (
	"encoding/binary"
	"fmt"

	"igtlink/ierr"
)

const StringTypeName = "STRING"

// IANA MIBenum values this engine recognizes for STRING/COMMAND encoding
// fields. Others are passed through untranslated — decoders never
// transcode (§4.3).
const (
	MIBAscii uint16 = 3
	MIBUtf8  uint16 = 106
)

// String is a short text message; zero-length strings are valid (§4.4).
type String struct {
	Encoding uint16
	Text     string
}

func (s String) TypeName() string { return StringTypeName }

func (s String) EncodeContent() ([]byte, error) {
	if len(s.Text) > 0xffff {
		return nil, &ierr.FieldError{Field: "length", Reason: "text exceeds 65535 bytes"}
	}
	buf := make([]byte, 4+len(s.Text))
	binary.BigEndian.PutUint16(buf[0:2], s.Encoding)
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(s.Text)))
	copy(buf[4:], s.Text)
	return buf, nil
}

func DecodeString(body []byte) (Content, error) {
	if len(body) < 4 {
		return nil, &ierr.FieldError{Field: "length", Reason: "body must be at least 4 bytes"}
	}
	encoding := binary.BigEndian.Uint16(body[0:2])
	length := binary.BigEndian.Uint16(body[2:4])
	if len(body) != 4+int(length) {
		return nil, &ierr.FieldError{Field: "length", Reason: fmt.Sprintf("declared length %d does not match body", length)}
	}
	return String{Encoding: encoding, Text: string(body[4:])}, nil
}

func init() { register(StringTypeName, DecodeString) }
