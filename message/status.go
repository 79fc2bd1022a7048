package message

import (
	"encoding/binary"
	"fmt"

	"igtlink/ierr"
	"igtlink/wire"
)

const StatusTypeName = "STATUS"

// Status codes, mirroring the documented igtl status vocabulary closely
// enough for this engine's purposes; callers may use any u16 value.
const (
	StatusOK    uint16 = 1
	StatusError uint16 = 2
)

// Status carries a device's health/result code plus a free-text message.
type Status struct {
	Code         uint16
	Subcode      uint64
	ErrorName    string // up to 20 bytes
	StatusString string // variable length, occupies the remainder of the body
}

// Ok builds a StatusOK message with the given human-readable string.
func Ok(statusString string) Status {
	return Status{Code: StatusOK, StatusString: statusString}
}

func (s Status) TypeName() string { return StatusTypeName }

func (s Status) EncodeContent() ([]byte, error) {
	buf := make([]byte, 30+len(s.StatusString))
	binary.BigEndian.PutUint16(buf[0:2], s.Code)
	binary.BigEndian.PutUint64(buf[2:10], s.Subcode)
	if err := wire.PutFixedString(buf[10:30], s.ErrorName); err != nil {
		return nil, &ierr.FieldError{Field: "error_name", Reason: err.Error()}
	}
	copy(buf[30:], s.StatusString)
	return buf, nil
}

func DecodeStatus(body []byte) (Content, error) {
	if len(body) < 30 {
		return nil, &ierr.FieldError{Field: "status", Reason: fmt.Sprintf("body must be at least 30 bytes, got %d", len(body))}
	}
	errorName, err := wire.FixedString(body[10:30])
	if err != nil {
		return nil, &ierr.FieldError{Field: "error_name", Reason: err.Error()}
	}
	return Status{
		Code:         binary.BigEndian.Uint16(body[0:2]),
		Subcode:      binary.BigEndian.Uint64(body[2:10]),
		ErrorName:    errorName,
		StatusString: string(body[30:]),
	}, nil
}

func init() { register(StatusTypeName, DecodeStatus) }
