package message

import (
	"encoding/binary"
	"fmt"

	"igtlink/ierr"
	"igtlink/wire"
)

const (
	SttTDataTypeName    = "STT_TDATA"
	StpTDataTypeName    = "STP_TDATA"
	StpImageTypeName    = "STP_IMAGE"
	StpTransforTypeName = "STP_TRANSFOR"
	RtsTDataTypeName    = "RTS_TDATA"
)

// RTS_TDATA status codes (§6).
const (
	RtsStatusError uint16 = 0
	RtsStatusOK    uint16 = 1
)

// StartTData requests the peer begin streaming TDATA at the given
// resolution (milliseconds between updates) in the given coordinate frame.
type StartTData struct {
	Resolution     uint32
	CoordinateName string // up to 32 bytes, e.g. "RAS"
}

func (s StartTData) TypeName() string { return SttTDataTypeName }

func (s StartTData) EncodeContent() ([]byte, error) {
	buf := make([]byte, 36)
	binary.BigEndian.PutUint32(buf[0:4], s.Resolution)
	if err := wire.PutFixedString(buf[4:36], s.CoordinateName); err != nil {
		return nil, &ierr.FieldError{Field: "coordinate_name", Reason: err.Error()}
	}
	return buf, nil
}

func DecodeStartTData(body []byte) (Content, error) {
	if len(body) != 36 {
		return nil, &ierr.FieldError{Field: "body", Reason: fmt.Sprintf("STT_TDATA body must be 36 bytes, got %d", len(body))}
	}
	name, err := wire.FixedString(body[4:36])
	if err != nil {
		return nil, &ierr.FieldError{Field: "coordinate_name", Reason: err.Error()}
	}
	return StartTData{
		Resolution:     binary.BigEndian.Uint32(body[0:4]),
		CoordinateName: name,
	}, nil
}

func init() { register(SttTDataTypeName, DecodeStartTData) }

// Rts is the streaming-stop acknowledgement carried by RTS_TDATA: status=1
// is OK, status=0 is ERROR, any other value is implementation-defined.
type Rts struct {
	Status uint16
}

func (r Rts) TypeName() string { return RtsTDataTypeName }

func (r Rts) EncodeContent() ([]byte, error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, r.Status)
	return buf, nil
}

func DecodeRts(body []byte) (Content, error) {
	if len(body) != 2 {
		return nil, &ierr.FieldError{Field: "status", Reason: fmt.Sprintf("RTS_TDATA body must be 2 bytes, got %d", len(body))}
	}
	return Rts{Status: binary.BigEndian.Uint16(body)}, nil
}

func init() { register(RtsTDataTypeName, DecodeRts) }

// stopStreamTypeNames are all zero-length-body stream-stop messages.
var stopStreamTypeNames = []string{StpTDataTypeName, StpImageTypeName, StpTransforTypeName}

func init() {
	for _, name := range stopStreamTypeNames {
		register(name, decodeEmpty(name))
	}
}

// NewStopStream builds the Empty-bodied stop message for the given STP_*
// type name.
func NewStopStream(typeName string) Empty {
	return Empty{Name: typeName}
}
