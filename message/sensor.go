package message

import (
	"encoding/binary"
	"fmt"

	"igtlink/ierr"
)

const SensorTypeName = "SENSOR"

// Sensor carries an array of doubles from a generic sensor device (e.g.
// force, EM field strength), tagged with a packed-SI unit code.
type Sensor struct {
	Status uint8
	Unit   uint64 // packed SI unit, application-defined encoding
	Data   []float64
}

func (s Sensor) TypeName() string { return SensorTypeName }

func (s Sensor) EncodeContent() ([]byte, error) {
	if len(s.Data) > 0xff {
		return nil, &ierr.FieldError{Field: "data", Reason: "sensor array exceeds 255 elements"}
	}
	buf := make([]byte, 10+8*len(s.Data))
	buf[0] = uint8(len(s.Data))
	buf[1] = s.Status
	binary.BigEndian.PutUint64(buf[2:10], s.Unit)
	off := 10
	for _, v := range s.Data {
		putFloat64(buf[off:off+8], v)
		off += 8
	}
	return buf, nil
}

func DecodeSensor(body []byte) (Content, error) {
	if len(body) < 10 {
		return nil, &ierr.FieldError{Field: "header", Reason: "body must be at least 10 bytes"}
	}
	n := int(body[0])
	status := body[1]
	unit := binary.BigEndian.Uint64(body[2:10])
	want := 10 + 8*n
	if len(body) != want {
		return nil, &ierr.FieldError{Field: "data", Reason: fmt.Sprintf("expected %d bytes for %d doubles, got %d", want, n, len(body))}
	}
	data := make([]float64, n)
	off := 10
	for i := range data {
		data[i] = getFloat64(body[off : off+8])
		off += 8
	}
	return Sensor{Status: status, Unit: unit, Data: data}, nil
}

func init() { register(SensorTypeName, DecodeSensor) }
