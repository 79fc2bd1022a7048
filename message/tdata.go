package message

import (
	"fmt"

	"igtlink/ierr"
	"igtlink/wire"
)

const (
	TDataTypeName  = "TDATA"
	QTDataTypeName = "QTDATA"
)

// tdataRecordSize: name(20) + instrument_type(1) + matrix(48).
const tdataRecordSize = 20 + 1 + 48

// qtdataRecordSize: name(20) + instrument_type(1) + position(12) + quaternion(16).
const qtdataRecordSize = 20 + 1 + 12 + 16

// TrackingElement is one tracked tool's pose, matrix form (TDATA).
type TrackingElement struct {
	Name           string // up to 20 bytes
	InstrumentType uint8
	Matrix         [4][4]float32 // row 3 implicit [0,0,0,1]
}

// TData is a list of TrackingElement, repeated back-to-back.
type TData struct {
	Elements []TrackingElement
}

func (t TData) TypeName() string { return TDataTypeName }

func (t TData) EncodeContent() ([]byte, error) {
	buf := make([]byte, tdataRecordSize*len(t.Elements))
	off := 0
	for _, e := range t.Elements {
		if err := wire.PutFixedString(buf[off:off+20], e.Name); err != nil {
			return nil, &ierr.FieldError{Field: "name", Reason: err.Error()}
		}
		off += 20
		buf[off] = e.InstrumentType
		off++
		for row := 0; row < 3; row++ {
			for col := 0; col < 4; col++ {
				putFloat32(buf[off:off+4], e.Matrix[row][col])
				off += 4
			}
		}
	}
	return buf, nil
}

func DecodeTData(body []byte) (Content, error) {
	if len(body)%tdataRecordSize != 0 {
		return nil, &ierr.FieldError{Field: "elements", Reason: fmt.Sprintf("body length %d is not a multiple of record size %d", len(body), tdataRecordSize)}
	}
	n := len(body) / tdataRecordSize
	elements := make([]TrackingElement, n)
	off := 0
	for i := range elements {
		var e TrackingElement
		var err error
		e.Name, err = wire.FixedString(body[off : off+20])
		if err != nil {
			return nil, &ierr.FieldError{Field: "name", Reason: err.Error()}
		}
		off += 20
		e.InstrumentType = body[off]
		off++
		for row := 0; row < 3; row++ {
			for col := 0; col < 4; col++ {
				e.Matrix[row][col] = getFloat32(body[off : off+4])
				off += 4
			}
		}
		e.Matrix[3] = [4]float32{0, 0, 0, 1}
		elements[i] = e
	}
	return TData{Elements: elements}, nil
}

func init() { register(TDataTypeName, DecodeTData) }

// QTrackingElement is one tracked tool's pose, quaternion form (QTDATA).
type QTrackingElement struct {
	Name           string
	InstrumentType uint8
	Position       [3]float32
	Quaternion     [4]float32
}

// QTData is a list of QTrackingElement, repeated back-to-back.
type QTData struct {
	Elements []QTrackingElement
}

func (q QTData) TypeName() string { return QTDataTypeName }

func (q QTData) EncodeContent() ([]byte, error) {
	buf := make([]byte, qtdataRecordSize*len(q.Elements))
	off := 0
	for _, e := range q.Elements {
		if err := wire.PutFixedString(buf[off:off+20], e.Name); err != nil {
			return nil, &ierr.FieldError{Field: "name", Reason: err.Error()}
		}
		off += 20
		buf[off] = e.InstrumentType
		off++
		for _, v := range e.Position {
			putFloat32(buf[off:off+4], v)
			off += 4
		}
		for _, v := range e.Quaternion {
			putFloat32(buf[off:off+4], v)
			off += 4
		}
	}
	return buf, nil
}

func DecodeQTData(body []byte) (Content, error) {
	if len(body)%qtdataRecordSize != 0 {
		return nil, &ierr.FieldError{Field: "elements", Reason: fmt.Sprintf("body length %d is not a multiple of record size %d", len(body), qtdataRecordSize)}
	}
	n := len(body) / qtdataRecordSize
	elements := make([]QTrackingElement, n)
	off := 0
	for i := range elements {
		var e QTrackingElement
		var err error
		e.Name, err = wire.FixedString(body[off : off+20])
		if err != nil {
			return nil, &ierr.FieldError{Field: "name", Reason: err.Error()}
		}
		off += 20
		e.InstrumentType = body[off]
		off++
		for j := range e.Position {
			e.Position[j] = getFloat32(body[off : off+4])
			off += 4
		}
		for j := range e.Quaternion {
			e.Quaternion[j] = getFloat32(body[off : off+4])
			off += 4
		}
		elements[i] = e
	}
	return QTData{Elements: elements}, nil
}

func init() { register(QTDataTypeName, DecodeQTData) }
