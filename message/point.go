package message

import (
	"fmt"

	"igtlink/ierr"
	"igtlink/wire"
)

const PointTypeName = "POINT"

// pointRecordSize is the fixed size of one POINT entry: name(64) +
// group(32) + rgba(4) + xyz(12) + diameter(4) + owner(20).
const pointRecordSize = 64 + 32 + 4 + 12 + 4 + 20

// PointElement is one fiducial/landmark point.
type PointElement struct {
	Name     string // up to 64 bytes
	Group    string // up to 32 bytes
	RGBA     [4]uint8
	XYZ      [3]float32
	Diameter float32
	Owner    string // up to 20 bytes
}

// Point is a list of PointElement, repeated back-to-back with no count
// prefix — the body length alone determines how many records it holds.
type Point struct {
	Points []PointElement
}

func (p Point) TypeName() string { return PointTypeName }

func (p Point) EncodeContent() ([]byte, error) {
	buf := make([]byte, pointRecordSize*len(p.Points))
	off := 0
	for _, e := range p.Points {
		if err := wire.PutFixedString(buf[off:off+64], e.Name); err != nil {
			return nil, &ierr.FieldError{Field: "name", Reason: err.Error()}
		}
		off += 64
		if err := wire.PutFixedString(buf[off:off+32], e.Group); err != nil {
			return nil, &ierr.FieldError{Field: "group", Reason: err.Error()}
		}
		off += 32
		copy(buf[off:off+4], e.RGBA[:])
		off += 4
		for _, v := range e.XYZ {
			putFloat32(buf[off:off+4], v)
			off += 4
		}
		putFloat32(buf[off:off+4], e.Diameter)
		off += 4
		if err := wire.PutFixedString(buf[off:off+20], e.Owner); err != nil {
			return nil, &ierr.FieldError{Field: "owner", Reason: err.Error()}
		}
		off += 20
	}
	return buf, nil
}

func DecodePoint(body []byte) (Content, error) {
	if len(body)%pointRecordSize != 0 {
		return nil, &ierr.FieldError{Field: "points", Reason: fmt.Sprintf("body length %d is not a multiple of record size %d", len(body), pointRecordSize)}
	}
	n := len(body) / pointRecordSize
	points := make([]PointElement, n)
	off := 0
	for i := range points {
		var e PointElement
		var err error
		e.Name, err = wire.FixedString(body[off : off+64])
		if err != nil {
			return nil, &ierr.FieldError{Field: "name", Reason: err.Error()}
		}
		off += 64
		e.Group, err = wire.FixedString(body[off : off+32])
		if err != nil {
			return nil, &ierr.FieldError{Field: "group", Reason: err.Error()}
		}
		off += 32
		copy(e.RGBA[:], body[off:off+4])
		off += 4
		for j := range e.XYZ {
			e.XYZ[j] = getFloat32(body[off : off+4])
			off += 4
		}
		e.Diameter = getFloat32(body[off : off+4])
		off += 4
		e.Owner, err = wire.FixedString(body[off : off+20])
		if err != nil {
			return nil, &ierr.FieldError{Field: "owner", Reason: err.Error()}
		}
		off += 20
		points[i] = e
	}
	return Point{Points: points}, nil
}

func init() { register(PointTypeName, DecodePoint) }
