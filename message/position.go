package message

import (
	"fmt"

	"igtlink/ierr"
)

const PositionTypeName = "POSITION"

// Position is a 3D point plus orientation quaternion, the lightweight
// counterpart to Transform for devices that report position/orientation
// rather than a full affine matrix.
type Position struct {
	Pos        [3]float32
	Quaternion [4]float32 // x, y, z, w
}

func (p Position) TypeName() string { return PositionTypeName }

func (p Position) EncodeContent() ([]byte, error) {
	buf := make([]byte, 28)
	off := 0
	for _, v := range p.Pos {
		putFloat32(buf[off:off+4], v)
		off += 4
	}
	for _, v := range p.Quaternion {
		putFloat32(buf[off:off+4], v)
		off += 4
	}
	return buf, nil
}

func DecodePosition(body []byte) (Content, error) {
	if len(body) != 28 {
		return nil, fmt.Errorf("%w: position body must be 28 bytes, got %d", ierr.ErrInvalidField, len(body))
	}
	var p Position
	off := 0
	for i := range p.Pos {
		p.Pos[i] = getFloat32(body[off : off+4])
		off += 4
	}
	for i := range p.Quaternion {
		p.Quaternion[i] = getFloat32(body[off : off+4])
		off += 4
	}
	return p, nil
}

func init() { register(PositionTypeName, DecodePosition) }
