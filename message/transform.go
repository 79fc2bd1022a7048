package message

import (
	"fmt"

	"igtlink/ierr"
)

// TransformTypeName is the wire type_name for Transform.
const TransformTypeName = "TRANSFORM"

// Transform is a 4x4 affine matrix. The wire form carries only the first
// three rows (12 float32, row-major); Matrix's fourth row is always
// [0, 0, 0, 1] and is never transmitted.
type Transform struct {
	// Matrix is stored row-major, Matrix[row][col], 4x4. Row 3 is always
	// [0, 0, 0, 1] — it is reconstructed on decode, not read from the wire.
	Matrix [4][4]float32
}

// Identity returns the identity transform.
func Identity() Transform {
	var t Transform
	for i := 0; i < 4; i++ {
		t.Matrix[i][i] = 1
	}
	return t
}

func (t Transform) TypeName() string { return TransformTypeName }

func (t Transform) EncodeContent() ([]byte, error) {
	buf := make([]byte, 48)
	off := 0
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			putFloat32(buf[off:off+4], t.Matrix[row][col])
			off += 4
		}
	}
	return buf, nil
}

// DecodeTransform parses a Transform body. Row 3 is forced to [0,0,0,1]
// since the wire format only carries the top 3 rows of the 4x4 matrix.
func DecodeTransform(body []byte) (Content, error) {
	if len(body) != 48 {
		return nil, fmt.Errorf("%w: transform body must be 48 bytes, got %d", ierr.ErrInvalidField, len(body))
	}
	var t Transform
	off := 0
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			t.Matrix[row][col] = getFloat32(body[off : off+4])
			off += 4
		}
	}
	t.Matrix[3] = [4]float32{0, 0, 0, 1}
	return t, nil
}

func init() { register(TransformTypeName, DecodeTransform) }
