package message

import (
	"encoding/binary"
	"fmt"

	"igtlink/ierr"
)

const NDArrayTypeName = "NDARRAY"

// NDArray is a row-major n-dimensional array of a single scalar type. Raw
// element bytes are kept in Data rather than decoded into a typed slice,
// since dim and scalar type are only known at runtime.
type NDArray struct {
	Scalar ScalarType
	Size   []uint16 // len(Size) == dim
	Data   []byte
}

func (a NDArray) TypeName() string { return NDArrayTypeName }

func (a NDArray) product() int {
	p := 1
	for _, s := range a.Size {
		p *= int(s)
	}
	return p
}

func (a NDArray) EncodeContent() ([]byte, error) {
	if len(a.Size) == 0 {
		return nil, &ierr.FieldError{Field: "dim", Reason: "ndarray dim must be > 0"}
	}
	if len(a.Size) > 0xff {
		return nil, &ierr.FieldError{Field: "dim", Reason: "ndarray dim exceeds 255"}
	}
	elemSize := scalarSize(a.Scalar)
	want := elemSize * a.product()
	if elemSize == 0 || len(a.Data) != want {
		return nil, &ierr.FieldError{Field: "data", Reason: fmt.Sprintf("expected %d bytes for size=%v scalar=%d, got %d", want, a.Size, a.Scalar, len(a.Data))}
	}

	buf := make([]byte, 2+2*len(a.Size)+len(a.Data))
	buf[0] = uint8(a.Scalar)
	buf[1] = uint8(len(a.Size))
	off := 2
	for _, s := range a.Size {
		binary.BigEndian.PutUint16(buf[off:off+2], s)
		off += 2
	}
	copy(buf[off:], a.Data)
	return buf, nil
}

func DecodeNDArray(body []byte) (Content, error) {
	if len(body) < 2 {
		return nil, &ierr.FieldError{Field: "header", Reason: "body must be at least 2 bytes"}
	}
	scalar := ScalarType(body[0])
	dim := int(body[1])
	if dim == 0 {
		return nil, &ierr.FieldError{Field: "dim", Reason: "ndarray dim=0 is rejected"}
	}
	if len(body) < 2+2*dim {
		return nil, &ierr.FieldError{Field: "size", Reason: "body truncated before size table"}
	}
	size := make([]uint16, dim)
	off := 2
	for i := range size {
		size[i] = binary.BigEndian.Uint16(body[off : off+2])
		off += 2
	}
	arr := NDArray{Scalar: scalar, Size: size, Data: append([]byte(nil), body[off:]...)}
	elemSize := scalarSize(scalar)
	want := elemSize * arr.product()
	if elemSize == 0 || len(arr.Data) != want {
		return nil, &ierr.FieldError{Field: "data", Reason: fmt.Sprintf("expected %d bytes for size=%v scalar=%d, got %d", want, size, scalar, len(arr.Data))}
	}
	return arr, nil
}

func init() { register(NDArrayTypeName, DecodeNDArray) }
