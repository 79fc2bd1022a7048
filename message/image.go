package message

import (
	"encoding/binary"
	"fmt"

	"igtlink/ierr"
)

const ImageTypeName = "IMAGE"

// ScalarType identifies the pixel element type of an Image or NDArray body.
type ScalarType uint8

// Scalar types, matching the OpenIGTLink IGTL_IMAGE_STYPE constants.
const (
	Int8     ScalarType = 2
	Uint8    ScalarType = 3
	Int16    ScalarType = 4
	Uint16   ScalarType = 5
	Int32    ScalarType = 6
	Uint32   ScalarType = 7
	Float32s ScalarType = 10
	Float64s ScalarType = 11
	Complex64Type ScalarType = 13
)

// scalarSize returns the byte width of one scalar element, or 0 if st is
// not one of the recognized scalar types.
func scalarSize(st ScalarType) int {
	switch st {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32s:
		return 4
	case Float64s, Complex64Type:
		return 8
	default:
		return 0
	}
}

// Image is a 2D/3D pixel volume with an orientation matrix and optional
// subvolume metadata. Size and data always describe the full volume;
// SubvolumeOffset/SubvolumeSize are metadata only (§4.4).
type Image struct {
	Version        uint16
	Scalar         ScalarType
	Endian         uint8 // 1 = big, 2 = little, per IGTL convention
	Coord          uint8 // 1 = RAS, 2 = LPS
	NumComponents  uint8
	Size           [3]uint16
	Matrix         [4][4]float32 // row 3 implicit [0,0,0,1], as in Transform
	SubvolumeOffset [3]uint16
	SubvolumeSize   [3]uint16
	Data            []byte
}

func (img Image) TypeName() string { return ImageTypeName }

func (img Image) dataLen() int {
	size := scalarSize(img.Scalar)
	return size * int(img.NumComponents) * int(img.Size[0]) * int(img.Size[1]) * int(img.Size[2])
}

func (img Image) EncodeContent() ([]byte, error) {
	want := img.dataLen()
	if want <= 0 {
		return nil, &ierr.FieldError{Field: "data", Reason: "size/scalar_type/num_components must describe a positive volume"}
	}
	if len(img.Data) != want {
		return nil, &ierr.FieldError{Field: "data", Reason: fmt.Sprintf("expected %d bytes for size=%v num_components=%d scalar=%d, got %d", want, img.Size, img.NumComponents, img.Scalar, len(img.Data))}
	}

	buf := make([]byte, 2+1+1+1+1+6+48+6+6+len(img.Data))
	off := 0
	binary.BigEndian.PutUint16(buf[off:off+2], img.Version)
	off += 2
	buf[off] = uint8(img.Scalar)
	off++
	buf[off] = img.Endian
	off++
	buf[off] = img.Coord
	off++
	buf[off] = img.NumComponents
	off++
	for _, s := range img.Size {
		binary.BigEndian.PutUint16(buf[off:off+2], s)
		off += 2
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			putFloat32(buf[off:off+4], img.Matrix[row][col])
			off += 4
		}
	}
	for _, s := range img.SubvolumeOffset {
		binary.BigEndian.PutUint16(buf[off:off+2], s)
		off += 2
	}
	for _, s := range img.SubvolumeSize {
		binary.BigEndian.PutUint16(buf[off:off+2], s)
		off += 2
	}
	copy(buf[off:], img.Data)
	return buf, nil
}

// header fixed-size portion before pixel data.
const imageFixedSize = 2 + 1 + 1 + 1 + 1 + 6 + 48 + 6 + 6

func DecodeImage(body []byte) (Content, error) {
	if len(body) < imageFixedSize {
		return nil, &ierr.FieldError{Field: "header", Reason: fmt.Sprintf("body must be at least %d bytes, got %d", imageFixedSize, len(body))}
	}
	var img Image
	off := 0
	img.Version = binary.BigEndian.Uint16(body[off : off+2])
	off += 2
	img.Scalar = ScalarType(body[off])
	off++
	img.Endian = body[off]
	off++
	img.Coord = body[off]
	off++
	img.NumComponents = body[off]
	off++
	for i := range img.Size {
		img.Size[i] = binary.BigEndian.Uint16(body[off : off+2])
		off += 2
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			img.Matrix[row][col] = getFloat32(body[off : off+4])
			off += 4
		}
	}
	img.Matrix[3] = [4]float32{0, 0, 0, 1}
	for i := range img.SubvolumeOffset {
		img.SubvolumeOffset[i] = binary.BigEndian.Uint16(body[off : off+2])
		off += 2
	}
	for i := range img.SubvolumeSize {
		img.SubvolumeSize[i] = binary.BigEndian.Uint16(body[off : off+2])
		off += 2
	}
	img.Data = append([]byte(nil), body[off:]...)

	want := img.dataLen()
	if want <= 0 || len(img.Data) != want {
		return nil, &ierr.FieldError{Field: "data", Reason: fmt.Sprintf("expected %d pixel bytes, got %d", want, len(img.Data))}
	}
	return img, nil
}

func init() { register(ImageTypeName, DecodeImage) }
