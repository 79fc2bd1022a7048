package message

import (
	"encoding/binary"
	"math"
)

// putFloat32 / getFloat32 and their float64 counterparts write/read
// fixed-width float fields at a byte offset, the same manual
// binary.BigEndian.Put*/Uint* style every typed body here uses for its
// integer fields.

func putFloat32(dst []byte, v float32) {
	binary.BigEndian.PutUint32(dst, math.Float32bits(v))
}

func getFloat32(src []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(src))
}

func putFloat64(dst []byte, v float64) {
	binary.BigEndian.PutUint64(dst, math.Float64bits(v))
}

func getFloat64(src []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(src))
}
