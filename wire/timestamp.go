package wire

import (
	"encoding/binary"
	"time"
)

// Timestamp is the protocol's 64-bit clock value: unsigned whole seconds in
// the upper 32 bits, fractional units of 1/2^32 second in the lower 32,
// both big-endian on the wire.
type Timestamp uint64

// NewTimestamp builds a Timestamp from a time.Time.
func NewTimestamp(t time.Time) Timestamp {
	sec := uint64(t.Unix())
	frac := uint64(float64(t.Nanosecond()) / 1e9 * (1 << 32))
	return Timestamp(sec<<32 | (frac & 0xffffffff))
}

// Time converts the Timestamp back to a time.Time (UTC).
func (ts Timestamp) Time() time.Time {
	sec := int64(ts >> 32)
	frac := uint32(ts & 0xffffffff)
	nsec := int64(float64(frac) / (1 << 32) * 1e9)
	return time.Unix(sec, nsec).UTC()
}

func putTimestamp(dst []byte, ts Timestamp) {
	binary.BigEndian.PutUint64(dst, uint64(ts))
}

func getTimestamp(src []byte) Timestamp {
	return Timestamp(binary.BigEndian.Uint64(src))
}
