package message

import (
	"encoding/binary"
	"fmt"

	"igtlink/ierr"
	"igtlink/wire"
)

const CapabilityTypeName = "CAPABILITY"

// Capability announces the set of type names a device supports, in answer
// to a GET_CAPABIL query.
type Capability struct {
	Types []string // each entry must fit in a FixedString<12>
}

func (c Capability) TypeName() string { return CapabilityTypeName }

func (c Capability) EncodeContent() ([]byte, error) {
	buf := make([]byte, 4+12*len(c.Types))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(c.Types)))
	off := 4
	for _, name := range c.Types {
		if err := wire.PutFixedString(buf[off:off+12], name); err != nil {
			return nil, &ierr.FieldError{Field: "types", Reason: err.Error()}
		}
		off += 12
	}
	return buf, nil
}

func DecodeCapability(body []byte) (Content, error) {
	if len(body) < 4 {
		return nil, &ierr.FieldError{Field: "count", Reason: "body too short"}
	}
	count := binary.BigEndian.Uint32(body[0:4])
	want := 4 + 12*int(count)
	if len(body) != want {
		return nil, &ierr.FieldError{Field: "types", Reason: fmt.Sprintf("expected %d bytes for %d entries, got %d", want, count, len(body))}
	}
	types := make([]string, count)
	off := 4
	for i := range types {
		name, err := wire.FixedString(body[off : off+12])
		if err != nil {
			return nil, &ierr.FieldError{Field: "types", Reason: err.Error()}
		}
		types[i] = name
		off += 12
	}
	return Capability{Types: types}, nil
}

func init() { register(CapabilityTypeName, DecodeCapability) }
