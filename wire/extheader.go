package wire

import (
	"encoding/binary"
	"fmt"

	"igtlink/ierr"
)

// MetadataEntry is one (key, encoding, value) triple in a version-3
// metadata table. Encoding is an IANA MIBenum; decoders never transcode —
// they hand back the raw value bytes plus the encoding they arrived with.
type MetadataEntry struct {
	Key      string
	Encoding uint16
	Value    []byte
}

// Metadata is an ordered list of MetadataEntry. Duplicate keys are legal on
// the wire; Get resolves them to the first occurrence, matching the
// receiver's documented "first-occurrence" query semantics, while All
// preserves full wire order for callers that want every entry.
type Metadata []MetadataEntry

// Get returns the first entry with the given key.
func (m Metadata) Get(key string) (value []byte, encoding uint16, ok bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, e.Encoding, true
		}
	}
	return nil, 0, false
}

// All returns every entry in wire order.
func (m Metadata) All() []MetadataEntry {
	return append([]MetadataEntry(nil), m...)
}

// ExtendedHeaderRegion is the version-3 extension that sits at the front of
// the body, before the typed content.
type ExtendedHeaderRegion struct {
	Data     []byte // opaque, application-defined extended-header bytes
	Metadata Metadata
}

// Encode lays out the extended-header region per §4.3: ext_header_size,
// ext_header_data, metadata_header_size, metadata_count, index table, then
// concatenated keys and values.
func (r ExtendedHeaderRegion) Encode() ([]byte, error) {
	if len(r.Data) > 0xffff {
		return nil, fmt.Errorf("%w: extended header data too large (%d bytes)", ierr.ErrInvalidConfig, len(r.Data))
	}
	if len(r.Metadata) > 0xffff {
		return nil, fmt.Errorf("%w: too many metadata entries (%d)", ierr.ErrInvalidConfig, len(r.Metadata))
	}

	indexTable := make([]byte, 0, len(r.Metadata)*8)
	kv := make([]byte, 0)
	for _, e := range r.Metadata {
		keyBytes := []byte(e.Key)
		if len(keyBytes) > 0xffff || len(e.Value) > 0xffffffff {
			return nil, fmt.Errorf("%w: metadata entry %q too large", ierr.ErrInvalidConfig, e.Key)
		}
		entry := make([]byte, 8)
		binary.BigEndian.PutUint16(entry[0:2], uint16(len(keyBytes)))
		binary.BigEndian.PutUint16(entry[2:4], e.Encoding)
		binary.BigEndian.PutUint32(entry[4:8], uint32(len(e.Value)))
		indexTable = append(indexTable, entry...)
		kv = append(kv, keyBytes...)
		kv = append(kv, e.Value...)
	}
	metadataHeaderSize := uint32(len(indexTable) + len(kv))

	out := make([]byte, 0, 2+len(r.Data)+4+2+len(indexTable)+len(kv))
	extHeaderSize := make([]byte, 2)
	binary.BigEndian.PutUint16(extHeaderSize, uint16(len(r.Data)))
	out = append(out, extHeaderSize...)
	out = append(out, r.Data...)

	rest := make([]byte, 6)
	binary.BigEndian.PutUint32(rest[0:4], metadataHeaderSize)
	binary.BigEndian.PutUint16(rest[4:6], uint16(len(r.Metadata)))
	out = append(out, rest...)
	out = append(out, indexTable...)
	out = append(out, kv...)
	return out, nil
}

// DecodeExtendedHeaderRegion parses an ExtendedHeaderRegion from the front
// of body and returns it alongside the remaining bytes (the typed content).
func DecodeExtendedHeaderRegion(body []byte) (ExtendedHeaderRegion, []byte, error) {
	if len(body) < 2 {
		return ExtendedHeaderRegion{}, nil, fmt.Errorf("%w: extended header truncated", ierr.ErrTruncated)
	}
	extHeaderSize := binary.BigEndian.Uint16(body[0:2])
	off := 2
	if len(body) < off+int(extHeaderSize) {
		return ExtendedHeaderRegion{}, nil, fmt.Errorf("%w: extended header data truncated", ierr.ErrTruncated)
	}
	data := append([]byte(nil), body[off:off+int(extHeaderSize)]...)
	off += int(extHeaderSize)

	if len(body) < off+6 {
		return ExtendedHeaderRegion{}, nil, fmt.Errorf("%w: metadata header truncated", ierr.ErrTruncated)
	}
	_ = binary.BigEndian.Uint32(body[off : off+4]) // metadata_header_size, not independently enforced
	off += 4
	count := binary.BigEndian.Uint16(body[off : off+2])
	off += 2

	type indexEntry struct {
		keySize, valSize uint32
		encoding         uint16
	}
	entries := make([]indexEntry, count)
	for i := range entries {
		if len(body) < off+8 {
			return ExtendedHeaderRegion{}, nil, fmt.Errorf("%w: metadata index table truncated", ierr.ErrTruncated)
		}
		keySize := binary.BigEndian.Uint16(body[off : off+2])
		encoding := binary.BigEndian.Uint16(body[off+2 : off+4])
		valSize := binary.BigEndian.Uint32(body[off+4 : off+8])
		entries[i] = indexEntry{keySize: uint32(keySize), valSize: valSize, encoding: encoding}
		off += 8
	}

	metadata := make(Metadata, count)
	for i, e := range entries {
		if len(body) < off+int(e.keySize) {
			return ExtendedHeaderRegion{}, nil, fmt.Errorf("%w: metadata key truncated", ierr.ErrTruncated)
		}
		key := string(body[off : off+int(e.keySize)])
		off += int(e.keySize)
		if len(body) < off+int(e.valSize) {
			return ExtendedHeaderRegion{}, nil, fmt.Errorf("%w: metadata value truncated", ierr.ErrTruncated)
		}
		val := append([]byte(nil), body[off:off+int(e.valSize)]...)
		off += int(e.valSize)
		metadata[i] = MetadataEntry{Key: key, Encoding: e.encoding, Value: val}
	}

	return ExtendedHeaderRegion{Data: data, Metadata: metadata}, body[off:], nil
}
