package compress

// NoOpCodec bypasses compression entirely, returning the input unchanged.
// Useful for baseline measurements and for payloads that are already
// compressed upstream.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func (NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
