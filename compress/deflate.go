package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// DeflateCodec compresses with raw DEFLATE (no zlib/gzip wrapper) at a
// fixed level chosen at construction time.
type DeflateCodec struct {
	level int
}

var _ Codec = DeflateCodec{}

func deflateLevel(l Level) int {
	switch l {
	case Fast:
		return flate.BestSpeed
	case Best:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}

// NewDeflateCodec builds a DeflateCodec at the given speed/ratio level.
func NewDeflateCodec(level Level) (DeflateCodec, error) {
	return DeflateCodec{level: deflateLevel(level)}, nil
}

func (c DeflateCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("compress: deflate: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress: deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress: deflate: %w", err)
	}
	return buf.Bytes(), nil
}

func (c DeflateCodec) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("compress: deflate: %w", err)
	}
	return out, nil
}
