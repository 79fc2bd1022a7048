package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCodec compresses with the gzip container format at a fixed level
// chosen at construction time.
type GzipCodec struct {
	level int
}

var _ Codec = GzipCodec{}

func gzipLevel(l Level) int {
	switch l {
	case Fast:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

// NewGzipCodec builds a GzipCodec at the given speed/ratio level.
func NewGzipCodec(level Level) (GzipCodec, error) {
	return GzipCodec{level: gzipLevel(level)}, nil
}

func (c GzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("compress: gzip: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress: gzip: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress: gzip: %w", err)
	}
	return buf.Bytes(), nil
}

func (c GzipCodec) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("compress: gzip: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("compress: gzip: %w", err)
	}
	return out, nil
}
