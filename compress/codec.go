// Package compress implements §4.12's application-layer payload
// compression: an orthogonal helper callers may apply to bytes they treat
// as opaque (typically an already-encoded message body) before handing
// them to whatever out-of-band channel carries compressed payloads.
//
// The interface shape is grounded on the Compressor/Decompressor/Codec
// split and factory-function style from arloliu-mebo/compress, generalized
// from mebo's Zstd/S2/LZ4 algorithm set to the None/Deflate/Gzip set this
// protocol calls for, using klauspost/compress's flate and gzip
// implementations instead of stdlib's (matching their drop-in faster
// encoders, the same family mebo reaches for with S2/zstd).
package compress

import "fmt"

// Algorithm names a supported compression scheme.
type Algorithm int

const (
	None Algorithm = iota
	Deflate
	Gzip
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Deflate:
		return "deflate"
	case Gzip:
		return "gzip"
	default:
		return "unknown"
	}
}

// Level selects a speed/ratio tradeoff, independent of Algorithm.
type Level int

const (
	Fast Level = iota
	Default
	Best
)

// Compressor compresses a byte slice.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a byte slice produced by the matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression for one algorithm and
// level.
type Codec interface {
	Compressor
	Decompressor
}

// New builds the Codec for algorithm at level. None ignores level entirely
// — there is nothing to tune about a no-op.
func New(algorithm Algorithm, level Level) (Codec, error) {
	switch algorithm {
	case None:
		return NoOpCodec{}, nil
	case Deflate:
		return NewDeflateCodec(level)
	case Gzip:
		return NewGzipCodec(level)
	default:
		return nil, fmt.Errorf("compress: unsupported algorithm %v", algorithm)
	}
}
