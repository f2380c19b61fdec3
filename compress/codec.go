// Package compress provides the compression codecs used by the GRC-20 edit
// frame.
//
// The wire format admits a single compressed framing (zstd, behind the
// "GRC2Z" magic), but the package keeps a pluggable Codec surface so the
// framing code, tooling and tests all go through one factory. Two zstd
// backends are provided behind build tags: a pure-Go backend
// (klauspost/compress) used by default, and a cgo backend (valyala/gozstd)
// for builds that opt into it.
package compress

import (
	"fmt"
)

// Type identifies a compression codec.
type Type uint8

const (
	TypeNone Type = 0x1 // TypeNone passes data through unchanged.
	TypeZstd Type = 0x2 // TypeZstd is Zstandard, the wire codec for edits.
	TypeLZ4  Type = 0x3 // TypeLZ4 is LZ4 block compression.
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeZstd:
		return "Zstd"
	case TypeLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Compressor compresses a complete payload in one call.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a complete payload in one call. Implementations
// must be safe for concurrent use.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression.
type Codec interface {
	Compressor
	Decompressor
}

// DefaultZstdLevel is the zstd level used when the caller does not choose
// one.
const DefaultZstdLevel = 3

// CreateCodec creates a Codec for the given type.
//
// Parameters:
//   - compressionType: TypeNone, TypeZstd or TypeLZ4
//
// Returns:
//   - Codec: Codec instance for the type
//   - error: Unknown type error
func CreateCodec(compressionType Type) (Codec, error) {
	switch compressionType {
	case TypeNone:
		return NewNoOpCompressor(), nil
	case TypeZstd:
		return NewZstdCompressor(), nil
	case TypeLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
	}
}
