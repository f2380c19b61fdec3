package compress

// ZstdCompressor provides Zstandard compression for edit frames.
//
// Level follows the zstd convention: 1 is fastest, 3 the default, 22 the
// strongest. Decompression ignores the level.
//
// The backend is selected at build time: the default pure-Go backend lives
// in zstd_pure.go and the cgo backend (valyala/gozstd) in zstd_cgo.go.
type ZstdCompressor struct {
	level int
}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor creates a zstd codec at DefaultZstdLevel.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{level: DefaultZstdLevel}
}

// NewZstdCompressorLevel creates a zstd codec at the given level.
//
// Parameters:
//   - level: Compression level, 1 (fastest) to 22 (strongest)
//
// Returns:
//   - ZstdCompressor: New codec instance
func NewZstdCompressorLevel(level int) ZstdCompressor {
	if level <= 0 {
		level = DefaultZstdLevel
	}

	return ZstdCompressor{level: level}
}
