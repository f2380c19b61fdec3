//go:build gozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// Compress compresses data with Zstandard at the codec's level.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	level := c.level
	if level <= 0 {
		level = DefaultZstdLevel
	}

	return gozstd.CompressLevel(nil, data, level), nil
}

// Decompress decompresses Zstandard data.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decompressed, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
