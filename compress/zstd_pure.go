//go:build !gozstd

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxDecompressedSize caps the decoder's output allocation. It matches the
// codec package's post-decompression edit ceiling.
const maxDecompressedSize = 256 * 1024 * 1024

// zstdDecoderPool pools decoders for reuse. The klauspost/compress decoder
// is designed to operate without allocations after warmup, so storing it is
// the documented fast path.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxDecompressedSize),
		)
		if err != nil {
			// Unreachable with valid static options.
			panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
		}

		return decoder
	},
}

// zstdEncoderPools pools encoders per compression level. Levels are a small
// fixed set in practice (1, 3, 9, 22), so a map of pools keyed by level
// keeps every level on the warm path.
var (
	zstdEncoderPoolsMu sync.Mutex
	zstdEncoderPools   = make(map[int]*sync.Pool)
)

func encoderPoolForLevel(level int) *sync.Pool {
	zstdEncoderPoolsMu.Lock()
	defer zstdEncoderPoolsMu.Unlock()

	if p, ok := zstdEncoderPools[level]; ok {
		return p
	}

	p := &sync.Pool{
		New: func() any {
			encoder, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
				zstd.WithEncoderCRC(false),
				zstd.WithEncoderConcurrency(1),
			)
			if err != nil {
				// Unreachable with valid static options.
				panic(fmt.Sprintf("failed to create zstd encoder: %v", err))
			}

			return encoder
		},
	}
	zstdEncoderPools[level] = p

	return p
}

// Compress compresses data with Zstandard at the codec's level.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	level := c.level
	if level <= 0 {
		level = DefaultZstdLevel
	}

	pool := encoderPoolForLevel(level)
	encoder, _ := pool.Get().(*zstd.Encoder)
	defer pool.Put(encoder)

	// EncodeAll is stateless, safe with a pooled encoder.
	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses Zstandard data.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
