package codec

// Hard limits on decoded structures. Every limit is checked before the
// allocation it guards, so adversarial inputs cannot force unbounded memory
// use. The values are compatibility-relevant in one direction only: a
// decoder may raise them, never lower them, without rejecting valid edits.
const (
	// MaxStringLen bounds every length-prefixed string field (16 MiB).
	MaxStringLen = 16 * 1024 * 1024
	// MaxBytesLen bounds byte-array values (64 MiB).
	MaxBytesLen = 64 * 1024 * 1024
	// MaxEmbeddingDims bounds embedding dimensionality.
	MaxEmbeddingDims = 65536
	// MaxEmbeddingBytes bounds the embedding payload (float32 worst case).
	MaxEmbeddingBytes = 4 * MaxEmbeddingDims
	// MaxOpsPerEdit bounds the operation count of one edit.
	MaxOpsPerEdit = 1_000_000
	// MaxValuesPerEntity bounds the value and unset lists of one entity op.
	MaxValuesPerEntity = 10_000
	// MaxAuthors bounds the author list of one edit.
	MaxAuthors = 1_000
	// MaxDictSize bounds each wire dictionary.
	MaxDictSize = 1_000_000
	// MaxEditSize bounds the whole edit, post-decompression (256 MiB).
	MaxEditSize = 256 * 1024 * 1024
	// MaxPositionLen bounds relation position strings.
	MaxPositionLen = 64
)

// FormatVersion is the current wire format version byte.
const FormatVersion byte = 0x01

var (
	magicUncompressed = []byte("GRC2")
	magicCompressed   = []byte("GRC2Z")
)
