package compress

// NoOpCompressor passes data through unchanged. Useful as a baseline in
// benchmarks and for callers that want the Codec surface without
// compression.
type NoOpCompressor struct{}

var _ Codec = NoOpCompressor{}

// NewNoOpCompressor creates a new pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns a copy of the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

// Decompress returns a copy of the input.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}
