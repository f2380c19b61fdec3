package pool

import (
	"io"
	"sync"
)

const (
	// EditBufferDefaultSize is the initial capacity of buffers from the pool.
	// Most edits encode well under this.
	EditBufferDefaultSize = 4 * 1024
	// EditBufferMaxThreshold is the largest buffer the pool retains. Buffers
	// that grew past it are dropped instead of pooled so one huge edit does
	// not pin memory for the life of the process.
	EditBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is a growable byte slice with an amortized growth strategy.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Reset empties the buffer but keeps the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte. The error is always nil; the signature
// satisfies io.ByteWriter.
func (bb *ByteBuffer) WriteByte(b byte) error {
	bb.B = append(bb.B, b)
	return nil
}

// Grow ensures the buffer can hold requiredBytes more bytes without
// reallocating. Small buffers grow by EditBufferDefaultSize; larger ones by
// 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := EditBufferDefaultSize
	if cap(bb.B) > 4*EditBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer. It implements io.Writer and never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the buffer contents to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

var editBufferPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(EditBufferDefaultSize)
	},
}

// GetEditBuffer returns a pooled buffer sized for edit encoding.
func GetEditBuffer() *ByteBuffer {
	bb, _ := editBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutEditBuffer returns a buffer to the pool. Oversized buffers are dropped.
func PutEditBuffer(bb *ByteBuffer) {
	if bb == nil || bb.Cap() > EditBufferMaxThreshold {
		return
	}
	editBufferPool.Put(bb)
}
