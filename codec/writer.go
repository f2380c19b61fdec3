package codec

import (
	"math"

	"github.com/geobrowser/grc-20-go/encoding"
	"github.com/geobrowser/grc-20-go/endian"
	"github.com/geobrowser/grc-20-go/internal/pool"
	"github.com/geobrowser/grc-20-go/model"
)

// writer appends wire fields to a pooled byte buffer. It is infallible:
// every validity check happens in the encode paths before the write, so the
// writer itself only moves bytes.
type writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

func newWriter() *writer {
	return &writer{
		buf:    pool.GetEditBuffer(),
		engine: endian.GetLittleEndianEngine(),
	}
}

func (w *writer) len() int {
	return w.buf.Len()
}

func (w *writer) writeByte(b byte) {
	w.buf.B = append(w.buf.B, b)
}

func (w *writer) writeRaw(data []byte) {
	w.buf.MustWrite(data)
}

func (w *writer) writeUvarint(v uint64) {
	w.buf.B = encoding.AppendUvarint(w.buf.B, v)
}

func (w *writer) writeSvarint(v int64) {
	w.buf.B = encoding.AppendSvarint(w.buf.B, v)
}

func (w *writer) writeString(s string) {
	w.buf.Grow(encoding.UvarintLen(uint64(len(s))) + len(s))
	w.writeUvarint(uint64(len(s)))
	w.buf.B = append(w.buf.B, s...)
}

func (w *writer) writeBytesPrefixed(data []byte) {
	w.buf.Grow(encoding.UvarintLen(uint64(len(data))) + len(data))
	w.writeUvarint(uint64(len(data)))
	w.buf.MustWrite(data)
}

// writeFloat64 writes 8 little-endian bytes. -0.0 is normalized to +0.0 so
// equal values always produce equal bytes. Callers reject NaN first.
func (w *writer) writeFloat64(f float64) {
	if f == 0.0 {
		f = 0.0
	}
	w.buf.B = w.engine.AppendUint64(w.buf.B, math.Float64bits(f))
}

func (w *writer) writeID(id model.ID) {
	w.buf.MustWrite(id[:])
}

func (w *writer) writeIDList(ids []model.ID) {
	w.writeUvarint(uint64(len(ids)))
	for _, id := range ids {
		w.writeID(id)
	}
}

// discard recycles the internal buffer without producing output.
func (w *writer) discard() {
	pool.PutEditBuffer(w.buf)
	w.buf = nil
}

// finish returns the encoded bytes as a fresh slice owned by the caller and
// recycles the internal buffer.
func (w *writer) finish() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	pool.PutEditBuffer(w.buf)
	w.buf = nil

	return out
}
