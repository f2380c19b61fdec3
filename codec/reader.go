package codec

import (
	"errors"
	"math"
	"unicode/utf8"

	"github.com/geobrowser/grc-20-go/encoding"
	"github.com/geobrowser/grc-20-go/endian"
	"github.com/geobrowser/grc-20-go/model"
)

// reader wraps an input slice with a cursor. Every read either advances the
// cursor or returns a *DecodeError; it never panics on any input. Raw reads
// return subslices of the input — callers copy when they retain bytes.
type reader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

func newReader(data []byte) *reader {
	return &reader{data: data, engine: endian.GetLittleEndianEngine()}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) rest() []byte {
	return r.data[r.pos:]
}

func (r *reader) readByte(field string) (byte, error) {
	if r.remaining() < 1 {
		return 0, errUnexpectedEOF(field)
	}
	b := r.data[r.pos]
	r.pos++

	return b, nil
}

func (r *reader) readRaw(n int, field string) ([]byte, error) {
	if r.remaining() < n {
		return nil, errUnexpectedEOF(field)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n

	return out, nil
}

func (r *reader) readUvarint(field string) (uint64, error) {
	v, n, err := encoding.Uvarint(r.rest())
	if err != nil {
		return 0, varintError(err, field)
	}
	r.pos += n

	return v, nil
}

func (r *reader) readSvarint(field string) (int64, error) {
	v, n, err := encoding.Svarint(r.rest())
	if err != nil {
		return 0, varintError(err, field)
	}
	r.pos += n

	return v, nil
}

func varintError(err error, field string) *DecodeError {
	switch {
	case errors.Is(err, encoding.ErrVarintTruncated):
		return errUnexpectedEOF(field)
	case errors.Is(err, encoding.ErrVarintTooLong):
		return &DecodeError{Kind: KindVarintTooLong, Field: field}
	case errors.Is(err, encoding.ErrVarintOverflow):
		return &DecodeError{Kind: KindVarintOverflow, Field: field}
	case errors.Is(err, encoding.ErrVarintNotMinimal):
		return &DecodeError{Kind: KindVarintNotMinimal, Field: field}
	default:
		return &DecodeError{Kind: KindMalformedValue, Field: field, cause: err}
	}
}

// readLen reads a varint count and checks it against limit before the caller
// allocates anything sized by it.
func (r *reader) readLen(limit int, field string) (int, error) {
	v, err := r.readUvarint(field)
	if err != nil {
		return 0, err
	}
	if v > uint64(limit) {
		return 0, errLengthExceedsLimit(field, int(min(v, math.MaxInt64)), limit)
	}

	return int(v), nil
}

func (r *reader) readString(limit int, field string) (string, error) {
	n, err := r.readLen(limit, field)
	if err != nil {
		return "", err
	}
	raw, err := r.readRaw(n, field)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", &DecodeError{Kind: KindInvalidUTF8, Field: field}
	}

	return string(raw), nil
}

func (r *reader) readBytesPrefixed(limit int, field string) ([]byte, error) {
	n, err := r.readLen(limit, field)
	if err != nil {
		return nil, err
	}
	raw, err := r.readRaw(n, field)
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, raw)

	return out, nil
}

func (r *reader) readFloat64(field string) (float64, error) {
	raw, err := r.readRaw(8, field)
	if err != nil {
		return 0, err
	}
	f := math.Float64frombits(r.engine.Uint64(raw))
	if math.IsNaN(f) {
		return 0, &DecodeError{Kind: KindNaNNotAllowed, Field: field}
	}

	return f, nil
}

func (r *reader) readID(field string) (model.ID, error) {
	raw, err := r.readRaw(16, field)
	if err != nil {
		return model.NilID, err
	}

	var id model.ID
	copy(id[:], raw)

	return id, nil
}

// readIDList reads a varint count bounded by limit, then that many ids.
func (r *reader) readIDList(limit int, field string) ([]model.ID, error) {
	n, err := r.readLen(limit, field)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	// A count the remaining bytes cannot satisfy is rejected before the
	// slice allocation it would size.
	if r.remaining() < n*16 {
		return nil, errUnexpectedEOF(field)
	}

	ids := make([]model.ID, n)
	for i := range ids {
		ids[i], err = r.readID(field)
		if err != nil {
			return nil, err
		}
	}

	return ids, nil
}
