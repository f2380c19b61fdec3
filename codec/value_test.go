package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20-go/encoding"
	"github.com/geobrowser/grc-20-go/model"
)

// payloadRoundtrip encodes a value payload and decodes it back under the
// value's own datatype. Side references are exercised by the edit tests.
func payloadRoundtrip(t *testing.T, v model.Value) model.Value {
	t.Helper()

	w := newWriter()
	require.NoError(t, encodeValuePayload(w, v))

	r := newReader(w.finish())
	decoded, err := decodeValuePayload(r, v.DataType())
	require.NoError(t, err)
	require.Equal(t, 0, r.remaining())

	return decoded
}

func TestBoolPayload(t *testing.T) {
	for _, v := range []model.Bool{true, false} {
		require.Equal(t, model.Value(v), payloadRoundtrip(t, v))
	}

	w := newWriter()
	require.NoError(t, encodeValuePayload(w, model.Bool(true)))
	require.Equal(t, []byte{0x01}, w.finish())
}

func TestInt64Payload(t *testing.T) {
	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		decoded := payloadRoundtrip(t, model.Int64{Value: v})
		require.Equal(t, model.Value(model.Int64{Value: v}), decoded)
	}
}

func TestFloat64Payload(t *testing.T) {
	for _, v := range []float64{0, 1.5, -1.5, math.Inf(1), math.Inf(-1), 3.14159} {
		decoded := payloadRoundtrip(t, model.Float64{Value: v})
		require.Equal(t, model.Value(model.Float64{Value: v}), decoded)
	}
}

func TestFloat64NegativeZeroNormalized(t *testing.T) {
	w1 := newWriter()
	require.NoError(t, encodeValuePayload(w1, model.Float64{Value: math.Copysign(0, -1)}))
	w2 := newWriter()
	require.NoError(t, encodeValuePayload(w2, model.Float64{Value: 0}))
	require.Equal(t, w2.finish(), w1.finish())
}

func TestTimestampPayload(t *testing.T) {
	for _, v := range []model.Timestamp{0, 1234567890123456, -62135596800000000} {
		require.Equal(t, model.Value(v), payloadRoundtrip(t, v))
	}
}

func TestDatePayloadPreservesBCE(t *testing.T) {
	for _, v := range []model.Date{"", "2024", "2024-03", "2024-03-15", "-0044-03-15"} {
		require.Equal(t, model.Value(v), payloadRoundtrip(t, v))
	}
}

func TestDecimalPayloadBothMantissas(t *testing.T) {
	// Small mantissa at the i64 boundary.
	small := model.Decimal{Exponent: -9, Mantissa: model.MantissaFromInt64(math.MaxInt64)}
	require.Equal(t, model.Value(small), payloadRoundtrip(t, small))

	smallMin := model.Decimal{Exponent: 2, Mantissa: model.MantissaFromInt64(math.MinInt64 + 1)}
	require.Equal(t, model.Value(smallMin), payloadRoundtrip(t, smallMin))

	// A magnitude beyond the i64 range forces the big-bytes path:
	// 0x00FF... would not be minimal, so a real >64-bit magnitude is used.
	big := model.Decimal{
		Exponent: 4,
		Mantissa: model.MantissaFromBig([]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03}),
	}
	require.Equal(t, model.Value(big), payloadRoundtrip(t, big))
}

func TestDecimalNotNormalizedRejected(t *testing.T) {
	w := newWriter()
	err := encodeValuePayload(w, model.Decimal{Exponent: -2, Mantissa: model.MantissaFromInt64(1230)})
	w.discard()
	require.ErrorIs(t, err, &EncodeError{Kind: KindInvalidValue})

	// The decoder enforces the same rule on crafted bytes.
	var buf []byte
	buf = encoding.AppendSvarint(buf, -2)      // exponent
	buf = append(buf, mantissaI64)             // tag
	buf = encoding.AppendSvarint(buf, 1230)    // trailing-zero mantissa
	_, derr := decodeValuePayload(newReader(buf), model.TypeDecimal)
	require.ErrorIs(t, derr, &DecodeError{Kind: KindMalformedValue})
}

func TestDecimalBigMantissaNotMinimalRejected(t *testing.T) {
	var buf []byte
	buf = encoding.AppendSvarint(buf, 0)
	buf = append(buf, mantissaBig)
	buf = encoding.AppendUvarint(buf, 2)
	buf = append(buf, 0x00, 0x7F) // redundant sign byte

	_, err := decodeValuePayload(newReader(buf), model.TypeDecimal)
	require.ErrorIs(t, err, &DecodeError{Kind: KindMalformedValue})
}

func TestDecimalUnknownMantissaTag(t *testing.T) {
	var buf []byte
	buf = encoding.AppendSvarint(buf, 0)
	buf = append(buf, 0x02)

	_, err := decodeValuePayload(newReader(buf), model.TypeDecimal)
	require.ErrorIs(t, err, &DecodeError{Kind: KindMalformedValue})
}

func TestTextPayloadUTF8Cases(t *testing.T) {
	for _, s := range []string{"", "a", "héllo", "日本語", "\U0001F600"} {
		decoded := payloadRoundtrip(t, model.Text{Value: s})
		require.Equal(t, model.Value(model.Text{Value: s}), decoded)
	}

	// Surrogate-forming bytes are invalid UTF-8.
	var buf []byte
	buf = encoding.AppendUvarint(buf, 3)
	buf = append(buf, 0xED, 0xA0, 0x80)
	_, err := decodeValuePayload(newReader(buf), model.TypeText)
	require.ErrorIs(t, err, &DecodeError{Kind: KindInvalidUTF8})
}

func TestBytesPayload(t *testing.T) {
	v := model.Bytes{0x00, 0xFF, 0x42}
	require.Equal(t, model.Value(v), payloadRoundtrip(t, v))
}

func TestEmbeddingPayloadSubTypes(t *testing.T) {
	f32 := model.Embedding{SubType: model.EmbeddingFloat32, Dims: 2, Data: make([]byte, 8)}
	require.Equal(t, model.Value(f32), payloadRoundtrip(t, f32))

	i8 := model.Embedding{SubType: model.EmbeddingInt8, Dims: 3, Data: []byte{0x01, 0xFF, 0x7F}}
	require.Equal(t, model.Value(i8), payloadRoundtrip(t, i8))

	bin := model.Embedding{SubType: model.EmbeddingBinary, Dims: 12, Data: []byte{0xFF, 0x0F}}
	require.Equal(t, model.Value(bin), payloadRoundtrip(t, bin))
}

func TestEmbeddingInvalidSubType(t *testing.T) {
	_, err := decodeValuePayload(newReader([]byte{0x03, 0x00}), model.TypeEmbedding)
	require.ErrorIs(t, err, &DecodeError{Kind: KindInvalidEmbeddingSubType})
}

func TestEmbeddingDimsOverLimit(t *testing.T) {
	buf := []byte{byte(model.EmbeddingFloat32)}
	buf = encoding.AppendUvarint(buf, MaxEmbeddingDims+1)

	_, err := decodeValuePayload(newReader(buf), model.TypeEmbedding)
	require.ErrorIs(t, err, &DecodeError{Kind: KindLengthExceedsLimit})
}

func TestEmbeddingSizeMismatchRejected(t *testing.T) {
	w := newWriter()
	err := encodeValuePayload(w, model.Embedding{SubType: model.EmbeddingFloat32, Dims: 4, Data: make([]byte, 12)})
	w.discard()
	require.ErrorIs(t, err, &EncodeError{Kind: KindInvalidValue})
}

func TestEmbeddingBinaryPaddingBitsRejected(t *testing.T) {
	buf := []byte{byte(model.EmbeddingBinary)}
	buf = encoding.AppendUvarint(buf, 4)
	buf = append(buf, 0xFF) // high nibble is padding, must be zero

	_, err := decodeValuePayload(newReader(buf), model.TypeEmbedding)
	require.ErrorIs(t, err, &DecodeError{Kind: KindMalformedValue})
}

func TestPositionValidation(t *testing.T) {
	require.NoError(t, validatePosition(""))
	require.NoError(t, validatePosition("a0Z9"))
	require.Error(t, validatePosition("has space"))
	require.Error(t, validatePosition("dash-ed"))

	long := make([]byte, MaxPositionLen+1)
	for i := range long {
		long[i] = 'a'
	}
	require.Error(t, validatePosition(string(long)))
}
