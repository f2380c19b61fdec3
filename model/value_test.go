package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueDataTypes(t *testing.T) {
	tests := []struct {
		value    Value
		dataType DataType
	}{
		{Bool(true), TypeBool},
		{Int64{Value: 42}, TypeInt64},
		{Float64{Value: 3.14}, TypeFloat64},
		{Decimal{Mantissa: MantissaFromInt64(1234), Exponent: -2}, TypeDecimal},
		{Text{Value: "hi"}, TypeText},
		{Bytes{1, 2, 3}, TypeBytes},
		{Timestamp(1234567890), TypeTimestamp},
		{Date("2024-03-15"), TypeDate},
		{Point{Lat: 1, Lon: 2}, TypePoint},
		{Embedding{SubType: EmbeddingInt8, Dims: 3, Data: []byte{1, 2, 3}}, TypeEmbedding},
	}
	for _, tt := range tests {
		require.Equal(t, tt.dataType, tt.value.DataType())
	}
}

func TestFloat64ValidateNaN(t *testing.T) {
	require.Error(t, Float64{Value: math.NaN()}.Validate())
	require.NoError(t, Float64{Value: math.Inf(1)}.Validate())
	require.NoError(t, Float64{Value: math.Inf(-1)}.Validate())
	require.NoError(t, Float64{Value: 42.0}.Validate())
}

func TestPointValidate(t *testing.T) {
	require.Error(t, Point{Lat: 91, Lon: 0}.Validate())
	require.Error(t, Point{Lat: -91, Lon: 0}.Validate())
	require.Error(t, Point{Lat: 0, Lon: 181}.Validate())
	require.Error(t, Point{Lat: 0, Lon: -181}.Validate())
	require.Error(t, Point{Lat: math.NaN(), Lon: 0}.Validate())
	require.NoError(t, Point{Lat: 90, Lon: 180}.Validate())
	require.NoError(t, Point{Lat: -90, Lon: -180}.Validate())
}

func TestDecimalValidate(t *testing.T) {
	// Zero must have exponent 0.
	require.Error(t, Decimal{Exponent: 1, Mantissa: MantissaFromInt64(0)}.Validate())
	require.NoError(t, Decimal{Exponent: 0, Mantissa: MantissaFromInt64(0)}.Validate())

	// Trailing zeros are not normalized.
	require.Error(t, Decimal{Exponent: -2, Mantissa: MantissaFromInt64(1230)}.Validate())
	require.NoError(t, Decimal{Exponent: -2, Mantissa: MantissaFromInt64(1234)}.Validate())

	// Big mantissa must be minimal-length two's complement.
	require.Error(t, Decimal{Mantissa: MantissaFromBig([]byte{0x00, 0x7F})}.Validate())
	require.Error(t, Decimal{Mantissa: MantissaFromBig([]byte{0xFF, 0x80})}.Validate())
	require.NoError(t, Decimal{Mantissa: MantissaFromBig([]byte{0x00, 0x80, 0x01})}.Validate())
	require.NoError(t, Decimal{Mantissa: MantissaFromBig([]byte{0x7F, 0xFF})}.Validate())
}

func TestEmbeddingBytesForDims(t *testing.T) {
	require.Equal(t, 40, EmbeddingFloat32.BytesForDims(10))
	require.Equal(t, 10, EmbeddingInt8.BytesForDims(10))
	require.Equal(t, 2, EmbeddingBinary.BytesForDims(10))
	require.Equal(t, 1, EmbeddingBinary.BytesForDims(8))
	require.Equal(t, 2, EmbeddingBinary.BytesForDims(9))
}

func TestEmbeddingValidate(t *testing.T) {
	// Length must match dims.
	require.Error(t, Embedding{SubType: EmbeddingFloat32, Dims: 4, Data: make([]byte, 15)}.Validate())
	require.NoError(t, Embedding{SubType: EmbeddingFloat32, Dims: 4, Data: make([]byte, 16)}.Validate())

	// NaN lanes are rejected.
	nanLane := make([]byte, 8)
	binary.LittleEndian.PutUint32(nanLane[4:], math.Float32bits(float32(math.NaN())))
	require.Error(t, Embedding{SubType: EmbeddingFloat32, Dims: 2, Data: nanLane}.Validate())

	// Binary embeddings require zero padding bits.
	require.Error(t, Embedding{SubType: EmbeddingBinary, Dims: 4, Data: []byte{0xFF}}.Validate())
	require.NoError(t, Embedding{SubType: EmbeddingBinary, Dims: 4, Data: []byte{0x0F}}.Validate())
	require.NoError(t, Embedding{SubType: EmbeddingBinary, Dims: 8, Data: []byte{0xFF}}.Validate())
}

func TestDataTypeSideReferences(t *testing.T) {
	require.True(t, TypeText.HasLanguage())
	require.False(t, TypeText.HasUnit())

	for _, dt := range []DataType{TypeInt64, TypeFloat64, TypeDecimal} {
		require.True(t, dt.HasUnit())
		require.False(t, dt.HasLanguage())
	}

	for _, dt := range []DataType{TypeBool, TypeBytes, TypeTimestamp, TypeDate, TypePoint, TypeEmbedding} {
		require.False(t, dt.HasUnit())
		require.False(t, dt.HasLanguage())
	}
}

func TestDataTypeValid(t *testing.T) {
	for b := byte(1); b <= 10; b++ {
		require.True(t, DataType(b).Valid())
	}
	require.False(t, DataType(0).Valid())
	require.False(t, DataType(11).Valid())
}
