package model

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Value is a typed property value. It is a closed union: the concrete types
// are Bool, Int64, Float64, Decimal, Text, Bytes, Timestamp, Date, Point and
// Embedding, and the value codec dispatches on DataType.
type Value interface {
	// DataType returns the wire datatype of the value.
	DataType() DataType
	// Validate checks the value-level constraints (NaN, coordinate bounds,
	// decimal normalization, embedding sizing). It needs no external context.
	Validate() error
}

// PropertyValue pairs a property identifier with a value for it.
type PropertyValue struct {
	Property ID
	Value    Value
}

// Bool is a boolean value.
type Bool bool

func (Bool) DataType() DataType { return TypeBool }
func (Bool) Validate() error    { return nil }

// Int64 is a 64-bit signed integer with an optional unit.
type Int64 struct {
	Value int64
	// Unit is the unit entity id, or NilID for none.
	Unit ID
}

func (Int64) DataType() DataType { return TypeInt64 }
func (Int64) Validate() error    { return nil }

// Float64 is a 64-bit IEEE 754 float with an optional unit. NaN is not a
// representable value.
type Float64 struct {
	Value float64
	Unit  ID
}

func (Float64) DataType() DataType { return TypeFloat64 }

func (v Float64) Validate() error {
	if math.IsNaN(v.Value) {
		return fmt.Errorf("float64 value is NaN")
	}

	return nil
}

// DecimalMantissa holds the mantissa of a Decimal. Most mantissas fit in an
// int64; larger ones use minimal-length big-endian two's complement bytes.
type DecimalMantissa struct {
	small int64
	big   []byte
}

// MantissaFromInt64 builds a small mantissa.
func MantissaFromInt64(v int64) DecimalMantissa {
	return DecimalMantissa{small: v}
}

// MantissaFromBig builds an arbitrary-precision mantissa from big-endian
// two's complement bytes. The bytes must be minimal-length: no redundant
// leading 0x00 before a clear sign bit, no redundant 0xFF before a set one.
func MantissaFromBig(b []byte) DecimalMantissa {
	return DecimalMantissa{big: b}
}

// IsBig reports whether the mantissa uses the big-bytes representation.
func (m DecimalMantissa) IsBig() bool { return m.big != nil }

// Int64 returns the small mantissa value. Only meaningful when !IsBig().
func (m DecimalMantissa) Int64() int64 { return m.small }

// BigBytes returns the big-endian two's complement bytes. Only meaningful
// when IsBig().
func (m DecimalMantissa) BigBytes() []byte { return m.big }

// IsZero reports whether the mantissa is zero.
func (m DecimalMantissa) IsZero() bool {
	if m.big == nil {
		return m.small == 0
	}
	for _, b := range m.big {
		if b != 0 {
			return false
		}
	}

	return true
}

// minimal reports whether a big mantissa has no redundant sign-extension
// prefix byte.
func (m DecimalMantissa) minimal() bool {
	if len(m.big) < 2 {
		return true
	}
	first, second := m.big[0], m.big[1]
	if first == 0x00 && second&0x80 == 0 {
		return false
	}
	if first == 0xFF && second&0x80 != 0 {
		return false
	}

	return true
}

// Decimal is an arbitrary-precision decimal: value = mantissa * 10^exponent,
// with an optional unit.
//
// Decimals are normalized: a zero mantissa requires exponent 0, and a
// non-zero small mantissa must not carry trailing decimal zeros.
type Decimal struct {
	Exponent int32
	Mantissa DecimalMantissa
	Unit     ID
}

func (Decimal) DataType() DataType { return TypeDecimal }

func (v Decimal) Validate() error {
	if v.Mantissa.IsZero() {
		if v.Exponent != 0 {
			return fmt.Errorf("zero decimal must have exponent 0, got %d", v.Exponent)
		}

		return nil
	}
	if !v.Mantissa.IsBig() && v.Mantissa.Int64()%10 == 0 {
		return fmt.Errorf("decimal mantissa %d has trailing zeros", v.Mantissa.Int64())
	}
	if v.Mantissa.IsBig() && !v.Mantissa.minimal() {
		return fmt.Errorf("decimal big mantissa is not minimal-length")
	}

	return nil
}

// Text is a UTF-8 string with an optional language.
type Text struct {
	Value string
	// Language is the language entity id, or NilID for the default language.
	Language ID
}

func (Text) DataType() DataType { return TypeText }
func (Text) Validate() error    { return nil }

// Bytes is an opaque byte array.
type Bytes []byte

func (Bytes) DataType() DataType { return TypeBytes }
func (Bytes) Validate() error    { return nil }

// Timestamp is microseconds since the Unix epoch.
type Timestamp int64

func (Timestamp) DataType() DataType { return TypeTimestamp }
func (Timestamp) Validate() error    { return nil }

// Date is an ISO 8601 date string of variable precision ("2024", "2024-03",
// "-0044-03-15"). The codec preserves it verbatim and does not validate the
// calendar format.
type Date string

func (Date) DataType() DataType { return TypeDate }
func (Date) Validate() error    { return nil }

// Point is a WGS84 geographic coordinate.
type Point struct {
	// Lat is the latitude in degrees, in [-90, +90].
	Lat float64
	// Lon is the longitude in degrees, in [-180, +180].
	Lon float64
}

func (Point) DataType() DataType { return TypePoint }

func (v Point) Validate() error {
	if math.IsNaN(v.Lat) || math.IsNaN(v.Lon) {
		return fmt.Errorf("point coordinate is NaN")
	}
	if v.Lat < -90.0 || v.Lat > 90.0 {
		return fmt.Errorf("latitude %v out of range [-90, +90]", v.Lat)
	}
	if v.Lon < -180.0 || v.Lon > 180.0 {
		return fmt.Errorf("longitude %v out of range [-180, +180]", v.Lon)
	}

	return nil
}

// Embedding is a dense vector. Data holds the raw payload in the layout
// determined by SubType; its length must equal SubType.BytesForDims(Dims).
type Embedding struct {
	SubType EmbeddingSubType
	Dims    int
	Data    []byte
}

func (Embedding) DataType() DataType { return TypeEmbedding }

func (v Embedding) Validate() error {
	if !v.SubType.Valid() {
		return fmt.Errorf("invalid embedding sub-type %d", v.SubType)
	}
	if expected := v.SubType.BytesForDims(v.Dims); len(v.Data) != expected {
		return fmt.Errorf("embedding data length %d does not match dims %d (want %d bytes)",
			len(v.Data), v.Dims, expected)
	}

	switch v.SubType {
	case EmbeddingFloat32:
		for i := 0; i+4 <= len(v.Data); i += 4 {
			f := math.Float32frombits(binary.LittleEndian.Uint32(v.Data[i:]))
			if f != f {
				return fmt.Errorf("embedding dimension %d is NaN", i/4)
			}
		}
	case EmbeddingBinary:
		if v.Dims%8 != 0 && len(v.Data) > 0 {
			unused := 8 - v.Dims%8
			mask := byte(0xFF) << (8 - unused)
			if v.Data[len(v.Data)-1]&mask != 0 {
				return fmt.Errorf("binary embedding has non-zero padding bits")
			}
		}
	}

	return nil
}
