package model

// DataType identifies the payload type of a property value. The byte values
// are stable on the wire: a property's datatype travels once in the property
// dictionary, and the value decoder dispatches on it.
type DataType uint8

const (
	TypeBool      DataType = 0x1
	TypeInt64     DataType = 0x2
	TypeFloat64   DataType = 0x3
	TypeDecimal   DataType = 0x4
	TypeText      DataType = 0x5
	TypeBytes     DataType = 0x6
	TypeTimestamp DataType = 0x7
	TypeDate      DataType = 0x8
	TypePoint     DataType = 0x9
	TypeEmbedding DataType = 0xA
)

// Valid reports whether the datatype is a known wire value.
func (d DataType) Valid() bool {
	return d >= TypeBool && d <= TypeEmbedding
}

// HasLanguage reports whether values of this datatype carry a language
// reference beside the payload.
func (d DataType) HasLanguage() bool {
	return d == TypeText
}

// HasUnit reports whether values of this datatype carry a unit reference
// beside the payload.
func (d DataType) HasUnit() bool {
	return d == TypeInt64 || d == TypeFloat64 || d == TypeDecimal
}

func (d DataType) String() string {
	switch d {
	case TypeBool:
		return "Bool"
	case TypeInt64:
		return "Int64"
	case TypeFloat64:
		return "Float64"
	case TypeDecimal:
		return "Decimal"
	case TypeText:
		return "Text"
	case TypeBytes:
		return "Bytes"
	case TypeTimestamp:
		return "Timestamp"
	case TypeDate:
		return "Date"
	case TypePoint:
		return "Point"
	case TypeEmbedding:
		return "Embedding"
	default:
		return "Unknown"
	}
}

// EmbeddingSubType identifies the element representation of an embedding
// payload. The byte values are stable on the wire.
type EmbeddingSubType uint8

const (
	// EmbeddingFloat32 stores each dimension as a 32-bit IEEE 754 float,
	// little-endian (4 bytes per dimension).
	EmbeddingFloat32 EmbeddingSubType = 0
	// EmbeddingInt8 stores each dimension as a signed 8-bit integer.
	EmbeddingInt8 EmbeddingSubType = 1
	// EmbeddingBinary stores dimensions bit-packed, LSB-first. Padding bits
	// in the final byte must be zero.
	EmbeddingBinary EmbeddingSubType = 2
)

// Valid reports whether the sub-type is a known wire value.
func (s EmbeddingSubType) Valid() bool {
	return s <= EmbeddingBinary
}

// BytesForDims returns the exact payload size in bytes for the given number
// of dimensions.
func (s EmbeddingSubType) BytesForDims(dims int) int {
	switch s {
	case EmbeddingFloat32:
		return dims * 4
	case EmbeddingInt8:
		return dims
	case EmbeddingBinary:
		return (dims + 7) / 8
	default:
		return 0
	}
}

func (s EmbeddingSubType) String() string {
	switch s {
	case EmbeddingFloat32:
		return "Float32"
	case EmbeddingInt8:
		return "Int8"
	case EmbeddingBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}
