package codec

import (
	"math"

	"github.com/geobrowser/grc-20-go/model"
)

// Decimal mantissa representation tags.
const (
	mantissaI64 byte = 0x00
	mantissaBig byte = 0x01
)

// encodePropertyValue writes one property-value pair: the property index,
// the value payload, then the language reference (Text) or unit reference
// (Int64, Float64, Decimal).
func encodePropertyValue(w *writer, pv model.PropertyValue, b *dictionaryBuilder) error {
	idx, dataType, err := b.propertyRef(pv.Property)
	if err != nil {
		return err
	}
	if pv.Value == nil {
		return encodeErr(KindInvalidValue, "value", "nil value for property %s", pv.Property)
	}
	if got := pv.Value.DataType(); got != dataType {
		return encodeErr(KindPropertyDatatypeConflict, "value",
			"property %s is %s, value is %s", pv.Property, dataType, got)
	}

	w.writeUvarint(uint64(idx))
	if err := encodeValuePayload(w, pv.Value); err != nil {
		return err
	}

	return encodeValueRefs(w, pv.Value, b)
}

// encodeValuePayload writes the payload of a value, excluding the side
// references that belong to the property-value envelope.
func encodeValuePayload(w *writer, v model.Value) error {
	if err := v.Validate(); err != nil {
		return &EncodeError{Kind: KindInvalidValue, Field: "value", cause: err}
	}

	switch v := v.(type) {
	case model.Bool:
		if v {
			w.writeByte(0x01)
		} else {
			w.writeByte(0x00)
		}
	case model.Int64:
		w.writeSvarint(v.Value)
	case model.Float64:
		w.writeFloat64(v.Value)
	case model.Decimal:
		w.writeSvarint(int64(v.Exponent))
		if v.Mantissa.IsBig() {
			big := v.Mantissa.BigBytes()
			if len(big) > MaxBytesLen {
				return encodeErr(KindEncodeLimit, "decimal.mantissa", "length %d exceeds limit %d", len(big), MaxBytesLen)
			}
			w.writeByte(mantissaBig)
			w.writeBytesPrefixed(big)
		} else {
			w.writeByte(mantissaI64)
			w.writeSvarint(v.Mantissa.Int64())
		}
	case model.Text:
		if len(v.Value) > MaxStringLen {
			return encodeErr(KindEncodeLimit, "text", "length %d exceeds limit %d", len(v.Value), MaxStringLen)
		}
		w.writeString(v.Value)
	case model.Bytes:
		if len(v) > MaxBytesLen {
			return encodeErr(KindEncodeLimit, "bytes", "length %d exceeds limit %d", len(v), MaxBytesLen)
		}
		w.writeBytesPrefixed(v)
	case model.Timestamp:
		w.writeSvarint(int64(v))
	case model.Date:
		if len(v) > MaxStringLen {
			return encodeErr(KindEncodeLimit, "date", "length %d exceeds limit %d", len(v), MaxStringLen)
		}
		w.writeString(string(v))
	case model.Point:
		w.writeFloat64(v.Lat)
		w.writeFloat64(v.Lon)
	case model.Embedding:
		if v.Dims > MaxEmbeddingDims {
			return encodeErr(KindEncodeLimit, "embedding.dims", "dims %d exceeds limit %d", v.Dims, MaxEmbeddingDims)
		}
		w.writeByte(byte(v.SubType))
		w.writeUvarint(uint64(v.Dims))
		w.writeRaw(v.Data)
	default:
		return encodeErr(KindInvalidValue, "value", "unknown value type %T", v)
	}

	return nil
}

// encodeValueRefs writes the language or unit reference that rides beside
// the payload for datatypes that carry one.
func encodeValueRefs(w *writer, v model.Value, b *dictionaryBuilder) error {
	var ref uint64
	var err error

	switch v := v.(type) {
	case model.Text:
		ref, err = b.languageRef(v.Language)
	case model.Int64:
		ref, err = b.unitRef(v.Unit)
	case model.Float64:
		ref, err = b.unitRef(v.Unit)
	case model.Decimal:
		ref, err = b.unitRef(v.Unit)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	w.writeUvarint(ref)

	return nil
}

// decodePropertyValue reads one property-value pair: property index, payload
// dispatched on the dictionary datatype, then the side reference when the
// datatype carries one.
func decodePropertyValue(r *reader, d *wireDictionaries) (model.PropertyValue, error) {
	idx, err := r.readUvarint("property")
	if err != nil {
		return model.PropertyValue{}, err
	}
	entry, err := d.property(idx)
	if err != nil {
		return model.PropertyValue{}, err
	}

	value, err := decodeValuePayload(r, entry.dataType)
	if err != nil {
		return model.PropertyValue{}, err
	}

	value, err = decodeValueRefs(r, value, d)
	if err != nil {
		return model.PropertyValue{}, err
	}

	return model.PropertyValue{Property: entry.id, Value: value}, nil
}

// decodeValuePayload reads a value payload. There is no per-value type tag
// on the wire; the datatype comes from the property dictionary.
func decodeValuePayload(r *reader, dataType model.DataType) (model.Value, error) {
	switch dataType {
	case model.TypeBool:
		b, err := r.readByte("bool")
		if err != nil {
			return nil, err
		}
		switch b {
		case 0x00:
			return model.Bool(false), nil
		case 0x01:
			return model.Bool(true), nil
		default:
			return nil, decodeErr(KindInvalidBoolByte, "bool", "byte 0x%02x", b)
		}

	case model.TypeInt64:
		v, err := r.readSvarint("int64")
		if err != nil {
			return nil, err
		}

		return model.Int64{Value: v}, nil

	case model.TypeFloat64:
		v, err := r.readFloat64("float64")
		if err != nil {
			return nil, err
		}

		return model.Float64{Value: v}, nil

	case model.TypeDecimal:
		return decodeDecimal(r)

	case model.TypeText:
		v, err := r.readString(MaxStringLen, "text")
		if err != nil {
			return nil, err
		}

		return model.Text{Value: v}, nil

	case model.TypeBytes:
		v, err := r.readBytesPrefixed(MaxBytesLen, "bytes")
		if err != nil {
			return nil, err
		}

		return model.Bytes(v), nil

	case model.TypeTimestamp:
		v, err := r.readSvarint("timestamp")
		if err != nil {
			return nil, err
		}

		return model.Timestamp(v), nil

	case model.TypeDate:
		v, err := r.readString(MaxStringLen, "date")
		if err != nil {
			return nil, err
		}

		return model.Date(v), nil

	case model.TypePoint:
		return decodePoint(r)

	case model.TypeEmbedding:
		return decodeEmbedding(r)

	default:
		return nil, decodeErr(KindInvalidDataType, "data_type", "byte 0x%02x", byte(dataType))
	}
}

func decodeDecimal(r *reader) (model.Value, error) {
	exponent, err := r.readSvarint("decimal.exponent")
	if err != nil {
		return nil, err
	}
	if exponent < math.MinInt32 || exponent > math.MaxInt32 {
		return nil, decodeErr(KindMalformedValue, "decimal.exponent", "%d outside int32 range", exponent)
	}

	tag, err := r.readByte("decimal.mantissa_tag")
	if err != nil {
		return nil, err
	}

	var mantissa model.DecimalMantissa
	switch tag {
	case mantissaI64:
		v, err := r.readSvarint("decimal.mantissa")
		if err != nil {
			return nil, err
		}
		mantissa = model.MantissaFromInt64(v)
	case mantissaBig:
		raw, err := r.readBytesPrefixed(MaxBytesLen, "decimal.mantissa_bytes")
		if err != nil {
			return nil, err
		}
		mantissa = model.MantissaFromBig(raw)
	default:
		return nil, decodeErr(KindMalformedValue, "decimal.mantissa_tag", "byte 0x%02x", tag)
	}

	value := model.Decimal{Exponent: int32(exponent), Mantissa: mantissa}
	if err := value.Validate(); err != nil {
		return nil, &DecodeError{Kind: KindMalformedValue, Field: "decimal", cause: err}
	}

	return value, nil
}

func decodePoint(r *reader) (model.Value, error) {
	lat, err := r.readFloat64("point.lat")
	if err != nil {
		return nil, err
	}
	lon, err := r.readFloat64("point.lon")
	if err != nil {
		return nil, err
	}

	if lat < -90.0 || lat > 90.0 {
		return nil, decodeErr(KindPointOutOfRange, "point.lat", "%v outside [-90, +90]", lat)
	}
	if lon < -180.0 || lon > 180.0 {
		return nil, decodeErr(KindPointOutOfRange, "point.lon", "%v outside [-180, +180]", lon)
	}

	return model.Point{Lat: lat, Lon: lon}, nil
}

func decodeEmbedding(r *reader) (model.Value, error) {
	subTypeByte, err := r.readByte("embedding.sub_type")
	if err != nil {
		return nil, err
	}
	subType := model.EmbeddingSubType(subTypeByte)
	if !subType.Valid() {
		return nil, decodeErr(KindInvalidEmbeddingSubType, "embedding.sub_type", "byte 0x%02x", subTypeByte)
	}

	dims, err := r.readLen(MaxEmbeddingDims, "embedding.dims")
	if err != nil {
		return nil, err
	}

	expected := subType.BytesForDims(dims)
	if expected > MaxEmbeddingBytes {
		return nil, errLengthExceedsLimit("embedding.data", expected, MaxEmbeddingBytes)
	}
	raw, err := r.readRaw(expected, "embedding.data")
	if err != nil {
		return nil, err
	}

	data := make([]byte, expected)
	copy(data, raw)

	value := model.Embedding{SubType: subType, Dims: dims, Data: data}
	if err := value.Validate(); err != nil {
		return nil, &DecodeError{Kind: KindMalformedValue, Field: "embedding", cause: err}
	}

	return value, nil
}

// decodeValueRefs reads the language or unit reference for datatypes that
// carry one and attaches the resolved id to the value.
func decodeValueRefs(r *reader, v model.Value, d *wireDictionaries) (model.Value, error) {
	switch v := v.(type) {
	case model.Text:
		ref, err := r.readUvarint("text.language")
		if err != nil {
			return nil, err
		}
		lang, err := d.language(ref)
		if err != nil {
			return nil, err
		}
		v.Language = lang

		return v, nil

	case model.Int64:
		ref, err := r.readUvarint("int64.unit")
		if err != nil {
			return nil, err
		}
		unit, err := d.unit(ref)
		if err != nil {
			return nil, err
		}
		v.Unit = unit

		return v, nil

	case model.Float64:
		ref, err := r.readUvarint("float64.unit")
		if err != nil {
			return nil, err
		}
		unit, err := d.unit(ref)
		if err != nil {
			return nil, err
		}
		v.Unit = unit

		return v, nil

	case model.Decimal:
		ref, err := r.readUvarint("decimal.unit")
		if err != nil {
			return nil, err
		}
		unit, err := d.unit(ref)
		if err != nil {
			return nil, err
		}
		v.Unit = unit

		return v, nil

	default:
		return v, nil
	}
}

// validatePosition checks a relation position string: at most 64 ASCII
// alphanumeric characters.
func validatePosition(pos string) error {
	if len(pos) > MaxPositionLen {
		return encodeErr(KindInvalidPosition, "position", "length %d exceeds limit %d", len(pos), MaxPositionLen)
	}
	for i := 0; i < len(pos); i++ {
		c := pos[i]
		if !('0' <= c && c <= '9' || 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return encodeErr(KindInvalidPosition, "position", "character %q not alphanumeric", c)
		}
	}

	return nil
}

// decodePosition reads a position string with the same structural rule the
// encoder enforces.
func decodePosition(r *reader) (string, error) {
	pos, err := r.readString(MaxPositionLen, "position")
	if err != nil {
		return "", err
	}
	for i := 0; i < len(pos); i++ {
		c := pos[i]
		if !('0' <= c && c <= '9' || 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return "", decodeErr(KindMalformedValue, "position", "character %q not alphanumeric", c)
		}
	}

	return pos, nil
}
