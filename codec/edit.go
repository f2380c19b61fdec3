// Package codec implements the GRC-20 binary wire format for edits: the
// encoder with its dictionary-interning pass, the hardened decoder, and the
// transparent zstd compression frame.
//
// Encode and decode are pure functions over owned buffers. They share no
// state, never suspend, and are safe to call concurrently on independent
// edits.
package codec

import (
	"bytes"
	"sort"

	"github.com/geobrowser/grc-20-go/compress"
	"github.com/geobrowser/grc-20-go/internal/options"
	"github.com/geobrowser/grc-20-go/model"
)

type encoderConfig struct {
	canonical bool
	compress  bool
	level     int
}

// EncodeOption configures EncodeEdit.
type EncodeOption = options.Option[*encoderConfig]

// WithCanonical makes the encoder deterministic: dictionaries are sorted
// into lexicographic id order and variable-set entries within each op are
// sorted by property id. Equal edits then produce byte-identical output,
// suitable for content addressing. Op order is author-defined and preserved
// in both modes.
func WithCanonical() EncodeOption {
	return options.NoError(func(c *encoderConfig) {
		c.canonical = true
	})
}

// WithCompression wraps the output in the zstd compression frame at the
// default level.
func WithCompression() EncodeOption {
	return options.NoError(func(c *encoderConfig) {
		c.compress = true
		if c.level == 0 {
			c.level = compress.DefaultZstdLevel
		}
	})
}

// WithCompressionLevel wraps the output in the zstd compression frame at the
// given level (1 fastest to 22 strongest).
func WithCompressionLevel(level int) EncodeOption {
	return options.New(func(c *encoderConfig) error {
		if level < 1 || level > 22 {
			return encodeErr(KindCompressionFailed, "level", "zstd level %d outside [1, 22]", level)
		}
		c.compress = true
		c.level = level

		return nil
	})
}

// EncodeEdit encodes an edit to its binary form.
//
// Parameters:
//   - edit: The edit to encode
//   - opts: Optional WithCanonical, WithCompression, WithCompressionLevel
//
// Returns:
//   - []byte: Encoded edit, owned by the caller
//   - error: *EncodeError describing the first invalid field
func EncodeEdit(edit *model.Edit, opts ...EncodeOption) ([]byte, error) {
	var cfg encoderConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	encoded, err := encodeUncompressed(edit, cfg.canonical)
	if err != nil {
		return nil, err
	}
	if !cfg.compress {
		return encoded, nil
	}

	return encodeCompressedFrame(encoded, cfg.level)
}

// EncodeEditCanonical encodes an edit deterministically; equal edits yield
// byte-identical output.
func EncodeEditCanonical(edit *model.Edit) ([]byte, error) {
	return EncodeEdit(edit, WithCanonical())
}

// EncodeEditCompressed encodes an edit and wraps it in the zstd compression
// frame at the given level.
func EncodeEditCompressed(edit *model.Edit, level int) ([]byte, error) {
	return EncodeEdit(edit, WithCompressionLevel(level))
}

func encodeUncompressed(edit *model.Edit, canonical bool) ([]byte, error) {
	if len(edit.Name) > MaxStringLen {
		return nil, encodeErr(KindEncodeLimit, "name", "length %d exceeds limit %d", len(edit.Name), MaxStringLen)
	}
	if len(edit.Authors) > MaxAuthors {
		return nil, encodeErr(KindEncodeLimit, "authors", "count %d exceeds limit %d", len(edit.Authors), MaxAuthors)
	}
	if len(edit.Ops) > MaxOpsPerEdit {
		return nil, encodeErr(KindEncodeLimit, "ops", "count %d exceeds limit %d", len(edit.Ops), MaxOpsPerEdit)
	}

	dicts, err := collectDictionaries(edit)
	if err != nil {
		return nil, err
	}
	if canonical {
		dicts.canonicalize()
	}
	for _, table := range []struct {
		name string
		size int
	}{
		{"properties", dicts.properties.len()},
		{"relation_types", dicts.relationTypes.len()},
		{"languages", dicts.languages.len()},
		{"units", dicts.units.len()},
		{"objects", dicts.objects.len()},
	} {
		if table.size > MaxDictSize {
			return nil, encodeErr(KindEncodeLimit, table.name, "size %d exceeds limit %d", table.size, MaxDictSize)
		}
	}

	w := newWriter()
	w.writeRaw(magicUncompressed)
	w.writeByte(FormatVersion)

	w.writeID(edit.ID)
	w.writeString(edit.Name)

	authors := edit.Authors
	if canonical && len(authors) > 1 {
		authors = make([]model.ID, len(edit.Authors))
		copy(authors, edit.Authors)
		sort.Slice(authors, func(i, j int) bool {
			return authors[i].Compare(authors[j]) < 0
		})
	}
	w.writeIDList(authors)
	w.writeSvarint(edit.CreatedAt)

	w.writeUvarint(uint64(dicts.properties.len()))
	for _, entry := range dicts.properties.entries {
		w.writeID(entry.id)
		w.writeByte(byte(entry.dataType))
	}
	w.writeIDList(dicts.relationTypes.ids)
	w.writeIDList(dicts.languages.ids)
	w.writeIDList(dicts.units.ids)
	w.writeIDList(dicts.objects.ids)

	w.writeUvarint(uint64(len(edit.Ops)))
	for _, op := range edit.Ops {
		if err := encodeOp(w, op, dicts, canonical); err != nil {
			w.discard()
			return nil, err
		}
	}

	return w.finish(), nil
}

func encodeCompressedFrame(encoded []byte, level int) ([]byte, error) {
	zc := compress.NewZstdCompressorLevel(level)
	compressed, err := zc.Compress(encoded)
	if err != nil {
		return nil, &EncodeError{Kind: KindCompressionFailed, Field: "zstd", cause: err}
	}

	w := newWriter()
	w.writeRaw(magicCompressed)
	w.writeUvarint(uint64(len(encoded)))
	w.writeRaw(compressed)

	return w.finish(), nil
}

// collectDictionaries builds the five wire dictionaries in one walk over the
// edit. A first sub-pass fixes each property's datatype from its values and
// CreateProperty declarations (conflicts are encode errors); a second
// registers every reference in op order, which defines the non-canonical
// dictionary insertion order.
func collectDictionaries(edit *model.Edit) (*dictionaryBuilder, error) {
	types := make(map[model.ID]model.DataType)

	recordType := func(id model.ID, dataType model.DataType) error {
		if existing, ok := types[id]; ok {
			if existing != dataType {
				return encodeErr(KindPropertyDatatypeConflict, "properties",
					"property %s used as both %s and %s", id, existing, dataType)
			}

			return nil
		}
		types[id] = dataType

		return nil
	}

	recordValues := func(values []model.PropertyValue) error {
		for _, pv := range values {
			if pv.Value == nil {
				return encodeErr(KindInvalidValue, "value", "nil value for property %s", pv.Property)
			}
			if err := recordType(pv.Property, pv.Value.DataType()); err != nil {
				return err
			}
		}

		return nil
	}

	for _, op := range edit.Ops {
		switch op := op.(type) {
		case model.CreateEntity:
			if err := recordValues(op.Values); err != nil {
				return nil, err
			}
		case model.UpdateEntity:
			if err := recordValues(op.Set); err != nil {
				return nil, err
			}
		case model.CreateProperty:
			if err := recordType(op.ID, op.DataType); err != nil {
				return nil, err
			}
		}
	}

	b := &dictionaryBuilder{}

	addValues := func(values []model.PropertyValue) error {
		for _, pv := range values {
			if _, err := b.addProperty(pv.Property, types[pv.Property]); err != nil {
				return err
			}
			switch v := pv.Value.(type) {
			case model.Text:
				b.addLanguage(v.Language)
			case model.Int64:
				b.addUnit(v.Unit)
			case model.Float64:
				b.addUnit(v.Unit)
			case model.Decimal:
				b.addUnit(v.Unit)
			}
		}

		return nil
	}

	for _, op := range edit.Ops {
		switch op := op.(type) {
		case model.CreateEntity:
			b.addObject(op.ID)
			if err := addValues(op.Values); err != nil {
				return nil, err
			}

		case model.UpdateEntity:
			b.addObject(op.ID)
			if err := addValues(op.Set); err != nil {
				return nil, err
			}
			for _, u := range op.Unset {
				if _, err := b.addProperty(u.Property, unsetDataType(u, types)); err != nil {
					return nil, err
				}
				b.addLanguage(u.Language)
				b.addUnit(u.Unit)
			}

		case model.DeleteEntity:
			b.addObject(op.ID)
		case model.RestoreEntity:
			b.addObject(op.ID)

		case model.CreateRelation:
			if !op.Unique {
				b.addObject(op.ID)
			}
			b.addRelationType(op.Type)
			b.addObject(op.From)
			b.addObject(op.To)
			for _, id := range []model.ID{op.Entity, op.FromSpace, op.FromVersion, op.ToSpace, op.ToVersion} {
				if !id.IsNil() {
					b.addObject(id)
				}
			}

		case model.UpdateRelation:
			b.addObject(op.ID)
			if !op.FromVersion.IsNil() {
				b.addObject(op.FromVersion)
			}
			if !op.ToVersion.IsNil() {
				b.addObject(op.ToVersion)
			}

		case model.DeleteRelation:
			b.addObject(op.ID)
		case model.RestoreRelation:
			b.addObject(op.ID)

		case model.CreateProperty:
			// Id travels inline with the op; no dictionary entry unless a
			// value elsewhere references the property.
		}
	}

	return b, nil
}

// unsetDataType resolves the dictionary datatype for a property that may
// only ever appear in unset entries: the established type wins, otherwise
// the side reference implies Text or Int64, otherwise Bool (the cheapest
// entry with no side reference).
func unsetDataType(u model.Unset, types map[model.ID]model.DataType) model.DataType {
	if dt, ok := types[u.Property]; ok {
		return dt
	}
	if !u.Language.IsNil() {
		return model.TypeText
	}
	if !u.Unit.IsNil() {
		return model.TypeInt64
	}

	return model.TypeBool
}

// IsCompressed reports whether data starts with the compressed-frame magic.
func IsCompressed(data []byte) bool {
	return len(data) >= len(magicCompressed) && bytes.Equal(data[:len(magicCompressed)], magicCompressed)
}

// DecodeEdit decodes an edit from its binary form, auto-detecting the
// compression frame. It returns either a fully decoded edit or a
// *DecodeError; it never returns a partial edit, and it never panics on any
// input.
//
// Parameters:
//   - data: Encoded edit, compressed or not
//
// Returns:
//   - *model.Edit: Freshly materialised edit, independent of data
//   - error: *DecodeError describing the first structural fault
func DecodeEdit(data []byte) (*model.Edit, error) {
	if len(data) < len(magicUncompressed) {
		return nil, errUnexpectedEOF("magic")
	}

	if IsCompressed(data) {
		decompressed, err := decompressFrame(data[len(magicCompressed):])
		if err != nil {
			return nil, err
		}

		return decodeUncompressed(decompressed)
	}

	if !bytes.Equal(data[:len(magicUncompressed)], magicUncompressed) {
		return nil, decodeErr(KindInvalidMagic, "magic", "% x", data[:len(magicUncompressed)])
	}
	if len(data) > MaxEditSize {
		return nil, errLengthExceedsLimit("edit", len(data), MaxEditSize)
	}

	return decodeUncompressed(data)
}

// decompressFrame handles the body of a GRC2Z frame: the declared
// uncompressed size followed by raw zstd bytes. The declared size is
// bounded before decompression and must equal the actual output length.
func decompressFrame(body []byte) ([]byte, error) {
	r := newReader(body)
	declared, err := r.readLen(MaxEditSize, "uncompressed_size")
	if err != nil {
		return nil, err
	}

	zc := compress.NewZstdCompressor()
	decompressed, err := zc.Decompress(r.rest())
	if err != nil {
		return nil, &DecodeError{Kind: KindDecompressionFailed, Field: "zstd", cause: err}
	}
	if len(decompressed) != declared {
		return nil, decodeErr(KindUncompressedSizeMismatch, "uncompressed_size",
			"declared %d, actual %d", declared, len(decompressed))
	}

	return decompressed, nil
}

func decodeUncompressed(data []byte) (*model.Edit, error) {
	r := newReader(data)

	magic, err := r.readRaw(len(magicUncompressed), "magic")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, magicUncompressed) {
		return nil, decodeErr(KindInvalidMagic, "magic", "% x", magic)
	}

	version, err := r.readByte("version")
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, decodeErr(KindUnsupportedVersion, "version", "byte 0x%02x", version)
	}

	edit := &model.Edit{}
	if edit.ID, err = r.readID("edit_id"); err != nil {
		return nil, err
	}
	if edit.Name, err = r.readString(MaxStringLen, "name"); err != nil {
		return nil, err
	}
	if edit.Authors, err = r.readIDList(MaxAuthors, "authors"); err != nil {
		return nil, err
	}
	if edit.CreatedAt, err = r.readSvarint("created_at"); err != nil {
		return nil, err
	}

	dicts, err := decodeDictionaries(r)
	if err != nil {
		return nil, err
	}

	opCount, err := r.readLen(MaxOpsPerEdit, "ops")
	if err != nil {
		return nil, err
	}
	// Each op is at least two bytes, so the remaining input caps the initial
	// allocation regardless of the declared count.
	if opCount > 0 {
		edit.Ops = make([]model.Op, 0, min(opCount, r.remaining()))
	}
	for i := 0; i < opCount; i++ {
		op, err := decodeOp(r, dicts)
		if err != nil {
			return nil, err
		}
		edit.Ops = append(edit.Ops, op)
	}

	if r.remaining() != 0 {
		return nil, decodeErr(KindMalformedValue, "edit", "%d trailing bytes", r.remaining())
	}

	return edit, nil
}

func decodeDictionaries(r *reader) (*wireDictionaries, error) {
	propCount, err := r.readLen(MaxDictSize, "properties")
	if err != nil {
		return nil, err
	}
	// 17 bytes per entry; bound the allocation by the input that is actually
	// there.
	properties := make([]propertyEntry, 0, min(propCount, r.remaining()/17+1))
	for i := 0; i < propCount; i++ {
		id, err := r.readID("property_id")
		if err != nil {
			return nil, err
		}
		dtByte, err := r.readByte("data_type")
		if err != nil {
			return nil, err
		}
		dataType := model.DataType(dtByte)
		if !dataType.Valid() {
			return nil, decodeErr(KindInvalidDataType, "data_type", "byte 0x%02x", dtByte)
		}
		properties = append(properties, propertyEntry{id: id, dataType: dataType})
	}

	propertyTypes := make(map[model.ID]model.DataType, len(properties))
	for _, entry := range properties {
		if existing, ok := propertyTypes[entry.id]; ok && existing != entry.dataType {
			return nil, decodeErr(KindMalformedValue, "properties",
				"property %s listed as both %s and %s", entry.id, existing, entry.dataType)
		}
		propertyTypes[entry.id] = entry.dataType
	}

	d := &wireDictionaries{properties: properties, propertyTypes: propertyTypes}
	if d.relationTypes, err = r.readIDList(MaxDictSize, "relation_types"); err != nil {
		return nil, err
	}
	if d.languages, err = r.readIDList(MaxDictSize, "languages"); err != nil {
		return nil, err
	}
	if d.units, err = r.readIDList(MaxDictSize, "units"); err != nil {
		return nil, err
	}
	if d.objects, err = r.readIDList(MaxDictSize, "objects"); err != nil {
		return nil, err
	}

	return d, nil
}
