package codec

import (
	"sort"

	"github.com/geobrowser/grc-20-go/model"
)

// Operation type tags. Stable on the wire.
const (
	opCreateEntity    byte = 0x01
	opUpdateEntity    byte = 0x02
	opDeleteEntity    byte = 0x03
	opRestoreEntity   byte = 0x04
	opCreateRelation  byte = 0x05
	opUpdateRelation  byte = 0x06
	opDeleteRelation  byte = 0x07
	opRestoreRelation byte = 0x08
	opCreateProperty  byte = 0x09
)

// CreateRelation id modes.
const (
	relationModeUnique byte = 0x00
	relationModeMany   byte = 0x01
)

// CreateRelation presence mask bits.
const (
	crMaskPosition    byte = 1 << 0
	crMaskEntity      byte = 1 << 1
	crMaskFromSpace   byte = 1 << 2
	crMaskFromVersion byte = 1 << 3
	crMaskToSpace     byte = 1 << 4
	crMaskToVersion   byte = 1 << 5
	crMaskUnused      byte = 0xC0
)

// UpdateRelation presence mask bits. Space pins are immutable after create
// and have no update bits.
const (
	urMaskPosition         byte = 1 << 0
	urMaskFromVersion      byte = 1 << 1
	urMaskToVersion        byte = 1 << 2
	urMaskUnsetPosition    byte = 1 << 3
	urMaskUnsetFromVersion byte = 1 << 4
	urMaskUnsetToVersion   byte = 1 << 5
	urMaskUnused           byte = 0xC0
)

func encodeOp(w *writer, op model.Op, b *dictionaryBuilder, canonical bool) error {
	switch op := op.(type) {
	case model.CreateEntity:
		return encodeCreateEntity(w, op, b, canonical)
	case model.UpdateEntity:
		return encodeUpdateEntity(w, op, b, canonical)
	case model.DeleteEntity:
		return encodeObjectOp(w, opDeleteEntity, op.ID, b)
	case model.RestoreEntity:
		return encodeObjectOp(w, opRestoreEntity, op.ID, b)
	case model.CreateRelation:
		return encodeCreateRelation(w, op, b)
	case model.UpdateRelation:
		return encodeUpdateRelation(w, op, b)
	case model.DeleteRelation:
		return encodeObjectOp(w, opDeleteRelation, op.ID, b)
	case model.RestoreRelation:
		return encodeObjectOp(w, opRestoreRelation, op.ID, b)
	case model.CreateProperty:
		return encodeCreateProperty(w, op)
	default:
		return encodeErr(KindInvalidValue, "op", "unknown op type %T", op)
	}
}

func encodeObjectOp(w *writer, tag byte, id model.ID, b *dictionaryBuilder) error {
	idx, err := b.objectRef(id)
	if err != nil {
		return err
	}
	w.writeByte(tag)
	w.writeUvarint(uint64(idx))

	return nil
}

// sortedValues returns the list ordered by property id when canonical mode
// is on, leaving the caller's slice untouched.
func sortedValues(values []model.PropertyValue, canonical bool) []model.PropertyValue {
	if !canonical || len(values) < 2 {
		return values
	}

	out := make([]model.PropertyValue, len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Property.Compare(out[j].Property) < 0
	})

	return out
}

func sortedUnsets(unsets []model.Unset, canonical bool) []model.Unset {
	if !canonical || len(unsets) < 2 {
		return unsets
	}

	out := make([]model.Unset, len(unsets))
	copy(out, unsets)
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Property.Compare(out[j].Property); c != 0 {
			return c < 0
		}
		if c := out[i].Language.Compare(out[j].Language); c != 0 {
			return c < 0
		}

		return out[i].Unit.Compare(out[j].Unit) < 0
	})

	return out
}

func encodeCreateEntity(w *writer, op model.CreateEntity, b *dictionaryBuilder, canonical bool) error {
	if len(op.Values) > MaxValuesPerEntity {
		return encodeErr(KindEncodeLimit, "values", "count %d exceeds limit %d", len(op.Values), MaxValuesPerEntity)
	}
	idx, err := b.objectRef(op.ID)
	if err != nil {
		return err
	}

	w.writeByte(opCreateEntity)
	w.writeUvarint(uint64(idx))
	w.writeUvarint(uint64(len(op.Values)))
	for _, pv := range sortedValues(op.Values, canonical) {
		if err := encodePropertyValue(w, pv, b); err != nil {
			return err
		}
	}

	return nil
}

func encodeUpdateEntity(w *writer, op model.UpdateEntity, b *dictionaryBuilder, canonical bool) error {
	if len(op.Set) > MaxValuesPerEntity {
		return encodeErr(KindEncodeLimit, "set", "count %d exceeds limit %d", len(op.Set), MaxValuesPerEntity)
	}
	if len(op.Unset) > MaxValuesPerEntity {
		return encodeErr(KindEncodeLimit, "unset", "count %d exceeds limit %d", len(op.Unset), MaxValuesPerEntity)
	}
	idx, err := b.objectRef(op.ID)
	if err != nil {
		return err
	}

	w.writeByte(opUpdateEntity)
	w.writeUvarint(uint64(idx))

	w.writeUvarint(uint64(len(op.Set)))
	for _, pv := range sortedValues(op.Set, canonical) {
		if err := encodePropertyValue(w, pv, b); err != nil {
			return err
		}
	}

	w.writeUvarint(uint64(len(op.Unset)))
	for _, u := range sortedUnsets(op.Unset, canonical) {
		if err := encodeUnset(w, u, b); err != nil {
			return err
		}
	}

	return nil
}

// encodeUnset writes a single unset entry. The property's datatype decides
// which side reference follows the property index.
func encodeUnset(w *writer, u model.Unset, b *dictionaryBuilder) error {
	idx, dataType, err := b.propertyRef(u.Property)
	if err != nil {
		return err
	}
	w.writeUvarint(uint64(idx))

	switch {
	case dataType.HasLanguage():
		ref, err := b.languageRef(u.Language)
		if err != nil {
			return err
		}
		w.writeUvarint(ref)
	case dataType.HasUnit():
		ref, err := b.unitRef(u.Unit)
		if err != nil {
			return err
		}
		w.writeUvarint(ref)
	}

	return nil
}

func encodeCreateRelation(w *writer, op model.CreateRelation, b *dictionaryBuilder) error {
	if op.Unique {
		derived := model.UniqueRelationID(op.From, op.To, op.Type)
		if !op.ID.IsNil() && op.ID != derived {
			return encodeErr(KindInvalidRelationID, "relation",
				"unique-mode id %s does not match derived %s", op.ID, derived)
		}
	}
	if op.Position != "" {
		if err := validatePosition(op.Position); err != nil {
			return err
		}
	}

	typeIdx, err := b.relationTypeRef(op.Type)
	if err != nil {
		return err
	}
	fromIdx, err := b.objectRef(op.From)
	if err != nil {
		return err
	}
	toIdx, err := b.objectRef(op.To)
	if err != nil {
		return err
	}

	w.writeByte(opCreateRelation)
	if op.Unique {
		w.writeByte(relationModeUnique)
	} else {
		w.writeByte(relationModeMany)
		idx, err := b.objectRef(op.ID)
		if err != nil {
			return err
		}
		w.writeUvarint(uint64(idx))
	}

	w.writeUvarint(uint64(typeIdx))
	w.writeUvarint(uint64(fromIdx))
	w.writeUvarint(uint64(toIdx))

	var mask byte
	if op.Position != "" {
		mask |= crMaskPosition
	}
	if !op.Entity.IsNil() {
		mask |= crMaskEntity
	}
	if !op.FromSpace.IsNil() {
		mask |= crMaskFromSpace
	}
	if !op.FromVersion.IsNil() {
		mask |= crMaskFromVersion
	}
	if !op.ToSpace.IsNil() {
		mask |= crMaskToSpace
	}
	if !op.ToVersion.IsNil() {
		mask |= crMaskToVersion
	}
	w.writeByte(mask)

	if mask&crMaskPosition != 0 {
		w.writeString(op.Position)
	}
	for _, opt := range []struct {
		bit byte
		id  model.ID
	}{
		{crMaskEntity, op.Entity},
		{crMaskFromSpace, op.FromSpace},
		{crMaskFromVersion, op.FromVersion},
		{crMaskToSpace, op.ToSpace},
		{crMaskToVersion, op.ToVersion},
	} {
		if mask&opt.bit == 0 {
			continue
		}
		idx, err := b.objectRef(opt.id)
		if err != nil {
			return err
		}
		w.writeUvarint(uint64(idx))
	}

	return nil
}

func encodeUpdateRelation(w *writer, op model.UpdateRelation, b *dictionaryBuilder) error {
	if op.Position != "" && op.UnsetPosition {
		return encodeErr(KindInvalidValue, "position", "set and unset in one op")
	}
	if !op.FromVersion.IsNil() && op.UnsetFromVersion {
		return encodeErr(KindInvalidValue, "from_version", "set and unset in one op")
	}
	if !op.ToVersion.IsNil() && op.UnsetToVersion {
		return encodeErr(KindInvalidValue, "to_version", "set and unset in one op")
	}
	if op.Position != "" {
		if err := validatePosition(op.Position); err != nil {
			return err
		}
	}

	idx, err := b.objectRef(op.ID)
	if err != nil {
		return err
	}

	w.writeByte(opUpdateRelation)
	w.writeUvarint(uint64(idx))

	var mask byte
	if op.Position != "" {
		mask |= urMaskPosition
	}
	if !op.FromVersion.IsNil() {
		mask |= urMaskFromVersion
	}
	if !op.ToVersion.IsNil() {
		mask |= urMaskToVersion
	}
	if op.UnsetPosition {
		mask |= urMaskUnsetPosition
	}
	if op.UnsetFromVersion {
		mask |= urMaskUnsetFromVersion
	}
	if op.UnsetToVersion {
		mask |= urMaskUnsetToVersion
	}
	w.writeByte(mask)

	if mask&urMaskPosition != 0 {
		w.writeString(op.Position)
	}
	if mask&urMaskFromVersion != 0 {
		vIdx, err := b.objectRef(op.FromVersion)
		if err != nil {
			return err
		}
		w.writeUvarint(uint64(vIdx))
	}
	if mask&urMaskToVersion != 0 {
		vIdx, err := b.objectRef(op.ToVersion)
		if err != nil {
			return err
		}
		w.writeUvarint(uint64(vIdx))
	}

	return nil
}

func encodeCreateProperty(w *writer, op model.CreateProperty) error {
	if !op.DataType.Valid() {
		return encodeErr(KindInvalidValue, "data_type", "invalid datatype %d", op.DataType)
	}

	// A property defined in this edit is immediately used here, so its id is
	// written inline rather than interned in a dictionary.
	w.writeByte(opCreateProperty)
	w.writeID(op.ID)
	w.writeByte(byte(op.DataType))

	return nil
}

func decodeOp(r *reader, d *wireDictionaries) (model.Op, error) {
	tag, err := r.readByte("op_type")
	if err != nil {
		return nil, err
	}

	switch tag {
	case opCreateEntity:
		return decodeCreateEntity(r, d)
	case opUpdateEntity:
		return decodeUpdateEntity(r, d)
	case opDeleteEntity:
		id, err := decodeObjectID(r, d)
		if err != nil {
			return nil, err
		}

		return model.DeleteEntity{ID: id}, nil
	case opRestoreEntity:
		id, err := decodeObjectID(r, d)
		if err != nil {
			return nil, err
		}

		return model.RestoreEntity{ID: id}, nil
	case opCreateRelation:
		return decodeCreateRelation(r, d)
	case opUpdateRelation:
		return decodeUpdateRelation(r, d)
	case opDeleteRelation:
		id, err := decodeObjectID(r, d)
		if err != nil {
			return nil, err
		}

		return model.DeleteRelation{ID: id}, nil
	case opRestoreRelation:
		id, err := decodeObjectID(r, d)
		if err != nil {
			return nil, err
		}

		return model.RestoreRelation{ID: id}, nil
	case opCreateProperty:
		return decodeCreateProperty(r, d)
	default:
		return nil, decodeErr(KindInvalidOpType, "op_type", "byte 0x%02x", tag)
	}
}

func decodeObjectID(r *reader, d *wireDictionaries) (model.ID, error) {
	idx, err := r.readUvarint("object")
	if err != nil {
		return model.NilID, err
	}

	return d.object(idx)
}

func decodeCreateEntity(r *reader, d *wireDictionaries) (model.Op, error) {
	id, err := decodeObjectID(r, d)
	if err != nil {
		return nil, err
	}

	count, err := r.readLen(MaxValuesPerEntity, "values")
	if err != nil {
		return nil, err
	}
	var values []model.PropertyValue
	if count > 0 {
		values = make([]model.PropertyValue, 0, min(count, r.remaining()))
	}
	for i := 0; i < count; i++ {
		pv, err := decodePropertyValue(r, d)
		if err != nil {
			return nil, err
		}
		values = append(values, pv)
	}

	return model.CreateEntity{ID: id, Values: values}, nil
}

func decodeUpdateEntity(r *reader, d *wireDictionaries) (model.Op, error) {
	id, err := decodeObjectID(r, d)
	if err != nil {
		return nil, err
	}

	setCount, err := r.readLen(MaxValuesPerEntity, "set")
	if err != nil {
		return nil, err
	}
	var set []model.PropertyValue
	if setCount > 0 {
		set = make([]model.PropertyValue, 0, min(setCount, r.remaining()))
	}
	for i := 0; i < setCount; i++ {
		pv, err := decodePropertyValue(r, d)
		if err != nil {
			return nil, err
		}
		set = append(set, pv)
	}

	unsetCount, err := r.readLen(MaxValuesPerEntity, "unset")
	if err != nil {
		return nil, err
	}
	var unset []model.Unset
	if unsetCount > 0 {
		unset = make([]model.Unset, 0, min(unsetCount, r.remaining()))
	}
	for i := 0; i < unsetCount; i++ {
		u, err := decodeUnset(r, d)
		if err != nil {
			return nil, err
		}
		unset = append(unset, u)
	}

	return model.UpdateEntity{ID: id, Set: set, Unset: unset}, nil
}

func decodeUnset(r *reader, d *wireDictionaries) (model.Unset, error) {
	idx, err := r.readUvarint("unset.property")
	if err != nil {
		return model.Unset{}, err
	}
	entry, err := d.property(idx)
	if err != nil {
		return model.Unset{}, err
	}

	u := model.Unset{Property: entry.id}
	switch {
	case entry.dataType.HasLanguage():
		ref, err := r.readUvarint("unset.language")
		if err != nil {
			return model.Unset{}, err
		}
		u.Language, err = d.language(ref)
		if err != nil {
			return model.Unset{}, err
		}
	case entry.dataType.HasUnit():
		ref, err := r.readUvarint("unset.unit")
		if err != nil {
			return model.Unset{}, err
		}
		u.Unit, err = d.unit(ref)
		if err != nil {
			return model.Unset{}, err
		}
	}

	return u, nil
}

func decodeCreateRelation(r *reader, d *wireDictionaries) (model.Op, error) {
	mode, err := r.readByte("relation.mode")
	if err != nil {
		return nil, err
	}

	op := model.CreateRelation{}
	switch mode {
	case relationModeUnique:
		op.Unique = true
	case relationModeMany:
		op.ID, err = decodeObjectID(r, d)
		if err != nil {
			return nil, err
		}
	default:
		return nil, decodeErr(KindMalformedValue, "relation.mode", "byte 0x%02x", mode)
	}

	typeIdx, err := r.readUvarint("relation.type")
	if err != nil {
		return nil, err
	}
	op.Type, err = d.relationType(typeIdx)
	if err != nil {
		return nil, err
	}

	op.From, err = decodeObjectID(r, d)
	if err != nil {
		return nil, err
	}
	op.To, err = decodeObjectID(r, d)
	if err != nil {
		return nil, err
	}

	mask, err := r.readByte("relation.mask")
	if err != nil {
		return nil, err
	}
	if mask&crMaskUnused != 0 {
		return nil, decodeErr(KindMalformedValue, "relation.mask", "unused bits set in 0x%02x", mask)
	}

	if mask&crMaskPosition != 0 {
		op.Position, err = decodePosition(r)
		if err != nil {
			return nil, err
		}
	}
	for _, opt := range []struct {
		bit byte
		dst *model.ID
	}{
		{crMaskEntity, &op.Entity},
		{crMaskFromSpace, &op.FromSpace},
		{crMaskFromVersion, &op.FromVersion},
		{crMaskToSpace, &op.ToSpace},
		{crMaskToVersion, &op.ToVersion},
	} {
		if mask&opt.bit == 0 {
			continue
		}
		*opt.dst, err = decodeObjectID(r, d)
		if err != nil {
			return nil, err
		}
	}

	if op.Unique {
		op.ID = model.UniqueRelationID(op.From, op.To, op.Type)
	}

	return op, nil
}

func decodeUpdateRelation(r *reader, d *wireDictionaries) (model.Op, error) {
	id, err := decodeObjectID(r, d)
	if err != nil {
		return nil, err
	}

	mask, err := r.readByte("relation.mask")
	if err != nil {
		return nil, err
	}
	if mask&urMaskUnused != 0 {
		return nil, decodeErr(KindMalformedValue, "relation.mask", "unused bits set in 0x%02x", mask)
	}
	if mask&urMaskPosition != 0 && mask&urMaskUnsetPosition != 0 ||
		mask&urMaskFromVersion != 0 && mask&urMaskUnsetFromVersion != 0 ||
		mask&urMaskToVersion != 0 && mask&urMaskUnsetToVersion != 0 {
		return nil, decodeErr(KindMalformedValue, "relation.mask", "field both set and unset in 0x%02x", mask)
	}

	op := model.UpdateRelation{
		ID:               id,
		UnsetPosition:    mask&urMaskUnsetPosition != 0,
		UnsetFromVersion: mask&urMaskUnsetFromVersion != 0,
		UnsetToVersion:   mask&urMaskUnsetToVersion != 0,
	}

	if mask&urMaskPosition != 0 {
		op.Position, err = decodePosition(r)
		if err != nil {
			return nil, err
		}
	}
	if mask&urMaskFromVersion != 0 {
		op.FromVersion, err = decodeObjectID(r, d)
		if err != nil {
			return nil, err
		}
	}
	if mask&urMaskToVersion != 0 {
		op.ToVersion, err = decodeObjectID(r, d)
		if err != nil {
			return nil, err
		}
	}

	return op, nil
}

func decodeCreateProperty(r *reader, d *wireDictionaries) (model.Op, error) {
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
	// The declaration must agree with the property dictionary when values in
	// this edit use the property.
	if existing, ok := d.propertyTypes[id]; ok && existing != dataType {
		return nil, decodeErr(KindMalformedValue, "data_type",
			"property %s declared %s, dictionary has %s", id, dataType, existing)
	}

	return model.CreateProperty{ID: id, DataType: dataType}, nil
}
