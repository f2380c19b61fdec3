package codec

import (
	"sort"

	"github.com/geobrowser/grc-20-go/internal/hash"
	"github.com/geobrowser/grc-20-go/model"
)

// idTable interns identifiers and hands out dense indices. Lookups key on
// the xxHash64 of the id and verify the full 16 bytes on every hit, so a
// hash collision costs an extra probe but can never alias two ids.
type idTable struct {
	ids    []model.ID
	byHash map[uint64][]int
}

// add interns id and returns its index.
func (t *idTable) add(id model.ID) int {
	if idx, ok := t.lookup(id); ok {
		return idx
	}
	if t.byHash == nil {
		t.byHash = make(map[uint64][]int)
	}

	idx := len(t.ids)
	t.ids = append(t.ids, id)
	h := hash.Sum64(id)
	t.byHash[h] = append(t.byHash[h], idx)

	return idx
}

func (t *idTable) lookup(id model.ID) (int, bool) {
	for _, idx := range t.byHash[hash.Sum64(id)] {
		if t.ids[idx] == id {
			return idx, true
		}
	}

	return 0, false
}

func (t *idTable) len() int {
	return len(t.ids)
}

// sortLexicographic reorders the table into byte order and rebuilds the hash
// index. Used by canonical encoding.
func (t *idTable) sortLexicographic() {
	sort.Slice(t.ids, func(i, j int) bool {
		return t.ids[i].Compare(t.ids[j]) < 0
	})

	t.byHash = make(map[uint64][]int, len(t.ids))
	for idx, id := range t.ids {
		h := hash.Sum64(id)
		t.byHash[h] = append(t.byHash[h], idx)
	}
}

// propertyEntry is one property dictionary entry: the datatype travels with
// the id so the decoder can parse values without a schema side channel.
type propertyEntry struct {
	id       model.ID
	dataType model.DataType
}

// propertyTable is an idTable variant whose entries carry a datatype.
type propertyTable struct {
	entries []propertyEntry
	byHash  map[uint64][]int
}

// add interns the property. Re-adding with a different datatype is a
// PropertyDatatypeConflict: a property's datatype is fixed within one edit.
func (t *propertyTable) add(id model.ID, dataType model.DataType) (int, error) {
	if idx, ok := t.lookup(id); ok {
		if t.entries[idx].dataType != dataType {
			return 0, encodeErr(KindPropertyDatatypeConflict, "properties",
				"property %s used as both %s and %s", id, t.entries[idx].dataType, dataType)
		}

		return idx, nil
	}
	if t.byHash == nil {
		t.byHash = make(map[uint64][]int)
	}

	idx := len(t.entries)
	t.entries = append(t.entries, propertyEntry{id: id, dataType: dataType})
	h := hash.Sum64(id)
	t.byHash[h] = append(t.byHash[h], idx)

	return idx, nil
}

func (t *propertyTable) lookup(id model.ID) (int, bool) {
	for _, idx := range t.byHash[hash.Sum64(id)] {
		if t.entries[idx].id == id {
			return idx, true
		}
	}

	return 0, false
}

func (t *propertyTable) len() int {
	return len(t.entries)
}

func (t *propertyTable) sortLexicographic() {
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].id.Compare(t.entries[j].id) < 0
	})

	t.byHash = make(map[uint64][]int, len(t.entries))
	for idx, e := range t.entries {
		h := hash.Sum64(e.id)
		t.byHash[h] = append(t.byHash[h], idx)
	}
}

// dictionaryBuilder accumulates the five wire dictionaries during the
// collection pass over an edit. It lives for the span of one encode call.
type dictionaryBuilder struct {
	properties    propertyTable
	relationTypes idTable
	languages     idTable
	units         idTable
	objects       idTable
}

func (b *dictionaryBuilder) addProperty(id model.ID, dataType model.DataType) (int, error) {
	return b.properties.add(id, dataType)
}

func (b *dictionaryBuilder) addRelationType(id model.ID) int {
	return b.relationTypes.add(id)
}

// addLanguage interns an optional language id. NilID means "absent" and maps
// to the reserved reference 0; real ids map to 1+index.
func (b *dictionaryBuilder) addLanguage(id model.ID) {
	if !id.IsNil() {
		b.languages.add(id)
	}
}

func (b *dictionaryBuilder) addUnit(id model.ID) {
	if !id.IsNil() {
		b.units.add(id)
	}
}

func (b *dictionaryBuilder) addObject(id model.ID) int {
	return b.objects.add(id)
}

// canonicalize sorts every table into lexicographic id order and renumbers
// the indices, making the dictionary section deterministic for equal edits.
func (b *dictionaryBuilder) canonicalize() {
	b.properties.sortLexicographic()
	b.relationTypes.sortLexicographic()
	b.languages.sortLexicographic()
	b.units.sortLexicographic()
	b.objects.sortLexicographic()
}

// Lookup helpers for the encode pass. The collection pass registered every
// reference, so a miss here is an encoder bug surfaced as an error rather
// than a panic.

func (b *dictionaryBuilder) propertyRef(id model.ID) (int, model.DataType, error) {
	idx, ok := b.properties.lookup(id)
	if !ok {
		return 0, 0, encodeErr(KindInvalidValue, "properties", "property %s not collected", id)
	}

	return idx, b.properties.entries[idx].dataType, nil
}

func (b *dictionaryBuilder) relationTypeRef(id model.ID) (int, error) {
	idx, ok := b.relationTypes.lookup(id)
	if !ok {
		return 0, encodeErr(KindInvalidValue, "relation_types", "relation type %s not collected", id)
	}

	return idx, nil
}

// languageRef resolves an optional language id to its wire reference:
// 0 for absent, 1+index otherwise.
func (b *dictionaryBuilder) languageRef(id model.ID) (uint64, error) {
	if id.IsNil() {
		return 0, nil
	}
	idx, ok := b.languages.lookup(id)
	if !ok {
		return 0, encodeErr(KindInvalidValue, "languages", "language %s not collected", id)
	}

	return uint64(idx) + 1, nil
}

func (b *dictionaryBuilder) unitRef(id model.ID) (uint64, error) {
	if id.IsNil() {
		return 0, nil
	}
	idx, ok := b.units.lookup(id)
	if !ok {
		return 0, encodeErr(KindInvalidValue, "units", "unit %s not collected", id)
	}

	return uint64(idx) + 1, nil
}

func (b *dictionaryBuilder) objectRef(id model.ID) (int, error) {
	idx, ok := b.objects.lookup(id)
	if !ok {
		return 0, encodeErr(KindInvalidValue, "objects", "object %s not collected", id)
	}

	return idx, nil
}

// wireDictionaries holds the resolved dictionary tables during one decode
// call. Every accessor bounds-checks its index.
type wireDictionaries struct {
	properties    []propertyEntry
	relationTypes []model.ID
	languages     []model.ID
	units         []model.ID
	objects       []model.ID

	// propertyTypes indexes properties by id, for coherence checks against
	// CreateProperty ops.
	propertyTypes map[model.ID]model.DataType
}

func (d *wireDictionaries) property(index uint64) (propertyEntry, error) {
	if index >= uint64(len(d.properties)) {
		return propertyEntry{}, errIndexOutOfBounds("properties", index, len(d.properties))
	}

	return d.properties[index], nil
}

func (d *wireDictionaries) relationType(index uint64) (model.ID, error) {
	if index >= uint64(len(d.relationTypes)) {
		return model.NilID, errIndexOutOfBounds("relation_types", index, len(d.relationTypes))
	}

	return d.relationTypes[index], nil
}

// language resolves a language reference: 0 is "absent" (NilID), i>0 is
// table entry i-1.
func (d *wireDictionaries) language(ref uint64) (model.ID, error) {
	if ref == 0 {
		return model.NilID, nil
	}
	if ref-1 >= uint64(len(d.languages)) {
		return model.NilID, errIndexOutOfBounds("languages", ref, len(d.languages))
	}

	return d.languages[ref-1], nil
}

func (d *wireDictionaries) unit(ref uint64) (model.ID, error) {
	if ref == 0 {
		return model.NilID, nil
	}
	if ref-1 >= uint64(len(d.units)) {
		return model.NilID, errIndexOutOfBounds("units", ref, len(d.units))
	}

	return d.units[ref-1], nil
}

func (d *wireDictionaries) object(index uint64) (model.ID, error) {
	if index >= uint64(len(d.objects)) {
		return model.NilID, errIndexOutOfBounds("objects", index, len(d.objects))
	}

	return d.objects[index], nil
}
