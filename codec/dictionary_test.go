package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20-go/model"
)

func TestIDTableInterning(t *testing.T) {
	var table idTable
	a, b := fillID(0xA0), fillID(0xB0)

	require.Equal(t, 0, table.add(a))
	require.Equal(t, 1, table.add(b))
	require.Equal(t, 0, table.add(a), "re-adding must return the existing index")
	require.Equal(t, 2, table.len())

	idx, ok := table.lookup(b)
	require.True(t, ok)
	require.Equal(t, 1, idx)

	_, ok = table.lookup(fillID(0xC0))
	require.False(t, ok)
}

func TestIDTableSortRenumbers(t *testing.T) {
	var table idTable
	high, low := fillID(0xF0), fillID(0x01)
	table.add(high)
	table.add(low)

	table.sortLexicographic()

	idx, ok := table.lookup(low)
	require.True(t, ok)
	require.Equal(t, 0, idx)

	idx, ok = table.lookup(high)
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, []model.ID{low, high}, table.ids)
}

func TestPropertyTableConflict(t *testing.T) {
	var table propertyTable
	property := fillID(0x10)

	_, err := table.add(property, model.TypeText)
	require.NoError(t, err)

	idx, err := table.add(property, model.TypeText)
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	_, err = table.add(property, model.TypeInt64)
	require.ErrorIs(t, err, &EncodeError{Kind: KindPropertyDatatypeConflict})
}

func TestDictionaryBuilderOptionalRefs(t *testing.T) {
	var b dictionaryBuilder

	// NilID is the reserved "absent" reference in both tables.
	b.addLanguage(model.NilID)
	b.addUnit(model.NilID)
	require.Equal(t, 0, b.languages.len())
	require.Equal(t, 0, b.units.len())

	ref, err := b.languageRef(model.NilID)
	require.NoError(t, err)
	require.Equal(t, uint64(0), ref)

	language := fillID(0x30)
	b.addLanguage(language)
	ref, err = b.languageRef(language)
	require.NoError(t, err)
	require.Equal(t, uint64(1), ref)
}

func TestWireDictionariesBounds(t *testing.T) {
	d := &wireDictionaries{
		properties: []propertyEntry{{id: fillID(0x10), dataType: model.TypeText}},
		languages:  []model.ID{fillID(0x30)},
		objects:    []model.ID{fillID(0xE0)},
	}

	entry, err := d.property(0)
	require.NoError(t, err)
	require.Equal(t, fillID(0x10), entry.id)

	_, err = d.property(1)
	require.ErrorIs(t, err, &DecodeError{Kind: KindIndexOutOfBounds})

	// Reference 0 is "absent"; the table itself is reached from 1.
	lang, err := d.language(0)
	require.NoError(t, err)
	require.True(t, lang.IsNil())

	lang, err = d.language(1)
	require.NoError(t, err)
	require.Equal(t, fillID(0x30), lang)

	_, err = d.language(2)
	require.ErrorIs(t, err, &DecodeError{Kind: KindIndexOutOfBounds})

	_, err = d.unit(1)
	require.ErrorIs(t, err, &DecodeError{Kind: KindIndexOutOfBounds})

	_, err = d.object(1)
	require.ErrorIs(t, err, &DecodeError{Kind: KindIndexOutOfBounds})

	_, err = d.relationType(0)
	require.ErrorIs(t, err, &DecodeError{Kind: KindIndexOutOfBounds})
}

func TestCanonicalDictionaryOrderOnWire(t *testing.T) {
	// Two properties inserted high-id first must come out low-id first in
	// canonical mode. The property dictionary starts right after the header,
	// so the first entry's id is directly inspectable.
	high, low := fillID(0xF0), fillID(0x01)
	edit := &model.Edit{
		ID: fillID(0x01),
		Ops: []model.Op{
			model.CreateEntity{ID: fillID(0xE0), Values: []model.PropertyValue{
				{Property: high, Value: model.Bool(true)},
				{Property: low, Value: model.Bool(false)},
			}},
		},
	}

	encoded, err := EncodeEditCanonical(edit)
	require.NoError(t, err)

	// magic(4) + version(1) + id(16) + name(1) + authors(1) + created(1) +
	// property count(1) = 25 bytes before the first property id.
	require.Equal(t, byte(0x02), encoded[24], "property count")
	require.Equal(t, low[:], encoded[25:41])

	nonCanonical, err := EncodeEdit(edit)
	require.NoError(t, err)
	require.Equal(t, high[:], nonCanonical[25:41], "insertion order preserved without canonical mode")
}
