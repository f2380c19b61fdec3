package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIDIsV4(t *testing.T) {
	id := NewID()
	require.Equal(t, byte(0x40), id[6]&0xF0, "version nibble should be 4")
	require.Equal(t, byte(0x80), id[8]&0xC0, "variant bits should be 10")
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestDerivedIDVersionAndVariant(t *testing.T) {
	id := DerivedID([]byte("test"))
	require.Equal(t, byte(0x80), id[6]&0xF0, "version nibble should be 8")
	require.Equal(t, byte(0x80), id[8]&0xC0, "variant bits should be 10")
}

func TestDerivedIDDeterministic(t *testing.T) {
	id1 := DerivedID([]byte("hello world"))
	id2 := DerivedID([]byte("hello world"))
	require.Equal(t, id1, id2)

	id3 := DerivedID([]byte("different"))
	require.NotEqual(t, id1, id3)
}

func TestUniqueRelationID(t *testing.T) {
	from := ID{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	to := ID{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}
	relationType := ID{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3}

	id1 := UniqueRelationID(from, to, relationType)
	id2 := UniqueRelationID(from, to, relationType)
	require.Equal(t, id1, id2)

	// Direction matters.
	reversed := UniqueRelationID(to, from, relationType)
	require.NotEqual(t, id1, reversed)
}

func TestRelationEntityID(t *testing.T) {
	relation := NewID()
	entity := RelationEntityID(relation)
	require.NotEqual(t, relation, entity)
	require.Equal(t, entity, RelationEntityID(relation))
	require.Equal(t, byte(0x80), entity[6]&0xF0)
}

func TestFormatParseRoundtrip(t *testing.T) {
	id := DerivedID([]byte("roundtrip"))
	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseIDWithHyphens(t *testing.T) {
	plain, err := ParseID("550e8400e29b41d4a716446655440000")
	require.NoError(t, err)
	hyphenated, err := ParseID("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	require.Equal(t, plain, hyphenated)
}

func TestParseIDInvalid(t *testing.T) {
	_, err := ParseID("too-short")
	require.Error(t, err)
	_, err = ParseID("zz0e8400e29b41d4a716446655440000")
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	a := ID{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	b := ID{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2}
	c := ID{1}

	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Equal(t, 0, a.Compare(a))
	require.Equal(t, -1, a.Compare(c))
}

func TestIsNil(t *testing.T) {
	require.True(t, NilID.IsNil())
	require.False(t, NewID().IsNil())
}
