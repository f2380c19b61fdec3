package grc20

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geobrowser/grc-20-go/builder"
	"github.com/geobrowser/grc-20-go/genesis"
	"github.com/geobrowser/grc-20-go/model"
)

func TestEndToEnd(t *testing.T) {
	b := builder.New("add alice").CreatedAt(1700000000000000)
	b.CreatePropertyWithID(genesis.PropertyName, model.TypeText)
	alice := b.CreateEntity(model.PropertyValue{
		Property: genesis.PropertyName,
		Value:    model.Text{Value: "Alice", Language: genesis.LanguageEnglish},
	})
	person := b.CreateEntity(model.PropertyValue{
		Property: genesis.PropertyName,
		Value:    model.Text{Value: "Person"},
	})
	b.CreateUniqueRelation(genesis.RelationTypes, alice, person)

	edit, err := b.Build()
	require.NoError(t, err)

	for _, encode := range []func(*model.Edit) ([]byte, error){
		EncodeEdit,
		EncodeEditCanonical,
		func(e *model.Edit) ([]byte, error) { return EncodeEditCompressed(e, 3) },
	} {
		data, err := encode(edit)
		require.NoError(t, err)

		decoded, err := DecodeEdit(data)
		require.NoError(t, err)
		require.Equal(t, edit, decoded)
	}
}

func TestIsCompressedWrapper(t *testing.T) {
	edit := &model.Edit{ID: NewID()}

	plain, err := EncodeEdit(edit)
	require.NoError(t, err)
	require.False(t, IsCompressed(plain))

	compressed, err := EncodeEditCompressed(edit, 1)
	require.NoError(t, err)
	require.True(t, IsCompressed(compressed))
}

func TestDerivedIDHelpers(t *testing.T) {
	from, to, relationType := NewID(), NewID(), NewID()

	require.Equal(t, model.UniqueRelationID(from, to, relationType), UniqueRelationID(from, to, relationType))
	require.Equal(t, model.DerivedID([]byte("x")), DerivedID([]byte("x")))
	relation := UniqueRelationID(from, to, relationType)
	require.Equal(t, model.RelationEntityID(relation), RelationEntityID(relation))
}
