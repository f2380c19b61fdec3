// Package grc20 implements the GRC-20 binary wire format for decentralized
// property-graph updates.
//
// An Edit is an atomic batch of operations (create/update/delete/restore
// entity or relation, create property) with metadata. The codec translates
// edits to and from a compact byte stream: repeated 16-byte identifiers are
// interned into per-edit dictionaries and referenced by one-byte varint
// indices, a property's datatype travels once in the dictionary so values
// need no per-value type tag, and the whole frame can be transparently
// zstd-compressed behind the "GRC2Z" magic.
//
// # Basic Usage
//
// Building and encoding an edit:
//
//	import (
//	    "github.com/geobrowser/grc-20-go/builder"
//	    "github.com/geobrowser/grc-20-go/model"
//	)
//
//	b := builder.New("add people")
//	name := b.CreateProperty(model.TypeText)
//	alice := b.CreateEntity(model.PropertyValue{
//	    Property: name,
//	    Value:    model.Text{Value: "Alice"},
//	})
//	bob := b.CreateEntity(model.PropertyValue{
//	    Property: name,
//	    Value:    model.Text{Value: "Bob"},
//	})
//	b.CreateUniqueRelation(knows, alice, bob)
//
//	data, err := b.Encode()
//
// Decoding auto-detects compression:
//
//	edit, err := grc20.DecodeEdit(data)
//
// # Determinism
//
// EncodeEditCanonical produces byte-identical output for equal edits, which
// makes the bytes safe to hash for content addressing. The non-canonical
// encoder skips the sorting overhead and is the right choice when nobody
// hashes the result.
//
// # Safety
//
// DecodeEdit never panics on any input. Every length is checked against a
// hard limit before the allocation it would guard, every dictionary index
// is bounds-checked, and the first structural fault aborts the decode with
// a *codec.DecodeError carrying a stable E001-E005 code.
//
// This package provides thin wrappers over the codec package for the common
// cases; use codec, model, builder and genesis directly for fine-grained
// control.
package grc20

import (
	"github.com/geobrowser/grc-20-go/codec"
	"github.com/geobrowser/grc-20-go/model"
)

// EncodeEdit encodes an edit to its uncompressed binary form.
func EncodeEdit(edit *model.Edit) ([]byte, error) {
	return codec.EncodeEdit(edit)
}

// EncodeEditCanonical encodes an edit deterministically: equal edits yield
// byte-identical output, suitable for content addressing.
func EncodeEditCanonical(edit *model.Edit) ([]byte, error) {
	return codec.EncodeEditCanonical(edit)
}

// EncodeEditCompressed encodes an edit wrapped in the zstd compression
// frame at the given level (1 fastest to 22 strongest).
func EncodeEditCompressed(edit *model.Edit, level int) ([]byte, error) {
	return codec.EncodeEditCompressed(edit, level)
}

// DecodeEdit decodes an edit, auto-detecting the compression frame.
func DecodeEdit(data []byte) (*model.Edit, error) {
	return codec.DecodeEdit(data)
}

// IsCompressed reports whether data carries the compressed-frame magic.
func IsCompressed(data []byte) bool {
	return codec.IsCompressed(data)
}

// NewID generates a fresh random identifier (UUIDv4).
func NewID() model.ID {
	return model.NewID()
}

// DerivedID derives a deterministic UUIDv8 identifier from input bytes.
func DerivedID(input []byte) model.ID {
	return model.DerivedID(input)
}

// UniqueRelationID derives the identifier of a unique-mode relation.
func UniqueRelationID(from, to, relationType model.ID) model.ID {
	return model.UniqueRelationID(from, to, relationType)
}

// RelationEntityID derives the identifier of a relation's reified entity.
func RelationEntityID(relation model.ID) model.ID {
	return model.RelationEntityID(relation)
}
