// Package builder provides a fluent surface for constructing edits.
//
// The builder generates identifiers where the caller does not supply them
// (UUIDv4 for entities and many-mode relations, derived UUIDv8 for
// unique-mode relations), accumulates operations in call order, and hands
// the finished edit to the codec.
package builder

import (
	"time"

	"github.com/geobrowser/grc-20-go/codec"
	"github.com/geobrowser/grc-20-go/internal/options"
	"github.com/geobrowser/grc-20-go/model"
)

// EditBuilder accumulates operations for one edit. A failing relation option
// records the first error; after that, calls that add operations are no-ops
// and Build returns the error.
type EditBuilder struct {
	edit model.Edit
	err  error
}

// New creates a builder for an edit with the given name. The edit id is a
// fresh UUIDv4 and the creation time is now; both can be overridden.
func New(name string) *EditBuilder {
	return &EditBuilder{
		edit: model.Edit{
			ID:        model.NewID(),
			Name:      name,
			CreatedAt: time.Now().UnixMicro(),
		},
	}
}

// ID overrides the edit identifier.
func (b *EditBuilder) ID(id model.ID) *EditBuilder {
	b.edit.ID = id
	return b
}

// Author appends an author.
func (b *EditBuilder) Author(id model.ID) *EditBuilder {
	b.edit.Authors = append(b.edit.Authors, id)
	return b
}

// CreatedAt overrides the creation time (microseconds since the Unix
// epoch).
func (b *EditBuilder) CreatedAt(us int64) *EditBuilder {
	b.edit.CreatedAt = us
	return b
}

// AddOp appends an operation verbatim.
func (b *EditBuilder) AddOp(op model.Op) *EditBuilder {
	if b.err == nil {
		b.edit.Ops = append(b.edit.Ops, op)
	}

	return b
}

// CreateProperty declares a property with a fresh id and returns the id.
func (b *EditBuilder) CreateProperty(dataType model.DataType) model.ID {
	id := model.NewID()
	b.AddOp(model.CreateProperty{ID: id, DataType: dataType})

	return id
}

// CreatePropertyWithID declares a property under a caller-chosen id, such
// as a genesis well-known id.
func (b *EditBuilder) CreatePropertyWithID(id model.ID, dataType model.DataType) *EditBuilder {
	return b.AddOp(model.CreateProperty{ID: id, DataType: dataType})
}

// CreateEntity creates an entity with a fresh id and the given values, and
// returns the id.
func (b *EditBuilder) CreateEntity(values ...model.PropertyValue) model.ID {
	id := model.NewID()
	b.AddOp(model.CreateEntity{ID: id, Values: values})

	return id
}

// CreateEntityWithID creates an entity under a caller-chosen id.
func (b *EditBuilder) CreateEntityWithID(id model.ID, values ...model.PropertyValue) *EditBuilder {
	return b.AddOp(model.CreateEntity{ID: id, Values: values})
}

// UpdateEntity sets and unsets values on an entity.
func (b *EditBuilder) UpdateEntity(id model.ID, set []model.PropertyValue, unset []model.Unset) *EditBuilder {
	return b.AddOp(model.UpdateEntity{ID: id, Set: set, Unset: unset})
}

// DeleteEntity marks an entity deleted.
func (b *EditBuilder) DeleteEntity(id model.ID) *EditBuilder {
	return b.AddOp(model.DeleteEntity{ID: id})
}

// RestoreEntity restores a deleted entity.
func (b *EditBuilder) RestoreEntity(id model.ID) *EditBuilder {
	return b.AddOp(model.RestoreEntity{ID: id})
}

// RelationOption configures optional fields of a relation being created.
type RelationOption = options.Option[*model.CreateRelation]

// WithPosition sets the relation's ordering key.
func WithPosition(position string) RelationOption {
	return options.NoError(func(r *model.CreateRelation) {
		r.Position = position
	})
}

// WithEntity attaches a reified entity node id to the relation.
func WithEntity(id model.ID) RelationOption {
	return options.NoError(func(r *model.CreateRelation) {
		r.Entity = id
	})
}

// WithReifiedEntity attaches the relation's derived entity node id,
// RelationEntityID(relation).
func WithReifiedEntity() RelationOption {
	return options.NoError(func(r *model.CreateRelation) {
		r.Entity = model.RelationEntityID(r.ID)
	})
}

// WithFromSpace pins the source reference to a space.
func WithFromSpace(id model.ID) RelationOption {
	return options.NoError(func(r *model.CreateRelation) {
		r.FromSpace = id
	})
}

// WithFromVersion pins the source reference to a version.
func WithFromVersion(id model.ID) RelationOption {
	return options.NoError(func(r *model.CreateRelation) {
		r.FromVersion = id
	})
}

// WithToSpace pins the target reference to a space.
func WithToSpace(id model.ID) RelationOption {
	return options.NoError(func(r *model.CreateRelation) {
		r.ToSpace = id
	})
}

// WithToVersion pins the target reference to a version.
func WithToVersion(id model.ID) RelationOption {
	return options.NoError(func(r *model.CreateRelation) {
		r.ToVersion = id
	})
}

// CreateUniqueRelation creates a unique-mode relation. Its id is derived
// from the endpoints and type, so creating the same relation twice yields
// the same id.
func (b *EditBuilder) CreateUniqueRelation(relationType, from, to model.ID, opts ...RelationOption) model.ID {
	op := model.CreateRelation{
		ID:     model.UniqueRelationID(from, to, relationType),
		Unique: true,
		Type:   relationType,
		From:   from,
		To:     to,
	}
	if err := options.Apply(&op, opts...); err != nil {
		if b.err == nil {
			b.err = err
		}

		return op.ID
	}
	b.AddOp(op)

	return op.ID
}

// CreateRelation creates a many-mode relation with a fresh id, so the same
// endpoints and type can be related multiple times.
func (b *EditBuilder) CreateRelation(relationType, from, to model.ID, opts ...RelationOption) model.ID {
	op := model.CreateRelation{
		ID:   model.NewID(),
		Type: relationType,
		From: from,
		To:   to,
	}
	if err := options.Apply(&op, opts...); err != nil {
		if b.err == nil {
			b.err = err
		}

		return op.ID
	}
	b.AddOp(op)

	return op.ID
}

// UpdateRelation changes the mutable fields of a relation.
func (b *EditBuilder) UpdateRelation(op model.UpdateRelation) *EditBuilder {
	return b.AddOp(op)
}

// DeleteRelation marks a relation deleted.
func (b *EditBuilder) DeleteRelation(id model.ID) *EditBuilder {
	return b.AddOp(model.DeleteRelation{ID: id})
}

// RestoreRelation restores a deleted relation.
func (b *EditBuilder) RestoreRelation(id model.ID) *EditBuilder {
	return b.AddOp(model.RestoreRelation{ID: id})
}

// Build returns the accumulated edit, or the first error a builder call
// recorded.
func (b *EditBuilder) Build() (*model.Edit, error) {
	if b.err != nil {
		return nil, b.err
	}

	edit := b.edit

	return &edit, nil
}

// Encode builds the edit and encodes it uncompressed.
func (b *EditBuilder) Encode() ([]byte, error) {
	edit, err := b.Build()
	if err != nil {
		return nil, err
	}

	return codec.EncodeEdit(edit)
}

// EncodeCanonical builds the edit and encodes it deterministically.
func (b *EditBuilder) EncodeCanonical() ([]byte, error) {
	edit, err := b.Build()
	if err != nil {
		return nil, err
	}

	return codec.EncodeEditCanonical(edit)
}

// EncodeCompressed builds the edit and encodes it with zstd compression.
func (b *EditBuilder) EncodeCompressed(level int) ([]byte, error) {
	edit, err := b.Build()
	if err != nil {
		return nil, err
	}

	return codec.EncodeEditCompressed(edit, level)
}
