package codec

import (
	"fmt"

	"github.com/geobrowser/grc-20-go/model"
)

// SchemaContext carries the property datatypes known to the caller, for
// semantic validation beyond what decode enforces structurally.
type SchemaContext struct {
	properties map[model.ID]model.DataType
}

// NewSchemaContext creates an empty schema context.
func NewSchemaContext() *SchemaContext {
	return &SchemaContext{properties: make(map[model.ID]model.DataType)}
}

// AddProperty registers a property with its datatype.
func (s *SchemaContext) AddProperty(id model.ID, dataType model.DataType) {
	s.properties[id] = dataType
}

// PropertyType returns the datatype for a property, if known.
func (s *SchemaContext) PropertyType(id model.ID) (model.DataType, bool) {
	dt, ok := s.properties[id]
	return dt, ok
}

// ValidateEdit checks an edit against a schema context: every value's type
// must agree with the property's declared datatype, and CreateProperty
// declarations must agree with the schema. Properties the schema does not
// know are allowed — they may be defined in another edit.
//
// This is single-edit semantic validation only. Entity lifecycle state and
// cross-space resolution need cross-edit context and live above the codec.
func ValidateEdit(edit *model.Edit, schema *SchemaContext) error {
	local := NewSchemaContext()
	for id, dt := range schema.properties {
		local.properties[id] = dt
	}

	for _, op := range edit.Ops {
		switch op := op.(type) {
		case model.CreateProperty:
			if existing, ok := schema.PropertyType(op.ID); ok && existing != op.DataType {
				return fmt.Errorf("property %s declared %s, schema has %s", op.ID, op.DataType, existing)
			}
			local.AddProperty(op.ID, op.DataType)

		case model.CreateEntity:
			if err := validateValues(op.Values, local); err != nil {
				return err
			}

		case model.UpdateEntity:
			if err := validateValues(op.Set, local); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateValues(values []model.PropertyValue, schema *SchemaContext) error {
	for _, pv := range values {
		if pv.Value == nil {
			return fmt.Errorf("property %s has nil value", pv.Property)
		}
		if err := pv.Value.Validate(); err != nil {
			return fmt.Errorf("property %s: %w", pv.Property, err)
		}
		if expected, ok := schema.PropertyType(pv.Property); ok {
			if actual := pv.Value.DataType(); actual != expected {
				return fmt.Errorf("property %s expects %s, value is %s", pv.Property, expected, actual)
			}
		}
	}

	return nil
}
