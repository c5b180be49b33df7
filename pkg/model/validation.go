package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errVariantIDMissing = errors.New("model: variant id is required")
	errNoFields         = errors.New("model: at least one field is required")
)

// Validate checks the structural invariants a FieldModel must hold before it
// can enter a variant catalog: a variant id, unique non-empty keys, options
// for choice fields, and an expression for computed fields.
func (m FieldModel) Validate() error {
	if strings.TrimSpace(m.VariantID) == "" {
		return errVariantIDMissing
	}
	if len(m.Fields) == 0 {
		return errNoFields
	}

	seen := make(map[string]struct{}, len(m.Fields))
	for _, field := range m.Fields {
		if err := validateField(field); err != nil {
			return fmt.Errorf("model: variant %q: %w", m.VariantID, err)
		}
		if _, dup := seen[field.Key]; dup {
			return fmt.Errorf("model: variant %q: duplicate field key %q", m.VariantID, field.Key)
		}
		seen[field.Key] = struct{}{}
	}
	return nil
}

func validateField(field FieldDefinition) error {
	if strings.TrimSpace(field.Key) == "" {
		return errors.New("field key is required")
	}
	if !field.Kind.Valid() {
		return fmt.Errorf("field %q: unknown kind %q", field.Key, field.Kind)
	}
	switch field.Kind {
	case KindChoice:
		if len(field.Options) == 0 {
			return fmt.Errorf("field %q: choice fields require options", field.Key)
		}
	case KindComputed:
		if strings.TrimSpace(field.Compute) == "" {
			return fmt.Errorf("field %q: computed fields require an expression", field.Key)
		}
		if field.Required {
			return fmt.Errorf("field %q: computed fields cannot be required", field.Key)
		}
	}
	return nil
}
