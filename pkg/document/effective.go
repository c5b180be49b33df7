package document

import (
	"fmt"

	"github.com/agrodocs/docforge/pkg/compute"
	"github.com/agrodocs/docforge/pkg/model"
)

var evaluator = compute.New()

// EffectiveValue resolves the value actually shown for key: computed fields
// derive from their expression, everything else prefers the explicit override
// and falls back to the model default. Unknown keys resolve to the empty
// string rather than erroring so view templates can reference keys freely.
//
// Computed fields ignore any stored override even if one is present; the
// precedence for that kind only is compute > override > default.
func EffectiveValue(m model.FieldModel, store *OverrideStore, key string) string {
	value, _ := effectiveValue(m, store, key, nil)
	return value
}

// EffectiveValueErr is EffectiveValue with the computation error surfaced, for
// callers that report evaluation problems instead of rendering blanks.
func EffectiveValueErr(m model.FieldModel, store *OverrideStore, key string) (string, error) {
	return effectiveValue(m, store, key, nil)
}

func effectiveValue(m model.FieldModel, store *OverrideStore, key string, visiting map[string]bool) (string, error) {
	field, ok := m.Field(key)
	if !ok {
		return "", nil
	}

	if field.Kind == model.KindComputed {
		if visiting[key] {
			return "", fmt.Errorf("document: computed field %q references itself", key)
		}
		if visiting == nil {
			visiting = make(map[string]bool, 2)
		}
		visiting[key] = true
		defer delete(visiting, key)

		var resolveErr error
		resolve := func(ref string) (string, bool) {
			if !m.Has(ref) {
				return "", false
			}
			value, err := effectiveValue(m, store, ref, visiting)
			if err != nil && resolveErr == nil {
				resolveErr = err
			}
			return value, true
		}
		result, err := evaluator.EvalString(field.Compute, resolve)
		if resolveErr != nil {
			return "", resolveErr
		}
		if err != nil {
			return "", err
		}
		return result, nil
	}

	if store != nil {
		if value, ok := store.Value(key); ok {
			return value, nil
		}
	}
	return field.Default, nil
}

// EffectiveValues resolves every field in model order. Computed fields that
// fail to evaluate resolve to the empty string, mirroring EffectiveValue.
func EffectiveValues(m model.FieldModel, store *OverrideStore) map[string]string {
	out := make(map[string]string, len(m.Fields))
	for _, field := range m.Fields {
		out[field.Key] = EffectiveValue(m, store, field.Key)
	}
	return out
}
