// Package openapi imports variant field models from OpenAPI component
// schemas, so teams that already describe their trade documents as API
// schemas can reuse them as document templates. Vendor extensions under the
// x-docforge- prefix carry the pieces OpenAPI has no vocabulary for.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/agrodocs/docforge/pkg/model"
)

// Vendor extension keys recognized on schemas and properties.
const (
	extKind      = "x-docforge-kind"      // schema: document kind (contract, shipment, compliance)
	extMultiline = "x-docforge-multiline" // property: render as long text
	extCompute   = "x-docforge-compute"   // property: arithmetic expression over sibling keys
	extSection   = "x-docforge-section"   // property: section grouping label
	extOrder     = "x-docforge-order"     // schema: explicit field ordering
)

// Importer converts OpenAPI component schemas into field models.
type Importer struct {
	loader *openapi3.Loader
}

// New constructs an Importer.
func New() *Importer {
	return &Importer{}
}

// ImportModel loads the document and converts the named component schema
// into a field model with the given variant id.
func (i *Importer) ImportModel(ctx context.Context, data []byte, component, variantID string) (model.FieldModel, error) {
	if err := ctx.Err(); err != nil {
		return model.FieldModel{}, err
	}
	if len(data) == 0 {
		return model.FieldModel{}, errors.New("openapi import: document payload is empty")
	}

	loader := i.loader
	if loader == nil {
		loader = &openapi3.Loader{Context: ctx}
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return model.FieldModel{}, fmt.Errorf("openapi import: load document: %w", err)
	}
	if spec.Components == nil || spec.Components.Schemas == nil {
		return model.FieldModel{}, errors.New("openapi import: document has no component schemas")
	}
	ref, ok := spec.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return model.FieldModel{}, fmt.Errorf("openapi import: component schema %q not found", component)
	}

	return schemaToModel(ref.Value, component, variantID)
}

func schemaToModel(schema *openapi3.Schema, component, variantID string) (model.FieldModel, error) {
	if len(schema.Properties) == 0 {
		return model.FieldModel{}, fmt.Errorf("openapi import: schema %q has no properties", component)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, key := range schema.Required {
		required[key] = true
	}

	fields := make([]model.FieldDefinition, 0, len(schema.Properties))
	for _, key := range propertyOrder(schema) {
		ref := schema.Properties[key]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := propertyToField(key, ref.Value)
		field.Required = required[key] && field.Kind != model.KindComputed
		fields = append(fields, field)
	}

	out := model.FieldModel{
		VariantID: variantID,
		Title:     schema.Title,
		Kind:      documentKind(schema.Extensions),
		Fields:    fields,
	}
	if out.Title == "" {
		out.Title = humanize(component)
	}
	if err := out.Validate(); err != nil {
		return model.FieldModel{}, fmt.Errorf("openapi import: schema %q: %w", component, err)
	}
	return out, nil
}

// propertyOrder honors an explicit x-docforge-order list and falls back to
// alphabetical for anything the list omits, keeping imports deterministic
// across runs.
func propertyOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	ordered := make([]string, 0, len(schema.Properties))

	if raw, ok := schema.Extensions[extOrder].([]any); ok {
		for _, entry := range raw {
			key, ok := entry.(string)
			if !ok || seen[key] {
				continue
			}
			if _, exists := schema.Properties[key]; !exists {
				continue
			}
			seen[key] = true
			ordered = append(ordered, key)
		}
	}

	rest := make([]string, 0, len(schema.Properties))
	for key := range schema.Properties {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func propertyToField(key string, prop *openapi3.Schema) model.FieldDefinition {
	field := model.FieldDefinition{
		Key:   key,
		Label: prop.Title,
	}
	if field.Label == "" {
		field.Label = humanize(key)
	}
	if section, ok := prop.Extensions[extSection].(string); ok {
		field.Section = section
	}
	if def, ok := prop.Default.(string); ok {
		field.Default = def
	} else if prop.Default != nil {
		field.Default = fmt.Sprintf("%v", prop.Default)
	}

	switch {
	case hasStringExtension(prop.Extensions, extCompute):
		field.Kind = model.KindComputed
		field.Compute, _ = prop.Extensions[extCompute].(string)
	case len(prop.Enum) > 0:
		field.Kind = model.KindChoice
		field.Options = enumOptions(prop.Enum)
	case prop.Format == "date":
		field.Kind = model.KindDate
	case hasBoolExtension(prop.Extensions, extMultiline):
		field.Kind = model.KindLongText
	default:
		field.Kind = model.KindShortText
	}
	return field
}

func documentKind(extensions map[string]any) model.DocumentKind {
	raw, _ := extensions[extKind].(string)
	switch model.DocumentKind(strings.ToLower(strings.TrimSpace(raw))) {
	case model.KindShipment:
		return model.KindShipment
	case model.KindCompliance:
		return model.KindCompliance
	default:
		return model.KindContract
	}
}

func enumOptions(enum []any) []string {
	options := make([]string, 0, len(enum))
	for _, entry := range enum {
		if s, ok := entry.(string); ok {
			options = append(options, s)
			continue
		}
		options = append(options, fmt.Sprintf("%v", entry))
	}
	return options
}

func hasStringExtension(extensions map[string]any, key string) bool {
	s, ok := extensions[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasBoolExtension(extensions map[string]any, key string) bool {
	b, ok := extensions[key].(bool)
	return ok && b
}

// humanize turns snake_case or camelCase identifiers into title-cased
// labels: "quantity_kg" -> "Quantity Kg", "unitPrice" -> "Unit Price".
func humanize(identifier string) string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range identifier {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()

	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
