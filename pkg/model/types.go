package model

// FieldKind is the enum of form-friendly value kinds a document field can
// take. Renderers key their control selection off this.
type FieldKind string

const (
	KindShortText FieldKind = "short_text"
	KindLongText  FieldKind = "long_text"
	KindDate      FieldKind = "date"
	KindChoice    FieldKind = "choice"
	KindComputed  FieldKind = "computed"
)

// Valid reports whether the kind is one of the canonical values.
func (k FieldKind) Valid() bool {
	switch k {
	case KindShortText, KindLongText, KindDate, KindChoice, KindComputed:
		return true
	default:
		return false
	}
}

// FieldDefinition models an individual labeled field inside a document
// variant. Struct fields are annotated so variant catalogs can be authored in
// YAML and records serialised directly when needed.
type FieldDefinition struct {
	Key      string    `json:"key" yaml:"key"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind     FieldKind `json:"kind" yaml:"kind"`
	Default  string    `json:"default,omitempty" yaml:"default,omitempty"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	// Compute holds the arithmetic expression evaluated for KindComputed
	// fields, e.g. "quantity_kg * unit_price".
	Compute string `json:"compute,omitempty" yaml:"compute,omitempty"`
	// Section groups fields under a document heading; empty means the
	// variant's default section.
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
}

// FieldModel is the top-level representation of one document variant: an
// ordered set of field definitions plus display metadata.
type FieldModel struct {
	VariantID string            `json:"variantId" yaml:"variant_id"`
	Title     string            `json:"title,omitempty" yaml:"title,omitempty"`
	Kind      DocumentKind      `json:"kind,omitempty" yaml:"document_kind,omitempty"`
	Fields    []FieldDefinition `json:"fields" yaml:"fields"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DocumentKind distinguishes the document families a variant belongs to.
// Renderers use it to pick the page layout; the field mechanism is identical
// across kinds.
type DocumentKind string

const (
	KindContract   DocumentKind = "contract"
	KindShipment   DocumentKind = "shipment"
	KindCompliance DocumentKind = "compliance"
)

// Field returns the definition for key and whether it exists.
func (m FieldModel) Field(key string) (FieldDefinition, bool) {
	for _, field := range m.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// Has reports whether the model defines key.
func (m FieldModel) Has(key string) bool {
	_, ok := m.Field(key)
	return ok
}

// RequiredKeys returns the keys of required, non-computed fields in model
// order. Computed fields derive their value and are never "unresolved".
func (m FieldModel) RequiredKeys() []string {
	var keys []string
	for _, field := range m.Fields {
		if field.Required && field.Kind != KindComputed {
			keys = append(keys, field.Key)
		}
	}
	return keys
}

// Sections returns the distinct section names in first-appearance order. The
// empty section, when present, is always first.
func (m FieldModel) Sections() []string {
	seen := make(map[string]struct{}, 4)
	var names []string
	for _, field := range m.Fields {
		if _, ok := seen[field.Section]; ok {
			continue
		}
		seen[field.Section] = struct{}{}
		names = append(names, field.Section)
	}
	return names
}
