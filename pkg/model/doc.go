// Package model defines the typed field model consumed by document renderers
// and the export pipeline. A FieldModel describes one document variant (for
// example a coffee export contract) as an ordered set of FieldDefinitions,
// each carrying a key, a kind, and a default value. Models are built once per
// variant and never mutated at runtime; per-instance operator edits layer on
// top of them through document.OverrideStore. Computed fields carry an
// arithmetic expression over sibling keys and are always derived at render
// time, never stored.
package model
