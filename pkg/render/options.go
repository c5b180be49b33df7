package render

// Options describe per-request data renderers use to customise their output
// without touching instance state.
type Options struct {
	// EditMode selects between mutable field controls and the read-only
	// document view. Every field is driven by the same effective-value
	// accessor in both modes; only the control markup differs. Computed
	// fields render read-only regardless.
	EditMode bool
	// FieldErrors surfaces validation feedback keyed by field key, e.g. the
	// failing list from a rejected prepare. Renderers map these onto inline
	// markup next to the offending control.
	FieldErrors map[string][]string
}
