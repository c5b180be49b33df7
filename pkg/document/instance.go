package document

import (
	"strings"
	"time"

	"github.com/agrodocs/docforge/pkg/model"
)

// State is the lifecycle position of a document instance. The pre-selection
// "no document yet" position has no State value: it is represented by the
// absence of an Instance, and selecting a variant constructs one directly
// in StateEditing.
type State string

const (
	// StateEditing allows field mutation. View mode is a sub-mode of
	// Editing, not a distinct state: content can still be reset.
	StateEditing State = "editing"
	// StatePrepared means content was validated and frozen; print, export,
	// and save become available.
	StatePrepared State = "prepared"
	// StateSaved marks the active snapshot as persisted to a registry. The
	// record itself is terminal; the instance branches back to Editing on
	// the next mutation.
	StateSaved State = "saved"
)

// Option configures an Instance at construction.
type Option func(*Instance)

// WithClock overrides the time source used for prepare timestamps.
func WithClock(clock func() time.Time) Option {
	return func(i *Instance) {
		if clock != nil {
			i.clock = clock
		}
	}
}

// WithOverrides seeds the instance store with a copy of an existing snapshot,
// e.g. when loading a saved template.
func WithOverrides(values map[string]string) Option {
	return func(i *Instance) {
		i.store = StoreFromSnapshot(values)
	}
}

// Instance pairs a variant field model with per-instance override state and
// the lifecycle governing which actions are allowed. One instance is edited
// by one operator at a time; methods are not safe for concurrent use.
type Instance struct {
	model model.FieldModel
	store *OverrideStore

	state      State
	editMode   bool
	preparedAt time.Time
	clock      func() time.Time
}

// NewInstance creates an instance for the given variant model and enters
// Editing with edit mode on, mirroring the operator having just selected a
// variant. The store starts empty; defaults apply lazily on read.
func NewInstance(m model.FieldModel, options ...Option) *Instance {
	inst := &Instance{
		model:    m,
		store:    NewOverrideStore(),
		state:    StateEditing,
		editMode: true,
		clock:    time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(inst)
		}
	}
	return inst
}

// Model returns the variant field model backing this instance.
func (i *Instance) Model() model.FieldModel { return i.model }

// VariantID returns the variant this instance renders.
func (i *Instance) VariantID() string { return i.model.VariantID }

// Store exposes the override store for effective-value resolution.
func (i *Instance) Store() *OverrideStore { return i.store }

// State returns the current lifecycle state.
func (i *Instance) State() State { return i.state }

// EditMode reports whether field controls are currently mutable.
func (i *Instance) EditMode() bool { return i.editMode }

// PreparedAt returns the snapshot reference time of the last successful
// Prepare, zero if never prepared.
func (i *Instance) PreparedAt() time.Time { return i.preparedAt }

// SetEditMode toggles between the editable form and the read-only document
// view. Toggling never changes lifecycle state.
func (i *Instance) SetEditMode(enabled bool) { i.editMode = enabled }

// EffectiveValue resolves the displayed value for key on this instance.
func (i *Instance) EffectiveValue(key string) string {
	return EffectiveValue(i.model, i.store, key)
}

// SetField records an operator edit. Mutating a Prepared or Saved instance
// revokes the prepared snapshot and drops back to Editing: export and print
// stay disabled until the operator prepares again, so stale content can
// never be exported silently.
func (i *Instance) SetField(key, value string) {
	i.store.Set(key, value)
	i.revoke()
}

// ResetFields clears all overrides, falling back to variant defaults. It is
// idempotent and, like SetField, revokes any prepared snapshot.
func (i *Instance) ResetFields() {
	i.store.Reset()
	i.revoke()
}

func (i *Instance) revoke() {
	i.state = StateEditing
	i.preparedAt = time.Time{}
}

// Prepare validates required fields and freezes the instance for export. On
// failure the instance stays in Editing and the error lists the offending
// keys. Preparing an already-prepared instance refreshes the snapshot time.
func (i *Instance) Prepare() error {
	if missing := i.missingRequired(); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	i.state = StatePrepared
	i.preparedAt = i.clock()
	return nil
}

// Exportable reports whether print and export actions are allowed: the
// instance holds a prepared snapshot that no later mutation has revoked.
func (i *Instance) Exportable() bool {
	return i.state == StatePrepared || i.state == StateSaved
}

// MarkSaved transitions Prepared -> Saved after the registry accepted the
// snapshot. Saving without a prepared snapshot is rejected.
func (i *Instance) MarkSaved() error {
	if !i.Exportable() {
		return ErrNotSavable
	}
	i.state = StateSaved
	return nil
}

// Branch returns a fresh Editing instance carrying a copy of this instance's
// overrides, leaving the receiver (typically Saved) untouched.
func (i *Instance) Branch() *Instance {
	return &Instance{
		model:    i.model,
		store:    i.store.Clone(),
		state:    StateEditing,
		editMode: true,
		clock:    i.clock,
	}
}

func (i *Instance) missingRequired() []string {
	var missing []string
	for _, key := range i.model.RequiredKeys() {
		if strings.TrimSpace(i.EffectiveValue(key)) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
