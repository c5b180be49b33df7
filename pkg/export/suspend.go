package export

import "github.com/agrodocs/docforge/pkg/document"

// SuspendEdit switches the instance out of edit mode for the duration of fn
// and guarantees the prior mode is restored exactly once on every exit path:
// normal return, error, or panic. Capture and print both run through this so
// no caller can forget the restore half of the pattern.
func SuspendEdit(instance *document.Instance, fn func() error) error {
	if instance == nil {
		return fn()
	}
	previous := instance.EditMode()
	instance.SetEditMode(false)
	defer instance.SetEditMode(previous)
	return fn()
}
