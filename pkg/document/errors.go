package document

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotPrepared gates side-effecting reads (print/export) on the Prepared
// state. Reaching it is a wiring bug in the hosting UI, which must disable
// the actions instead; it is still returned defensively.
var ErrNotPrepared = errors.New("document: instance is not prepared")

// ErrNotSavable is returned when a save is attempted before the instance has
// been prepared.
var ErrNotSavable = errors.New("document: instance must be prepared before saving")

// ValidationError reports the required fields that blocked a lifecycle
// transition. The instance stays in its prior state.
type ValidationError struct {
	// Fields lists the offending field keys in model order.
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "document: validation failed"
	}
	return fmt.Sprintf("document: required fields missing: %s", strings.Join(e.Fields, ", "))
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
