package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/agrodocs/docforge/pkg/model"
)

// Control renders the interactive or static markup for one field. The same
// effective value feeds both modes so toggling edit can never desynchronise
// the display from the stored overrides.
type Control func(buf *bytes.Buffer, data ControlData) error

// ControlData carries everything a control needs to render one field.
type ControlData struct {
	Field model.FieldDefinition
	// Value is the resolved effective value (override > default, or the
	// computed result for computed kinds).
	Value    string
	EditMode bool
}

// ControlRegistry maps field kinds to control renderers. Callers can replace
// built-ins to customise a single kind without forking the renderer.
type ControlRegistry struct {
	mu       sync.RWMutex
	controls map[model.FieldKind]Control
}

// NewControlRegistry constructs a registry seeded with the built-in controls.
func NewControlRegistry() *ControlRegistry {
	reg := &ControlRegistry{controls: make(map[model.FieldKind]Control)}
	reg.Register(model.KindShortText, textControl)
	reg.Register(model.KindLongText, multilineControl)
	reg.Register(model.KindDate, dateControl)
	reg.Register(model.KindChoice, choiceControl)
	reg.Register(model.KindComputed, computedControl)
	return reg
}

// Register associates a control with a kind, replacing any existing entry.
func (r *ControlRegistry) Register(kind model.FieldKind, control Control) {
	if control == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controls[kind] = control
}

// Control fetches the renderer for kind.
func (r *ControlRegistry) Control(kind model.FieldKind) (Control, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	control, ok := r.controls[kind]
	return control, ok
}

// longTextPolicy strips any markup an operator may paste into multiline
// fields before it lands in view-mode output.
var longTextPolicy = bluemonday.StrictPolicy()

func controlID(key string) string {
	return "df-" + strings.TrimSpace(key)
}

func textControl(buf *bytes.Buffer, data ControlData) error {
	if !data.EditMode {
		writeStaticValue(buf, data.Value, false)
		return nil
	}
	fmt.Fprintf(buf, `<input type="text" id=%q name=%q value=%q>`,
		controlID(data.Field.Key), data.Field.Key, html.EscapeString(data.Value))
	buf.WriteByte('\n')
	return nil
}

func dateControl(buf *bytes.Buffer, data ControlData) error {
	if !data.EditMode {
		writeStaticValue(buf, data.Value, false)
		return nil
	}
	fmt.Fprintf(buf, `<input type="date" id=%q name=%q value=%q>`,
		controlID(data.Field.Key), data.Field.Key, html.EscapeString(data.Value))
	buf.WriteByte('\n')
	return nil
}

func multilineControl(buf *bytes.Buffer, data ControlData) error {
	if !data.EditMode {
		sanitized := longTextPolicy.Sanitize(data.Value)
		buf.WriteString(`<p class="` + string(ClassValue) + " " + string(ClassMultiline) + `">`)
		buf.WriteString(strings.ReplaceAll(sanitized, "\n", "<br>"))
		buf.WriteString("</p>\n")
		return nil
	}
	fmt.Fprintf(buf, `<textarea id=%q name=%q rows="4">%s</textarea>`,
		controlID(data.Field.Key), data.Field.Key, html.EscapeString(data.Value))
	buf.WriteByte('\n')
	return nil
}

func choiceControl(buf *bytes.Buffer, data ControlData) error {
	if !data.EditMode {
		writeStaticValue(buf, data.Value, false)
		return nil
	}
	fmt.Fprintf(buf, `<select id=%q name=%q>`, controlID(data.Field.Key), data.Field.Key)
	buf.WriteByte('\n')
	for _, option := range data.Field.Options {
		selected := ""
		if option == data.Value {
			selected = ` selected`
		}
		fmt.Fprintf(buf, `    <option value=%q%s>%s</option>`,
			html.EscapeString(option), selected, html.EscapeString(option))
		buf.WriteByte('\n')
	}
	buf.WriteString("</select>\n")
	return nil
}

// computedControl renders static text in both modes: computed values derive
// from sibling fields and are never directly editable.
func computedControl(buf *bytes.Buffer, data ControlData) error {
	writeStaticValue(buf, data.Value, true)
	return nil
}

func writeStaticValue(buf *bytes.Buffer, value string, computed bool) {
	class := string(ClassValue)
	if computed {
		class += " " + string(ClassComputed)
	}
	buf.WriteString(`<span class="` + class + `">`)
	buf.WriteString(html.EscapeString(value))
	buf.WriteString("</span>\n")
}
