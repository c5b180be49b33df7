package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/agrodocs/docforge/pkg/document"
	"github.com/agrodocs/docforge/pkg/model"
	"github.com/agrodocs/docforge/pkg/render"
)

type fieldRenderer struct {
	registry *ControlRegistry
}

func newFieldRenderer(registry *ControlRegistry) *fieldRenderer {
	if registry == nil {
		registry = NewControlRegistry()
	}
	return &fieldRenderer{registry: registry}
}

// renderField resolves the effective value once and hands it to the control
// for the field's kind, wrapping the result in the shared field chrome.
func (r *fieldRenderer) renderField(instance *document.Instance, field model.FieldDefinition, options render.Options) (string, error) {
	control, ok := r.registry.Control(field.Kind)
	if !ok {
		return "", fmt.Errorf("vanilla: no control registered for kind %q (field %q)", field.Kind, field.Key)
	}

	value := instance.EffectiveValue(field.Key)

	var controlBuf bytes.Buffer
	data := ControlData{Field: field, Value: value, EditMode: options.EditMode}
	if err := control(&controlBuf, data); err != nil {
		return "", fmt.Errorf("vanilla: render control for field %q: %w", field.Key, err)
	}

	return buildFieldMarkup(field, controlBuf.String(), options.FieldErrors[field.Key]), nil
}

func buildFieldMarkup(field model.FieldDefinition, control string, errors []string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 192)

	builder.WriteString(`<div class="` + string(ClassField) + `" data-field=`)
	builder.WriteString(fmt.Sprintf("%q", field.Key))
	builder.WriteString(` data-kind=`)
	builder.WriteString(fmt.Sprintf("%q", string(field.Kind)))
	builder.WriteString(">\n")

	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString(`    <label for=`)
		builder.WriteString(fmt.Sprintf("%q", controlID(field.Key)))
		builder.WriteString(`>`)
		builder.WriteString(html.EscapeString(label))
		if field.Required {
			builder.WriteString(` *`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if len(errors) > 0 {
		builder.WriteString(`    <ul class="` + string(ClassErrors) + `">` + "\n")
		for _, message := range errors {
			builder.WriteString("        <li>")
			builder.WriteString(html.EscapeString(message))
			builder.WriteString("</li>\n")
		}
		builder.WriteString("    </ul>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
