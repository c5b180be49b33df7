package gotemplate

import (
	"strings"
	"testing"
	"testing/fstest"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	files := fstest.MapFS{
		"greet.tmpl": {Data: []byte("Hello {{ name }}")},
	}
	engine, err := New(WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestRenderTemplate(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("greet", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if got != "Hello Ada" {
		t.Fatalf("render template = %q", got)
	}
}

func TestRenderString(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString("{{ value|trim }}", map[string]any{"value": "  padded  "})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "padded" {
		t.Fatalf("trim filter output = %q", got)
	}
}

func TestThousandsFilter(t *testing.T) {
	engine := newEngine(t)

	cases := []struct {
		in   string
		want string
	}{
		{"83520", "83,520"},
		{"1570.50", "1,570.50"},
		{"-19200", "-19,200"},
		{"412", "412"},
		{"n/a", "n/a"},
		{"", ""},
	}
	for _, tc := range cases {
		got, err := engine.RenderString("{{ value|thousands }}", map[string]any{"value": tc.in})
		if err != nil {
			t.Fatalf("thousands(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("thousands(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := New(); err == nil || !strings.Contains(err.Error(), "base dir or fs.FS") {
		t.Fatalf("New() without sources = %v, want source error", err)
	}
}
