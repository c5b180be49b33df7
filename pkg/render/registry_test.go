package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/agrodocs/docforge/pkg/document"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (s stubRenderer) Render(context.Context, *document.Instance, Options) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistryBindAndLookup(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Bind("coffee-contract", stubRenderer{name: "contract"}); err != nil {
		t.Fatalf("bind: %v", err)
	}

	renderer, ok := reg.Lookup("coffee-contract")
	if !ok {
		t.Fatal("bound variant should resolve")
	}
	if renderer.Name() != "contract" {
		t.Fatalf("renderer name = %q", renderer.Name())
	}

	if _, ok := reg.Lookup("tea-contract"); ok {
		t.Fatal("unknown variant must not resolve")
	}
}

func TestRegistryRejectsDuplicateAndNil(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Bind("coffee-contract", stubRenderer{name: "a"}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := reg.Bind("coffee-contract", stubRenderer{name: "b"}); err == nil {
		t.Fatal("duplicate binding should fail")
	}
	if err := reg.Bind("coffee-shipment", nil); err == nil {
		t.Fatal("nil renderer should fail")
	}
	if err := reg.Bind("  ", stubRenderer{name: "c"}); err == nil {
		t.Fatal("blank variant id should fail")
	}
}

func TestRegistryVariantsSorted(t *testing.T) {
	reg := NewRegistry()
	reg.MustBind("coffee-shipment", stubRenderer{name: "s"})
	reg.MustBind("coffee-contract", stubRenderer{name: "c"})

	want := []string{"coffee-contract", "coffee-shipment"}
	if diff := cmp.Diff(want, reg.Variants()); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}
}
