package variants

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/agrodocs/docforge/pkg/model"
)

func TestDefaultCatalogLoadsBuiltins(t *testing.T) {
	catalog := Default()

	want := []string{
		"coffee-compliance",
		"coffee-contract",
		"coffee-shipment",
		"fresh-produce-compliance",
		"fresh-produce-contract",
		"fresh-produce-shipment",
		"general-produce-compliance",
		"general-produce-contract",
		"general-produce-shipment",
	}
	if diff := cmp.Diff(want, catalog.List()); diff != "" {
		t.Fatalf("builtin variants mismatch (-want +got):\n%s", diff)
	}
}

func TestBuiltinModelsAreValid(t *testing.T) {
	catalog := Default()

	for _, id := range catalog.List() {
		m, ok := catalog.Get(id)
		if !ok {
			t.Fatalf("listed variant %q not retrievable", id)
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("builtin variant %q invalid: %v", id, err)
		}
		if m.Title == "" {
			t.Fatalf("builtin variant %q has no title", id)
		}
		if m.Kind == "" {
			t.Fatalf("builtin variant %q has no document kind", id)
		}
	}
}

func TestContractVariantsCarryComputedTotal(t *testing.T) {
	catalog := Default()

	for _, id := range []string{"coffee-contract", "general-produce-contract", "fresh-produce-contract"} {
		m, _ := catalog.Get(id)
		field, ok := m.Field("total_value")
		if !ok {
			t.Fatalf("variant %q missing total_value", id)
		}
		if field.Kind != model.KindComputed {
			t.Fatalf("variant %q total_value kind = %q", id, field.Kind)
		}
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	catalog := NewCatalog()
	m := model.FieldModel{
		VariantID: "coffee-contract",
		Fields:    []model.FieldDefinition{{Key: "buyer", Kind: model.KindShortText}},
	}

	if err := catalog.Register(m); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := catalog.Register(m); err == nil {
		t.Fatal("duplicate variant id should be rejected")
	}
}

func TestGetUnknownVariant(t *testing.T) {
	catalog := Default()
	if _, ok := catalog.Get("tea-contract"); ok {
		t.Fatal("unknown variant should not resolve")
	}
}
