package compute

import (
	"math"
	"strings"
	"testing"
)

func resolver(values map[string]string) Resolver {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestEvalArithmetic(t *testing.T) {
	t.Parallel()

	eval := New()
	values := map[string]string{
		"quantity_kg": "19200",
		"unit_price":  "4.35",
		"freight":     "1,250.50",
		"insurance":   "320",
		"empty":       "",
	}

	cases := []struct {
		expr string
		want float64
	}{
		{"quantity_kg * unit_price", 83520},
		{"sum(freight, insurance)", 1570.50},
		{"(quantity_kg * unit_price) + sum(freight, insurance)", 85090.50},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"-insurance + 320", 0},
		{"empty + 5", 5},
		{"10 / 4", 2.5},
	}

	for _, tc := range cases {
		got, err := eval.Eval(tc.expr, resolver(values))
		if err != nil {
			t.Fatalf("Eval(%q): %v", tc.expr, err)
		}
		if math.Abs(got-tc.want) > 1e-6 {
			t.Fatalf("Eval(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()

	eval := New()
	values := map[string]string{"price": "abc", "zero": "0", "amount": "10"}

	cases := []struct {
		name string
		expr string
		want string
	}{
		{"empty expression", "  ", "empty expression"},
		{"unknown field", "amount * missing", "unknown field"},
		{"non numeric field", "price * 2", "not numeric"},
		{"division by zero", "amount / zero", "division by zero"},
		{"dangling operator", "amount *", "unexpected end"},
		{"unbalanced paren", "(amount + 2", "missing closing"},
		{"stray token", "amount 2", "unexpected token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eval.Eval(tc.expr, resolver(values))
			if err == nil {
				t.Fatalf("Eval(%q): expected error", tc.expr)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Eval(%q) error = %q, want substring %q", tc.expr, err, tc.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want string
	}{
		{83520, "83520"},
		{1570.5, "1570.50"},
		{0, "0"},
		{2.5, "2.50"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
