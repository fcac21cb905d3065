package validate

import (
	"errors"
	"testing"
)

func TestCheck_FirstFailureWins(t *testing.T) {
	err := Check(
		P("rows", 2, Positive("must be a positive integer")),
		P("cols", 0, Positive("must be a positive integer")),
		P("left", -1.0, NonNegative("must be non-negative")),
	)
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %v", err)
	}
	if fe.Param != "cols" {
		t.Errorf("expected cols to fail first, got %s", fe.Param)
	}
	if err.Error() != "Parameter 'cols': must be a positive integer" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCheck_RulesInOrder(t *testing.T) {
	err := Check(P("size", -5, NonNegative("first"), Positive("second")))
	if err == nil || err.(*FieldError).Message != "first" {
		t.Errorf("expected first rule to fail, got %v", err)
	}
}

func TestCheck_NilSkips(t *testing.T) {
	var size *int
	var color *[]int
	if err := Check(P("font_size", size, Positive("x")), P("color", color, ValidRGB()), P("v", nil, Positive("x"))); err != nil {
		t.Errorf("expected omitted values to pass, got %v", err)
	}
	n := 0
	if err := Check(P("font_size", &n, Positive("x"))); err == nil {
		t.Error("expected pointer to zero to be checked")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		v    any
		want bool
	}{
		{"positive int", Positive(""), 1, true},
		{"positive zero", Positive(""), 0.0, false},
		{"positive string", Positive(""), "1", false},
		{"nonneg zero", NonNegative(""), 0, true},
		{"nonneg negative", NonNegative(""), -0.5, false},
		{"range low", InRange(0, 10, ""), 0, true},
		{"range high", InRange(0, 10, ""), 10.0, true},
		{"range out", InRange(0, 10, ""), 10.5, false},
		{"list hit", InList([]string{"left", "center"}, ""), "Center", true},
		{"list miss", InList([]string{"left", "center"}, ""), "middle", false},
		{"list non-string", InList([]string{"left"}, ""), 3, false},
	}
	for _, tc := range tests {
		if got := tc.rule.Check(tc.v); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestInList_DefaultMessage(t *testing.T) {
	r := InList([]string{"top", "middle", "bottom"}, "")
	if r.Message != "must be one of top, middle, bottom" {
		t.Errorf("unexpected message %q", r.Message)
	}
}

func TestIsRGB(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{[]int{0, 128, 255}, true},
		{[]any{float64(10), float64(20), float64(30)}, true},
		{[]float64{1, 2, 3}, true},
		{[]int{0, 0}, false},
		{[]int{0, 0, 256}, false},
		{[]int{-1, 0, 0}, false},
		{[]float64{1.5, 2, 3}, false},
		{[]any{"1", 2, 3}, false},
		{"red", false},
	}
	for _, tc := range tests {
		if got := IsRGB(tc.v); got != tc.want {
			t.Errorf("IsRGB(%v): expected %v, got %v", tc.v, tc.want, got)
		}
	}
}
