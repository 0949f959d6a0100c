package expr

import (
	"fmt"
	"strings"
	"testing"
)

type mapObject struct {
	attrs map[string]Value
	calls map[string]func(args []Value) (Value, error)
}

func (o mapObject) Attr(name string) (Value, error) {
	if v, ok := o.attrs[name]; ok {
		return v, nil
	}
	return Number(0), nil
}

func (o mapObject) Call(name string, args []Value) (Value, error) {
	if fn, ok := o.calls[name]; ok {
		return fn(args)
	}
	return Value{}, fmt.Errorf("no method %q", name)
}

type mapEnv map[string]Value

func (e mapEnv) Resolve(name string) (Value, error) {
	if v, ok := e[name]; ok {
		return v, nil
	}
	return Number(0), nil
}

func testEnv() mapEnv {
	categories := mapObject{attrs: map[string]Value{
		"BASIC": Number(5000000),
		"ALW":   Number(250000),
	}}
	inputs := mapObject{
		attrs: map[string]Value{
			"SAL": ObjectValue(mapObject{attrs: map[string]Value{"amount": Number(5000000)}}),
		},
		calls: map[string]func(args []Value) (Value, error){
			"sum": func(args []Value) (Value, error) {
				if len(args) < 2 {
					return Value{}, fmt.Errorf("sum needs at least 2 args")
				}
				return Number(15000000), nil
			},
		},
	}
	return mapEnv{
		"categories": ObjectValue(categories),
		"inputs":     ObjectValue(inputs),
		"BASIC":      Number(5000000),
	}
}

func TestEvaluateArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 4", 2.5},
		{"-5 + 2", -3},
		{"2 * -3", -6},
		{"0.1 * 5000000", 500000},
	}
	for _, tc := range cases {
		got, err := Evaluate(tc.src, mapEnv{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.src, err)
		}
		num, err := got.AsNumber()
		if err != nil {
			t.Fatalf("%s: %v", tc.src, err)
		}
		if num != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.src, tc.want, num)
		}
	}
}

func TestEvaluateComparisonsAndLogic(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"BASIC > 0", true},
		{"BASIC >= 5000000", true},
		{"BASIC < 100", false},
		{"BASIC > 0 and BASIC < 100", false},
		{"BASIC > 0 or BASIC < 100", true},
		{"not BASIC > 0", false},
		{"UNKNOWN == 0", true},
		{"'a' < 'b'", true},
		{"true and false", false},
	}
	env := testEnv()
	for _, tc := range cases {
		got, err := Evaluate(tc.src, env)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.src, err)
		}
		if got.Truthy() != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.src, tc.want, got)
		}
	}
}

func TestEvaluateAttributesAndCalls(t *testing.T) {
	env := testEnv()

	got, err := Evaluate("categories.BASIC * 0.1", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num, _ := got.AsNumber(); num != 500000 {
		t.Fatalf("expected 500000, got %v", num)
	}

	got, err = Evaluate("inputs.SAL.amount", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num, _ := got.AsNumber(); num != 5000000 {
		t.Fatalf("expected 5000000, got %v", num)
	}

	got, err = Evaluate("inputs.sum('SAL', '2024-01-01', '2024-03-31') / 3", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num, _ := got.AsNumber(); num != 5000000 {
		t.Fatalf("expected 5000000, got %v", num)
	}

	got, err = Evaluate("categories.MISSING", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num, _ := got.AsNumber(); num != 0 {
		t.Fatalf("expected default 0 for unknown attribute, got %v", num)
	}
}

func TestEvaluateShortCircuit(t *testing.T) {
	// The right side would fail with a missing method, but the left
	// side decides the outcome first.
	env := testEnv()
	got, err := Evaluate("BASIC > 0 or inputs.nope()", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Truthy() {
		t.Fatal("expected true")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"1 +",
		"(1 + 2",
		"1 @ 2",
		"'unterminated",
		"foo.",
		"and 1",
		"1 2",
	}
	for _, src := range cases {
		if _, err := Parse(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	env := testEnv()
	cases := []string{
		"1 / 0",
		"'a' + 1",
		"BASIC.amount",
		"BASIC > 'x'",
		"inputs.nope()",
	}
	for _, src := range cases {
		if _, err := Evaluate(src, env); err == nil {
			t.Fatalf("expected eval error for %q", src)
		}
	}
}

func TestErrorMessagesCarryPosition(t *testing.T) {
	_, err := Parse("1 + + 2")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "position") {
		t.Fatalf("expected position in error, got %v", err)
	}
}
