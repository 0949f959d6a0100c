package payroll

import (
	"context"
	"strings"
	"testing"
	"time"

	"payslip/internal/domain/expr"
)

type recordingHistory struct {
	code string
	from time.Time
	to   time.Time
	out  float64
}

func (h *recordingHistory) PayslipSum(_ context.Context, _ string, code string, from, to time.Time) (float64, error) {
	h.code, h.from, h.to = code, from, to
	return h.out, nil
}

func (h *recordingHistory) InputSum(_ context.Context, _ string, code string, from, to time.Time) (float64, error) {
	h.code, h.from, h.to = code, from, to
	return h.out, nil
}

func newTestEnv(history History) *evalEnv {
	return &evalEnv{
		ctx:        context.Background(),
		employee:   Employee{ID: "e1", Name: "Siti", Attributes: map[string]float64{"children": 2}},
		codes:      codeTotals{"BASIC": 5000},
		categories: codeTotals{"GROSS": 8000},
		inputs:     map[string]InputLine{"SAL": {Code: "SAL", Amount: 7000000}},
		history:    history,
	}
}

func mustEvalNumber(t *testing.T, env *evalEnv, src string) float64 {
	t.Helper()
	value, err := expr.Evaluate(src, env)
	if err != nil {
		t.Fatalf("evaluate %q: %v", src, err)
	}
	n, err := value.AsNumber()
	if err != nil {
		t.Fatalf("not a number for %q: %v", src, err)
	}
	return n
}

func TestEnvNamespaceDefaults(t *testing.T) {
	env := newTestEnv(&recordingHistory{})

	cases := []struct {
		src  string
		want float64
	}{
		{"BASIC", 5000},
		{"UNKNOWN", 0},
		{"rules.BASIC", 5000},
		{"rules.NOPE", 0},
		{"categories.GROSS", 8000},
		{"categories.NOPE", 0},
		{"inputs.SAL.amount", 7000000},
		{"inputs.MISSING.amount", 0},
		{"employee.children", 2},
		{"employee.missing_attr", 0},
	}
	for _, tc := range cases {
		if got := mustEvalNumber(t, env, tc.src); got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.src, tc.want, got)
		}
	}
}

func TestPayslipSumPassesArgsThrough(t *testing.T) {
	history := &recordingHistory{out: 15000000}
	env := newTestEnv(history)

	got := mustEvalNumber(t, env, "payslip.sum('SAL', '2024-01-01', '2024-03-31')")
	if got != 15000000 {
		t.Fatalf("expected 15000000, got %v", got)
	}
	if history.code != "SAL" {
		t.Fatalf("expected code SAL, got %q", history.code)
	}
	if history.from.Format("2006-01-02") != "2024-01-01" || history.to.Format("2006-01-02") != "2024-03-31" {
		t.Fatalf("unexpected window %v..%v", history.from, history.to)
	}
}

func TestSumToDateDefaultsToToday(t *testing.T) {
	history := &recordingHistory{}
	env := newTestEnv(history)

	mustEvalNumber(t, env, "inputs.sum('SAL', '2024-01-01')")
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !history.to.Equal(today) {
		t.Fatalf("expected to_date default %v, got %v", today, history.to)
	}
}

func TestSumRejectsBadArgs(t *testing.T) {
	env := newTestEnv(&recordingHistory{})

	for _, src := range []string{
		"payslip.sum('SAL')",
		"payslip.sum('SAL', 'not-a-date')",
		"payslip.sum('SAL', '2024-01-01', '2024-02-01', '2024-03-01')",
	} {
		if _, err := expr.Evaluate(src, env); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

func TestUnknownMethodErrors(t *testing.T) {
	env := newTestEnv(&recordingHistory{})

	_, err := expr.Evaluate("payslip.average('SAL', '2024-01-01')", env)
	if err == nil || !strings.Contains(err.Error(), "average") {
		t.Fatalf("expected unknown method error, got %v", err)
	}
}

func TestEmployeeNameIsString(t *testing.T) {
	env := newTestEnv(&recordingHistory{})

	value, err := expr.Evaluate("employee.name == 'Siti'", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Truthy() {
		t.Fatal("expected name comparison to hold")
	}
}
