package payroll

import (
	"context"
	"fmt"
	"time"

	"payslip/internal/domain/expr"
)

// History aggregates amounts over the employee's already-finalized
// payslips. Implementations must only read payslips in the done state.
type History interface {
	// PayslipSum sums line totals by rule code, signed negative for
	// credit-note payslips.
	PayslipSum(ctx context.Context, employeeID, code string, from, to time.Time) (float64, error)
	// InputSum sums input line amounts by input type code.
	InputSum(ctx context.Context, employeeID, code string, from, to time.Time) (float64, error)
}

// codeTotals is the accumulating view over named numeric values that
// rule expressions see: unknown names read as 0.0.
type codeTotals map[string]float64

func (t codeTotals) getOrDefault(name string) float64 {
	return t[name]
}

// evalEnv wires the categories/rules/inputs/payslip/employee namespaces
// into the expression evaluator for one payslip pass.
type evalEnv struct {
	ctx        context.Context
	employee   Employee
	codes      codeTotals
	categories codeTotals
	inputs     map[string]InputLine
	history    History
}

func (e *evalEnv) Resolve(name string) (expr.Value, error) {
	switch name {
	case "categories":
		return expr.ObjectValue(accumulatorObject{totals: e.categories}), nil
	case "rules":
		return expr.ObjectValue(accumulatorObject{totals: e.codes}), nil
	case "inputs":
		return expr.ObjectValue(inputsObject{env: e}), nil
	case "payslip":
		return expr.ObjectValue(payslipObject{env: e}), nil
	case "employee":
		return expr.ObjectValue(employeeObject{employee: e.employee}), nil
	}
	// Bare identifiers read the running total of the rule code,
	// 0.0 until the rule has produced a result.
	return expr.Number(e.codes.getOrDefault(name)), nil
}

type accumulatorObject struct {
	totals codeTotals
}

func (o accumulatorObject) Attr(name string) (expr.Value, error) {
	return expr.Number(o.totals.getOrDefault(name)), nil
}

func (o accumulatorObject) Call(name string, _ []expr.Value) (expr.Value, error) {
	return expr.Value{}, fmt.Errorf("unknown method %q", name)
}

type inputsObject struct {
	env *evalEnv
}

func (o inputsObject) Attr(name string) (expr.Value, error) {
	line := o.env.inputs[name]
	return expr.ObjectValue(inputLineObject{line: line}), nil
}

func (o inputsObject) Call(name string, args []expr.Value) (expr.Value, error) {
	if name != "sum" {
		return expr.Value{}, fmt.Errorf("unknown method %q", name)
	}
	code, from, to, err := sumArgs(args)
	if err != nil {
		return expr.Value{}, err
	}
	total, err := o.env.history.InputSum(o.env.ctx, o.env.employee.ID, code, from, to)
	if err != nil {
		return expr.Value{}, err
	}
	return expr.Number(total), nil
}

type inputLineObject struct {
	line InputLine
}

func (o inputLineObject) Attr(name string) (expr.Value, error) {
	switch name {
	case "amount":
		return expr.Number(o.line.Amount), nil
	case "code":
		return expr.String(o.line.Code), nil
	}
	return expr.Number(0), nil
}

func (o inputLineObject) Call(name string, _ []expr.Value) (expr.Value, error) {
	return expr.Value{}, fmt.Errorf("unknown method %q", name)
}

type payslipObject struct {
	env *evalEnv
}

func (o payslipObject) Attr(_ string) (expr.Value, error) {
	return expr.Number(0), nil
}

func (o payslipObject) Call(name string, args []expr.Value) (expr.Value, error) {
	if name != "sum" {
		return expr.Value{}, fmt.Errorf("unknown method %q", name)
	}
	code, from, to, err := sumArgs(args)
	if err != nil {
		return expr.Value{}, err
	}
	total, err := o.env.history.PayslipSum(o.env.ctx, o.env.employee.ID, code, from, to)
	if err != nil {
		return expr.Value{}, err
	}
	return expr.Number(total), nil
}

type employeeObject struct {
	employee Employee
}

func (o employeeObject) Attr(name string) (expr.Value, error) {
	if name == "name" {
		return expr.String(o.employee.Name), nil
	}
	return expr.Number(o.employee.Attributes[name]), nil
}

func (o employeeObject) Call(name string, _ []expr.Value) (expr.Value, error) {
	return expr.Value{}, fmt.Errorf("unknown method %q", name)
}

// sumArgs unpacks sum(code, from[, to]); to defaults to today.
func sumArgs(args []expr.Value) (string, time.Time, time.Time, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", time.Time{}, time.Time{}, fmt.Errorf("sum expects (code, from_date[, to_date]), got %d args", len(args))
	}
	code, err := args[0].AsString()
	if err != nil {
		return "", time.Time{}, time.Time{}, fmt.Errorf("sum code: %w", err)
	}
	from, err := sumDate(args[1])
	if err != nil {
		return "", time.Time{}, time.Time{}, fmt.Errorf("sum from_date: %w", err)
	}
	to := time.Now().UTC().Truncate(24 * time.Hour)
	if len(args) == 3 {
		to, err = sumDate(args[2])
		if err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("sum to_date: %w", err)
		}
	}
	return code, from, to, nil
}

func sumDate(v expr.Value) (time.Time, error) {
	raw, err := v.AsString()
	if err != nil {
		return time.Time{}, err
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return parsed, nil
}
