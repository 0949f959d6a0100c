package payroll

import (
	"context"
	"fmt"
	"strings"

	"payslip/internal/domain/expr"
)

// EvalInput carries everything one evaluation pass needs. Rules must
// already be in resolver order; AllRules and Categories are lookup maps
// over the full master data.
type EvalInput struct {
	Employee   Employee
	Rules      []SalaryRule
	AllRules   map[string]SalaryRule
	Categories map[string]SalaryRuleCategory
	Inputs     []InputLine
	History    History
}

// EvaluateRules runs the dependency-ordered evaluation pass and returns
// the result entries in first-insertion order of distinct rule codes,
// plus the accumulated category totals keyed by category code. Any
// expression failure aborts the whole pass.
func EvaluateRules(ctx context.Context, in EvalInput) ([]Result, map[string]float64, error) {
	inputs := make(map[string]InputLine, len(in.Inputs))
	for _, line := range in.Inputs {
		inputs[line.Code] = line
	}

	env := &evalEnv{
		ctx:        ctx,
		employee:   in.Employee,
		codes:      codeTotals{},
		categories: codeTotals{},
		inputs:     inputs,
		history:    in.History,
	}

	blacklist := map[string]bool{}
	var results []Result
	resultIndex := map[string]int{}

	for _, rule := range in.Rules {
		if blacklist[rule.ID] {
			continue
		}

		ok, err := evalCondition(rule, env)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: rule %s condition: %v", ErrRuleEvaluation, rule.Code, err)
		}
		if !ok {
			for _, id := range descendantClosure(rule.ID, in.AllRules) {
				blacklist[id] = true
			}
			continue
		}

		amount, qty, rate, err := evalAmount(rule, env)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: rule %s: %v", ErrRuleEvaluation, rule.Code, err)
		}

		total := amount * qty * rate / 100.0
		previous := env.codes.getOrDefault(rule.Code)
		env.codes[rule.Code] = total

		// A rule evaluated twice only contributes the delta since its
		// last evaluation to each ancestor category.
		if err := accumulateCategory(env.categories, rule.CategoryID, in.Categories, total-previous); err != nil {
			return nil, nil, fmt.Errorf("rule %s: %w", rule.Code, err)
		}

		entry := Result{
			RuleID:   rule.ID,
			Code:     rule.Code,
			Amount:   amount,
			Quantity: qty,
			Rate:     rate,
			Total:    total,
		}
		if i, exists := resultIndex[rule.Code]; exists {
			results[i] = entry
		} else {
			resultIndex[rule.Code] = len(results)
			results = append(results, entry)
		}
	}

	return results, env.categories, nil
}

func evalCondition(rule SalaryRule, env *evalEnv) (bool, error) {
	condition := strings.TrimSpace(rule.Condition)
	if condition == "" {
		return true, nil
	}
	value, err := expr.Evaluate(condition, env)
	if err != nil {
		return false, err
	}
	return value.Truthy(), nil
}

func evalAmount(rule SalaryRule, env *evalEnv) (amount, qty, rate float64, err error) {
	amount, err = evalNumber(rule.AmountExpr, env)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("amount: %w", err)
	}

	qty = 1.0
	if strings.TrimSpace(rule.QuantityExpr) != "" {
		qty, err = evalNumber(rule.QuantityExpr, env)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("quantity: %w", err)
		}
	}

	rate = 100.0
	if strings.TrimSpace(rule.RateExpr) != "" {
		rate, err = evalNumber(rule.RateExpr, env)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("rate: %w", err)
		}
	}
	return amount, qty, rate, nil
}

func evalNumber(src string, env *evalEnv) (float64, error) {
	value, err := expr.Evaluate(src, env)
	if err != nil {
		return 0, err
	}
	return value.AsNumber()
}

// accumulateCategory adds delta to the category and every ancestor
// category, walking the parent chain iteratively.
func accumulateCategory(totals codeTotals, categoryID string, categories map[string]SalaryRuleCategory, delta float64) error {
	visited := map[string]bool{}
	id := categoryID
	for id != "" {
		if visited[id] {
			return fmt.Errorf("category hierarchy forms a cycle at %s", id)
		}
		visited[id] = true
		category, ok := categories[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		totals[category.Code] += delta
		id = category.ParentID
	}
	return nil
}
