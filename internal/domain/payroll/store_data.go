package payroll

import (
	"context"
	"encoding/json"
	"sort"
)

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var employee Employee
	var attrsJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, company_id, COALESCE(attributes_json, '{}')
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&employee.ID, &employee.Name, &employee.CompanyID, &attrsJSON)
	if err != nil {
		return Employee{}, err
	}
	if err := json.Unmarshal(attrsJSON, &employee.Attributes); err != nil {
		employee.Attributes = map[string]float64{}
	}
	return employee, nil
}

func (s *Store) LoadCategories(ctx context.Context) (map[string]SalaryRuleCategory, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, code, name, COALESCE(parent_id::text, '')
    FROM salary_rule_categories
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := map[string]SalaryRuleCategory{}
	for rows.Next() {
		var category SalaryRuleCategory
		if err := rows.Scan(&category.ID, &category.Code, &category.Name, &category.ParentID); err != nil {
			return nil, err
		}
		categories[category.ID] = category
	}
	return categories, nil
}

func (s *Store) LoadRules(ctx context.Context) (map[string]SalaryRule, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, code, name, sequence, category_id,
           COALESCE(condition_expr, ''), amount_expr,
           COALESCE(quantity_expr, ''), COALESCE(rate_expr, ''),
           COALESCE(debit_account_id::text, ''), COALESCE(credit_account_id::text, '')
    FROM salary_rules
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := map[string]SalaryRule{}
	for rows.Next() {
		var rule SalaryRule
		if err := rows.Scan(&rule.ID, &rule.Code, &rule.Name, &rule.Sequence, &rule.CategoryID,
			&rule.Condition, &rule.AmountExpr, &rule.QuantityExpr, &rule.RateExpr,
			&rule.DebitAccountID, &rule.CreditAccountID); err != nil {
			return nil, err
		}
		rules[rule.ID] = rule
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	childRows, err := s.DB.Query(ctx, `
    SELECT parent_rule_id, child_rule_id
    FROM salary_rule_children
    ORDER BY parent_rule_id, child_rule_id
  `)
	if err != nil {
		return nil, err
	}
	defer childRows.Close()

	for childRows.Next() {
		var parentID, childID string
		if err := childRows.Scan(&parentID, &childID); err != nil {
			return nil, err
		}
		rule, ok := rules[parentID]
		if !ok {
			continue
		}
		rule.ChildIDs = append(rule.ChildIDs, childID)
		rules[parentID] = rule
	}
	return rules, nil
}

func (s *Store) LoadStructures(ctx context.Context) (map[string]SalaryStructure, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, code, name, COALESCE(parent_id::text, '')
    FROM salary_structures
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	structures := map[string]SalaryStructure{}
	for rows.Next() {
		var structure SalaryStructure
		if err := rows.Scan(&structure.ID, &structure.Code, &structure.Name, &structure.ParentID); err != nil {
			return nil, err
		}
		structures[structure.ID] = structure
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ruleRows, err := s.DB.Query(ctx, `
    SELECT structure_id, rule_id
    FROM salary_structure_rules
    ORDER BY structure_id, position
  `)
	if err != nil {
		return nil, err
	}
	defer ruleRows.Close()

	for ruleRows.Next() {
		var structureID, ruleID string
		if err := ruleRows.Scan(&structureID, &ruleID); err != nil {
			return nil, err
		}
		structure, ok := structures[structureID]
		if !ok {
			continue
		}
		structure.RuleIDs = append(structure.RuleIDs, ruleID)
		structures[structureID] = structure
	}
	return structures, nil
}

func (s *Store) GetPayslipType(ctx context.Context, typeID string) (PayslipType, error) {
	var payslipType PayslipType
	err := s.DB.QueryRow(ctx, `
    SELECT id, code, name, COALESCE(journal_id::text, '')
    FROM payslip_types
    WHERE id = $1
  `, typeID).Scan(&payslipType.ID, &payslipType.Code, &payslipType.Name, &payslipType.JournalID)
	if err != nil {
		return PayslipType{}, err
	}
	return payslipType, nil
}

func (s *Store) ListPayslipTypes(ctx context.Context) ([]PayslipType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, code, name, COALESCE(journal_id::text, '')
    FROM payslip_types
    ORDER BY code
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []PayslipType
	for rows.Next() {
		var payslipType PayslipType
		if err := rows.Scan(&payslipType.ID, &payslipType.Code, &payslipType.Name, &payslipType.JournalID); err != nil {
			return nil, err
		}
		types = append(types, payslipType)
	}
	return types, nil
}

func (s *Store) ListInputTypes(ctx context.Context) ([]InputType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, code, name
    FROM payslip_input_types
    ORDER BY code
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []InputType
	for rows.Next() {
		var inputType InputType
		if err := rows.Scan(&inputType.ID, &inputType.Code, &inputType.Name); err != nil {
			return nil, err
		}
		types = append(types, inputType)
	}
	return types, nil
}

func (s *Store) ListStructures(ctx context.Context) ([]SalaryStructure, error) {
	structures, err := s.LoadStructures(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SalaryStructure, 0, len(structures))
	for _, structure := range structures {
		out = append(out, structure)
	}
	sortStructures(out)
	return out, nil
}

func (s *Store) ListRules(ctx context.Context) ([]SalaryRule, error) {
	rules, err := s.LoadRules(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SalaryRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, rule)
	}
	sortRules(out)
	return out, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]SalaryRuleCategory, error) {
	categories, err := s.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SalaryRuleCategory, 0, len(categories))
	for _, category := range categories {
		out = append(out, category)
	}
	sortCategories(out)
	return out, nil
}

func sortStructures(structures []SalaryStructure) {
	sort.Slice(structures, func(i, j int) bool { return structures[i].Code < structures[j].Code })
}

func sortRules(rules []SalaryRule) {
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Sequence == rules[j].Sequence {
			return rules[i].Code < rules[j].Code
		}
		return rules[i].Sequence < rules[j].Sequence
	})
}

func sortCategories(categories []SalaryRuleCategory) {
	sort.Slice(categories, func(i, j int) bool { return categories[i].Code < categories[j].Code })
}
