package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"payslip/internal/domain/auth"
	"payslip/internal/platform/config"
)

// Seed provisions the admin user and a minimal payroll configuration:
// one company with its currency and journal, the standard category
// tree, a basic salary structure and the input types it reads.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	if err := ensureCurrency(ctx, pool, "IDR", "Indonesian Rupiah", 1.0); err != nil {
		return err
	}
	companyID, err := ensureCompany(ctx, pool, "Default Company", "IDR")
	if err != nil {
		return err
	}

	expenseID, err := ensureAccount(ctx, pool, companyID, "6000", "Salary Expenses")
	if err != nil {
		return err
	}
	payableID, err := ensureAccount(ctx, pool, companyID, "2100", "Payroll Payable")
	if err != nil {
		return err
	}
	suspenseID, err := ensureAccount(ctx, pool, companyID, "9999", "Payroll Suspense")
	if err != nil {
		return err
	}
	journalID, err := ensureJournal(ctx, pool, companyID, "SAL", "Salary Journal", suspenseID)
	if err != nil {
		return err
	}

	basicCat, err := ensureCategory(ctx, pool, "BASIC", "Basic", "")
	if err != nil {
		return err
	}
	grossCat, err := ensureCategory(ctx, pool, "GROSS", "Gross", "")
	if err != nil {
		return err
	}
	if _, err := ensureCategory(ctx, pool, "ALW", "Allowances", grossCat); err != nil {
		return err
	}
	dedCat, err := ensureCategory(ctx, pool, "DED", "Deductions", "")
	if err != nil {
		return err
	}
	netCat, err := ensureCategory(ctx, pool, "NET", "Net", "")
	if err != nil {
		return err
	}

	basicRule, err := ensureRule(ctx, pool, seedRule{
		Code: "BASIC", Name: "Basic Salary", Sequence: 1, CategoryID: basicCat,
		AmountExpr: "inputs.SAL.amount",
		DebitID:    expenseID, CreditID: payableID,
	})
	if err != nil {
		return err
	}
	grossRule, err := ensureRule(ctx, pool, seedRule{
		Code: "GROSS", Name: "Gross", Sequence: 100, CategoryID: grossCat,
		AmountExpr: "categories.BASIC + categories.ALW",
	})
	if err != nil {
		return err
	}
	taxRule, err := ensureRule(ctx, pool, seedRule{
		Code: "TAX", Name: "Income Tax", Sequence: 150, CategoryID: dedCat,
		Condition:  "categories.GROSS > 0",
		AmountExpr: "-0.05 * categories.GROSS",
		DebitID:    payableID, CreditID: expenseID,
	})
	if err != nil {
		return err
	}
	netRule, err := ensureRule(ctx, pool, seedRule{
		Code: "NET", Name: "Net Salary", Sequence: 200, CategoryID: netCat,
		AmountExpr: "categories.GROSS + categories.DED",
	})
	if err != nil {
		return err
	}

	if _, err := ensureStructure(ctx, pool, "BASE", "Base Structure",
		basicRule, grossRule, taxRule, netRule); err != nil {
		return err
	}

	if err := ensureInputType(ctx, pool, "SAL", "Contract Salary"); err != nil {
		return err
	}
	return ensurePayslipType(ctx, pool, "REG", "Regular Payslip", journalID)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, name, password_hash)
    VALUES ($1, 'Administrator', $2)
  `, email, hash)
	return err
}

func ensureCurrency(ctx context.Context, pool *pgxpool.Pool, code, name string, rounding float64) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO currencies (code, name, rounding)
    VALUES ($1, $2, $3)
    ON CONFLICT (code) DO NOTHING
  `, code, name, rounding)
	return err
}

func ensureCompany(ctx context.Context, pool *pgxpool.Pool, name, currencyCode string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM companies WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO companies (name, currency_code)
    VALUES ($1, $2)
    RETURNING id
  `, name, currencyCode).Scan(&id)
	return id, err
}

func ensureAccount(ctx context.Context, pool *pgxpool.Pool, companyID, code, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM accounts WHERE company_id = $1 AND code = $2", companyID, code).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO accounts (company_id, code, name)
    VALUES ($1, $2, $3)
    RETURNING id
  `, companyID, code, name).Scan(&id)
	return id, err
}

func ensureJournal(ctx context.Context, pool *pgxpool.Pool, companyID, code, name, defaultAccountID string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM account_journals WHERE company_id = $1 AND code = $2", companyID, code).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO account_journals (company_id, code, name, default_account_id)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, companyID, code, name, defaultAccountID).Scan(&id)
	return id, err
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, code, name, parentID string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM salary_rule_categories WHERE code = $1", code).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO salary_rule_categories (code, name, parent_id)
    VALUES ($1, $2, NULLIF($3, '')::uuid)
    RETURNING id
  `, code, name, parentID).Scan(&id)
	return id, err
}

type seedRule struct {
	Code       string
	Name       string
	Sequence   int
	CategoryID string
	Condition  string
	AmountExpr string
	DebitID    string
	CreditID   string
}

func ensureRule(ctx context.Context, pool *pgxpool.Pool, rule seedRule) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM salary_rules WHERE code = $1", rule.Code).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO salary_rules (code, name, sequence, category_id, condition_expr, amount_expr, debit_account_id, credit_account_id)
    VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, NULLIF($8, '')::uuid)
    RETURNING id
  `, rule.Code, rule.Name, rule.Sequence, rule.CategoryID, rule.Condition, rule.AmountExpr,
		rule.DebitID, rule.CreditID).Scan(&id)
	return id, err
}

func ensureStructure(ctx context.Context, pool *pgxpool.Pool, code, name string, ruleIDs ...string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM salary_structures WHERE code = $1", code).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO salary_structures (code, name)
    VALUES ($1, $2)
    RETURNING id
  `, code, name).Scan(&id)
	if err != nil {
		return "", err
	}
	for position, ruleID := range ruleIDs {
		_, err := pool.Exec(ctx, `
      INSERT INTO salary_structure_rules (structure_id, rule_id, position)
      VALUES ($1, $2, $3)
      ON CONFLICT DO NOTHING
    `, id, ruleID, position)
		if err != nil {
			return "", err
		}
	}
	return id, nil
}

func ensureInputType(ctx context.Context, pool *pgxpool.Pool, code, name string) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO payslip_input_types (code, name)
    VALUES ($1, $2)
    ON CONFLICT (code) DO NOTHING
  `, code, name)
	return err
}

func ensurePayslipType(ctx context.Context, pool *pgxpool.Pool, code, name, journalID string) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO payslip_types (code, name, journal_id)
    VALUES ($1, $2, $3)
    ON CONFLICT (code) DO NOTHING
  `, code, name, journalID)
	return err
}
