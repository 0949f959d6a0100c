package payroll

import (
	"context"
	"errors"
	"testing"

	"payslip/internal/domain/ledger"
	"payslip/internal/domain/lifecycle"
)

func TestBuildMoveLineSpecsPositiveTotal(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-basic": {ID: "r-basic", DebitAccountID: "acc-exp", CreditAccountID: "acc-pay"},
	}
	lines := []PayslipLine{
		{ID: "l1", RuleID: "r-basic", Name: "Basic Salary", Total: 5000},
	}

	specs, debitSum, creditSum := BuildMoveLineSpecs(lines, rules)
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].AccountID != "acc-exp" || specs[0].Debit != 5000 || specs[0].Credit != 0 || specs[0].Side != SideDebit {
		t.Fatalf("unexpected debit spec: %+v", specs[0])
	}
	if specs[1].AccountID != "acc-pay" || specs[1].Credit != 5000 || specs[1].Debit != 0 || specs[1].Side != SideCredit {
		t.Fatalf("unexpected credit spec: %+v", specs[1])
	}
	if debitSum != 5000 || creditSum != 5000 {
		t.Fatalf("expected balanced sums, got debit=%v credit=%v", debitSum, creditSum)
	}
}

func TestBuildMoveLineSpecsNegativeTotalFlipsSides(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-ded": {ID: "r-ded", DebitAccountID: "acc-exp", CreditAccountID: "acc-pay"},
	}
	lines := []PayslipLine{
		{ID: "l1", RuleID: "r-ded", Name: "Tax", Total: -700},
	}

	specs, debitSum, creditSum := BuildMoveLineSpecs(lines, rules)
	if specs[0].Debit != 0 || specs[0].Credit != 700 {
		t.Fatalf("expected flipped debit-account spec, got %+v", specs[0])
	}
	if specs[1].Debit != 700 || specs[1].Credit != 0 {
		t.Fatalf("expected flipped credit-account spec, got %+v", specs[1])
	}
	if debitSum != 700 || creditSum != 700 {
		t.Fatalf("unexpected sums: debit=%v credit=%v", debitSum, creditSum)
	}
}

func TestBuildMoveLineSpecsSkipsUnconfiguredRules(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-info": {ID: "r-info"},
	}
	lines := []PayslipLine{
		{ID: "l1", RuleID: "r-info", Total: 1234},
		{ID: "l2", RuleID: "r-unknown", Total: 99},
	}

	specs, debitSum, creditSum := BuildMoveLineSpecs(lines, rules)
	if len(specs) != 0 || debitSum != 0 || creditSum != 0 {
		t.Fatalf("expected no specs for accountless rules, got %d", len(specs))
	}
}

func TestBuildMoveLineSpecsDebitOnlyRule(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-one": {ID: "r-one", DebitAccountID: "acc-exp"},
	}
	lines := []PayslipLine{
		{ID: "l1", RuleID: "r-one", Total: 300},
	}

	specs, debitSum, creditSum := BuildMoveLineSpecs(lines, rules)
	if len(specs) != 1 || specs[0].Side != SideDebit {
		t.Fatalf("expected single debit spec, got %+v", specs)
	}
	if debitSum != 300 || creditSum != 0 {
		t.Fatalf("unexpected sums: debit=%v credit=%v", debitSum, creditSum)
	}
}

func TestCanCancelMove(t *testing.T) {
	if err := CanCancelMove(ledger.MoveStateDraft); err != nil {
		t.Fatalf("expected draft entry to allow cancel, got %v", err)
	}
	if err := CanCancelMove(ledger.MoveStatePosted); !errors.Is(err, ErrMovePosted) {
		t.Fatalf("expected ErrMovePosted for posted entry, got %v", err)
	}
}

func TestCancelBlockedByPostedEntryMutatesNothing(t *testing.T) {
	// The cancel guard runs as a before hook: when the payslip's
	// journal entry is posted, the state change must never be applied.
	machine := lifecycle.NewMachine()
	machine.Before(lifecycle.EventCancel, func(_ context.Context, _ any) error {
		return CanCancelMove(ledger.MoveStatePosted)
	})

	applied := false
	err := machine.Fire(context.Background(), lifecycle.EventCancel, lifecycle.StateDone, nil, func(lifecycle.State) error {
		applied = true
		return nil
	})
	if !errors.Is(err, ErrMovePosted) {
		t.Fatalf("expected ErrMovePosted, got %v", err)
	}
	if applied {
		t.Fatal("state change must not be applied when the entry is posted")
	}
}

func TestAdjustmentSpec(t *testing.T) {
	currency := ledger.Currency{Code: "IDR", Rounding: 0.01}

	side, amount, needed := AdjustmentSpec(currency, 100, 130)
	if !needed || side != SideDebit || amount != 30 {
		t.Fatalf("expected debit adjustment of 30, got side=%q amount=%v needed=%v", side, amount, needed)
	}

	side, amount, needed = AdjustmentSpec(currency, 130, 100)
	if !needed || side != SideCredit || amount != 30 {
		t.Fatalf("expected credit adjustment of 30, got side=%q amount=%v needed=%v", side, amount, needed)
	}

	_, _, needed = AdjustmentSpec(currency, 100, 100)
	if needed {
		t.Fatal("expected no adjustment for balanced sums")
	}

	// Differences below the rounding step do not warrant a line.
	_, _, needed = AdjustmentSpec(currency, 100.001, 100.002)
	if needed {
		t.Fatal("expected sub-rounding difference to be ignored")
	}
}
