package payroll

import (
	"payslip/internal/domain/ledger"
)

// MoveLineSpec describes one ledger move line to be created for a
// payslip line, before persistence.
type MoveLineSpec struct {
	LineID    string
	Name      string
	AccountID string
	Debit     float64
	Credit    float64
	Side      string
}

const (
	SideDebit  = "debit"
	SideCredit = "credit"
)

// BuildMoveLineSpecs turns payslip lines into debit/credit entries
// according to the accounts configured on their rules. A positive total
// debits the rule's debit account and credits its credit account; a
// negative total flips the sides. Lines whose rule has no accounts
// contribute nothing. Returns the specs plus the debit and credit sums.
func BuildMoveLineSpecs(lines []PayslipLine, rules map[string]SalaryRule) ([]MoveLineSpec, float64, float64) {
	var specs []MoveLineSpec
	var debitSum, creditSum float64

	for _, line := range lines {
		rule, ok := rules[line.RuleID]
		if !ok {
			continue
		}

		if rule.DebitAccountID != "" {
			debit, credit := line.Total, 0.0
			if line.Total < 0 {
				debit, credit = 0.0, -line.Total
			}
			specs = append(specs, MoveLineSpec{
				LineID:    line.ID,
				Name:      line.Name,
				AccountID: rule.DebitAccountID,
				Debit:     debit,
				Credit:    credit,
				Side:      SideDebit,
			})
			debitSum += debit
			creditSum += credit
		}

		if rule.CreditAccountID != "" {
			debit, credit := 0.0, line.Total
			if line.Total < 0 {
				debit, credit = -line.Total, 0.0
			}
			specs = append(specs, MoveLineSpec{
				LineID:    line.ID,
				Name:      line.Name,
				AccountID: rule.CreditAccountID,
				Debit:     debit,
				Credit:    credit,
				Side:      SideCredit,
			})
			debitSum += debit
			creditSum += credit
		}
	}

	return specs, debitSum, creditSum
}

// CanCancelMove reports whether a payslip's journal entry still allows
// cancellation. A posted entry blocks it.
func CanCancelMove(moveState string) error {
	if moveState == ledger.MoveStatePosted {
		return ErrMovePosted
	}
	return nil
}

// AdjustmentSpec decides whether a balancing line is needed and on
// which side. When the credit sum exceeds the debit sum the move needs
// one debit adjustment line for the rounded difference, and vice versa.
func AdjustmentSpec(currency ledger.Currency, debitSum, creditSum float64) (side string, amount float64, needed bool) {
	switch currency.CompareAmounts(creditSum, debitSum) {
	case 1:
		return SideDebit, currency.Round(creditSum - debitSum), true
	case -1:
		return SideCredit, currency.Round(debitSum - creditSum), true
	}
	return "", 0, false
}
