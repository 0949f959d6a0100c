package payroll

import "errors"

var (
	ErrPayslipNotFound   = errors.New("payslip not found")
	ErrPayslipNotDraft   = errors.New("payslip must be in draft state")
	ErrMovePosted        = errors.New("cannot cancel a payslip whose journal entry is already posted")
	ErrNoDefaultAccount  = errors.New("journal has no default account configured for the adjustment entry")
	ErrStructureNotFound = errors.New("salary structure not found")
	ErrCategoryNotFound  = errors.New("salary rule category not found")
	ErrStructureCycle    = errors.New("salary structure inheritance forms a cycle")
	ErrRuleEvaluation    = errors.New("salary rule evaluation failed")
	ErrNoJournalEntry    = errors.New("payslip has no journal entry")
)
