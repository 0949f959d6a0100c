package payroll

import (
	"context"
	"fmt"

	"payslip/internal/domain/ledger"
)

// afterDone posts the payslip to the general ledger: one move, one line
// per configured rule account, and a balancing adjustment line when the
// debit and credit sums disagree. Runs inside the done transaction.
func (s *Service) afterDone(ctx context.Context, subject any) error {
	t, err := asTransition(subject)
	if err != nil {
		return err
	}
	slip := t.slip

	number, err := s.store.AssignNumber(ctx, t.tx, slip.ID)
	if err != nil {
		return err
	}

	employee, err := s.store.GetEmployee(ctx, slip.EmployeeID)
	if err != nil {
		return err
	}
	journal, err := s.ledger.GetJournal(ctx, t.tx, slip.JournalID)
	if err != nil {
		return err
	}
	currency, err := s.resolveCurrency(ctx, t, employee, journal)
	if err != nil {
		return err
	}

	moveDate := slip.Date
	if moveDate.IsZero() {
		moveDate = slip.DateTo
	}
	moveID, err := s.ledger.CreateMove(ctx, t.tx, ledger.Move{
		Narration: fmt.Sprintf("Payslip of %s", employee.Name),
		Ref:       number,
		JournalID: slip.JournalID,
		Date:      moveDate,
	})
	if err != nil {
		return err
	}
	if err := s.store.SetMoveRef(ctx, t.tx, slip.ID, moveID); err != nil {
		return err
	}

	lines, err := s.store.ListLines(ctx, slip.ID)
	if err != nil {
		return err
	}
	rules, err := s.store.LoadRules(ctx)
	if err != nil {
		return err
	}

	specs, debitSum, creditSum := BuildMoveLineSpecs(lines, rules)
	for _, spec := range specs {
		moveLineID, err := s.ledger.CreateMoveLine(ctx, t.tx, ledger.MoveLine{
			MoveID:    moveID,
			Name:      spec.Name,
			AccountID: spec.AccountID,
			JournalID: slip.JournalID,
			Date:      moveDate,
			Debit:     spec.Debit,
			Credit:    spec.Credit,
		})
		if err != nil {
			return err
		}
		if err := s.store.SetLineMoveRef(ctx, t.tx, spec.LineID, spec.Side, moveLineID); err != nil {
			return err
		}
	}

	side, amount, needed := AdjustmentSpec(currency, debitSum, creditSum)
	if !needed {
		return nil
	}
	if journal.DefaultAccountID == "" {
		return fmt.Errorf("journal %s: %w", journal.Name, ErrNoDefaultAccount)
	}

	adjustment := ledger.MoveLine{
		MoveID:    moveID,
		Name:      adjustmentEntryName,
		AccountID: journal.DefaultAccountID,
		JournalID: slip.JournalID,
		Date:      moveDate,
	}
	if side == SideDebit {
		adjustment.Debit = amount
	} else {
		adjustment.Credit = amount
	}
	adjustmentID, err := s.ledger.CreateMoveLine(ctx, t.tx, adjustment)
	if err != nil {
		return err
	}
	return s.store.SetAdjustmentRef(ctx, t.tx, slip.ID, side, adjustmentID)
}

// resolveCurrency prefers the employee company's currency and falls
// back to the journal company's.
func (s *Service) resolveCurrency(ctx context.Context, t *transition, employee Employee, journal ledger.Journal) (ledger.Currency, error) {
	if employee.CompanyID != "" {
		currency, err := s.ledger.CompanyCurrency(ctx, t.tx, employee.CompanyID)
		if err == nil {
			return currency, nil
		}
	}
	return s.ledger.CompanyCurrency(ctx, t.tx, journal.CompanyID)
}

// beforeCancel rejects cancellation when the payslip's move has already
// been posted; nothing is mutated in that case.
func (s *Service) beforeCancel(ctx context.Context, subject any) error {
	t, err := asTransition(subject)
	if err != nil {
		return err
	}
	if t.slip.MoveID == "" {
		return nil
	}
	state, err := s.ledger.MoveState(ctx, t.tx, t.slip.MoveID)
	if err != nil {
		return err
	}
	return CanCancelMove(state)
}

// afterCancel detaches the payslip and its lines from the ledger and
// force-deletes the move with all its lines.
func (s *Service) afterCancel(ctx context.Context, subject any) error {
	t, err := asTransition(subject)
	if err != nil {
		return err
	}
	if t.slip.MoveID == "" {
		return nil
	}
	if err := s.store.ClearMoveRefs(ctx, t.tx, t.slip.ID); err != nil {
		return err
	}
	return s.ledger.DeleteMove(ctx, t.tx, t.slip.MoveID)
}
