package payroll

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"payslip/internal/domain/ledger"
	"payslip/internal/domain/lifecycle"
)

type Service struct {
	store   *Store
	ledger  *ledger.Store
	machine *lifecycle.Machine
}

func NewService(store *Store, ledgerStore *ledger.Store) *Service {
	s := &Service{store: store, ledger: ledgerStore}
	machine := lifecycle.NewMachine()
	machine.After(lifecycle.EventDone, s.afterDone)
	machine.Before(lifecycle.EventCancel, s.beforeCancel)
	machine.After(lifecycle.EventCancel, s.afterCancel)
	s.machine = machine
	return s
}

func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) CreatePayslip(ctx context.Context, slip Payslip) (Payslip, error) {
	if slip.JournalID == "" && slip.TypeID != "" {
		payslipType, err := s.store.GetPayslipType(ctx, slip.TypeID)
		if err != nil {
			return Payslip{}, err
		}
		slip.JournalID = payslipType.JournalID
	}
	if slip.Date.IsZero() {
		slip.Date = slip.DateTo
	}
	id, err := s.store.CreatePayslip(ctx, slip)
	if err != nil {
		return Payslip{}, err
	}
	return s.store.GetPayslip(ctx, id)
}

func (s *Service) GetPayslip(ctx context.Context, payslipID string) (Payslip, error) {
	return s.store.GetPayslip(ctx, payslipID)
}

func (s *Service) ListPayslips(ctx context.Context, employeeID string, limit, offset int) ([]Payslip, error) {
	return s.store.ListPayslips(ctx, employeeID, limit, offset)
}

func (s *Service) AddInput(ctx context.Context, payslipID, code string, amount float64) error {
	slip, err := s.store.GetPayslip(ctx, payslipID)
	if err != nil {
		return err
	}
	if slip.State != StateDraft {
		return ErrPayslipNotDraft
	}
	_, err = s.store.AddInputLine(ctx, payslipID, code, amount)
	return err
}

func (s *Service) ListInputs(ctx context.Context, payslipID string) ([]InputLine, error) {
	return s.store.ListInputLines(ctx, payslipID)
}

func (s *Service) ListLines(ctx context.Context, payslipID string) ([]PayslipLine, error) {
	return s.store.ListLines(ctx, payslipID)
}

// Compute re-evaluates the payslip's salary rules and replaces its line
// set. Only draft payslips can be recomputed; a rule evaluation failure
// leaves the existing lines untouched.
func (s *Service) Compute(ctx context.Context, payslipID string) ([]PayslipLine, error) {
	slip, err := s.store.GetPayslip(ctx, payslipID)
	if err != nil {
		return nil, err
	}
	if slip.State != StateDraft {
		return nil, ErrPayslipNotDraft
	}

	employee, err := s.store.GetEmployee(ctx, slip.EmployeeID)
	if err != nil {
		return nil, err
	}
	structures, err := s.store.LoadStructures(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.store.LoadRules(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}
	inputs, err := s.store.ListInputLines(ctx, payslipID)
	if err != nil {
		return nil, err
	}

	refs, err := ResolveRules(slip.StructureID, structures, rules)
	if err != nil {
		return nil, err
	}
	ordered := make([]SalaryRule, 0, len(refs))
	for _, ref := range refs {
		ordered = append(ordered, rules[ref.ID])
	}

	results, _, err := EvaluateRules(ctx, EvalInput{
		Employee:   employee,
		Rules:      ordered,
		AllRules:   rules,
		Categories: categories,
		Inputs:     inputs,
		History:    s.store,
	})
	if err != nil {
		return nil, err
	}

	lines := make([]PayslipLine, 0, len(results))
	for _, result := range results {
		rule := rules[result.RuleID]
		lines = append(lines, PayslipLine{
			PayslipID:  payslipID,
			RuleID:     result.RuleID,
			Code:       result.Code,
			Name:       rule.Name,
			Sequence:   rule.Sequence,
			CategoryID: rule.CategoryID,
			Amount:     result.Amount,
			Quantity:   result.Quantity,
			Rate:       result.Rate,
			Total:      result.Total,
		})
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.store.ReplaceLines(ctx, tx, payslipID, lines); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.store.ListLines(ctx, payslipID)
}

// PostJournalEntry marks the payslip's accounting entry as posted.
// A posted entry blocks cancellation from then on.
func (s *Service) PostJournalEntry(ctx context.Context, payslipID string) error {
	slip, err := s.store.GetPayslip(ctx, payslipID)
	if err != nil {
		return err
	}
	if slip.MoveID == "" {
		return ErrNoJournalEntry
	}
	return s.ledger.PostMove(ctx, s.store.DB, slip.MoveID)
}

// JournalEntryLines returns the ledger lines of the payslip's entry.
func (s *Service) JournalEntryLines(ctx context.Context, payslipID string) ([]ledger.MoveLine, error) {
	slip, err := s.store.GetPayslip(ctx, payslipID)
	if err != nil {
		return nil, err
	}
	if slip.MoveID == "" {
		return nil, ErrNoJournalEntry
	}
	return s.ledger.MoveLines(ctx, s.store.DB, slip.MoveID)
}

// transition is the subject handed to lifecycle hooks: the document
// plus the transaction the whole operation runs in.
type transition struct {
	tx     pgx.Tx
	slip   *Payslip
	reason string
}

func asTransition(subject any) (*transition, error) {
	t, ok := subject.(*transition)
	if !ok {
		return nil, fmt.Errorf("unexpected lifecycle subject %T", subject)
	}
	return t, nil
}

func (s *Service) fire(ctx context.Context, payslipID string, event lifecycle.Event, reason string) (Payslip, error) {
	slip, err := s.store.GetPayslip(ctx, payslipID)
	if err != nil {
		return Payslip{}, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Payslip{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	t := &transition{tx: tx, slip: &slip, reason: reason}
	err = s.machine.Fire(ctx, event, lifecycle.State(slip.State), t, func(to lifecycle.State) error {
		if event == lifecycle.EventCancel {
			return s.store.SetCancelState(ctx, tx, payslipID, reason)
		}
		return s.store.UpdateState(ctx, tx, payslipID, string(to))
	})
	if err != nil {
		return Payslip{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Payslip{}, err
	}
	return s.store.GetPayslip(ctx, payslipID)
}

func (s *Service) Confirm(ctx context.Context, payslipID string) (Payslip, error) {
	return s.fire(ctx, payslipID, lifecycle.EventConfirm, "")
}

func (s *Service) Done(ctx context.Context, payslipID string) (Payslip, error) {
	return s.fire(ctx, payslipID, lifecycle.EventDone, "")
}

func (s *Service) Cancel(ctx context.Context, payslipID, reason string) (Payslip, error) {
	return s.fire(ctx, payslipID, lifecycle.EventCancel, reason)
}

func (s *Service) Reject(ctx context.Context, payslipID string) (Payslip, error) {
	return s.fire(ctx, payslipID, lifecycle.EventReject, "")
}

func (s *Service) Restart(ctx context.Context, payslipID string) (Payslip, error) {
	return s.fire(ctx, payslipID, lifecycle.EventRestart, "")
}
