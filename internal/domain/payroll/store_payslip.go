package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"payslip/internal/domain/ledger"
)

func (s *Store) CreatePayslip(ctx context.Context, slip Payslip) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payslips (employee_id, type_id, structure_id, journal_id, date_from, date_to, date, state, credit_note)
    VALUES ($1, NULLIF($2, '')::uuid, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9)
    RETURNING id
  `, slip.EmployeeID, slip.TypeID, slip.StructureID, slip.JournalID,
		slip.DateFrom, slip.DateTo, slip.Date, StateDraft, slip.CreditNote).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetPayslip(ctx context.Context, payslipID string) (Payslip, error) {
	var slip Payslip
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(number, ''), employee_id, COALESCE(type_id::text, ''), structure_id,
           COALESCE(journal_id::text, ''),
           date_from, date_to, date, state, credit_note,
           COALESCE(move_id::text, ''), COALESCE(move_line_debit_id::text, ''),
           COALESCE(move_line_credit_id::text, ''), COALESCE(cancel_reason, ''), created_at
    FROM payslips
    WHERE id = $1
  `, payslipID).Scan(&slip.ID, &slip.Number, &slip.EmployeeID, &slip.TypeID, &slip.StructureID,
		&slip.JournalID, &slip.DateFrom, &slip.DateTo, &slip.Date, &slip.State, &slip.CreditNote,
		&slip.MoveID, &slip.MoveLineDebitID, &slip.MoveLineCreditID, &slip.CancelReason, &slip.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrPayslipNotFound
	}
	if err != nil {
		return Payslip{}, err
	}
	return slip, nil
}

func (s *Store) ListPayslips(ctx context.Context, employeeID string, limit, offset int) ([]Payslip, error) {
	query := `
    SELECT id, COALESCE(number, ''), employee_id, COALESCE(type_id::text, ''), structure_id,
           COALESCE(journal_id::text, ''),
           date_from, date_to, date, state, credit_note,
           COALESCE(move_id::text, ''), COALESCE(move_line_debit_id::text, ''),
           COALESCE(move_line_credit_id::text, ''), COALESCE(cancel_reason, ''), created_at
    FROM payslips
  `
	args := []any{limit, offset}
	if employeeID != "" {
		query += " WHERE employee_id = $3"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []Payslip
	for rows.Next() {
		var slip Payslip
		if err := rows.Scan(&slip.ID, &slip.Number, &slip.EmployeeID, &slip.TypeID, &slip.StructureID,
			&slip.JournalID, &slip.DateFrom, &slip.DateTo, &slip.Date, &slip.State, &slip.CreditNote,
			&slip.MoveID, &slip.MoveLineDebitID, &slip.MoveLineCreditID, &slip.CancelReason, &slip.CreatedAt); err != nil {
			return nil, err
		}
		slips = append(slips, slip)
	}
	return slips, nil
}

func (s *Store) AddInputLine(ctx context.Context, payslipID, code string, amount float64) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payslip_inputs (payslip_id, code, amount)
    VALUES ($1,$2,$3)
    ON CONFLICT (payslip_id, code)
    DO UPDATE SET amount = EXCLUDED.amount
    RETURNING id
  `, payslipID, code, amount).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListInputLines(ctx context.Context, payslipID string) ([]InputLine, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, payslip_id, code, amount
    FROM payslip_inputs
    WHERE payslip_id = $1
    ORDER BY code
  `, payslipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []InputLine
	for rows.Next() {
		var line InputLine
		if err := rows.Scan(&line.ID, &line.PayslipID, &line.Code, &line.Amount); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Store) ListLines(ctx context.Context, payslipID string) ([]PayslipLine, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, payslip_id, rule_id, code, name, sequence, category_id,
           amount, quantity, rate, total,
           COALESCE(move_line_debit_id::text, ''), COALESCE(move_line_credit_id::text, '')
    FROM payslip_lines
    WHERE payslip_id = $1
    ORDER BY sequence, code
  `, payslipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []PayslipLine
	for rows.Next() {
		var line PayslipLine
		if err := rows.Scan(&line.ID, &line.PayslipID, &line.RuleID, &line.Code, &line.Name,
			&line.Sequence, &line.CategoryID, &line.Amount, &line.Quantity, &line.Rate, &line.Total,
			&line.MoveLineDebitID, &line.MoveLineCreditID); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ReplaceLines swaps the payslip's whole line set inside the caller's
// transaction: destroy and rebuild, never a partial mix.
func (s *Store) ReplaceLines(ctx context.Context, db ledger.DB, payslipID string, lines []PayslipLine) error {
	if _, err := db.Exec(ctx, "DELETE FROM payslip_lines WHERE payslip_id = $1", payslipID); err != nil {
		return err
	}
	for _, line := range lines {
		_, err := db.Exec(ctx, `
      INSERT INTO payslip_lines (payslip_id, rule_id, code, name, sequence, category_id, amount, quantity, rate, total)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, payslipID, line.RuleID, line.Code, line.Name, line.Sequence, line.CategoryID,
			line.Amount, line.Quantity, line.Rate, line.Total)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) UpdateState(ctx context.Context, db ledger.DB, payslipID, state string) error {
	_, err := db.Exec(ctx, "UPDATE payslips SET state = $1 WHERE id = $2", state, payslipID)
	return err
}

func (s *Store) SetCancelState(ctx context.Context, db ledger.DB, payslipID, reason string) error {
	_, err := db.Exec(ctx, `
    UPDATE payslips SET state = $1, cancel_reason = $2 WHERE id = $3
  `, StateCancel, reason, payslipID)
	return err
}

// AssignNumber gives the payslip its document number on the transition
// to done; already-numbered payslips keep theirs.
func (s *Store) AssignNumber(ctx context.Context, db ledger.DB, payslipID string) (string, error) {
	var number string
	err := db.QueryRow(ctx, `
    UPDATE payslips
    SET number = 'SLIP/' || to_char(now(), 'YYYY') || '/' || lpad(nextval('payslip_number_seq')::text, 5, '0')
    WHERE id = $1 AND COALESCE(number, '') = ''
    RETURNING number
  `, payslipID).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		err = db.QueryRow(ctx, "SELECT COALESCE(number, '') FROM payslips WHERE id = $1", payslipID).Scan(&number)
	}
	if err != nil {
		return "", err
	}
	return number, nil
}

func (s *Store) SetMoveRef(ctx context.Context, db ledger.DB, payslipID, moveID string) error {
	_, err := db.Exec(ctx, "UPDATE payslips SET move_id = $1 WHERE id = $2", moveID, payslipID)
	return err
}

func (s *Store) SetAdjustmentRef(ctx context.Context, db ledger.DB, payslipID, side, moveLineID string) error {
	column := "move_line_credit_id"
	if side == SideDebit {
		column = "move_line_debit_id"
	}
	_, err := db.Exec(ctx, "UPDATE payslips SET "+column+" = $1 WHERE id = $2", moveLineID, payslipID)
	return err
}

func (s *Store) SetLineMoveRef(ctx context.Context, db ledger.DB, lineID, side, moveLineID string) error {
	column := "move_line_credit_id"
	if side == SideDebit {
		column = "move_line_debit_id"
	}
	_, err := db.Exec(ctx, "UPDATE payslip_lines SET "+column+" = $1 WHERE id = $2", moveLineID, lineID)
	return err
}

// ClearMoveRefs detaches the payslip and its lines from the ledger
// artifacts before the move is deleted on cancel.
func (s *Store) ClearMoveRefs(ctx context.Context, db ledger.DB, payslipID string) error {
	if _, err := db.Exec(ctx, `
    UPDATE payslips
    SET move_id = NULL, move_line_debit_id = NULL, move_line_credit_id = NULL
    WHERE id = $1
  `, payslipID); err != nil {
		return err
	}
	_, err := db.Exec(ctx, `
    UPDATE payslip_lines
    SET move_line_debit_id = NULL, move_line_credit_id = NULL
    WHERE payslip_id = $1
  `, payslipID)
	return err
}

// PayslipSum implements History: line totals of the employee's done
// payslips by rule code, credit notes counted negative.
func (s *Store) PayslipSum(ctx context.Context, employeeID, code string, from, to time.Time) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(CASE WHEN p.credit_note THEN -l.total ELSE l.total END), 0)
    FROM payslips p
    JOIN payslip_lines l ON l.payslip_id = p.id
    WHERE p.employee_id = $1 AND p.state = 'done'
      AND p.date_from >= $2 AND p.date_to <= $3 AND l.code = $4
  `, employeeID, from, to, code).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// InputSum implements History: input amounts of the employee's done
// payslips by input type code.
func (s *Store) InputSum(ctx context.Context, employeeID, code string, from, to time.Time) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(i.amount), 0)
    FROM payslips p
    JOIN payslip_inputs i ON i.payslip_id = p.id
    WHERE p.employee_id = $1 AND p.state = 'done'
      AND p.date_from >= $2 AND p.date_to <= $3 AND i.code = $4
  `, employeeID, from, to, code).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
