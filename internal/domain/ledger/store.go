package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is satisfied by both *pgxpool.Pool and pgx.Tx so move creation can
// join the caller's transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateMove(ctx context.Context, db DB, move Move) (string, error) {
	var id string
	err := db.QueryRow(ctx, `
    INSERT INTO account_moves (narration, ref, journal_id, date, state)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, move.Narration, move.Ref, move.JournalID, move.Date, MoveStateDraft).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) CreateMoveLine(ctx context.Context, db DB, line MoveLine) (string, error) {
	var id string
	err := db.QueryRow(ctx, `
    INSERT INTO account_move_lines (move_id, name, partner_id, account_id, journal_id, date, debit, credit)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, line.MoveID, line.Name, nullIfEmpty(line.PartnerID), line.AccountID, line.JournalID, line.Date, line.Debit, line.Credit).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) MoveState(ctx context.Context, db DB, moveID string) (string, error) {
	var state string
	if err := db.QueryRow(ctx, "SELECT state FROM account_moves WHERE id = $1", moveID).Scan(&state); err != nil {
		return "", err
	}
	return state, nil
}

func (s *Store) PostMove(ctx context.Context, db DB, moveID string) error {
	_, err := db.Exec(ctx, "UPDATE account_moves SET state = $1 WHERE id = $2", MoveStatePosted, moveID)
	return err
}

// DeleteMove removes a move and all of its lines.
func (s *Store) DeleteMove(ctx context.Context, db DB, moveID string) error {
	if _, err := db.Exec(ctx, "DELETE FROM account_move_lines WHERE move_id = $1", moveID); err != nil {
		return err
	}
	_, err := db.Exec(ctx, "DELETE FROM account_moves WHERE id = $1", moveID)
	return err
}

func (s *Store) GetJournal(ctx context.Context, db DB, journalID string) (Journal, error) {
	var journal Journal
	err := db.QueryRow(ctx, `
    SELECT id, code, name, company_id, COALESCE(default_account_id::text, '')
    FROM account_journals
    WHERE id = $1
  `, journalID).Scan(&journal.ID, &journal.Code, &journal.Name, &journal.CompanyID, &journal.DefaultAccountID)
	if err != nil {
		return Journal{}, err
	}
	return journal, nil
}

// CompanyCurrency resolves the currency configured for a company.
func (s *Store) CompanyCurrency(ctx context.Context, db DB, companyID string) (Currency, error) {
	var currency Currency
	err := db.QueryRow(ctx, `
    SELECT cur.code, cur.rounding
    FROM companies c
    JOIN currencies cur ON c.currency_code = cur.code
    WHERE c.id = $1
  `, companyID).Scan(&currency.Code, &currency.Rounding)
	if err != nil {
		return Currency{}, err
	}
	return currency, nil
}

func (s *Store) MoveLines(ctx context.Context, db DB, moveID string) ([]MoveLine, error) {
	rows, err := db.Query(ctx, `
    SELECT id, move_id, name, COALESCE(partner_id::text, ''), account_id, journal_id, date, debit, credit
    FROM account_move_lines
    WHERE move_id = $1
    ORDER BY id
  `, moveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []MoveLine
	for rows.Next() {
		var line MoveLine
		if err := rows.Scan(&line.ID, &line.MoveID, &line.Name, &line.PartnerID, &line.AccountID, &line.JournalID, &line.Date, &line.Debit, &line.Credit); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
