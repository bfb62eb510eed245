package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerRepository is append-only: there is no update or delete.
type LedgerRepository interface {
	Append(ctx context.Context, entry *model.LedgerEntry) (*model.Account, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
	ListByTypes(ctx context.Context, types []model.EntryType) ([]model.LedgerEntry, error)
	ListByAccount(ctx context.Context, accountID string) ([]model.LedgerEntry, error)
	Stats(ctx context.Context) (*model.LedgerStats, error)
}

type ledgerRepository struct {
	db DB
}

func NewLedgerRepository(db DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

const ledgerColumns = `id, account_id, amount, entry_type, description, created_at`

const insertLedgerEntry = `INSERT INTO ledger_entries (` + ledgerColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

// Append stores one entry. Entries tied to an account also move the
// account's cached balance and status, in the same transaction, and the
// updated account is returned.
func (r *ledgerRepository) Append(ctx context.Context, entry *model.LedgerEntry) (*model.Account, error) {
	if entry.AccountID == nil {
		err := r.db.QueryRow(ctx, insertLedgerEntry, entry.ID, nil, entry.Amount, entry.EntryType, entry.Description, entry.CreatedAt).Scan(&entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to append ledger entry: %w", err)
		}
		return nil, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	sql := `UPDATE accounts SET
                total_balance = total_balance + $1,
                account_status = CASE
                    WHEN account_status = 'inactive' THEN 'inactive'
                    WHEN total_balance + $1 < 0 THEN 'debtor'
                    ELSE 'active' END
            WHERE id = $2 RETURNING ` + accountColumns
	account, err := scanAccount(tx.QueryRow(ctx, sql, entry.Amount, *entry.AccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update account balance: %w", err)
	}

	err = tx.QueryRow(ctx, insertLedgerEntry, entry.ID, *entry.AccountID, entry.Amount, entry.EntryType, entry.Description, entry.CreatedAt).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit ledger entry: %w", err)
	}
	return account, nil
}

// SumByAccount reads the balance straight from the entries.
func (r *ledgerRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE account_id = $1`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger entries: %w", err)
	}
	return sum, nil
}

// ListByTypes returns entries of the given types, newest first. No types means all.
func (r *ledgerRepository) ListByTypes(ctx context.Context, types []model.EntryType) ([]model.LedgerEntry, error) {
	if len(types) == 0 {
		return r.list(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries ORDER BY created_at DESC`)
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return r.list(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE entry_type = ANY($1) ORDER BY created_at DESC`, names)
}

func (r *ledgerRepository) ListByAccount(ctx context.Context, accountID string) ([]model.LedgerEntry, error) {
	return r.list(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
}

func (r *ledgerRepository) list(ctx context.Context, sql string, args ...any) ([]model.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		var entryType string
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Amount, &entryType, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		e.EntryType = model.EntryType(entryType)
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return entries, nil
}

// Stats totals the ledger per entry type and counts debtor accounts.
func (r *ledgerRepository) Stats(ctx context.Context) (*model.LedgerStats, error) {
	stats := &model.LedgerStats{ByType: make(map[model.EntryType]decimal.Decimal)}

	rows, err := r.db.Query(ctx, `SELECT entry_type, COALESCE(SUM(amount), 0), COUNT(id) FROM ledger_entries GROUP BY entry_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to get totals by type: %w", err)
	}
	for rows.Next() {
		var entryType string
		var sum decimal.Decimal
		var count int64
		if err := rows.Scan(&entryType, &sum, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan totals by type: %w", err)
		}
		stats.ByType[model.EntryType(entryType)] = sum
		stats.EntryCount += count
		if sum.IsPositive() {
			stats.Income = stats.Income.Add(sum)
		} else {
			stats.Outgoings = stats.Outgoings.Add(sum)
		}
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating totals by type: %w", err)
	}
	stats.Net = stats.Income.Add(stats.Outgoings)

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE account_status = 'debtor'`).Scan(&stats.Debtors)
	if err != nil {
		return nil, fmt.Errorf("failed to count debtors: %w", err)
	}
	return stats, nil
}
