package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"

	"github.com/jackc/pgx/v5"
)

// AccountRepository defines operations for billing accounts
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id string) (*model.Account, error)
	FindByProfileID(ctx context.Context, profileID string) (*model.Account, error)
	List(ctx context.Context, filters model.AccountFilters) ([]model.Account, error)
	Update(ctx context.Context, account *model.Account) error
	SetStatus(ctx context.Context, id string, status model.AccountStatus) (*model.Account, error)
	ReconcileBalances(ctx context.Context) (int64, error)
}

type accountRepository struct {
	db DB
}

func NewAccountRepository(db DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, profile_id, full_name, phone, total_balance, account_status, created_at`

func scanAccount(row pgx.Row) (*model.Account, error) {
	a := &model.Account{}
	var status string
	if err := row.Scan(&a.ID, &a.ProfileID, &a.FullName, &a.Phone, &a.TotalBalance, &status, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.AccountStatus = model.AccountStatus(status)
	return a, nil
}

// Create inserts a new account with a zero balance
func (r *accountRepository) Create(ctx context.Context, a *model.Account) error {
	sql := `INSERT INTO accounts (id, profile_id, full_name, phone, total_balance, account_status, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	err := r.db.QueryRow(ctx, sql, a.ID, a.ProfileID, a.FullName, a.Phone, a.TotalBalance, a.AccountStatus, a.CreatedAt).Scan(&a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// FindByProfileID returns the account linked to a rider's profile, if any.
func (r *accountRepository) FindByProfileID(ctx context.Context, profileID string) (*model.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE profile_id = $1 ORDER BY created_at LIMIT 1`, profileID)
}

func (r *accountRepository) findOne(ctx context.Context, sql string, arg any) (*model.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return a, nil
}

// List retrieves accounts with optional filters, newest first
func (r *accountRepository) List(ctx context.Context, filters model.AccountFilters) ([]model.Account, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + accountColumns + ` FROM accounts`)
	args := []interface{}{}

	if filters.Status != nil && *filters.Status != "" {
		queryBuilder.WriteString(" WHERE account_status = $1")
		args = append(args, *filters.Status)
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// Update saves contact data. Balance and status are owned by the ledger.
func (r *accountRepository) Update(ctx context.Context, a *model.Account) error {
	sql := `UPDATE accounts SET full_name = $1, phone = $2, profile_id = $3 WHERE id = $4`
	cmdTag, err := r.db.Exec(ctx, sql, a.FullName, a.Phone, a.ProfileID, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus switches an account between inactive and its balance-derived
// status. Passing active re-derives debtor from the cached balance.
func (r *accountRepository) SetStatus(ctx context.Context, id string, status model.AccountStatus) (*model.Account, error) {
	sql := `UPDATE accounts SET account_status = CASE
                WHEN $1 = 'inactive' THEN 'inactive'
                WHEN total_balance < 0 THEN 'debtor'
                ELSE 'active' END
            WHERE id = $2 RETURNING ` + accountColumns
	a, err := scanAccount(r.db.QueryRow(ctx, sql, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set account status: %w", err)
	}
	return a, nil
}

// ReconcileBalances rewrites every cached balance from the ledger and
// re-derives the status. Returns the number of accounts that changed.
func (r *accountRepository) ReconcileBalances(ctx context.Context) (int64, error) {
	sql := `
        WITH sums AS (
            SELECT a.id, COALESCE(SUM(l.amount), 0) AS balance
            FROM accounts a LEFT JOIN ledger_entries l ON l.account_id = a.id
            GROUP BY a.id
        )
        UPDATE accounts a SET
            total_balance = s.balance,
            account_status = CASE
                WHEN a.account_status = 'inactive' THEN 'inactive'
                WHEN s.balance < 0 THEN 'debtor'
                ELSE 'active' END
        FROM sums s
        WHERE a.id = s.id
          AND (a.total_balance <> s.balance
               OR (a.account_status <> 'inactive' AND a.account_status <> CASE WHEN s.balance < 0 THEN 'debtor' ELSE 'active' END))`
	cmdTag, err := r.db.Exec(ctx, sql)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile balances: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
