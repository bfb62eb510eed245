package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/export"
	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrZeroAmount       = errors.New("amount must not be zero")
)

// LedgerService appends signed entries and derives balances from them.
type LedgerService interface {
	RecordEntry(ctx context.Context, req model.LedgerEntryRequest) (*model.LedgerEntry, error)
	ComputeBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	ListEntries(ctx context.Context, types []model.EntryType) ([]model.LedgerEntry, error)
	ListAccountEntries(ctx context.Context, accountID string) ([]model.LedgerEntry, error)
	Stats(ctx context.Context) (*model.LedgerStats, error)
	ExportEntriesCSV(ctx context.Context, types []model.EntryType) (string, error)
}

type ledgerService struct {
	repo repository.LedgerRepository
}

func NewLedgerService(repo repository.LedgerRepository) LedgerService {
	return &ledgerService{repo: repo}
}

// RecordEntry appends one entry with the amount exactly as given; the
// caller applies the sign convention for its entry type.
func (s *ledgerService) RecordEntry(ctx context.Context, req model.LedgerEntryRequest) (*model.LedgerEntry, error) {
	entryType := model.EntryType(req.EntryType)
	if !entryType.Valid() {
		return nil, ErrInvalidEntryType
	}
	if req.Amount.IsZero() {
		return nil, ErrZeroAmount
	}

	entry := &model.LedgerEntry{
		ID:          uuid.NewString(),
		AccountID:   emptyToNil(req.AccountID),
		Amount:      req.Amount.Round(2),
		EntryType:   entryType,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now(),
	}

	if _, err := s.repo.Append(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return entry, nil
}

// ComputeBalance sums the account's entries as stored right now.
func (s *ledgerService) ComputeBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	balance, err := s.repo.SumByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, types []model.EntryType) ([]model.LedgerEntry, error) {
	for _, t := range types {
		if !t.Valid() {
			return nil, ErrInvalidEntryType
		}
	}
	entries, err := s.repo.ListByTypes(ctx, types)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

func (s *ledgerService) ListAccountEntries(ctx context.Context, accountID string) ([]model.LedgerEntry, error) {
	entries, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account ledger: %w", err)
	}
	return entries, nil
}

func (s *ledgerService) Stats(ctx context.Context) (*model.LedgerStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger stats: %w", err)
	}
	return stats, nil
}

var ledgerExportColumns = []string{"id", "created_at", "entry_type", "amount", "description", "account_id"}

func (s *ledgerService) ExportEntriesCSV(ctx context.Context, types []model.EntryType) (string, error) {
	entries, err := s.ListEntries(ctx, types)
	if err != nil {
		return "", err
	}

	records := make([]export.Record, 0, len(entries))
	for _, e := range entries {
		var accountID any
		if e.AccountID != nil {
			accountID = *e.AccountID
		}
		records = append(records, export.Record{
			"id":          e.ID,
			"created_at":  e.CreatedAt.Format(time.RFC3339),
			"entry_type":  string(e.EntryType),
			"amount":      e.Amount.StringFixed(2),
			"description": e.Description,
			"account_id":  accountID,
		})
	}

	out, err := export.Encode(records, ledgerExportColumns...)
	if err != nil {
		return "", fmt.Errorf("failed to encode ledger CSV: %w", err)
	}
	return out, nil
}
