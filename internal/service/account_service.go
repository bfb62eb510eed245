package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountService interface {
	Create(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error)
	Get(ctx context.Context, id string) (*model.Account, error)
	GetForProfile(ctx context.Context, profileID string) (*model.Account, error)
	List(ctx context.Context, filters model.AccountFilters) ([]model.Account, error)
	Update(ctx context.Context, id string, req model.UpdateAccountRequest) (*model.Account, error)
	SetActive(ctx context.Context, id string, active bool) (*model.Account, error)
	ReconcileBalances(ctx context.Context) (int64, error)
}

type accountService struct {
	repo repository.AccountRepository
}

func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) Create(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	account := &model.Account{
		ID:            uuid.NewString(),
		ProfileID:     emptyToNil(req.ProfileID),
		FullName:      strings.TrimSpace(req.FullName),
		Phone:         emptyToNil(req.Phone),
		TotalBalance:  decimal.Zero,
		AccountStatus: model.AccountStatusActive,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account in repo: %w", err)
	}
	return account, nil
}

func (s *accountService) Get(ctx context.Context, id string) (*model.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// GetForProfile returns the account linked to a profile, or nil when
// the user has none yet (staff, freshly registered riders).
func (s *accountService) GetForProfile(ctx context.Context, profileID string) (*model.Account, error) {
	account, err := s.repo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by profile: %w", err)
	}
	return account, nil
}

func (s *accountService) List(ctx context.Context, filters model.AccountFilters) ([]model.Account, error) {
	accounts, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts from repo: %w", err)
	}
	return accounts, nil
}

func (s *accountService) Update(ctx context.Context, id string, req model.UpdateAccountRequest) (*model.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		account.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		account.Phone = emptyToNil(req.Phone)
	}
	if req.ProfileID != nil {
		account.ProfileID = emptyToNil(req.ProfileID)
	}

	if err := s.repo.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to update account in repo: %w", err)
	}
	return account, nil
}

// SetActive marks an account inactive, or brings it back with a status
// derived from its balance.
func (s *accountService) SetActive(ctx context.Context, id string, active bool) (*model.Account, error) {
	status := model.AccountStatusInactive
	if active {
		status = model.AccountStatusActive
	}
	account, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to set account status in repo: %w", err)
	}
	return account, nil
}

func (s *accountService) ReconcileBalances(ctx context.Context) (int64, error) {
	n, err := s.repo.ReconcileBalances(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile balances: %w", err)
	}
	return n, nil
}
