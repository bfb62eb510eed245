package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusDebtor   AccountStatus = "debtor"
	AccountStatusInactive AccountStatus = "inactive"
)

// Account is a billing client. TotalBalance caches the sum of the
// account's ledger entries and is kept in step on every ledger write.
type Account struct {
	ID            string          `json:"id"`
	ProfileID     *string         `json:"profile_id,omitempty"`
	FullName      string          `json:"full_name"`
	Phone         *string         `json:"phone,omitempty"`
	TotalBalance  decimal.Decimal `json:"total_balance"`
	AccountStatus AccountStatus   `json:"account_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StatusFor derives the status an account should carry for balance.
// Inactive accounts stay inactive whatever their balance.
func StatusFor(current AccountStatus, balance decimal.Decimal) AccountStatus {
	if current == AccountStatusInactive {
		return AccountStatusInactive
	}
	if balance.IsNegative() {
		return AccountStatusDebtor
	}
	return AccountStatusActive
}

type CreateAccountRequest struct {
	FullName  string  `json:"full_name" binding:"required,min=1,max=200"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	ProfileID *string `json:"profile_id" binding:"omitempty,uuid"`
}

type UpdateAccountRequest struct {
	FullName  *string `json:"full_name,omitempty" binding:"omitempty,min=1,max=200"`
	Phone     *string `json:"phone,omitempty" binding:"omitempty,max=32"`
	ProfileID *string `json:"profile_id,omitempty" binding:"omitempty,uuid"`
}

type SetAccountStatusRequest struct {
	Active bool `json:"active"`
}

// AccountFilters narrows account listings.
type AccountFilters struct {
	Status *AccountStatus
}
