package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypePayment       EntryType = "payment"
	EntryTypeSalaryExpense EntryType = "salary_expense"
	EntryTypeOverhead      EntryType = "overhead"
	EntryTypeDiscount      EntryType = "discount"
)

// EntryTypes lists every known entry type in display order.
var EntryTypes = []EntryType{EntryTypePayment, EntryTypeSalaryExpense, EntryTypeOverhead, EntryTypeDiscount}

func (t EntryType) Valid() bool {
	for _, known := range EntryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// LedgerEntry is an immutable signed money movement. Negative amounts
// are expenses or deductions.
type LedgerEntry struct {
	ID          string          `json:"id"`
	AccountID   *string         `json:"account_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	EntryType   EntryType       `json:"entry_type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LedgerEntryRequest is the ledger write interface. Amount is taken as
// already signed by the caller.
type LedgerEntryRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	EntryType   string          `json:"entry_type" binding:"required,oneof=payment salary_expense overhead discount"`
	Description string          `json:"description" binding:"max=1000"`
	AccountID   *string         `json:"account_id" binding:"omitempty,uuid"`
}

// MagnitudeRequest carries a user-entered, unsigned amount. Endpoints
// that accept it apply the sign convention of their entry type.
type MagnitudeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"max=1000"`
	AccountID   *string         `json:"account_id" binding:"omitempty,uuid"`
	// Category picks overhead or salary_expense on /expenses.
	Category string `json:"category" binding:"omitempty,oneof=overhead salary_expense"`
}

// LedgerStats summarises the whole ledger for the admin dashboard.
type LedgerStats struct {
	ByType     map[EntryType]decimal.Decimal `json:"by_type"`
	Income     decimal.Decimal               `json:"income"`
	Outgoings  decimal.Decimal               `json:"outgoings"`
	Net        decimal.Decimal               `json:"net"`
	EntryCount int64                         `json:"entry_count"`
	Debtors    int64                         `json:"debtors"`
}
