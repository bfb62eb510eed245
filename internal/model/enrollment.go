package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// Enrollment is a purchased block of hours. 0 <= RemainingHours <= TotalHours.
type Enrollment struct {
	ID             string           `json:"id"`
	AccountID      string           `json:"account_id"`
	ServiceID      string           `json:"service_id"`
	ContractPrice  decimal.Decimal  `json:"contract_price"`
	TotalHours     float64          `json:"total_hours"`
	RemainingHours float64          `json:"remaining_hours"`
	Status         EnrollmentStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

// CreateEnrollmentRequest leaves price and hours optional; the service
// defaults fill them in.
type CreateEnrollmentRequest struct {
	AccountID     string           `json:"account_id" binding:"required,uuid"`
	ServiceID     string           `json:"service_id" binding:"required,uuid"`
	ContractPrice *decimal.Decimal `json:"contract_price"`
	TotalHours    *float64         `json:"total_hours" binding:"omitempty,gt=0"`
}

type EnrollmentFilters struct {
	AccountID *string
	Status    *EnrollmentStatus
}
