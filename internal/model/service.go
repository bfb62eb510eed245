package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a sellable package of instruction hours, e.g. "Category A course".
type Service struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DefaultHours float64         `json:"default_hours"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateServiceRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	DefaultHours float64         `json:"default_hours" binding:"gt=0"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}
