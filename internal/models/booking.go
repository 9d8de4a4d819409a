package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

type Booking struct {
	ID              int64           `json:"id"`
	Reference       uuid.UUID       `json:"reference"`
	Tour            TourRef         `json:"tour"`
	TravelDate      string          `json:"travel_date"`
	Adults          int             `json:"adults"`
	Children        int             `json:"children"`
	Infants         int             `json:"infants"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Currency        string          `json:"currency,omitempty"`
	Status          string          `json:"status"`
	SpecialRequests string          `json:"special_requests,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (b Booking) Cancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

type BookingRequest struct {
	Tour            int64  `json:"tour" validate:"required,gt=0"`
	TravelDate      string `json:"travel_date" validate:"required,datetime=2006-01-02"`
	Adults          int    `json:"adults" validate:"required,min=1,max=50"`
	Children        int    `json:"children" validate:"min=0,max=50"`
	Infants         int    `json:"infants" validate:"min=0,max=50"`
	SpecialRequests string `json:"special_requests,omitempty" validate:"max=2000"`
}
