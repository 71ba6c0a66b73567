package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PricingType says how a laundry service is charged
type PricingType string

const (
	PricingPerKg    PricingType = "per_kg"
	PricingPerPiece PricingType = "per_piece"
)

var (
	// ErrInvalidPricing is returned by LaundryService.Validate when the price fields
	// do not match the pricing type
	ErrInvalidPricing = errors.New("invalid service pricing")

	// ErrInvalidTurnaround is returned by LaundryService.Validate for a non-positive turnaround
	ErrInvalidTurnaround = errors.New("invalid service turnaround")
)

// LaundryService is a catalog entry customers can order
type LaundryService struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Name            string           `gorm:"not null" json:"name"`
	Description     string           `gorm:"type:text;not null" json:"description"`
	PricingType     PricingType      `gorm:"type:varchar(16);not null;index" json:"pricing_type"`
	PricePerKg      *decimal.Decimal `gorm:"type:decimal(8,2)" json:"price_per_kg"`    // set iff PricingType is per_kg
	PricePerPiece   *decimal.Decimal `gorm:"type:decimal(8,2)" json:"price_per_piece"` // set iff PricingType is per_piece
	TurnaroundHours int              `gorm:"not null;default:24" json:"turnaround_hours"`
	IsActive        bool             `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the LaundryService model
func (LaundryService) TableName() string {
	return "laundry_services"
}

// Validate checks the pricing invariant and the turnaround, reporting every violation
func (s LaundryService) Validate() error {
	return errors.Join(s.ValidatePricing(), s.ValidateTurnaround())
}

// ValidateTurnaround checks that the turnaround is a positive number of hours
func (s LaundryService) ValidateTurnaround() error {
	if s.TurnaroundHours <= 0 {
		return fmt.Errorf("%w: turnaround hours must be positive", ErrInvalidTurnaround)
	}
	return nil
}

// ValidatePricing checks that exactly one price is set and that it matches the pricing type
func (s LaundryService) ValidatePricing() error {
	switch s.PricingType {
	case PricingPerKg:
		if s.PricePerKg == nil || s.PricePerPiece != nil {
			return fmt.Errorf("%w: per_kg services carry only price_per_kg", ErrInvalidPricing)
		}
		if !s.PricePerKg.IsPositive() {
			return fmt.Errorf("%w: price_per_kg must be positive", ErrInvalidPricing)
		}
	case PricingPerPiece:
		if s.PricePerPiece == nil || s.PricePerKg != nil {
			return fmt.Errorf("%w: per_piece services carry only price_per_piece", ErrInvalidPricing)
		}
		if !s.PricePerPiece.IsPositive() {
			return fmt.Errorf("%w: price_per_piece must be positive", ErrInvalidPricing)
		}
	default:
		return fmt.Errorf("%w: unknown pricing type %q", ErrInvalidPricing, s.PricingType)
	}
	return nil
}
