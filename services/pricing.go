package services

import (
	"fmt"

	"github.com/freshfold/laundry-api/models"
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the precision amounts are stored and displayed with
const CurrencyPlaces = 2

// UnitPrice returns the per-kg price for per_kg services and the per-piece price otherwise.
// A missing price is a catalog integrity problem and is reported as ErrServiceMisconfigured.
func UnitPrice(service models.LaundryService) (decimal.Decimal, error) {
	var price *decimal.Decimal
	if service.PricingType == models.PricingPerKg {
		price = service.PricePerKg
	} else {
		price = service.PricePerPiece
	}

	if price == nil {
		return decimal.Zero, fmt.Errorf("%w: service %d (%s)", ErrServiceMisconfigured, service.ID, service.PricingType)
	}
	return *price, nil
}

// UnitLabel returns "kg" or "piece" to match UnitPrice
func UnitLabel(service models.LaundryService) string {
	if service.PricingType == models.PricingPerKg {
		return "kg"
	}
	return "piece"
}

// Total returns quantity × unit price rounded to currency precision.
// Quantity bounds are the caller's concern.
func Total(service models.LaundryService, quantity decimal.Decimal) (decimal.Decimal, error) {
	price, err := UnitPrice(service)
	if err != nil {
		return decimal.Zero, err
	}
	return quantity.Mul(price).Round(CurrencyPlaces), nil
}
