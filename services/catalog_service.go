package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freshfold/laundry-api/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateServiceInput describes a new catalog entry
type CreateServiceInput struct {
	Name            string             `json:"name" validate:"required,max=255"`
	Description     string             `json:"description" validate:"required,max=1000"`
	PricingType     models.PricingType `json:"pricing_type" validate:"required,oneof=per_kg per_piece"`
	PricePerKg      *decimal.Decimal   `json:"price_per_kg"`
	PricePerPiece   *decimal.Decimal   `json:"price_per_piece"`
	TurnaroundHours int                `json:"turnaround_hours"`
	IsActive        *bool              `json:"is_active"`
}

var createServiceMessages = fieldMessages{
	"name.required":         "Service name is required.",
	"name.max":              "Service name may not be greater than 255 characters.",
	"description.required":  "Service description is required.",
	"description.max":       "Service description may not be greater than 1000 characters.",
	"pricing_type.required": "Please select a pricing type.",
	"pricing_type.oneof":    "Pricing type must be per_kg or per_piece.",
}

// CatalogService manages the shared list of laundry services
type CatalogService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCatalogService creates a catalog service backed by db
func NewCatalogService(db *gorm.DB, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{db: db, logger: logger}
}

// ListActive returns the services customers can currently order, by name
func (s *CatalogService) ListActive(ctx context.Context) ([]models.LaundryService, error) {
	var catalog []models.LaundryService
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return catalog, nil
}

// Find returns a service by id, active or not
func (s *CatalogService) Find(ctx context.Context, id uint) (*models.LaundryService, error) {
	var service models.LaundryService
	if err := s.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "service", ID: id}
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	return &service, nil
}

// Create adds a service to the catalog. Only administrators manage the catalog.
func (s *CatalogService) Create(ctx context.Context, actor models.User, input CreateServiceInput) (*models.LaundryService, error) {
	if actor.Role != models.RoleAdmin {
		return nil, &UnauthorizedError{Message: "Only administrators can manage services"}
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	verr := &ValidationError{}
	if err := checkStruct(input, createServiceMessages, verr); err != nil {
		return nil, err
	}

	service := models.LaundryService{
		Name:            input.Name,
		Description:     input.Description,
		PricingType:     input.PricingType,
		PricePerKg:      input.PricePerKg,
		PricePerPiece:   input.PricePerPiece,
		TurnaroundHours: input.TurnaroundHours,
		IsActive:        true,
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if service.TurnaroundHours == 0 {
		service.TurnaroundHours = 24
	}

	if err := service.ValidatePricing(); err != nil && !verr.Has("pricing_type") {
		verr.Add("pricing_type", err.Error())
	}
	if err := service.ValidateTurnaround(); err != nil {
		verr.Add("turnaround_hours", "Turnaround hours must be positive.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	// is_active has a database default, so false must be written explicitly
	if err := s.db.WithContext(ctx).Select("*").Omit("id").Create(&service).Error; err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.logger.Info("service created", zap.Uint("service_id", service.ID), zap.String("name", service.Name))
	return &service, nil
}

// defaultCatalog is seeded into an empty database
func defaultCatalog() []models.LaundryService {
	amount := func(price string) *decimal.Decimal {
		d := decimal.RequireFromString(price)
		return &d
	}
	return []models.LaundryService{
		{Name: "Wash & Fold", Description: "Everyday laundry washed, dried and neatly folded.", PricingType: models.PricingPerKg, PricePerKg: amount("15.00"), TurnaroundHours: 24, IsActive: true},
		{Name: "Dry Cleaning", Description: "Solvent cleaning for suits, dresses and delicate fabrics.", PricingType: models.PricingPerPiece, PricePerPiece: amount("25.00"), TurnaroundHours: 48, IsActive: true},
		{Name: "Ironing", Description: "Pressed and hung garments ready to wear.", PricingType: models.PricingPerPiece, PricePerPiece: amount("8.00"), TurnaroundHours: 24, IsActive: true},
		{Name: "Bedding & Linens", Description: "Sheets, duvets and towels washed at high temperature.", PricingType: models.PricingPerKg, PricePerKg: amount("12.50"), TurnaroundHours: 48, IsActive: true},
		{Name: "Express Wash", Description: "Same-day wash and fold for urgent loads.", PricingType: models.PricingPerKg, PricePerKg: amount("22.00"), TurnaroundHours: 6, IsActive: true},
	}
}

// SeedCatalog inserts the default services when the catalog is empty and
// reports how many were added
func (s *CatalogService) SeedCatalog(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.LaundryService{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	catalog := defaultCatalog()
	if err := s.db.WithContext(ctx).Create(&catalog).Error; err != nil {
		return 0, fmt.Errorf("failed to seed services: %w", err)
	}

	s.logger.Info("seeded service catalog", zap.Int("services", len(catalog)))
	return len(catalog), nil
}
