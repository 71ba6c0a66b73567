package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"mime/multipart"
	"strings"
	"time"

	"github.com/freshfold/laundry-api/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	orderNumberPrefix    = "LO"
	defaultMaxAttempts   = 20
	defaultOrdersPerPage = 10
	maxOrdersPerPage     = 100
)

var (
	minQuantity = decimal.RequireFromString("0.1")
	maxQuantity = decimal.NewFromInt(100)
)

// CreateOrderInput is what a customer submits when placing an order
type CreateOrderInput struct {
	LaundryServiceID    uint             `json:"laundry_service_id" validate:"required"`
	Quantity            *decimal.Decimal `json:"quantity" validate:"required"`
	SpecialInstructions *string          `json:"special_instructions" validate:"omitempty,max=1000"`
	PickupDate          *time.Time       `json:"pickup_date" validate:"required"`
	DeliveryDate        *time.Time       `json:"delivery_date" validate:"required"`
	PickupAddress       string           `json:"pickup_address" validate:"required,max=500"`
	DeliveryAddress     string           `json:"delivery_address" validate:"required,max=500"`
}

var createOrderMessages = fieldMessages{
	"laundry_service_id.required": "Please select a laundry service.",
	"quantity.required":           "Please specify the quantity.",
	"special_instructions.max":    "Special instructions may not be greater than 1000 characters.",
	"pickup_date.required":        "Please select a pickup date.",
	"delivery_date.required":      "Please select a delivery date.",
	"pickup_address.required":     "Pickup address is required.",
	"pickup_address.max":          "Pickup address may not be greater than 500 characters.",
	"delivery_address.required":   "Delivery address is required.",
	"delivery_address.max":        "Delivery address may not be greater than 500 characters.",
}

// normalized trims the free-text fields; blank instructions become nil
func (in CreateOrderInput) normalized() CreateOrderInput {
	in.PickupAddress = strings.TrimSpace(in.PickupAddress)
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	in.SpecialInstructions = trimOptional(in.SpecialInstructions)
	return in
}

// UpdateStatusInput overwrites the staff-managed fields of an order.
// ExpectedVersion, when set, makes the update conditional on the order not having changed.
type UpdateStatusInput struct {
	Status          models.OrderStatus `json:"status" validate:"required"`
	StaffNotes      *string            `json:"staff_notes" validate:"omitempty,max=1000"`
	AssignedStaffID *uint              `json:"assigned_staff_id"`
	ExpectedVersion *uint              `json:"expected_version"`
}

var updateStatusMessages = fieldMessages{
	"status.required": "Please select a status.",
	"staff_notes.max": "Staff notes may not be greater than 1000 characters.",
}

// OrderPage is one page of an order listing
type OrderPage struct {
	Orders     []models.LaundryOrder
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

// OrderService owns the order lifecycle: creation, numbering, status updates and reads
type OrderService struct {
	db          *gorm.DB
	logger      *zap.Logger
	images      ImageService
	now         func() time.Time
	suffix      func() int
	strict      bool
	maxAttempts int
}

// OrderServiceOption customizes an OrderService
type OrderServiceOption func(*OrderService)

// WithClock sets the time source used for pickup validation and order numbers
func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

// WithSuffixSource sets the generator of the 4-digit order number suffix
func WithSuffixSource(suffix func() int) OrderServiceOption {
	return func(s *OrderService) { s.suffix = suffix }
}

// WithStrictTransitions rejects status jumps that skip the pipeline
func WithStrictTransitions(strict bool) OrderServiceOption {
	return func(s *OrderService) { s.strict = strict }
}

// WithMaxAttempts caps order number generation attempts
func WithMaxAttempts(attempts int) OrderServiceOption {
	return func(s *OrderService) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// WithImageService enables garment photo uploads and presigned photo URLs
func WithImageService(images ImageService) OrderServiceOption {
	return func(s *OrderService) { s.images = images }
}

// NewOrderService creates an order service backed by db
func NewOrderService(db *gorm.DB, logger *zap.Logger, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		db:          db,
		logger:      logger,
		now:         time.Now,
		suffix:      func() int { return rand.IntN(9999) + 1 },
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// CreateOrder validates the request, prices it and stores it as a pending order
func (s *OrderService) CreateOrder(ctx context.Context, actor models.User, input CreateOrderInput) (*models.LaundryOrder, error) {
	if !actor.IsCustomer() {
		return nil, &UnauthorizedError{Message: "Only customers can place orders"}
	}

	input = input.normalized()
	service, err := s.validateCreate(ctx, input)
	if err != nil {
		return nil, err
	}

	quantity := input.Quantity.Round(CurrencyPlaces)
	total, err := Total(*service, quantity)
	if err != nil {
		s.logger.Error("cannot price order", zap.Uint("service_id", service.ID), zap.Error(err))
		return nil, err
	}

	order := models.LaundryOrder{
		CustomerID:          actor.ID,
		LaundryServiceID:    service.ID,
		Quantity:            quantity,
		SpecialInstructions: input.SpecialInstructions,
		PickupDate:          *input.PickupDate,
		DeliveryDate:        *input.DeliveryDate,
		PickupAddress:       input.PickupAddress,
		DeliveryAddress:     input.DeliveryAddress,
		TotalAmount:         total,
		Status:              models.StatusPending,
		Version:             1,
	}

	if err := s.insertWithUniqueNumber(ctx, &order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Uint("customer_id", actor.ID),
		zap.Uint("service_id", service.ID),
		zap.String("quantity", quantity.String()),
		zap.String("total_amount", total.StringFixed(CurrencyPlaces)),
	)

	return s.loadOrder(ctx, order.ID)
}

// validateCreate checks the tag rules, then the pricing and scheduling rules,
// and returns the referenced service when all of them pass
func (s *OrderService) validateCreate(ctx context.Context, input CreateOrderInput) (*models.LaundryService, error) {
	verr := &ValidationError{}
	if err := checkStruct(input, createOrderMessages, verr); err != nil {
		return nil, err
	}

	var service *models.LaundryService
	if input.LaundryServiceID != 0 {
		var found models.LaundryService
		err := s.db.WithContext(ctx).First(&found, input.LaundryServiceID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			verr.Add("laundry_service_id", "The selected service is not available.")
		case err != nil:
			return nil, fmt.Errorf("failed to load laundry service: %w", err)
		case !found.IsActive:
			verr.Add("laundry_service_id", "The selected service is not available.")
		default:
			service = &found
		}
	}

	if input.Quantity != nil {
		switch {
		case input.Quantity.LessThan(minQuantity):
			verr.Add("quantity", "Minimum quantity is 0.1.")
		case input.Quantity.GreaterThan(maxQuantity):
			verr.Add("quantity", "Maximum quantity is 100.")
		}
	}

	if input.PickupDate != nil && !input.PickupDate.After(s.now()) {
		verr.Add("pickup_date", "Pickup date must be in the future.")
	}
	if input.PickupDate != nil && input.DeliveryDate != nil && !input.DeliveryDate.After(*input.PickupDate) {
		verr.Add("delivery_date", "Delivery date must be after pickup date.")
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return service, nil
}

// insertWithUniqueNumber assigns order numbers until the insert succeeds.
// The unique index decides; the existence check only avoids doomed inserts.
// Pre-checks and insert conflicts share the same attempt budget.
func (s *OrderService) insertWithUniqueNumber(ctx context.Context, order *models.LaundryOrder) error {
	remaining := s.maxAttempts
	for {
		candidate, used, err := s.freeOrderNumber(ctx, remaining)
		if err != nil {
			return err
		}
		remaining -= used

		order.OrderNumber = candidate
		err = s.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
		if err == nil {
			return nil
		}
		if !IsUniqueViolation(err) {
			return fmt.Errorf("failed to create order: %w", err)
		}
		s.logger.Warn("order number collided on insert", zap.String("order_number", candidate), zap.Int("attempts_left", remaining))
		order.ID = 0
	}
}

// GenerateOrderNumber returns an order number not yet present in storage:
// LO + yyyymmdd + a zero-padded suffix in [1, 9999]
func (s *OrderService) GenerateOrderNumber(ctx context.Context) (string, error) {
	number, _, err := s.freeOrderNumber(ctx, s.maxAttempts)
	return number, err
}

// freeOrderNumber draws candidates until one is not in storage, trying at most
// budget times. It reports how many attempts it used.
func (s *OrderService) freeOrderNumber(ctx context.Context, budget int) (string, int, error) {
	for attempt := 1; attempt <= budget; attempt++ {
		candidate := s.candidateOrderNumber()
		taken, err := s.orderNumberExists(ctx, candidate)
		if err != nil {
			return "", attempt, err
		}
		if !taken {
			return candidate, attempt, nil
		}
		s.logger.Debug("order number taken", zap.String("order_number", candidate), zap.Int("attempt", attempt))
	}

	s.logger.Error("order number space exhausted", zap.Int("attempts", s.maxAttempts))
	return "", budget, ErrOrderNumberExhausted
}

func (s *OrderService) candidateOrderNumber() string {
	return fmt.Sprintf("%s%s%04d", orderNumberPrefix, s.now().Format("20060102"), s.suffix())
}

func (s *OrderService) orderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.LaundryOrder{}).Where("order_number = ?", number).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check order number: %w", err)
	}
	return count > 0, nil
}

// UpdateStatus overwrites status, staff notes and assignment. Any known status may be
// written unless strict transitions are enabled.
func (s *OrderService) UpdateStatus(ctx context.Context, actor models.User, orderID uint, input UpdateStatusInput) (*models.LaundryOrder, error) {
	if !actor.IsStaff() {
		return nil, &UnauthorizedError{Message: "Only staff can update order status"}
	}

	if err := s.validateUpdate(ctx, input); err != nil {
		return nil, err
	}

	var current models.LaundryOrder
	if err := s.db.WithContext(ctx).First(&current, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if s.strict && !current.Status.CanTransition(input.Status) {
		return nil, &InvalidTransitionError{From: current.Status, To: input.Status}
	}

	query := s.db.WithContext(ctx).Model(&models.LaundryOrder{}).Where("id = ?", orderID)
	if input.ExpectedVersion != nil {
		query = query.Where("version = ?", *input.ExpectedVersion)
	}
	if s.strict {
		// the transition was checked against this status
		query = query.Where("status = ?", string(current.Status))
	}

	result := query.Updates(map[string]any{
		"status":            string(input.Status),
		"staff_notes":       trimOptional(input.StaffNotes),
		"assigned_staff_id": input.AssignedStaffID,
		"version":           gorm.Expr("version + 1"),
		"updated_at":        s.now(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		s.logger.Warn("order status update lost a race",
			zap.Uint("order_id", orderID),
			zap.Uint("current_version", current.Version),
		)
		return nil, ErrVersionConflict
	}

	s.logger.Info("order status updated",
		zap.Uint("order_id", orderID),
		zap.String("order_number", current.OrderNumber),
		zap.String("from", string(current.Status)),
		zap.String("to", string(input.Status)),
		zap.Uint("staff_id", actor.ID),
	)

	return s.loadOrder(ctx, orderID)
}

func (s *OrderService) validateUpdate(ctx context.Context, input UpdateStatusInput) error {
	verr := &ValidationError{}
	if err := checkStruct(input, updateStatusMessages, verr); err != nil {
		return err
	}

	if input.Status != "" && !input.Status.IsKnown() {
		verr.Add("status", "The selected status is invalid.")
	}

	if input.AssignedStaffID != nil {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Scopes(models.StaffScope).
			Where("id = ?", *input.AssignedStaffID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check assigned staff: %w", err)
		}
		if count == 0 {
			verr.Add("assigned_staff_id", "The selected staff member is invalid.")
		}
	}

	return verr.OrNil()
}

// GetOrder returns an order the actor may see: customers only their own, staff any
func (s *OrderService) GetOrder(ctx context.Context, actor models.User, orderID uint) (*models.LaundryOrder, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !order.OwnedBy(actor) {
		return nil, &UnauthorizedError{Message: "Unauthorized access to order."}
	}
	return order, nil
}

// ListOrders pages through the orders visible to the actor, newest first
func (s *OrderService) ListOrders(ctx context.Context, actor models.User, page, perPage int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultOrdersPerPage
	}
	if perPage > maxOrdersPerPage {
		perPage = maxOrdersPerPage
	}

	visible := func(db *gorm.DB) *gorm.DB {
		if actor.IsStaff() {
			return db
		}
		return db.Where("customer_id = ?", actor.ID)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.LaundryOrder{}).Scopes(visible).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.LaundryOrder
	err := s.db.WithContext(ctx).
		Scopes(visible).
		Preload("Customer").
		Preload("LaundryService").
		Preload("AssignedStaff").
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	for i := range orders {
		s.attachPhotoURL(ctx, &orders[i])
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &OrderPage{
		Orders:     orders,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// AssignableStaff lists the users an order can be assigned to
func (s *OrderService) AssignableStaff(ctx context.Context) ([]models.User, error) {
	var staff []models.User
	if err := s.db.WithContext(ctx).Scopes(models.StaffScope).Order("name ASC").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

// AttachPhoto stores a garment photo for the customer's own order, replacing any previous one
func (s *OrderService) AttachPhoto(ctx context.Context, actor models.User, orderID uint, fileHeader *multipart.FileHeader) (*models.LaundryOrder, error) {
	if s.images == nil {
		return nil, errors.New("photo storage is not configured")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(actor) {
		return nil, &UnauthorizedError{Message: "Only the customer who placed the order can attach photos"}
	}

	key, err := s.images.UploadImage(ctx, orderID, fileHeader)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.LaundryOrder{}).
		Where("id = ?", orderID).
		Update("photo_s3_key", key).Error
	if err != nil {
		if delErr := s.images.DeleteImage(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove unreferenced photo", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save photo reference: %w", err)
	}

	if previous := order.PhotoS3Key; previous != nil && *previous != key {
		// keys outside the order's prefix may be shared with another order
		if IsOrderPhotoKey(orderID, *previous) {
			if err := s.images.DeleteImage(ctx, *previous); err != nil {
				s.logger.Warn("failed to delete replaced photo", zap.String("key", *previous), zap.Error(err))
			}
		} else {
			s.logger.Warn("kept replaced photo outside the order prefix", zap.Uint("order_id", orderID), zap.String("key", *previous))
		}
	}

	s.logger.Info("garment photo attached", zap.Uint("order_id", orderID), zap.String("key", key))
	return s.loadOrder(ctx, orderID)
}

func (s *OrderService) loadOrder(ctx context.Context, orderID uint) (*models.LaundryOrder, error) {
	var order models.LaundryOrder
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("LaundryService").
		Preload("AssignedStaff").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	s.attachPhotoURL(ctx, &order)
	return &order, nil
}

func (s *OrderService) attachPhotoURL(ctx context.Context, order *models.LaundryOrder) {
	if s.images == nil || order.PhotoS3Key == nil {
		return
	}
	url, err := s.images.GetImageURL(ctx, *order.PhotoS3Key)
	if err != nil {
		s.logger.Warn("failed to presign photo URL", zap.Uint("order_id", order.ID), zap.Error(err))
		return
	}
	order.PhotoURL = &url
}

// IsUniqueViolation reports whether err comes from a unique index, on PostgreSQL or SQLite
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
