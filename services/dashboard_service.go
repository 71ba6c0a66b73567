package services

import (
	"context"
	"fmt"
	"time"

	"github.com/freshfold/laundry-api/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	customerRecentOrders = 5
	staffRecentOrders    = 10
	topCustomersLimit    = 5
)

// Dashboard is the role-specific summary shown on the landing page
type Dashboard interface {
	ViewerRole() string
}

// CustomerStats summarizes a customer's own orders
type CustomerStats struct {
	TotalOrders     int64  `json:"total_orders"`
	ActiveOrders    int64  `json:"active_orders"`
	CompletedOrders int64  `json:"completed_orders"`
	TotalSpent      string `json:"total_spent"`
}

// CustomerDashboard is the dashboard for customers
type CustomerDashboard struct {
	Role         string        `json:"user_role"`
	Stats        CustomerStats `json:"stats"`
	RecentOrders []OrderView   `json:"recent_orders"`
}

// ViewerRole implements Dashboard
func (d CustomerDashboard) ViewerRole() string { return d.Role }

// StaffStats summarizes the whole order book
type StaffStats struct {
	TotalOrders    int64 `json:"total_orders"`
	PendingOrders  int64 `json:"pending_orders"`
	ActiveOrders   int64 `json:"active_orders"`
	CompletedToday int64 `json:"completed_today"`
}

// TopCustomer is a customer ranked by order count
type TopCustomer struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	OrdersCount int64  `json:"orders_count"`
	TotalSpent  string `json:"total_spent"`
}

// StaffDashboard is the dashboard for staff and administrators
type StaffDashboard struct {
	Role         string        `json:"user_role"`
	Stats        StaffStats    `json:"stats"`
	RecentOrders []OrderView   `json:"recent_orders"`
	TopCustomers []TopCustomer `json:"top_customers"`
}

// ViewerRole implements Dashboard
func (d StaffDashboard) ViewerRole() string { return d.Role }

// DashboardService computes dashboards from the order table
type DashboardService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a dashboard service. now defaults to time.Now.
func NewDashboardService(db *gorm.DB, logger *zap.Logger, now func() time.Time) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardService{db: db, logger: logger, now: now}
}

// BuildDashboard returns a CustomerDashboard for customers and a StaffDashboard otherwise
func (s *DashboardService) BuildDashboard(ctx context.Context, actor models.User) (Dashboard, error) {
	if actor.IsStaff() {
		dashboard, err := s.staffDashboard(ctx, actor)
		if err != nil {
			return nil, err
		}
		return dashboard, nil
	}

	dashboard, err := s.customerDashboard(ctx, actor)
	if err != nil {
		return nil, err
	}
	return dashboard, nil
}

func (s *DashboardService) customerDashboard(ctx context.Context, actor models.User) (*CustomerDashboard, error) {
	own := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.LaundryOrder{}).Where("customer_id = ?", actor.ID)
	}

	var stats CustomerStats
	db := s.db.WithContext(ctx)
	if err := db.Scopes(own).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Scopes(own, models.ActiveScope).Count(&stats.ActiveOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count active orders: %w", err)
	}
	if err := db.Scopes(own).Where("status = ?", string(models.StatusCompleted)).Count(&stats.CompletedOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}

	var spent decimal.Decimal
	if err := db.Scopes(own).Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&spent); err != nil {
		return nil, fmt.Errorf("failed to sum order totals: %w", err)
	}
	stats.TotalSpent = spent.Round(CurrencyPlaces).StringFixed(CurrencyPlaces)

	recent, err := s.recentOrders(ctx, customerRecentOrders, own)
	if err != nil {
		return nil, err
	}

	return &CustomerDashboard{
		Role:         actor.Role,
		Stats:        stats,
		RecentOrders: ProjectOrders(recent, actor.Role),
	}, nil
}

func (s *DashboardService) staffDashboard(ctx context.Context, actor models.User) (*StaffDashboard, error) {
	orders := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.LaundryOrder{})
	}

	var stats StaffStats
	db := s.db.WithContext(ctx)
	if err := db.Scopes(orders).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Scopes(orders, models.PendingScope).Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	if err := db.Scopes(orders, models.ActiveScope).Count(&stats.ActiveOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count active orders: %w", err)
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err := db.Scopes(orders).
		Where("status = ?", string(models.StatusCompleted)).
		Where("updated_at >= ? AND updated_at < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&stats.CompletedToday).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders completed today: %w", err)
	}

	recent, err := s.recentOrders(ctx, staffRecentOrders, nil)
	if err != nil {
		return nil, err
	}

	top, err := s.topCustomers(ctx)
	if err != nil {
		return nil, err
	}

	return &StaffDashboard{
		Role:         actor.Role,
		Stats:        stats,
		RecentOrders: ProjectOrders(recent, actor.Role),
		TopCustomers: top,
	}, nil
}

func (s *DashboardService) recentOrders(ctx context.Context, limit int, scope func(*gorm.DB) *gorm.DB) ([]models.LaundryOrder, error) {
	query := s.db.WithContext(ctx)
	if scope != nil {
		query = query.Scopes(scope)
	}

	var recent []models.LaundryOrder
	err := query.
		Preload("Customer").
		Preload("LaundryService").
		Preload("AssignedStaff").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}
	return recent, nil
}

type customerTotals struct {
	ID          uint
	Name        string
	Email       string
	OrdersCount int64
	TotalSpent  decimal.Decimal
}

// topCustomers ranks customers with at least one order by order count
func (s *DashboardService) topCustomers(ctx context.Context) ([]TopCustomer, error) {
	var rows []customerTotals
	err := s.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.name, users.email, COUNT(laundry_orders.id) AS orders_count, COALESCE(SUM(laundry_orders.total_amount), 0) AS total_spent").
		Joins("JOIN laundry_orders ON laundry_orders.customer_id = users.id").
		Scopes(models.CustomerScope).
		Where("users.deleted_at IS NULL").
		Group("users.id, users.name, users.email").
		Order("orders_count DESC").
		Order("users.id ASC").
		Limit(topCustomersLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank customers: %w", err)
	}

	top := make([]TopCustomer, 0, len(rows))
	for _, row := range rows {
		top = append(top, TopCustomer{
			ID:          row.ID,
			Name:        row.Name,
			Email:       row.Email,
			OrdersCount: row.OrdersCount,
			TotalSpent:  row.TotalSpent.Round(CurrencyPlaces).StringFixed(CurrencyPlaces),
		})
	}
	return top, nil
}
