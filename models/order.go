package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LaundryOrder is a customer's pickup-and-delivery request for one catalog service
type LaundryOrder struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	OrderNumber         string          `gorm:"type:varchar(16);uniqueIndex;not null" json:"order_number"` // LOyyyymmddNNNN, never changes
	CustomerID          uint            `gorm:"not null;index;index:idx_orders_customer_status,priority:1" json:"customer_id"`
	Customer            User            `gorm:"foreignKey:CustomerID" json:"customer"`
	LaundryServiceID    uint            `gorm:"not null;index" json:"laundry_service_id"`
	LaundryService      LaundryService  `gorm:"foreignKey:LaundryServiceID" json:"laundry_service"`
	Quantity            decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"quantity"`
	SpecialInstructions *string         `gorm:"type:text" json:"special_instructions"`
	PickupDate          time.Time       `gorm:"not null;index" json:"pickup_date"`
	DeliveryDate        time.Time       `gorm:"not null;index" json:"delivery_date"`
	PickupAddress       string          `gorm:"not null" json:"pickup_address"`
	DeliveryAddress     string          `gorm:"not null" json:"delivery_address"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"` // priced at creation, not recomputed
	Status              OrderStatus     `gorm:"type:varchar(32);not null;default:'pending';index;index:idx_orders_customer_status,priority:2" json:"status"`
	AssignedStaffID     *uint           `gorm:"index" json:"assigned_staff_id"`
	AssignedStaff       *User           `gorm:"foreignKey:AssignedStaffID" json:"assigned_staff,omitempty"`
	StaffNotes          *string         `gorm:"type:text" json:"staff_notes"`
	PhotoS3Key          *string         `json:"photo_s3_key"`                 // nullable, garment photo uploaded by the customer
	PhotoURL            *string         `gorm:"-" json:"photo_url,omitempty"` // computed field, presigned URL for the photo
	Version             uint            `gorm:"not null;default:1" json:"version"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the LaundryOrder model
func (LaundryOrder) TableName() string {
	return "laundry_orders"
}

// StatusInfo returns the display metadata for the order's current status
func (o LaundryOrder) StatusInfo() StatusInfo {
	return StatusLabel(o.Status)
}

// OwnedBy reports whether the order belongs to the given customer
func (o LaundryOrder) OwnedBy(user User) bool {
	return o.CustomerID == user.ID
}
