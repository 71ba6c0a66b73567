package services

import (
	"time"

	"github.com/freshfold/laundry-api/models"
)

// DisplayTimeFormat is how dates appear in order views, e.g. "Mar 05, 2026 02:30 PM"
const DisplayTimeFormat = "Jan 02, 2006 03:04 PM"

// CustomerContact is the customer block shown to staff
type CustomerContact struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderView is the presentation form of an order
type OrderView struct {
	ID                  uint               `json:"id"`
	OrderNumber         string             `json:"order_number"`
	ServiceID           uint               `json:"service_id"`
	ServiceName         string             `json:"service_name"`
	Quantity            string             `json:"quantity"`
	PricingUnit         string             `json:"pricing_unit"`
	TotalAmount         string             `json:"total_amount"`
	Status              models.OrderStatus `json:"status"`
	StatusLabel         string             `json:"status_label"`
	StatusColor         string             `json:"status_color"`
	PickupDate          string             `json:"pickup_date"`
	DeliveryDate        string             `json:"delivery_date"`
	PickupAddress       string             `json:"pickup_address"`
	DeliveryAddress     string             `json:"delivery_address"`
	SpecialInstructions *string            `json:"special_instructions"`
	AssignedStaffID     *uint              `json:"assigned_staff_id"`
	AssignedStaffName   *string            `json:"assigned_staff_name"`
	StaffNotes          *string            `json:"staff_notes"`
	PhotoURL            *string            `json:"photo_url"`
	Version             uint               `json:"version"`
	CreatedAt           string             `json:"created_at"`
	UpdatedAt           string             `json:"updated_at"`
	Customer            *CustomerContact   `json:"customer,omitempty"`
}

// StaffMember is an entry in the assignable staff list
type StaffMember struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ServiceView is the presentation form of a catalog entry
type ServiceView struct {
	ID              uint               `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	PricingType     models.PricingType `json:"pricing_type"`
	Price           string             `json:"price"`
	PricingUnit     string             `json:"pricing_unit"`
	TurnaroundHours int                `json:"turnaround_hours"`
	IsActive        bool               `json:"is_active"`
}

// ProjectOrder builds the view of an order for a viewer with the given role.
// The order's Customer, LaundryService and AssignedStaff should be preloaded.
func ProjectOrder(order models.LaundryOrder, role string) OrderView {
	info := order.StatusInfo()
	view := OrderView{
		ID:                  order.ID,
		OrderNumber:         order.OrderNumber,
		ServiceID:           order.LaundryServiceID,
		ServiceName:         order.LaundryService.Name,
		Quantity:            order.Quantity.StringFixed(CurrencyPlaces),
		PricingUnit:         UnitLabel(order.LaundryService),
		TotalAmount:         order.TotalAmount.StringFixed(CurrencyPlaces),
		Status:              order.Status,
		StatusLabel:         info.Label,
		StatusColor:         info.Color,
		PickupDate:          formatDisplayTime(order.PickupDate),
		DeliveryDate:        formatDisplayTime(order.DeliveryDate),
		PickupAddress:       order.PickupAddress,
		DeliveryAddress:     order.DeliveryAddress,
		SpecialInstructions: order.SpecialInstructions,
		AssignedStaffID:     order.AssignedStaffID,
		StaffNotes:          order.StaffNotes,
		PhotoURL:            order.PhotoURL,
		Version:             order.Version,
		CreatedAt:           formatDisplayTime(order.CreatedAt),
		UpdatedAt:           formatDisplayTime(order.UpdatedAt),
	}

	if order.AssignedStaff != nil {
		name := order.AssignedStaff.Name
		view.AssignedStaffName = &name
	}

	if role == models.RoleStaff || role == models.RoleAdmin {
		view.Customer = &CustomerContact{
			ID:    order.Customer.ID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
		}
	}

	return view
}

// ProjectOrders projects a slice of orders for the same viewer
func ProjectOrders(orders []models.LaundryOrder, role string) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, ProjectOrder(order, role))
	}
	return views
}

// ProjectStaff builds the assignable staff list
func ProjectStaff(users []models.User) []StaffMember {
	members := make([]StaffMember, 0, len(users))
	for _, u := range users {
		members = append(members, StaffMember{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return members
}

// ProjectService builds the view of a catalog entry. A service missing its
// price shows an empty price rather than failing the whole listing.
func ProjectService(service models.LaundryService) ServiceView {
	view := ServiceView{
		ID:              service.ID,
		Name:            service.Name,
		Description:     service.Description,
		PricingType:     service.PricingType,
		PricingUnit:     UnitLabel(service),
		TurnaroundHours: service.TurnaroundHours,
		IsActive:        service.IsActive,
	}
	if price, err := UnitPrice(service); err == nil {
		view.Price = price.StringFixed(CurrencyPlaces)
	}
	return view
}

// ProjectServices projects a catalog listing
func ProjectServices(catalog []models.LaundryService) []ServiceView {
	views := make([]ServiceView, 0, len(catalog))
	for _, service := range catalog {
		views = append(views, ProjectService(service))
	}
	return views
}

func formatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayTimeFormat)
}
