package services

import (
	"testing"
	"time"

	"github.com/freshfold/laundry-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() models.LaundryOrder {
	notes := "Bag by the door"
	url := "https://example.com/photo.png"
	staffID := uint(3)
	return models.LaundryOrder{
		ID:               7,
		OrderNumber:      "LO202603050042",
		CustomerID:       2,
		Customer:         models.User{ID: 2, Name: "Casey Customer", Email: "casey@example.com", Phone: "555-0100"},
		LaundryServiceID: 1,
		LaundryService:   models.LaundryService{ID: 1, Name: "Wash & Fold", PricingType: models.PricingPerKg},
		Quantity:         decimal.RequireFromString("3.5"),
		TotalAmount:      decimal.RequireFromString("52.5"),
		Status:           models.StatusOutForDelivery,
		PickupDate:       time.Date(2026, time.March, 6, 9, 5, 0, 0, time.UTC),
		DeliveryDate:     time.Date(2026, time.March, 8, 17, 30, 0, 0, time.UTC),
		PickupAddress:    "12 Elm Street",
		DeliveryAddress:  "44 Oak Avenue",
		AssignedStaffID:  &staffID,
		AssignedStaff:    &models.User{ID: 3, Name: "Sam Staff"},
		StaffNotes:       &notes,
		PhotoURL:         &url,
		Version:          4,
		CreatedAt:        fixedNow,
		UpdatedAt:        fixedNow,
	}
}

func TestProjectOrder_Customer(t *testing.T) {
	view := ProjectOrder(sampleOrder(), models.RoleCustomer)

	assert.Equal(t, "LO202603050042", view.OrderNumber)
	assert.Equal(t, "Wash & Fold", view.ServiceName)
	assert.Equal(t, "3.50", view.Quantity)
	assert.Equal(t, "kg", view.PricingUnit)
	assert.Equal(t, "52.50", view.TotalAmount)
	assert.Equal(t, "Out for Delivery", view.StatusLabel)
	assert.Equal(t, "teal", view.StatusColor)
	assert.Equal(t, "Mar 06, 2026 09:05 AM", view.PickupDate)
	assert.Equal(t, "Mar 08, 2026 05:30 PM", view.DeliveryDate)
	assert.Equal(t, "Mar 05, 2026 02:30 PM", view.CreatedAt)
	require.NotNil(t, view.AssignedStaffName)
	assert.Equal(t, "Sam Staff", *view.AssignedStaffName)
	assert.Equal(t, uint(4), view.Version)
	assert.Nil(t, view.Customer, "customers do not get the contact block")
}

func TestProjectOrder_Staff(t *testing.T) {
	for _, role := range []string{models.RoleStaff, models.RoleAdmin} {
		view := ProjectOrder(sampleOrder(), role)
		require.NotNil(t, view.Customer, role)
		assert.Equal(t, "Casey Customer", view.Customer.Name)
		assert.Equal(t, "casey@example.com", view.Customer.Email)
		assert.Equal(t, "555-0100", view.Customer.Phone)
	}
}

func TestProjectOrder_UnknownStatusAndNoStaff(t *testing.T) {
	order := sampleOrder()
	order.Status = "misplaced"
	order.AssignedStaff = nil
	order.AssignedStaffID = nil

	view := ProjectOrder(order, models.RoleCustomer)
	assert.Equal(t, "Unknown", view.StatusLabel)
	assert.Equal(t, "gray", view.StatusColor)
	assert.Nil(t, view.AssignedStaffName)
}

func TestProjectService(t *testing.T) {
	view := ProjectService(models.LaundryService{
		ID:              1,
		Name:            "Dry Cleaning",
		PricingType:     models.PricingPerPiece,
		PricePerPiece:   dec("25"),
		TurnaroundHours: 48,
		IsActive:        true,
	})
	assert.Equal(t, "25.00", view.Price)
	assert.Equal(t, "piece", view.PricingUnit)

	broken := ProjectService(models.LaundryService{PricingType: models.PricingPerKg})
	assert.Empty(t, broken.Price)
}

func TestProjectStaff(t *testing.T) {
	members := ProjectStaff([]models.User{{ID: 1, Name: "Sam", Email: "sam@example.com", Role: models.RoleStaff}})
	require.Len(t, members, 1)
	assert.Equal(t, "Sam", members[0].Name)
	assert.Equal(t, models.RoleStaff, members[0].Role)
	assert.Empty(t, ProjectStaff(nil))
}
