package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status OrderStatus
		label  string
		color  string
	}{
		{StatusPending, "Pending", "yellow"},
		{StatusConfirmed, "Confirmed", "blue"},
		{StatusPickedUp, "Picked Up", "indigo"},
		{StatusProcessing, "Processing", "purple"},
		{StatusWashing, "Washing", "blue"},
		{StatusDrying, "Drying", "orange"},
		{StatusIroning, "Ironing", "pink"},
		{StatusReadyForDelivery, "Ready for Delivery", "cyan"},
		{StatusOutForDelivery, "Out for Delivery", "teal"},
		{StatusCompleted, "Completed", "green"},
		{StatusCancelled, "Cancelled", "red"},
	}

	assert.Len(t, tests, len(AllStatuses), "every known status should be covered")

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			info := StatusLabel(tt.status)
			assert.Equal(t, tt.label, info.Label)
			assert.Equal(t, tt.color, info.Color)
			assert.True(t, tt.status.IsKnown())
		})
	}
}

func TestStatusLabel_UnknownFallback(t *testing.T) {
	for _, status := range []OrderStatus{"", "submitted", "PENDING", "in_transit"} {
		info := StatusLabel(status)
		assert.Equal(t, StatusInfo{Label: "Unknown", Color: "gray"}, info, "status %q", status)
		assert.False(t, status.IsKnown())
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	for _, status := range AllStatuses {
		want := status == StatusCompleted || status == StatusCancelled
		assert.Equal(t, want, status.IsTerminal(), "status %s", status)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to completed skips the pipeline", StatusPending, StatusCompleted, false},
		{"picked up straight to washing", StatusPickedUp, StatusWashing, true},
		{"washing to drying", StatusWashing, StatusDrying, true},
		{"drying back to washing", StatusDrying, StatusWashing, false},
		{"ironing to ready", StatusIroning, StatusReadyForDelivery, true},
		{"out for delivery to completed", StatusOutForDelivery, StatusCompleted, true},
		{"cancel from processing", StatusProcessing, StatusCancelled, true},
		{"cancel a completed order", StatusCompleted, StatusCancelled, false},
		{"reopen a cancelled order", StatusCancelled, StatusPending, false},
		{"same status", StatusWashing, StatusWashing, true},
		{"to unknown status", StatusPending, "lost", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestNextStatuses(t *testing.T) {
	assert.Equal(t, []OrderStatus{StatusConfirmed, StatusCancelled}, StatusPending.NextStatuses())
	assert.Nil(t, StatusCompleted.NextStatuses())
	assert.Nil(t, OrderStatus("lost").NextStatuses())

	// NextStatuses must not alias the transition table
	next := StatusPickedUp.NextStatuses()
	next[0] = StatusCompleted
	assert.Equal(t, StatusProcessing, StatusPickedUp.NextStatuses()[0])
}

func TestScopes(t *testing.T) {
	var orders []LaundryOrder
	for i, status := range AllStatuses {
		orders = append(orders, LaundryOrder{ID: uint(i + 1), Status: status})
	}
	orders = append(orders, LaundryOrder{ID: 99, Status: "lost"})

	pending := ScopePending(orders)
	assert.Len(t, pending, 1)
	assert.Equal(t, StatusPending, pending[0].Status)

	active := ScopeActive(orders)
	assert.Len(t, active, len(orders)-2)
	for _, order := range active {
		assert.NotEqual(t, StatusCompleted, order.Status)
		assert.NotEqual(t, StatusCancelled, order.Status)
	}

	assert.Empty(t, ScopePending(nil))
	assert.Empty(t, ScopeActive(nil))
}

func TestLaundryOrderHelpers(t *testing.T) {
	order := LaundryOrder{CustomerID: 7, Status: StatusReadyForDelivery}

	assert.Equal(t, "laundry_orders", order.TableName())
	assert.Equal(t, "Ready for Delivery", order.StatusInfo().Label)
	assert.True(t, order.OwnedBy(User{ID: 7}))
	assert.False(t, order.OwnedBy(User{ID: 8}))
}
