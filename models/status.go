package models

import "gorm.io/gorm"

// OrderStatus is a step in the fulfillment pipeline:
//
//	pending → confirmed → picked_up → processing → {washing | drying | ironing}
//	        → ready_for_delivery → out_for_delivery → completed
//
// cancelled is reachable from any non-terminal status.
type OrderStatus string

const (
	StatusPending          OrderStatus = "pending"
	StatusConfirmed        OrderStatus = "confirmed"
	StatusPickedUp         OrderStatus = "picked_up"
	StatusProcessing       OrderStatus = "processing"
	StatusWashing          OrderStatus = "washing"
	StatusDrying           OrderStatus = "drying"
	StatusIroning          OrderStatus = "ironing"
	StatusReadyForDelivery OrderStatus = "ready_for_delivery"
	StatusOutForDelivery   OrderStatus = "out_for_delivery"
	StatusCompleted        OrderStatus = "completed"
	StatusCancelled        OrderStatus = "cancelled"
)

// AllStatuses lists the known statuses in pipeline order
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPickedUp,
	StatusProcessing,
	StatusWashing,
	StatusDrying,
	StatusIroning,
	StatusReadyForDelivery,
	StatusOutForDelivery,
	StatusCompleted,
	StatusCancelled,
}

// StatusInfo is the display metadata for a status
type StatusInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusLabels = map[OrderStatus]StatusInfo{
	StatusPending:          {Label: "Pending", Color: "yellow"},
	StatusConfirmed:        {Label: "Confirmed", Color: "blue"},
	StatusPickedUp:         {Label: "Picked Up", Color: "indigo"},
	StatusProcessing:       {Label: "Processing", Color: "purple"},
	StatusWashing:          {Label: "Washing", Color: "blue"},
	StatusDrying:           {Label: "Drying", Color: "orange"},
	StatusIroning:          {Label: "Ironing", Color: "pink"},
	StatusReadyForDelivery: {Label: "Ready for Delivery", Color: "cyan"},
	StatusOutForDelivery:   {Label: "Out for Delivery", Color: "teal"},
	StatusCompleted:        {Label: "Completed", Color: "green"},
	StatusCancelled:        {Label: "Cancelled", Color: "red"},
}

var unknownStatus = StatusInfo{Label: "Unknown", Color: "gray"}

// StatusLabel returns the label and color tag for a status, or Unknown/gray
func StatusLabel(status OrderStatus) StatusInfo {
	if info, ok := statusLabels[status]; ok {
		return info
	}
	return unknownStatus
}

// IsKnown reports whether s is one of the eleven pipeline statuses
func (s OrderStatus) IsKnown() bool {
	_, ok := statusLabels[s]
	return ok
}

// IsTerminal reports whether no further work happens on an order in this status
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// transitions is the forward graph used when strict transitions are enabled.
// cancelled is added for every non-terminal status by CanTransition.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:          {StatusConfirmed},
	StatusConfirmed:        {StatusPickedUp},
	StatusPickedUp:         {StatusProcessing, StatusWashing, StatusDrying, StatusIroning},
	StatusProcessing:       {StatusWashing, StatusDrying, StatusIroning, StatusReadyForDelivery},
	StatusWashing:          {StatusDrying, StatusIroning, StatusReadyForDelivery},
	StatusDrying:           {StatusIroning, StatusReadyForDelivery},
	StatusIroning:          {StatusReadyForDelivery},
	StatusReadyForDelivery: {StatusOutForDelivery},
	StatusOutForDelivery:   {StatusCompleted},
}

// CanTransition reports whether moving from s to next follows the pipeline.
// Staying in the same status is always allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	if s.IsTerminal() || !next.IsKnown() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s under strict transitions
func (s OrderStatus) NextStatuses() []OrderStatus {
	if s.IsTerminal() || !s.IsKnown() {
		return nil
	}
	next := append([]OrderStatus{}, transitions[s]...)
	return append(next, StatusCancelled)
}

// ScopePending keeps the orders still waiting for confirmation
func ScopePending(orders []LaundryOrder) []LaundryOrder {
	var pending []LaundryOrder
	for _, order := range orders {
		if order.Status == StatusPending {
			pending = append(pending, order)
		}
	}
	return pending
}

// ScopeActive keeps the orders that are neither completed nor cancelled
func ScopeActive(orders []LaundryOrder) []LaundryOrder {
	var active []LaundryOrder
	for _, order := range orders {
		if !order.Status.IsTerminal() {
			active = append(active, order)
		}
	}
	return active
}

// PendingScope is the query form of ScopePending
func PendingScope(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(StatusPending))
}

// ActiveScope is the query form of ScopeActive
func ActiveScope(db *gorm.DB) *gorm.DB {
	return db.Where("status NOT IN ?", []string{string(StatusCompleted), string(StatusCancelled)})
}
