package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/freshfold/laundry-api/models"
)

var (
	// ErrVersionConflict is returned when an update carries a stale expected version
	ErrVersionConflict = errors.New("order was modified by someone else")

	// ErrOrderNumberExhausted is returned when no free order number was found within the attempt cap
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")

	// ErrServiceMisconfigured is returned when a service lacks the price its pricing type requires
	ErrServiceMisconfigured = errors.New("laundry service is missing its price")
)

// ValidationError collects one or more field-level messages
type ValidationError struct {
	Fields map[string][]string
}

// Add records a message against a field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Has reports whether any message was recorded for field
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Empty reports whether no message was recorded
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns e when it holds messages and nil otherwise
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// NotFoundError reports a missing service, order or user
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// Code returns the API error code, e.g. ORDER_NOT_FOUND
func (e *NotFoundError) Code() string {
	return strings.ToUpper(e.Resource) + "_NOT_FOUND"
}

// UnauthorizedError reports that the acting user's role or ownership does not allow the operation
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// InvalidTransitionError is returned in strict mode for jumps outside the pipeline
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}
