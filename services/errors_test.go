package services

import (
	"testing"

	"github.com/freshfold/laundry-api/models"
	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.True(t, verr.Empty())
	assert.NoError(t, verr.OrNil())

	verr.Add("quantity", "Maximum quantity is 100.")
	verr.Add("delivery_date", "Delivery date must be after pickup date.")
	verr.Add("quantity", "second")

	assert.False(t, verr.Empty())
	assert.True(t, verr.Has("quantity"))
	assert.False(t, verr.Has("pickup_date"))
	assert.Error(t, verr.OrNil())
	assert.Equal(t,
		"validation failed: delivery_date: Delivery date must be after pickup date., quantity: Maximum quantity is 100.; second",
		verr.Error())
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Resource: "order", ID: uint(42)}
	assert.Equal(t, "order 42 not found", err.Error())
	assert.Equal(t, "ORDER_NOT_FOUND", err.Code())

	assert.Equal(t, "SERVICE_NOT_FOUND", (&NotFoundError{Resource: "service"}).Code())
}

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{From: models.StatusPending, To: models.StatusCompleted}
	assert.Equal(t, "cannot move order from pending to completed", err.Error())
}
