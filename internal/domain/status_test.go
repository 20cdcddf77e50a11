package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from OrderStatusType
		to   OrderStatusType
		want bool
	}{
		{OrderStatusAwaitingConfirmation, OrderStatusPreparing, true},
		{OrderStatusAwaitingConfirmation, OrderStatusCancelled, true},
		{OrderStatusAwaitingConfirmation, OrderStatusDelivering, false},
		{OrderStatusAwaitingConfirmation, OrderStatusCompleted, false},
		{OrderStatusPreparing, OrderStatusDelivering, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusAwaitingConfirmation, false},
		{OrderStatusDelivering, OrderStatusCompleted, true},
		{OrderStatusDelivering, OrderStatusCancelled, true},
		{OrderStatusDelivering, OrderStatusPreparing, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusAwaitingConfirmation, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusAwaitingConfirmation.Terminal())
	assert.False(t, OrderStatusPreparing.Terminal())
	assert.False(t, OrderStatusDelivering.Terminal())
	assert.False(t, OrderStatusType("bogus").Terminal())
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusPreparing.Valid())
	assert.False(t, OrderStatusType("bogus").Valid())
}
