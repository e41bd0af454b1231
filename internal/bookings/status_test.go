package bookings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_AllowedEdges(t *testing.T) {
	cases := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{StatusPending, StatusAssigned},
		{StatusPending, StatusCancelled},
		{StatusAssigned, StatusAccepted},
		{StatusAssigned, StatusPending}, // decline
		{StatusAssigned, StatusCancelled},
		{StatusAccepted, StatusInProgress},
		{StatusAccepted, StatusPending}, // decline after accepting
		{StatusAccepted, StatusCancelled},
		{StatusInProgress, StatusCompleted},
	}

	for _, tc := range cases {
		got, err := Transition(tc.from, tc.to)
		require.NoError(t, err, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.to, got)
	}
}

func TestTransition_ForbiddenEdges(t *testing.T) {
	cases := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{StatusPending, StatusAccepted},
		{StatusPending, StatusCompleted},
		{StatusInProgress, StatusPending},
		{StatusInProgress, StatusCancelled}, // work underway cannot be cancelled
		{StatusCompleted, StatusCancelled},
		{StatusCompleted, StatusPending},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusAssigned},
	}

	for _, tc := range cases {
		_, err := Transition(tc.from, tc.to)
		require.Error(t, err, "%s -> %s", tc.from, tc.to)

		var invalid *InvalidTransitionError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, tc.from, invalid.From)
		assert.Equal(t, tc.to, invalid.To)
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestStatus_Cancellable(t *testing.T) {
	assert.True(t, StatusPending.IsCancellable())
	assert.True(t, StatusAssigned.IsCancellable())
	assert.True(t, StatusAccepted.IsCancellable())
	assert.False(t, StatusInProgress.IsCancellable())
	assert.False(t, StatusCompleted.IsCancellable())
	assert.False(t, StatusCancelled.IsCancellable())
}
