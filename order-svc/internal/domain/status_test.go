package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_HappyPath(t *testing.T) {
	steps := []struct {
		event Event
		want  Status
	}{
		{EventAccept, StatusConfirmed},
		{EventStartPreparing, StatusPreparing},
		{EventShip, StatusShipping},
		{EventDeliver, StatusDelivered},
	}

	current := StatusPending
	lastProgress := current.Progress()
	for _, step := range steps {
		next, err := Transition(current, step.event)
		require.NoError(t, err, "%s on %s", step.event, current)
		assert.Equal(t, step.want, next)
		assert.Equal(t, lastProgress+1, next.Progress())
		current, lastProgress = next, next.Progress()
	}
	assert.True(t, current.Terminal())
}

func TestTransition_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		event   Event
		wantErr error
	}{
		{"accept confirmed", StatusConfirmed, EventAccept, ErrInvalidTransition},
		{"accept preparing", StatusPreparing, EventAccept, ErrInvalidTransition},
		{"accept delivered", StatusDelivered, EventAccept, ErrInvalidTransition},
		{"accept before payment", StatusPendingPayment, EventAccept, ErrInvalidTransition},
		{"ship from pending", StatusPending, EventShip, ErrInvalidTransition},
		{"cancel delivered", StatusDelivered, EventCancel, ErrInvalidTransition},
		{"refund unpaid pending payment", StatusPendingPayment, EventRefund, ErrInvalidTransition},
		{"refund refunded", StatusRefunded, EventRefund, ErrInvalidTransition},
		{"unknown current", Status("LOST"), EventAccept, ErrUnknownStatus},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Transition(testCase.current, testCase.event)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func TestTransition_CancelFromEveryOpenStatus(t *testing.T) {
	for _, s := range []Status{StatusPendingPayment, StatusPending, StatusConfirmed, StatusPreparing, StatusShipping} {
		next, err := Transition(s, EventCancel)
		require.NoError(t, err, s)
		assert.Equal(t, StatusCancelled, next)
	}
}

func TestEventFor(t *testing.T) {
	tests := []struct {
		current Status
		target  Status
		want    Event
		wantErr error
	}{
		{StatusPending, StatusConfirmed, EventAccept, nil},
		{StatusConfirmed, StatusPreparing, EventStartPreparing, nil},
		{StatusShipping, StatusDelivered, EventDeliver, nil},
		{StatusPreparing, StatusCancelled, EventCancel, nil},
		{StatusCancelled, StatusRefunded, EventRefund, nil},
		{StatusPendingPayment, StatusPending, EventPaymentConfirmed, nil},
		{StatusPending, StatusPending, "", ErrInvalidTransition},
		{StatusPending, StatusDelivered, "", ErrInvalidTransition},
		{StatusDelivered, StatusShipping, "", ErrInvalidTransition},
		{StatusPending, Status("ON_THE_MOON"), "", ErrUnknownStatus},
	}

	for _, testCase := range tests {
		t.Run(string(testCase.current)+"->"+string(testCase.target), func(t *testing.T) {
			event, err := EventFor(testCase.current, testCase.target)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, event)
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" preparing ")
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, s)

	_, err = ParseStatus("cooking")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestProgressOfTerminalFailures(t *testing.T) {
	assert.Equal(t, -1, StatusCancelled.Progress())
	assert.Equal(t, -1, StatusRefunded.Progress())
	assert.Equal(t, 5, StatusDelivered.Progress())
}
