package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to EmergencyStatus }{
		{StatusPending, StatusAssigned},
		{StatusPending, StatusCancelled},
		{StatusAssigned, StatusInProgress},
		{StatusAssigned, StatusCancelled},
		{StatusInProgress, StatusResolved},
		{StatusInProgress, StatusCancelled},
	}
	for _, tc := range legal {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	illegal := []struct{ from, to EmergencyStatus }{
		{StatusPending, StatusInProgress},
		{StatusPending, StatusResolved},
		{StatusAssigned, StatusResolved},
		{StatusResolved, StatusPending},
		{StatusResolved, StatusCancelled},
		{StatusCancelled, StatusAssigned},
		{StatusInProgress, StatusPending},
	}
	for _, tc := range illegal {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}

	// Self-transition carries assignment changes without moving state.
	for _, s := range []EmergencyStatus{StatusPending, StatusAssigned, StatusInProgress, StatusResolved, StatusCancelled} {
		assert.True(t, CanTransition(s, s))
	}
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, ValidSeverity("critical"))
	assert.False(t, ValidSeverity("catastrophic"))
	assert.False(t, ValidSeverity(""))

	assert.True(t, ValidEmergencyStatus("in_progress"))
	assert.False(t, ValidEmergencyStatus("done"))

	assert.True(t, ValidRole("attendant"))
	assert.False(t, ValidRole("conductor"))

	assert.True(t, ValidMessageType("system"))
	assert.False(t, ValidMessageType("video"))

	assert.True(t, ValidPrescriptionStatus("completed"))
	assert.False(t, ValidPrescriptionStatus("expired"))
}
