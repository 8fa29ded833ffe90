package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{ApplicationStatusDraft, ApplicationStatusSubmitted, true},
		{ApplicationStatusSubmitted, ApplicationStatusApprovedL1, true},
		{ApplicationStatusSubmitted, ApplicationStatusRejectedL1, true},
		{ApplicationStatusSubmitted, ApplicationStatusRevisionL1, true},
		{ApplicationStatusRevisionL1, ApplicationStatusSubmitted, true},
		{ApplicationStatusApprovedL1, ApplicationStatusApprovedL2, true},
		{ApplicationStatusApprovedL1, ApplicationStatusRejectedL2, true},
		{ApplicationStatusApprovedL1, ApplicationStatusRevisionL2, true},
		{ApplicationStatusRevisionL2, ApplicationStatusApprovedL1, true},
		{ApplicationStatusApprovedL2, ApplicationStatusFinal, true},

		// Level two never acts before level one.
		{ApplicationStatusSubmitted, ApplicationStatusApprovedL2, false},
		{ApplicationStatusDraft, ApplicationStatusApprovedL1, false},
		{ApplicationStatusDraft, ApplicationStatusFinal, false},
		// Terminal statuses have no exits.
		{ApplicationStatusFinal, ApplicationStatusSubmitted, false},
		{ApplicationStatusRejectedL1, ApplicationStatusSubmitted, false},
		{ApplicationStatusRejectedL2, ApplicationStatusApprovedL1, false},
		// No skipping the final gate.
		{ApplicationStatusApprovedL1, ApplicationStatusFinal, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminalStatus(t *testing.T) {
	require.True(t, IsTerminalStatus(ApplicationStatusFinal))
	require.True(t, IsTerminalStatus(ApplicationStatusRejectedL1))
	require.True(t, IsTerminalStatus(ApplicationStatusRejectedL2))
	require.False(t, IsTerminalStatus(ApplicationStatusDraft))
	require.False(t, IsTerminalStatus(ApplicationStatusSubmitted))
	require.False(t, IsTerminalStatus(ApplicationStatusRevisionL2))
}

func TestInFlightStatusesExcludeDraftAndTerminal(t *testing.T) {
	for _, status := range InFlightStatuses {
		require.NotEqual(t, ApplicationStatusDraft, status)
		require.False(t, IsTerminalStatus(status), "in-flight status %s must not be terminal", status)
	}
	require.Contains(t, InFlightStatuses, ApplicationStatusSubmitted)
	require.Contains(t, InFlightStatuses, ApplicationStatusRevisionL1)
	require.Contains(t, InFlightStatuses, ApplicationStatusRevisionL2)
}
