package db

import (
	"testing"
)

func TestApplicationStatus_Valid(t *testing.T) {
	tests := []struct {
		status   ApplicationStatus
		expected bool
	}{
		{StatusPending, true},
		{StatusApplied, true},
		{StatusQuickApplied, true},
		{StatusExternal, true},
		{StatusSkipped, true},
		{StatusFailed, true},
		{ApplicationStatus("easy_apply"), false},
		{ApplicationStatus(""), false},
		{ApplicationStatus("done"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.expected {
				t.Errorf("Valid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestApplicationStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   ApplicationStatus
		expected bool
	}{
		{StatusPending, false},
		{StatusApplied, true},
		{StatusQuickApplied, true},
		{StatusExternal, true},
		{StatusSkipped, true},
		{StatusFailed, true},
		{ApplicationStatus("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Terminal(); got != tt.expected {
				t.Errorf("Terminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestApplicationStatus_Success(t *testing.T) {
	// Only the two submitted states count as success; this is the invariant
	// that gates submitted_at.
	success := map[ApplicationStatus]bool{
		StatusPending:      false,
		StatusApplied:      true,
		StatusQuickApplied: true,
		StatusExternal:     false,
		StatusSkipped:      false,
		StatusFailed:       false,
	}

	for status, expected := range success {
		if got := status.Success(); got != expected {
			t.Errorf("%s.Success() = %v, want %v", status, got, expected)
		}
	}
}

func TestStats_Submitted(t *testing.T) {
	s := Stats{Applied: 2, QuickApplied: 3, Failed: 7, Pending: 1}
	if got := s.Submitted(); got != 5 {
		t.Errorf("Submitted() = %d, want 5", got)
	}
}
