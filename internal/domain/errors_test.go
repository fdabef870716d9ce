package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Message(t *testing.T) {
	tests := []struct {
		name    string
		missing []string
		want    string
	}{
		{
			name:    "single field",
			missing: []string{"disease"},
			want:    "Missing required fields: disease",
		},
		{
			name:    "multiple fields in order",
			missing: []string{"case_notes", "disease", "events"},
			want:    "Missing required fields: case_notes, disease, events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{MissingFields: tt.missing}
			if err.Error() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestEvidenceResolutionError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &EvidenceResolutionError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to match the wrapped cause")
	}

	wrapped := &EvidenceResolutionError{Err: ErrNoEvidence}
	if !errors.Is(wrapped, ErrNoEvidence) {
		t.Error("Expected errors.Is to match ErrNoEvidence through the wrapper")
	}
}

func TestAnalysisInvocationError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("model unavailable")
	err := &AnalysisInvocationError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to match the wrapped cause")
	}
}
