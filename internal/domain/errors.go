package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoEvidence signals that no article in the batch could be resolved
// against the literature store. A report with no cited evidence is useless,
// so the pipeline fails the whole request rather than degrading.
var ErrNoEvidence = errors.New("no articles resolved from literature store")

// ValidationError reports required request fields that were absent. It maps
// to a client error, not a system fault.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Missing required fields: %s", strings.Join(e.MissingFields, ", "))
}

// EvidenceResolutionError wraps a failure of the literature-store lookup,
// including the zero-rows case via ErrNoEvidence.
type EvidenceResolutionError struct {
	Err error
}

func (e *EvidenceResolutionError) Error() string {
	return fmt.Sprintf("evidence resolution failed: %v", e.Err)
}

func (e *EvidenceResolutionError) Unwrap() error {
	return e.Err
}

// AnalysisInvocationError wraps a failure of the generative-text capability.
type AnalysisInvocationError struct {
	Err error
}

func (e *AnalysisInvocationError) Error() string {
	return fmt.Sprintf("analysis invocation failed: %v", e.Err)
}

func (e *AnalysisInvocationError) Unwrap() error {
	return e.Err
}
