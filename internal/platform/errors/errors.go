// Package errors defines the tagged error taxonomy shared across every
// examforge service: sentinel errors for comparison via errors.Is, and a
// wrapping FrameworkError that carries the wire-visible Kind tag.
package errors

import (
	"errors"
	"fmt"
)

// Kind is the stable, wire-visible error category. Services never invent
// ad hoc error strings for control flow; they tag with one of these.
type Kind string

const (
	KindTransport            Kind = "transport"
	KindPayload              Kind = "payload"
	KindNoEligible           Kind = "domain/no_eligible"
	KindGeneration           Kind = "domain/generation"
	KindCorrectnessFailed    Kind = "domain/correctness_failed"
	KindQualityRejected      Kind = "domain/quality_rejected"
	KindQualityNeedsRevision Kind = "domain/quality_needs_revision"
)

// Sentinel errors for comparison with errors.Is.
var (
	ErrNoEligibleConcept = errors.New("no eligible concept")
	ErrTimeout           = errors.New("operation timeout")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrMaxRevisions      = errors.New("maximum revisions exceeded")
)

// FrameworkError is a structured error with the operation that failed, its
// wire Kind, an optional entity ID, and the wrapped cause.
type FrameworkError struct {
	Op      string
	Kind    Kind
	ID      string
	Message string
	Err     error
}

func (e *FrameworkError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Op != "" && e.Err != nil {
		if e.ID != "" {
			return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

func (e *FrameworkError) Unwrap() error {
	return e.Err
}

// New builds a FrameworkError tagged with a Kind and a human message — the
// message is what travels as the wire "error" string (spec §4.1/§7), Kind
// is what pipeline code switches on.
func New(op string, kind Kind, message string) *FrameworkError {
	return &FrameworkError{Op: op, Kind: kind, Message: message}
}

// Wrap tags an underlying error with Kind without discarding it.
func Wrap(op string, kind Kind, err error) *FrameworkError {
	return &FrameworkError{Op: op, Kind: kind, Err: err}
}

// IsTransport reports whether err should be treated as a transport failure
// for controller purposes — spec §7 folds "payload" into "transport".
func IsTransport(err error) bool {
	var fe *FrameworkError
	if errors.As(err, &fe) {
		return fe.Kind == KindTransport || fe.Kind == KindPayload
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrInvalidPayload)
}

// KindOf extracts the Kind of a FrameworkError, or "" if err isn't one.
func KindOf(err error) Kind {
	var fe *FrameworkError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
