package gamification

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation error")
	// ErrPersistence is matched by every PersistenceError.
	ErrPersistence = errors.New("persistence error")
)

// FieldViolation describes one rejected field of an event payload.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (v FieldViolation) String() string {
	if v.Param == "" {
		return v.Field + " violates " + v.Rule
	}
	return fmt.Sprintf("%s violates %s=%s", v.Field, v.Rule, v.Param)
}

// ValidationError reports a malformed event. The snapshot is never mutated when it is returned.
type ValidationError struct {
	Kind       EventKind
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("validation error: %s: %s", e.Kind, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError reports a storage read or write failure. When it is returned from a
// write, the in-memory snapshot stays the source of truth until the next successful write.
type PersistenceError struct {
	Op     string // "get", "put" or "delete"
	UserID int64
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s snapshot of user %d: %v", e.Op, e.UserID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
