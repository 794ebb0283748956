// Package apperr holds the typed failure taxonomy shared by repositories,
// services and handlers. Every error is local and recoverable by the caller;
// nothing here is wrapped-and-forgotten.
package apperr

import (
	"fmt"
	"strings"
)

// NotFoundError: the referenced record is absent or not in the expected
// lifecycle state (e.g. restore on a record that is not soft-deleted).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ValidationError: malformed input, field-level. Fields holds "field: reason"
// entries so the caller can surface all offenders at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// DuplicateCodeError: a generated or submitted code already exists in the
// active+deleted namespace of its kind.
type DuplicateCodeError struct {
	Kind string
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("%s code %q already exists", e.Kind, e.Code)
}

// InvalidStateError: the operation is not permitted given the record's current
// lifecycle state (soft-deleting a borrowed SKU, hard-deleting an active row).
type InvalidStateError struct {
	Op     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// InvalidTransitionError names the rejected SKU status change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// ConflictError: the operation would collide with another active record,
// typically a restore whose code is meanwhile taken.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}
