// Package service implements the roster's business rules: person lifecycle,
// the duty assignment engine and the astronaut read queries. Persistence is
// reached only through the Store interface so the rules stay testable
// against an in-memory implementation.
package service

import "errors"

// Kind classifies a service failure. Handlers translate kinds into HTTP
// status codes; the service itself never deals in transport concerns.
type Kind int

const (
	KindValidation Kind = iota + 1 // a required field is empty or malformed
	KindNotFound                   // the referenced person does not exist
	KindConflict                   // duplicate name or duplicate duty
	KindInternal                   // persistence failure; transaction rolled back
)

// Error is the typed failure value returned by all service operations.
// Expected conditions (not found, conflict) are ordinary values, not
// panics or bare strings, so callers can branch on Kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func notFoundErr(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func conflictErr(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func internalErr(msg string) *Error   { return &Error{Kind: KindInternal, Message: msg} }
func validationErr(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// KindOf extracts the Kind from an error returned by the service.
// Unclassified errors report KindInternal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
