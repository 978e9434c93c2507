package service

import "errors"

// Error kinds. Handlers match these with errors.Is to pick a status code;
// the concrete error text is what reaches the response envelope.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func notFound(msg string) error  { return &kindError{kind: ErrNotFound, msg: msg} }
func forbidden(msg string) error { return &kindError{kind: ErrForbidden, msg: msg} }
func invalid(msg string) error   { return &kindError{kind: ErrValidation, msg: msg} }
func conflict(msg string) error  { return &kindError{kind: ErrConflict, msg: msg} }
