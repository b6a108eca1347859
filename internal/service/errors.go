package service

import (
	"errors"
	"fmt"

	"github.com/gsagg03-cmyk/erpx/internal/authz"

	"gorm.io/gorm"
)

// Kind classifies domain errors for the HTTP layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
)

// Error is a business-rule rejection. Anything that is not an *Error is an
// unexpected failure and surfaces as a generic 500.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Fields maps input fields (or reason codes) to explanations.
	Fields map[string]string
}

func (e *Error) Error() string { return e.Message }

// KindOf returns the kind of a domain error, or "" for anything else.
// Policy denials count as forbidden.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, authz.ErrForbidden) {
		return KindForbidden
	}
	return ""
}

func validationErr(code, field, msg string) *Error {
	e := &Error{Kind: KindValidation, Code: code, Message: msg, Fields: map[string]string{}}
	if field != "" {
		e.Fields[field] = msg
	}
	return e
}

func conflictErr(code, field, msg string) *Error {
	e := validationErr(code, field, msg)
	e.Kind = KindConflict
	return e
}

func notFoundErr(what string) *Error {
	return &Error{Kind: KindNotFound, Code: what + "_not_found", Message: what + " not found"}
}

// errCrossTenant is returned when a record exists but belongs to another business.
var errCrossTenant = &Error{Kind: KindForbidden, Code: "cross_tenant", Message: "record belongs to another business"}

// lookupErr translates repository lookup failures.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr(what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
