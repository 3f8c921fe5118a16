package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrConstraint     = errors.New("constraint violation")
	ErrRecordNotFound = errors.New("record not found")
	ErrConnection     = errors.New("connection error")
	ErrNotConnected   = errors.New("no open connection, call connect first")
)

// MaxMessageLength bounds the text shown to a user for any failure.
const MaxMessageLength = 300

// ValidationError reports the first field of a movie that broke a rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConstraintError means the store refused a write because of a key or check
// rule declared on the movies table.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint %s violated: %v", e.Constraint, e.Err)
	}

	return fmt.Sprintf("constraint violated: %v", e.Err)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{ErrConstraint, e.Err}
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Movie ID not found: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrRecordNotFound
}

// ConnectionError covers a missing connection, a failed connect and any
// other failure talking to the store.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Err}
}

// DisplayMessage renders err for a human, cut to MaxMessageLength runes.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "Unknown error."
	}

	if utf8.RuneCountInString(msg) > MaxMessageLength {
		runes := []rune(msg)
		msg = string(runes[:MaxMessageLength]) + "..."
	}

	return msg
}
