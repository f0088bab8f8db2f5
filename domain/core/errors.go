package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Table shape errors
	ErrMalformedTable    = errors.New("malformed table")
	ErrUnresolvedColumn  = errors.New("unresolved column")
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Data quality errors
	ErrKeyCollision = errors.New("normalized key collision")

	// Session errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrMissingFile     = fmt.Errorf("%w: file", ErrNotFound)
)

// MalformedTableError reports required columns absent from a loaded table.
type MalformedTableError struct {
	Table   string
	Missing []string
	Found   []string
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("%v: %s is missing columns [%s] (found [%s])",
		ErrMalformedTable, e.Table, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

func (e *MalformedTableError) Unwrap() error { return ErrMalformedTable }

// UnresolvedColumnError reports a synonym lookup that matched nothing.
type UnresolvedColumnError struct {
	Table      string
	Candidates []string
	Available  []string
}

func (e *UnresolvedColumnError) Error() string {
	return fmt.Sprintf("%v: %s has none of [%s] (available [%s])",
		ErrUnresolvedColumn, e.Table, strings.Join(e.Candidates, ", "), strings.Join(e.Available, ", "))
}

func (e *UnresolvedColumnError) Unwrap() error { return ErrUnresolvedColumn }

// UnsupportedFormatError is returned before any bytes are decoded.
type UnsupportedFormatError struct {
	Name   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %s", ErrUnsupportedFormat, e.Name)
	}
	return fmt.Sprintf("%v: %s (%s)", ErrUnsupportedFormat, e.Name, e.Reason)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// KeyCollisionError lists raw codes that share one normalized code.
type KeyCollisionError struct {
	Normalized string
	RawCodes   []string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("%v: raw codes [%s] all normalize to %q",
		ErrKeyCollision, strings.Join(e.RawCodes, ", "), e.Normalized)
}

func (e *KeyCollisionError) Unwrap() error { return ErrKeyCollision }

// Error constructors with context
func NewMalformedTableError(table string, missing, found []string) error {
	return &MalformedTableError{Table: table, Missing: missing, Found: found}
}

func NewUnresolvedColumnError(table string, candidates, available []string) error {
	return &UnresolvedColumnError{Table: table, Candidates: candidates, Available: available}
}

func NewUnsupportedFormatError(name, reason string) error {
	return &UnsupportedFormatError{Name: name, Reason: reason}
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTableError reports errors that disable a single table or feature but
// leave the rest of the session usable.
func IsTableError(err error) bool {
	return errors.Is(err, ErrMalformedTable) ||
		errors.Is(err, ErrUnresolvedColumn) ||
		errors.Is(err, ErrKeyCollision)
}

func IsFormatError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}
