// Package faults defines the error vocabulary shared by the stock data
// layer: an entity either does not exist anywhere we know to look, or it
// exists but fails structural validation. Transport failures from the
// document store are not reclassified into this taxonomy.
package faults

import (
	"errors"
	"fmt"
)

// Kind discriminates the two failure classes.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindInvalidData Kind = "invalid_data"
)

// Error carries the entity name and the symbol (or other context key) so a
// message is actionable without extra lookup.
type Error struct {
	Kind   Kind
	Entity string
	Symbol string
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s not found for %q", e.Entity, e.Symbol)
	default:
		if e.Reason != "" {
			return fmt.Sprintf("invalid %s for %q: %s", e.Entity, e.Symbol, e.Reason)
		}
		return fmt.Sprintf("invalid %s for %q", e.Entity, e.Symbol)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NotFound reports that no checked location holds the requested entity.
func NotFound(entity, symbol string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Symbol: symbol}
}

// InvalidData reports that a located entity failed structural or numeric
// validation.
func InvalidData(entity, symbol, reason string) *Error {
	return &Error{Kind: KindInvalidData, Entity: entity, Symbol: symbol, Reason: reason}
}

// IsNotFound reports whether err is (or wraps) a NotFound fault.
func IsNotFound(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindNotFound
}

// IsInvalidData reports whether err is (or wraps) an InvalidData fault.
func IsInvalidData(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindInvalidData
}
