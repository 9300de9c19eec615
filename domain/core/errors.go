package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrValidation = errors.New("invalid input")

	// Model-space errors
	ErrOutOfDomain   = errors.New("value outside trained domain")
	ErrUnknownSymbol = errors.New("symbol not in trained domain")

	// Inference errors
	ErrUnknownVariable      = errors.New("unknown network variable")
	ErrInconsistentEvidence = errors.New("evidence has zero probability")

	// Startup errors
	ErrModelLoad = errors.New("model artifact load failed")
)

// Error constructors with context

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: field %s: %s", ErrValidation, field, reason)
}

func NewMissingFieldError(field string) error {
	return fmt.Errorf("%w: field %s is required", ErrValidation, field)
}

func NewUnknownSymbolError(feature, label string) error {
	return fmt.Errorf("%w: feature %s has no symbol %q", ErrUnknownSymbol, feature, label)
}

func NewOutOfDomainError(feature string, detail string) error {
	return fmt.Errorf("%w: feature %s: %s", ErrOutOfDomain, feature, detail)
}

func NewUnknownVariableError(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownVariable, name)
}

func NewModelLoadError(detail string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrModelLoad, detail, err)
	}
	return fmt.Errorf("%w: %s", ErrModelLoad, detail)
}

// Error checking helpers

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInferenceError(err error) bool {
	return errors.Is(err, ErrUnknownVariable) ||
		errors.Is(err, ErrInconsistentEvidence) ||
		errors.Is(err, ErrOutOfDomain) ||
		errors.Is(err, ErrUnknownSymbol)
}

func IsModelLoadError(err error) bool {
	return errors.Is(err, ErrModelLoad)
}
