package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField       = errors.New("missing field")
	ErrInvalidInstallment = errors.New("invalid installment count")
	ErrInvalidCartLine    = errors.New("invalid cart line")
	ErrInvalidOption      = errors.New("invalid payment option")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// ValidationError reports malformed caller input
// Kind is one of the Err* sentinels above and is matched with errors.Is
type ValidationError struct {
	Kind    error
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Field)
	}
	return e.Kind.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// MissingField reports a required field that is absent or blank
func MissingField(field, message string) error {
	return missingField(field, message)
}

// InvalidAmount reports a money value outside the accepted range
func InvalidAmount(field, message string) error {
	return &ValidationError{Kind: ErrInvalidAmount, Field: field, Message: message}
}

func missingField(field, message string) error {
	return &ValidationError{Kind: ErrMissingField, Field: field, Message: message}
}

func invalidCartLine(field, message string) error {
	return &ValidationError{Kind: ErrInvalidCartLine, Field: field, Message: message}
}

func invalidInstallment(field string) error {
	return &ValidationError{Kind: ErrInvalidInstallment, Field: field, Message: "Invalid installment count"}
}

// IsValidationError reports whether err is caller-input related
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
