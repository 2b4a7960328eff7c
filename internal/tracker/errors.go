package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrGateway marks a failed call to the persistence gateway. The store
	// that issued it is left unchanged.
	ErrGateway = errors.New("gateway request failed")
	// ErrUnknownItem is returned for ids that are not in the loaded item list.
	ErrUnknownItem = errors.New("item is not in the inventory")
	// ErrIncorrectPIN is returned when a submitted PIN does not match.
	ErrIncorrectPIN = errors.New("incorrect PIN")
	// ErrNoChallenge is returned when PIN input arrives with no challenge open.
	ErrNoChallenge = errors.New("no PIN challenge in progress")
)

// ValidationError rejects user input before any gateway call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func gatewayErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrGateway, err)
}
