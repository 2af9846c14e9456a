package kitchen

import (
	"errors"
)

var (
	// ErrOrderNotFound is returned when an order id does not resolve
	ErrOrderNotFound = errors.New("order not found")
	// ErrStockItemNotFound is returned when a stock item id does not resolve
	ErrStockItemNotFound = errors.New("item not found")
)

// ValidationError reports a request the kitchen refuses to act on
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
