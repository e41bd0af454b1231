package quotes

import (
	"errors"
	"fmt"
)

// ErrNoMatchingCatalogEntry is returned when no catalog entry prices the
// requested propertyClass/serviceLevel combination.
var ErrNoMatchingCatalogEntry = errors.New("no catalog entry matches the requested service")

// InvalidInputError reports a malformed or out-of-range quote request
// field. It carries the offending field so callers can render a precise
// validation message.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// IsInvalidInput reports whether err is an InvalidInputError
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
