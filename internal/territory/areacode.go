package territory

import (
	"fmt"
	"strings"
	"unicode"
)

// InvalidPostalCodeError reports a postal code that failed normalization
type InvalidPostalCodeError struct {
	Input  string
	Reason string
}

func (e *InvalidPostalCodeError) Error() string {
	return fmt.Sprintf("invalid postal code %q: %s", e.Input, e.Reason)
}

// NormalizePostalCode accepts free-form Canadian postal code input
// ("m5v 3a8", "M5V-3A8") and returns the canonical 6-character form.
// It strips every non-alphanumeric rune, uppercases, and validates the
// letter-digit-letter-digit-letter-digit shape.
func NormalizePostalCode(input string) (string, error) {
	var b strings.Builder
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	normalized := b.String()

	if len(normalized) != 6 {
		return "", &InvalidPostalCodeError{Input: input, Reason: "must contain exactly 6 alphanumeric characters"}
	}
	for i, r := range normalized {
		if i%2 == 0 {
			if r < 'A' || r > 'Z' {
				return "", &InvalidPostalCodeError{Input: input, Reason: fmt.Sprintf("position %d must be a letter", i+1)}
			}
		} else {
			if r < '0' || r > '9' {
				return "", &InvalidPostalCodeError{Input: input, Reason: fmt.Sprintf("position %d must be a digit", i+1)}
			}
		}
	}
	return normalized, nil
}

// DeriveAreaCode normalizes a postal code and returns its routing key:
// the LAST three characters. Territory routing deliberately keys on the
// local delivery unit rather than the forward sortation area, so "M5V
// 3A8" routes on "3A8". Do not change this to the first three
// characters.
func DeriveAreaCode(postalCode string) (string, error) {
	normalized, err := NormalizePostalCode(postalCode)
	if err != nil {
		return "", err
	}
	return normalized[3:], nil
}
