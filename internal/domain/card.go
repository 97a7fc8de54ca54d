package domain

import (
	"strconv"
	"strings"
	"time"
)

// Form field names. These are the keys under which per-field validation
// errors are reported.
const (
	FieldCardNumber     = "cardNumber"
	FieldExpiryDate     = "expiryDate"
	FieldCVV            = "cvv"
	FieldCardholderName = "cardholderName"
	FieldPostalCode     = "postalCode"
)

const (
	minPANDigits    = 13
	maxPANDigits    = 19
	maxCVVDigits    = 4
	minPostalDigits = 5
	maxPostalDigits = 10
)

// CardInput is the transient, form-local card entry. It is never persisted
// and is discarded once a submission reaches a terminal state.
type CardInput struct {
	CardNumber     string
	ExpiryDate     string
	CVV            string
	CardholderName string
	PostalCode     string
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber strips everything but digits and regroups them in runs of
// four separated by single spaces. Formatting already-formatted input returns
// the same value.
func FormatCardNumber(value string) string {
	digits := digitsOnly(value)
	if len(digits) > maxPANDigits {
		digits = digits[:maxPANDigits]
	}

	var parts []string
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		parts = append(parts, digits[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry normalizes input to MM/YY. The result is never longer than
// five characters.
func FormatExpiry(value string) string {
	digits := digitsOnly(value)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// FormatCVV keeps at most four digits.
func FormatCVV(value string) string {
	digits := digitsOnly(value)
	if len(digits) > maxCVVDigits {
		digits = digits[:maxCVVDigits]
	}
	return digits
}

// FormatPostalCode keeps at most ten digits.
func FormatPostalCode(value string) string {
	digits := digitsOnly(value)
	if len(digits) > maxPostalDigits {
		digits = digits[:maxPostalDigits]
	}
	return digits
}

// FormatField applies the live per-keystroke formatter for the named field.
// Fields without a formatter pass through unchanged.
func FormatField(field, value string) string {
	switch field {
	case FieldCardNumber:
		return FormatCardNumber(value)
	case FieldExpiryDate:
		return FormatExpiry(value)
	case FieldCVV:
		return FormatCVV(value)
	case FieldPostalCode:
		return FormatPostalCode(value)
	default:
		return value
	}
}

// Validate checks every field independently and reports one message per
// failing field. An empty result means the input may be submitted.
func (c CardInput) Validate(now time.Time) FieldErrors {
	errs := FieldErrors{}

	pan := digitsOnly(c.CardNumber)
	if len(pan) < minPANDigits || len(pan) > maxPANDigits {
		errs[FieldCardNumber] = "Please enter a valid card number"
	}

	if msg := validateExpiry(c.ExpiryDate, now); msg != "" {
		errs[FieldExpiryDate] = msg
	}

	if n := len(digitsOnly(c.CVV)); n < 3 || n > maxCVVDigits || len(c.CVV) != n {
		errs[FieldCVV] = "Please enter a valid CVV"
	}

	if len(strings.TrimSpace(c.CardholderName)) < 2 {
		errs[FieldCardholderName] = "Please enter cardholder name"
	}

	if n := len(digitsOnly(c.PostalCode)); n < minPostalDigits || n > maxPostalDigits {
		errs[FieldPostalCode] = "Please enter a valid postal code"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateExpiry(expiry string, now time.Time) string {
	if len(expiry) != 5 || expiry[2] != '/' {
		return "Please enter a valid expiry date (MM/YY)"
	}

	month, err := strconv.Atoi(expiry[:2])
	if err != nil {
		return "Please enter a valid expiry date (MM/YY)"
	}
	year, err := strconv.Atoi(expiry[3:])
	if err != nil {
		return "Please enter a valid expiry date (MM/YY)"
	}

	if month < 1 || month > 12 {
		return "Invalid month"
	}

	nowYear := now.Year() % 100
	nowMonth := int(now.Month())
	if year < nowYear || (year == nowYear && month < nowMonth) {
		return "Card has expired"
	}
	return ""
}
