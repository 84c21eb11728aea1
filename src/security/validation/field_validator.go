// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/username/finansdefter/backend/src/logger"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxCodeLength          = 64
	MaxNameLength          = 255
	MaxDescriptionLength   = 1024
	MaxAmount              = 1e12
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateStringRegex checks if a string matches a given regex pattern.
func ValidateStringRegex(s string, pattern *regexp.Regexp, fieldName, formatDescription string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %s ('%s') is not in the expected format (%s)", ErrValidationFailed, fieldName, s, formatDescription)
	}
	return nil
}

// --- Numeric Validators ---

// ValidateAmount checks that an amount is finite and within bounds.
func ValidateAmount(v float64, fieldName string, allowNegative bool) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not a number", ErrValidationFailed, fieldName)
	}
	if !allowNegative && v < 0 {
		logger.L.Warn("Negative value not allowed for field", "field", fieldName, "value", v)
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	if math.Abs(v) > MaxAmount {
		return fmt.Errorf("%w: %s exceeds the maximum of %.0f", ErrValidationFailed, fieldName, MaxAmount)
	}
	return nil
}

// ValidateDayOfMonth accepts 0 (unset) or 1..31.
func ValidateDayOfMonth(day int, fieldName string) error {
	if day < 0 || day > 31 {
		return fmt.Errorf("%w: %s must be between 1 and 31, got %d", ErrValidationFailed, fieldName, day)
	}
	return nil
}

// ValidateIntString parses a string to int and checks if it's within a range.
func ValidateIntString(s, fieldName string, minVal, maxVal int) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %s ('%s') is not a valid integer: %v", ErrValidationFailed, fieldName, s, err)
	}
	if val < minVal || val > maxVal {
		logger.L.Warn("Integer value out of range", "field", fieldName, "value", val, "min", minVal, "max", maxVal)
		return 0, fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrValidationFailed, fieldName, minVal, maxVal, val)
	}
	return val, nil
}

// --- Date Validator ---

// ValidateDateString checks if a string is a valid date in "YYYY-MM-DD" format.
func ValidateDateString(s, fieldName string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD): %v", ErrValidationFailed, fieldName, s, err)
	}
	return t, nil
}

// --- Specific Format Validators ---

var (
	expiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	themeRegex  = regexp.MustCompile(`^[a-z]{3,20}$`)
)

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ValidateCardNumber checks that a card number has exactly 16 digits once separators are removed.
func ValidateCardNumber(s string) error {
	if n := len(DigitsOnly(s)); n != 16 {
		return fmt.Errorf("%w: card number must have 16 digits, got %d", ErrValidationFailed, n)
	}
	return nil
}

// ValidateExpiry checks an MM/YY expiry date. Empty is allowed.
func ValidateExpiry(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return ValidateStringRegex(trimmed, expiryRegex, "Expiry date", "MM/YY")
}

// ValidateIBAN checks a Turkish IBAN: an optional TR prefix followed by 24 digits. Empty is allowed.
func ValidateIBAN(s string) error {
	trimmed := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if trimmed == "" {
		return nil
	}
	trimmed = strings.TrimPrefix(trimmed, "TR")
	if len(trimmed) != 24 || DigitsOnly(trimmed) != trimmed {
		return fmt.Errorf("%w: IBAN must be TR followed by 24 digits", ErrValidationFailed)
	}
	return nil
}

// ValidateTheme checks a calendar theme name.
func ValidateTheme(s string) error {
	return ValidateStringRegex(s, themeRegex, "Calendar theme", "3-20 lowercase letters")
}
