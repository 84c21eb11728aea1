// backend/src/processors/card_processor.go
package processors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/security/validation"
)

// FormatCardNumber groups the digits of s in blocks of four joined by "-".
// Digits beyond the sixteenth are dropped.
func FormatCardNumber(s string) string {
	digits := validation.DigitsOnly(s)
	if len(digits) > 16 {
		digits = digits[:16]
	}
	var groups []string
	for len(digits) > 4 {
		groups = append(groups, digits[:4])
		digits = digits[4:]
	}
	if digits != "" {
		groups = append(groups, digits)
	}
	return strings.Join(groups, "-")
}

// DetectCardNetwork derives the network from the first digit of a card number.
func DetectCardNetwork(number string) string {
	digits := validation.DigitsOnly(number)
	if digits == "" {
		return ""
	}
	switch digits[0] {
	case '4':
		return models.CardNetworkVisa
	case '5':
		return models.CardNetworkMastercard
	case '9':
		return models.CardNetworkTroy
	}
	return ""
}

// FormatIBAN returns "TR" followed by the 24 digits in space-separated groups of four.
// Input that is not a valid Turkish IBAN is returned trimmed.
func FormatIBAN(s string) string {
	if validation.ValidateIBAN(s) != nil {
		return strings.TrimSpace(s)
	}
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	full := "TR" + strings.TrimPrefix(compact, "TR")

	var b strings.Builder
	for i, r := range full {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry builds the stored MM/YY form from a month and a two- or four-digit year.
func FormatExpiry(month, year int) string {
	if month < 1 || month > 12 || year < 0 {
		return ""
	}
	return fmt.Sprintf("%02d/%02d", month, year%100)
}

// ExpiryMonth parses an MM/YY expiry into the first day of that month (year 2000+YY).
func ExpiryMonth(expiry string) (time.Time, bool) {
	month, year, ok := strings.Cut(strings.TrimSpace(expiry), "/")
	if !ok {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 0 {
		return time.Time{}, false
	}
	if y < 100 {
		y += 2000
	}
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC), true
}

var corporateAliases = []string{"şirket", "sirket", "kurumsal", "corporate", "company"}

// NormalizeCardCategory maps the free-text "Tür" cell onto a card category.
func NormalizeCardCategory(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, alias := range corporateAliases {
		if v == alias {
			return models.CardCategoryCorporate
		}
	}
	return models.CardCategoryIndividual
}

// ParseAmount reads a spreadsheet amount. "1.250,75" and "1250,75" are read the Turkish
// way, "1250.75" as is. Anything unparseable becomes 0, including text with a valid
// numeric prefix: "12,5abc" is 0, not 12.5.
func ParseAmount(s string) float64 {
	v := strings.TrimSpace(s)
	v = strings.ReplaceAll(v, "₺", "")
	v = strings.ReplaceAll(v, " ", "")
	v = strings.ReplaceAll(v, "\u00a0", "")
	if v == "" {
		return 0
	}
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
