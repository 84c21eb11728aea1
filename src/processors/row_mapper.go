// backend/src/processors/row_mapper.go
package processors

import (
	"strings"
	"time"

	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/security/validation"
)

// Header aliases accepted per field, in lookup order. The first alias with a
// non-empty cell wins.
var (
	codeAliases = []string{"Kod", "kod"}
	nameAliases = []string{"İsim", "isim", "Ad", "ad"}
	ibanAliases = []string{"IBAN", "iban"}
	balAliases  = []string{"Bakiye", "bakiye"}

	cardNumberAliases = []string{"Kart Numarası", "kart numarası", "Numara", "numara"}
	ownerAliases      = []string{"Kullanıcı", "kullanıcı", "Kullanıcı İsmi"}
	categoryAliases   = []string{"Tür", "tür", "Kart Türü"}
	bankAliases       = []string{"Banka", "banka"}
	expiryAliases     = []string{"S.K.T", "skt", "Son Kullanma"}
	limitAliases      = []string{"Limit", "limit"}
	debtAliases       = []string{"Güncel Borç", "güncel borç", "Devir", "devir"}
)

func lookup(row models.ImportRow, aliases []string) string {
	for _, a := range aliases {
		if v := strings.TrimSpace(row[a]); v != "" {
			return unquoteFormula(v)
		}
	}
	return ""
}

// unquoteFormula reverses the quote prefix exports put in front of formula-like cells.
func unquoteFormula(v string) string {
	if len(v) > 1 && v[0] == '\'' && strings.ContainsRune("=+-@", rune(v[1])) {
		return v[1:]
	}
	return v
}

// RowMapper converts raw spreadsheet rows into records of one kind.
type RowMapper struct {
	now func() time.Time
}

func NewRowMapper(clock func() time.Time) *RowMapper {
	if clock == nil {
		clock = time.Now
	}
	return &RowMapper{now: clock}
}

// Map converts one row. When the row must be skipped it returns a nil record and
// the skip reason.
func (m *RowMapper) Map(kind models.Kind, row models.ImportRow) (models.Record, string) {
	switch kind {
	case models.KindCreditCard:
		return m.mapCreditCard(row)
	case models.KindBankAccount:
		code, name := lookup(row, codeAliases), lookup(row, nameAliases)
		if code == "" && name == "" {
			return nil, models.SkipEmptyCodeAndName
		}
		return &models.BankAccount{
			Code:    code,
			Name:    name,
			IBAN:    lookup(row, ibanAliases),
			Balance: ParseAmount(lookup(row, balAliases)),
		}, ""
	case models.KindCategory, models.KindCounterparty:
		code, name := lookup(row, codeAliases), lookup(row, nameAliases)
		if code == "" && name == "" {
			return nil, models.SkipEmptyCodeAndName
		}
		if kind == models.KindCategory {
			return &models.Category{Code: code, Name: name}, ""
		}
		return &models.Counterparty{Code: code, Name: name}, ""
	}
	return nil, "unsupported_kind"
}

func (m *RowMapper) mapCreditCard(row models.ImportRow) (models.Record, string) {
	digits := validation.DigitsOnly(lookup(row, cardNumberAliases))
	if len(digits) != 16 {
		return nil, models.SkipInvalidCardNumber
	}
	code := FormatCardNumber(digits)
	debt := ParseAmount(lookup(row, debtAliases))

	return &models.CreditCard{
		Code:        code,
		OwnerName:   lookup(row, ownerAliases),
		Category:    NormalizeCardCategory(lookup(row, categoryAliases)),
		Bank:        lookup(row, bankAliases),
		CardNetwork: DetectCardNetwork(code),
		ExpiryDate:  lookup(row, expiryAliases),
		LimitAmount: ParseAmount(lookup(row, limitAliases)),
		CurrentDebt: &debt,
		IsActive:    true,
		CreatedAt:   m.now().UTC(),
	}, ""
}

// MapAll maps every row of a sheet. Skipped rows are reported as outcomes and do
// not appear in the pending list. Row numbers are 1-based positions in rows, so blank
// rows are passed over silently but still counted.
func (m *RowMapper) MapAll(kind models.Kind, rows []models.ImportRow) ([]models.PendingItem, []models.RowOutcome) {
	var (
		pending []models.PendingItem
		skipped []models.RowOutcome
	)
	for i, row := range rows {
		if row.IsBlank() {
			continue
		}
		rec, reason := m.Map(kind, row)
		if rec == nil {
			skipped = append(skipped, models.RowOutcome{Row: i + 1, Status: models.OutcomeSkipped, Reason: reason})
			continue
		}
		pending = append(pending, models.PendingItem{Row: i + 1, Record: rec, Identifier: rec.Identity()})
	}
	return pending, skipped
}
