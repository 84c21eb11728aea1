package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finansdefter/backend/src/models"
)

var fixedNow = time.Date(2025, 4, 28, 9, 30, 0, 0, time.UTC)

func newTestMapper() *RowMapper {
	return NewRowMapper(func() time.Time { return fixedNow })
}

func TestMapCreditCard(t *testing.T) {
	rec, reason := newTestMapper().Map(models.KindCreditCard, models.ImportRow{
		"kart numarası": "4111 1111 1111 1111",
		"Kullanıcı":     "Ayşe Yılmaz",
		"Kart Türü":     "Şirket",
		"banka":         "Garanti",
		"S.K.T":         "09/28",
		"Limit":         "25.000,00",
		"Devir":         "1250,5",
	})
	require.Empty(t, reason)
	card := rec.(*models.CreditCard)
	assert.Equal(t, "4111-1111-1111-1111", card.Code)
	assert.Equal(t, "Ayşe Yılmaz", card.OwnerName)
	assert.Equal(t, models.CardCategoryCorporate, card.Category)
	assert.Equal(t, "Garanti", card.Bank)
	assert.Equal(t, models.CardNetworkVisa, card.CardNetwork)
	assert.Equal(t, "09/28", card.ExpiryDate)
	assert.Equal(t, 25000.0, card.LimitAmount)
	require.NotNil(t, card.CurrentDebt)
	assert.Equal(t, 1250.5, *card.CurrentDebt)
	assert.Equal(t, fixedNow, card.CreatedAt)
}

func TestMapCreditCardDefaults(t *testing.T) {
	rec, _ := newTestMapper().Map(models.KindCreditCard, models.ImportRow{"Numara": "5500000000000004", "Limit": "n/a"})
	card := rec.(*models.CreditCard)
	assert.Equal(t, models.CardCategoryIndividual, card.Category)
	assert.Equal(t, 0.0, card.LimitAmount)
	require.NotNil(t, card.CurrentDebt)
	assert.Equal(t, 0.0, *card.CurrentDebt)
}

func TestMapCreditCardSkipsWrongDigitCount(t *testing.T) {
	m := newTestMapper()
	for _, number := range []string{"", "4111", "4111 1111 1111 111", "4111 1111 1111 1111 1", "abcd-efgh-ijkl-mnop"} {
		rec, reason := m.Map(models.KindCreditCard, models.ImportRow{
			"Kart Numarası": number,
			"Kullanıcı":     "Someone",
			"Limit":         "1000",
			"Güncel Borç":   "50",
		})
		assert.Nil(t, rec, number)
		assert.Equal(t, models.SkipInvalidCardNumber, reason, number)
	}
}

func TestMapAliasPrecedence(t *testing.T) {
	rec, _ := newTestMapper().Map(models.KindCounterparty, models.ImportRow{"Kod": "", "kod": "C9", "İsim": "", "Ad": "Acme"})
	party := rec.(*models.Counterparty)
	assert.Equal(t, "C9", party.Code)
	assert.Equal(t, "Acme", party.Name)
}

func TestMapBankAccount(t *testing.T) {
	rec, reason := newTestMapper().Map(models.KindBankAccount, models.ImportRow{"Kod": "B1", "isim": "Ana", "iban": "TR12", "Bakiye": "1.000,25"})
	require.Empty(t, reason)
	acc := rec.(*models.BankAccount)
	assert.Equal(t, "TR12", acc.IBAN)
	assert.Equal(t, 1000.25, acc.Balance)
}

func TestMapSkipsEmptyCodeAndName(t *testing.T) {
	m := newTestMapper()
	for _, kind := range []models.Kind{models.KindBankAccount, models.KindCategory, models.KindCounterparty} {
		rec, reason := m.Map(kind, models.ImportRow{"Kod": "  ", "İsim": "", "Bakiye": "10"})
		assert.Nil(t, rec, kind)
		assert.Equal(t, models.SkipEmptyCodeAndName, reason, kind)
	}
	rec, _ := m.Map(models.KindCategory, models.ImportRow{"İsim": "Only name"})
	assert.NotNil(t, rec)
}

func TestMapAll(t *testing.T) {
	pending, skipped := newTestMapper().MapAll(models.KindCategory, []models.ImportRow{
		{"Kod": "K1", "İsim": "Rent"},
		{"Açıklama": "no code"},
		{},
		{"Kod": "K2"},
	})
	require.Len(t, pending, 2)
	assert.Equal(t, 1, pending[0].Row)
	assert.Equal(t, "K1", pending[0].Identifier)
	assert.Equal(t, 4, pending[1].Row)
	require.Len(t, skipped, 1)
	assert.Equal(t, models.RowOutcome{Row: 2, Status: models.OutcomeSkipped, Reason: models.SkipEmptyCodeAndName}, skipped[0])
}

func TestDetectCollisionsPartition(t *testing.T) {
	snapshot := NewSnapshot([]models.Record{
		&models.Category{ID: "a", Code: "K1"},
		&models.Category{ID: "b", Code: "K2"},
		&models.Category{ID: "c", Code: "K2"},
	})
	pending := []models.PendingItem{
		{Record: &models.Category{Code: "K1"}, Identifier: "K1"},
		{Record: &models.Category{Code: "K2"}, Identifier: "K2"},
		{Record: &models.Category{Code: "K3"}, Identifier: "K3"},
		{Record: &models.Category{Code: "K3"}, Identifier: "K3"},
	}
	conflicts, clean := DetectCollisions(models.KindCategory, pending, snapshot)
	assert.Equal(t, len(pending), len(conflicts)+clean)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "b", conflicts[1].Existing.RecordID())
	assert.Equal(t, 2, clean)
}

func TestMapUnquotesFormulaPrefix(t *testing.T) {
	rec, _ := newTestMapper().Map(models.KindCategory, models.ImportRow{"Kod": "'=K1", "İsim": "'rent"})
	cat := rec.(*models.Category)
	assert.Equal(t, "=K1", cat.Code)
	assert.Equal(t, "'rent", cat.Name)
}
