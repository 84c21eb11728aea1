package services

import (
	"context"
	"testing"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/security/validation"
)

func TestCreateCreditCardNormalizesAndStoresDebt(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore(t)
	reports := cache.New(cache.NoExpiration, 0)
	reports.Set("stats_2025-04", "stale", cache.DefaultExpiration)
	svc := NewDefinitionService(store, store, reports, testClock)

	rec, err := svc.Create(ctx, models.KindCreditCard, DefinitionInput{
		Code:        "5500 0000 0000 0004",
		OwnerName:   "<b>Mehmet</b>",
		Category:    "Kurumsal",
		Bank:        "Akbank",
		ExpiryMonth: 3,
		ExpiryYear:  2027,
		LimitAmount: 40000,
		CurrentDebt: floatPtr(1250.5),
	}, "ayse")
	require.NoError(t, err)

	card := rec.(*models.CreditCard)
	assert.Equal(t, "5500-0000-0000-0004", card.Code)
	assert.Equal(t, models.CardNetworkMastercard, card.CardNetwork)
	assert.Equal(t, models.CardCategoryCorporate, card.Category)
	assert.Equal(t, "03/27", card.ExpiryDate)
	assert.Equal(t, "Mehmet", card.OwnerName)
	require.NotNil(t, card.CurrentDebt)
	assert.Equal(t, 1250.5, *card.CurrentDebt)
	assert.Zero(t, reports.ItemCount(), "report cache is flushed when a debt changes")

	activity, err := store.ListActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, "create_definition", activity[0].Action)
}

func TestCreateCreditCardValidation(t *testing.T) {
	svc := NewDefinitionService(newSQLStore(t), nil, nil, testClock)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.KindCreditCard, DefinitionInput{Code: "4111 1111"}, "ayse")
	assert.ErrorIs(t, err, validation.ErrValidationFailed)

	_, err = svc.Create(ctx, models.KindCreditCard, DefinitionInput{Code: "4111111111111111", ExpiryMonth: 13, ExpiryYear: 27}, "ayse")
	assert.ErrorIs(t, err, validation.ErrValidationFailed)

	_, err = svc.Create(ctx, models.KindCreditCard, DefinitionInput{Code: "4111111111111111", OwnerName: "<script>alert(1)</script>"}, "ayse")
	assert.ErrorIs(t, err, validation.ErrValidationFailed)

	_, err = svc.Create(ctx, models.KindCreditCard, DefinitionInput{Code: "4111111111111111"}, "ayse")
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.KindCreditCard, DefinitionInput{Code: "4111-1111-1111-1111"}, "ayse")
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCreateBankAccountFormatsIBAN(t *testing.T) {
	svc := NewDefinitionService(newSQLStore(t), nil, nil, testClock)
	ctx := context.Background()

	rec, err := svc.Create(ctx, models.KindBankAccount, DefinitionInput{Code: "B1", Name: "Ana", IBAN: "tr330006100519786457841326", Balance: -20}, "ayse")
	require.NoError(t, err)
	assert.Equal(t, "TR33 0006 1005 1978 6457 8413 26", rec.(*models.BankAccount).IBAN)

	_, err = svc.Create(ctx, models.KindBankAccount, DefinitionInput{Code: "B2", IBAN: "TR12"}, "ayse")
	assert.ErrorIs(t, err, validation.ErrValidationFailed)

	_, err = svc.Create(ctx, models.KindCategory, DefinitionInput{}, "ayse")
	assert.ErrorIs(t, err, validation.ErrValidationFailed)
}

func TestUpdateCardOverwritesDebtAndDeleteRemovesIt(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore(t)
	svc := NewDefinitionService(store, nil, nil, testClock)

	rec, err := svc.Create(ctx, models.KindCreditCard, DefinitionInput{Code: "4111111111111111", CurrentDebt: floatPtr(100)}, "ayse")
	require.NoError(t, err)
	id := rec.RecordID()

	rec, err = svc.Update(ctx, models.KindCreditCard, id, DefinitionInput{Code: "4111111111111111", Bank: "Ziraat", CurrentDebt: floatPtr(75)}, "ayse")
	require.NoError(t, err)
	assert.Equal(t, "Ziraat", rec.(*models.CreditCard).Bank)
	assert.Equal(t, 75.0, *rec.(*models.CreditCard).CurrentDebt)

	// Without currentDebt the stored balance is left alone.
	rec, err = svc.Update(ctx, models.KindCreditCard, id, DefinitionInput{Code: "4111111111111111"}, "ayse")
	require.NoError(t, err)
	assert.Equal(t, 75.0, *rec.(*models.CreditCard).CurrentDebt)

	require.NoError(t, svc.Delete(ctx, models.KindCreditCard, id, "ayse"))
	balances, err := store.OpeningBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, balances)

	_, err = svc.Update(ctx, models.KindCreditCard, id, DefinitionInput{Code: "4111111111111111"}, "ayse")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, models.KindCreditCard, id, "ayse"), ErrNotFound)
}

func TestListSearchAndSort(t *testing.T) {
	ctx := context.Background()
	svc := NewDefinitionService(newSQLStore(t), nil, nil, testClock)
	for _, in := range []DefinitionInput{
		{Code: "C2", Name: "beta ltd"},
		{Code: "C1", Name: "Gamma"},
		{Code: "C3", Name: "Alpha"},
	} {
		_, err := svc.Create(ctx, models.KindCounterparty, in, "ayse")
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, models.KindCounterparty, ListOptions{Sort: "name"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha", all[0].(*models.Counterparty).Name)
	assert.Equal(t, "Gamma", all[2].(*models.Counterparty).Name)

	desc, err := svc.List(ctx, models.KindCounterparty, ListOptions{Sort: "code", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "C3", desc[0].Identity())

	found, err := svc.List(ctx, models.KindCounterparty, ListOptions{Query: "BETA"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "C2", found[0].Identity())
}

func TestListCardsCarriesDebtDefaultZero(t *testing.T) {
	ctx := context.Background()
	svc := NewDefinitionService(newSQLStore(t), nil, nil, testClock)
	_, err := svc.Create(ctx, models.KindCreditCard, DefinitionInput{Code: "4111111111111111"}, "ayse")
	require.NoError(t, err)

	cards, err := svc.List(ctx, models.KindCreditCard, ListOptions{})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.NotNil(t, cards[0].(*models.CreditCard).CurrentDebt)
	assert.Zero(t, *cards[0].(*models.CreditCard).CurrentDebt)
}
