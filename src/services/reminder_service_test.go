package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/security/validation"
)

func newReminderFixture(t *testing.T) (ReminderService, SettingsService, DefinitionService) {
	t.Helper()
	store := newSQLStore(t)
	settings := NewSettingsService(store, 3)
	return NewReminderService(store, store, settings, store, testClock), settings, NewDefinitionService(store, nil, nil, testClock)
}

func TestCreateReminderSetsRemainingCount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newReminderFixture(t)

	r, err := svc.Create(ctx, models.Reminder{Type: models.ReminderTypeGeneral, Title: "Rent", PaymentCount: 4}, "ayse")
	require.NoError(t, err)
	assert.Equal(t, 4, r.RemainingCount)
	assert.True(t, r.IsActive)

	r, err = svc.Create(ctx, models.Reminder{Type: models.ReminderTypeCounterparty, CounterpartyID: "p1", PaymentType: models.PaymentMethodCheck, PaymentCount: 4, RepeatMonthly: true}, "ayse")
	require.NoError(t, err)
	assert.Zero(t, r.RemainingCount)
}

func TestCreateReminderValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newReminderFixture(t)

	for name, r := range map[string]models.Reminder{
		"general without title":     {Type: models.ReminderTypeGeneral},
		"card without card":         {Type: models.ReminderTypeCreditCard},
		"counterparty without one":  {Type: models.ReminderTypeCounterparty},
		"unknown method":            {Type: models.ReminderTypeCounterparty, CounterpartyID: "p1", PaymentType: "barter"},
		"unknown type":              {Type: "weekly", Title: "x"},
		"day out of range":          {Type: models.ReminderTypeGeneral, Title: "x", DayStart: 32},
		"bad start date":            {Type: models.ReminderTypeGeneral, Title: "x", StartDate: "2025/01/01"},
		"negative payment count":    {Type: models.ReminderTypeGeneral, Title: "x", PaymentCount: -1},
		"markup only title":         {Type: models.ReminderTypeGeneral, Title: "<b></b>"},
		"script in the description": {Type: models.ReminderTypeGeneral, Title: "x", Description: "javascript:alert(1)"},
	} {
		_, err := svc.Create(ctx, r, "ayse")
		assert.ErrorIs(t, err, validation.ErrValidationFailed, name)
	}
}

func TestRemainingAfterEdit(t *testing.T) {
	old := models.Reminder{PaymentCount: 5, RemainingCount: 3}

	assert.Equal(t, 5, RemainingAfterEdit(old, models.Reminder{PaymentCount: 7}))
	assert.Equal(t, 0, RemainingAfterEdit(old, models.Reminder{PaymentCount: 1}))
	assert.Equal(t, 3, RemainingAfterEdit(old, models.Reminder{PaymentCount: 10, RepeatMonthly: true}))
}

func TestUpdateAndHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newReminderFixture(t)

	r, err := svc.Create(ctx, models.Reminder{Type: models.ReminderTypeGeneral, Title: "Rent", PaymentCount: 2}, "ayse")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, r.ID, models.Reminder{Type: models.ReminderTypeGeneral, Title: "Office rent", PaymentCount: 6}, "ayse")
	require.NoError(t, err)
	assert.Equal(t, "Office rent", updated.Title)
	assert.Equal(t, 6, updated.RemainingCount)

	_, err = svc.SetActive(ctx, r.ID, false, "ayse")
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, r.ID, history[0].ID)

	logs, err := svc.Logs(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)

	require.NoError(t, svc.Delete(ctx, r.ID, "ayse"))
	_, err = svc.Logs(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDueReminders(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newReminderFixture(t)

	// Today is the 28th of April.
	_, err := svc.Create(ctx, models.Reminder{Type: models.ReminderTypeGeneral, Title: "Due", PaymentCount: 1, DayStart: 20, DayEnd: 30}, "ayse")
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.Reminder{Type: models.ReminderTypeGeneral, Title: "Later", PaymentCount: 1, DayStart: 1, DayEnd: 10}, "ayse")
	require.NoError(t, err)

	due, err := svc.Due(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Due", due[0].Reminder.Title)
	assert.Equal(t, 2, due[0].DaysUntilEnd)
}

func TestExpiringCardsUsesUserSetting(t *testing.T) {
	ctx := context.Background()
	svc, settings, defs := newReminderFixture(t)

	for _, in := range []DefinitionInput{
		{Code: "4111111111111111", ExpiryDate: "06/25"},
		{Code: "4111111111111112", ExpiryDate: "09/25"},
		{Code: "4111111111111113", ExpiryDate: "03/25"},
	} {
		_, err := defs.Create(ctx, models.KindCreditCard, in, "ayse")
		require.NoError(t, err)
	}

	cards, err := svc.ExpiringCards(ctx, "ayse")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "06/25", cards[0].ExpiryDate)

	st, err := settings.Get(ctx, "ayse")
	require.NoError(t, err)
	st.CardExpiryMonths = 6
	_, err = settings.Save(ctx, st)
	require.NoError(t, err)

	cards, err = svc.ExpiringCards(ctx, "ayse")
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}
