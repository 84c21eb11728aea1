package model

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finansdefter/backend/src/database"
	"github.com/username/finansdefter/backend/src/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	s := NewStore(db)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestInsertAndGetAllDefinitions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Insert(ctx, &models.CreditCard{Code: "4111-1111-1111-1111", OwnerName: "Ayşe", Category: models.CardCategoryIndividual, Bank: "Ziraat", CardNetwork: models.CardNetworkVisa, ExpiryDate: "12/27", LimitAmount: 5000})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = s.Insert(ctx, &models.BankAccount{Code: "B1", Name: "Main", IBAN: "TR00 0000", Balance: 10})
	require.NoError(t, err)
	_, err = s.Insert(ctx, &models.Category{Code: "K1", Name: "Rent"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, &models.Counterparty{Code: "C1", Name: "Acme"})
	require.NoError(t, err)

	cards, err := s.GetAll(ctx, models.KindCreditCard)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	card := cards[0].(*models.CreditCard)
	assert.Equal(t, id, card.ID)
	assert.True(t, card.IsActive)
	assert.Equal(t, 5000.0, card.LimitAmount)
	assert.True(t, card.CreatedAt.Equal(s.now()))

	for _, kind := range []models.Kind{models.KindBankAccount, models.KindCategory, models.KindCounterparty} {
		recs, err := s.GetAll(ctx, kind)
		require.NoError(t, err)
		assert.Len(t, recs, 1, kind)
	}
}

func TestInsertDuplicateCode(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Insert(ctx, &models.Counterparty{Code: "C1", Name: "Acme"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, &models.Counterparty{Code: "C1", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	// Empty codes are not constrained.
	_, err = s.Insert(ctx, &models.Counterparty{Name: "A"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, &models.Counterparty{Name: "B"})
	require.NoError(t, err)
}

func TestUpdateCreditCardKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id, err := s.Insert(ctx, &models.CreditCard{Code: "1111-2222-3333-4444", OwnerName: "Old", CreatedAt: created})
	require.NoError(t, err)

	err = s.Update(ctx, models.KindCreditCard, id, &models.CreditCard{Code: "1111-2222-3333-4444", OwnerName: "New", LimitAmount: 900})
	require.NoError(t, err)

	rec, err := s.Get(ctx, models.KindCreditCard, id)
	require.NoError(t, err)
	card := rec.(*models.CreditCard)
	assert.Equal(t, "New", card.OwnerName)
	assert.Equal(t, 900.0, card.LimitAmount)
	assert.True(t, card.CreatedAt.Equal(created))
}

func TestUpdateMissingRecord(t *testing.T) {
	s := newTestStore(t)
	err := s.Update(context.Background(), models.KindCategory, "nope", &models.Category{Code: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertLedgerEntryReplacesByKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Insert(ctx, &models.CreditCard{Code: "1111-2222-3333-4444"})
	require.NoError(t, err)

	key := models.LedgerKey(id)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpsertLedgerEntry(ctx, key, models.NewLedgerEntry(id, 100, day)))
	require.NoError(t, s.UpsertLedgerEntry(ctx, key, models.NewLedgerEntry(id, 250.5, day.AddDate(0, 0, 1))))

	payments, err := s.ListPayments(ctx, models.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	p := payments[0]
	assert.Equal(t, key, p.ID)
	assert.Equal(t, 250.5, p.Amount)
	assert.Equal(t, "2025-03-11", p.PaymentDate)
	assert.Equal(t, models.PaymentMethodOpeningBalance, p.PaymentMethod)
	assert.Equal(t, "1111-2222-3333-4444", p.CreditCardCode)

	balances, err := s.OpeningBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{id: 250.5}, balances)
}

func TestDeleteCardRemovesLedgerEntry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Insert(ctx, &models.CreditCard{Code: "1111-2222-3333-4444"})
	require.NoError(t, err)
	require.NoError(t, s.UpsertLedgerEntry(ctx, models.LedgerKey(id), models.NewLedgerEntry(id, 10, s.now())))

	require.NoError(t, s.Delete(ctx, models.KindCreditCard, id))

	_, err = s.GetPayment(ctx, models.LedgerKey(id))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, models.KindCreditCard, id), ErrNotFound)
}

func TestListPaymentsFiltersByDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	partyID, err := s.Insert(ctx, &models.Counterparty{Code: "C1", Name: "Acme"})
	require.NoError(t, err)

	for _, d := range []string{"2025-02-28", "2025-03-01", "2025-03-31", "2025-04-01"} {
		_, err := s.CreatePayment(ctx, models.Payment{PaymentDate: d, Amount: 1, PaymentType: models.PaymentTypeCounterparty, PaymentMethod: models.PaymentMethodCheck, CounterpartyID: &partyID})
		require.NoError(t, err)
	}

	payments, err := s.ListPayments(ctx, models.PaymentFilter{StartDate: "2025-03-01", EndDate: "2025-03-31"})
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "2025-03-31", payments[0].PaymentDate)
	assert.Equal(t, "Acme", payments[0].CounterpartyName)
	assert.Nil(t, payments[0].CreditCardID)
}

func TestReminderLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	r, err := s.CreateReminder(ctx, models.Reminder{Type: models.ReminderTypeGeneral, Title: "Rent", DayStart: 25, DayEnd: 5, PaymentCount: 3, RemainingCount: 3, IsActive: true})
	require.NoError(t, err)

	remaining := 0
	require.NoError(t, s.ApplyReminderUpdate(ctx, models.ReminderUpdate{ReminderID: r.ID, RemainingCount: &remaining, Deactivate: true}))

	got, err := s.GetReminder(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RemainingCount)
	assert.False(t, got.IsActive)

	active, err := s.ListReminders(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, s.AddReminderLog(ctx, models.ReminderLog{Action: "payment_made", ReminderID: r.ID, PaymentAmount: 10}))
	logs, err := s.ListReminderLogs(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 10.0, logs[0].PaymentAmount)
}

func TestSettingsAndActivity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetSettings(ctx, "ali")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.SaveSettings(ctx, models.UserSettings{Username: "ali", CalendarTheme: "rose", CardExpiryMonths: 6})
	require.NoError(t, err)
	_, err = s.SaveSettings(ctx, models.UserSettings{Username: "ali", CalendarTheme: "emerald", CardExpiryMonths: 2, ShowReminderBadge: true})
	require.NoError(t, err)

	st, err := s.GetSettings(ctx, "ali")
	require.NoError(t, err)
	assert.Equal(t, "emerald", st.CalendarTheme)
	assert.Equal(t, 2, st.CardExpiryMonths)
	assert.True(t, st.ShowReminderBadge)

	require.NoError(t, s.AddActivity(ctx, "ali", "import", "3 cards"))
	logs, err := s.ListActivity(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "import", logs[0].Action)
}
