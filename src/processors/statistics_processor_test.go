package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finansdefter/backend/src/models"
)

func TestStatisticsProcess(t *testing.T) {
	month := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	pay := func(date string, amount float64, typ, method, party string) models.Payment {
		return models.Payment{PaymentDate: date, Amount: amount, PaymentType: typ, PaymentMethod: method, CounterpartyName: party}
	}
	payments := []models.Payment{
		pay("2025-04-01", 0.1, models.PaymentTypeCounterparty, models.PaymentMethodCheck, "Acme"),
		pay("2025-04-02", 0.2, models.PaymentTypeCounterparty, models.PaymentMethodCheck, "Acme"),
		pay("2025-04-03", 100, models.PaymentTypeCreditCard, "", ""),
		pay("2025-04-30", 50, models.PaymentTypeCounterparty, models.PaymentMethodCreditCard, "Beta"),
		pay("2025-03-15", 70, models.PaymentTypeCreditCard, models.PaymentMethodCreditCard, ""),
		pay("2024-11-15", 30, models.PaymentTypeCreditCard, models.PaymentMethodCreditCard, ""),
	}

	stats := NewStatisticsProcessor().Process(month, payments)
	assert.Equal(t, "2025-04", stats.Month)
	assert.Equal(t, 150.3, stats.TotalPayments)
	assert.Equal(t, 4, stats.PaymentCount)
	assert.Equal(t, 37.58, stats.AveragePayment)
	assert.Equal(t, map[string]float64{models.PaymentTypeCounterparty: 50.3, models.PaymentTypeCreditCard: 100}, stats.ByType)
	assert.Equal(t, 100.0, stats.ByMethod[models.PaymentMethodOther])
	assert.Equal(t, models.CheckTotals{Total: 0.3, Count: 2}, stats.Checks)

	require.Len(t, stats.TopCounterparties, 2)
	assert.Equal(t, models.CounterpartyTotal{Name: "Beta", Total: 50, Count: 1}, stats.TopCounterparties[0])

	require.Len(t, stats.MonthlyComparison, 6)
	assert.Equal(t, models.MonthTotal{Month: "2024-11", Total: 30}, stats.MonthlyComparison[0])
	assert.Equal(t, models.MonthTotal{Month: "2025-03", Total: 70}, stats.MonthlyComparison[4])
	assert.Equal(t, models.MonthTotal{Month: "2025-04", Total: 150.3}, stats.MonthlyComparison[5])
}

func TestStatisticsEmptyMonth(t *testing.T) {
	stats := NewStatisticsProcessor().Process(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	assert.Zero(t, stats.AveragePayment)
	assert.Empty(t, stats.TopCounterparties)
	assert.Equal(t, "2024-08", stats.MonthlyComparison[0].Month)
}

func TestMonthHelpers(t *testing.T) {
	m, err := ParseMonth("2024-02")
	require.NoError(t, err)
	start, end := MonthRange(m)
	assert.Equal(t, "2024-02-01", start)
	assert.Equal(t, "2024-02-29", end)
	assert.Equal(t, "2023-09-01", ComparisonStart(m))

	_, err = ParseMonth("02/2024")
	assert.Error(t, err)
}

func TestFormatTRY(t *testing.T) {
	assert.Equal(t, "1.234,5", FormatTRY(1234.5))
	assert.Equal(t, "1.000.000", FormatTRY(1000000))
	assert.Equal(t, "-50,25", FormatTRY(-50.25))
	assert.Equal(t, "999", FormatTRY(999))
	assert.Equal(t, "Ödeme yapıldı - 1.500 ₺", PaymentLogDetails(1500))
}
