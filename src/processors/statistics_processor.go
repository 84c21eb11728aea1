// backend/src/processors/statistics_processor.go
package processors

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/finansdefter/backend/src/models"
)

const (
	topCounterpartyCount = 5
	comparisonMonths     = 6
	monthLayout          = "2006-01"
)

// MonthRange returns the first and last day of month (YYYY-MM) as stored dates.
func MonthRange(month time.Time) (string, string) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(models.DateLayout), last.Format(models.DateLayout)
}

// ParseMonth reads a YYYY-MM month.
func ParseMonth(s string) (time.Time, error) {
	return time.Parse(monthLayout, strings.TrimSpace(s))
}

type StatisticsProcessor struct{}

func NewStatisticsProcessor() *StatisticsProcessor { return &StatisticsProcessor{} }

// Process builds the monthly report. payments must cover the six months ending at
// month; only those dated inside month feed the per-month figures.
func (p *StatisticsProcessor) Process(month time.Time, payments []models.Payment) models.Statistics {
	key := month.Format(monthLayout)

	total := decimal.Zero
	checkTotal := decimal.Zero
	count, checkCount := 0, 0
	byType := map[string]decimal.Decimal{}
	byMethod := map[string]decimal.Decimal{}
	perMonth := map[string]decimal.Decimal{}
	parties := map[string]*partyTotal{}

	for _, pay := range payments {
		amount := decimal.NewFromFloat(pay.Amount)
		m := monthOf(pay.PaymentDate)
		perMonth[m] = perMonth[m].Add(amount)
		if m != key {
			continue
		}

		total = total.Add(amount)
		count++
		byType[pay.PaymentType] = byType[pay.PaymentType].Add(amount)

		method := pay.PaymentMethod
		if method == "" {
			method = models.PaymentMethodOther
		}
		byMethod[method] = byMethod[method].Add(amount)

		if pay.PaymentType == models.PaymentTypeCounterparty && pay.CounterpartyName != "" {
			pt, ok := parties[pay.CounterpartyName]
			if !ok {
				pt = &partyTotal{name: pay.CounterpartyName}
				parties[pay.CounterpartyName] = pt
			}
			pt.total = pt.total.Add(amount)
			pt.count++
		}

		if pay.PaymentMethod == models.PaymentMethodCheck {
			checkTotal = checkTotal.Add(amount)
			checkCount++
		}
	}

	stats := models.Statistics{
		Month:             key,
		TotalPayments:     round2(total),
		PaymentCount:      count,
		ByType:            roundAll(byType),
		ByMethod:          roundAll(byMethod),
		TopCounterparties: topParties(parties),
		Checks:            models.CheckTotals{Total: round2(checkTotal), Count: checkCount},
	}
	if count > 0 {
		stats.AveragePayment = round2(total.Div(decimal.NewFromInt(int64(count))))
	}

	for i := comparisonMonths - 1; i >= 0; i-- {
		m := time.Date(month.Year(), month.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC).Format(monthLayout)
		stats.MonthlyComparison = append(stats.MonthlyComparison, models.MonthTotal{Month: m, Total: round2(perMonth[m])})
	}
	return stats
}

// ComparisonStart is the first day of the earliest month in the comparison.
func ComparisonStart(month time.Time) string {
	first := time.Date(month.Year(), month.Month()-(comparisonMonths-1), 1, 0, 0, 0, 0, time.UTC)
	return first.Format(models.DateLayout)
}

type partyTotal struct {
	name  string
	total decimal.Decimal
	count int
}

func topParties(parties map[string]*partyTotal) []models.CounterpartyTotal {
	list := make([]*partyTotal, 0, len(parties))
	for _, pt := range parties {
		list = append(list, pt)
	}
	sort.Slice(list, func(i, j int) bool {
		if c := list[i].total.Cmp(list[j].total); c != 0 {
			return c > 0
		}
		return list[i].name < list[j].name
	})
	if len(list) > topCounterpartyCount {
		list = list[:topCounterpartyCount]
	}
	out := make([]models.CounterpartyTotal, 0, len(list))
	for _, pt := range list {
		out = append(out, models.CounterpartyTotal{Name: pt.name, Total: round2(pt.total), Count: pt.count})
	}
	return out
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func roundAll(m map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = round2(v)
	}
	return out
}

// FormatTRY formats an amount the Turkish way: "." groups thousands, "," separates
// decimals, trailing zero decimals are dropped.
func FormatTRY(amount float64) string {
	s := decimal.NewFromFloat(amount).Round(2).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
