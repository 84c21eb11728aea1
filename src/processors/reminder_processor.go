// backend/src/processors/reminder_processor.go
package processors

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/finansdefter/backend/src/models"
)

// DueWindowDays is how close the end of a reminder window must be for it to be due.
const DueWindowDays = 3

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysUntilEnd returns the days left until dayEnd as seen from today. A window with
// dayStart > dayEnd wraps into the next month; for days on or after dayStart the
// current month's length is used to reach the end day.
func DaysUntilEnd(dayStart, dayEnd int, today time.Time) int {
	currentDay := today.Day()
	if dayStart > dayEnd && currentDay >= dayStart {
		return dayEnd + daysIn(today) - currentDay
	}
	return dayEnd - currentDay
}

// IsDue reports whether a window end lies between today and DueWindowDays days ahead.
func IsDue(daysUntilEnd int) bool {
	return daysUntilEnd >= 0 && daysUntilEnd <= DueWindowDays
}

// InWindow reports whether day falls inside the monthly window.
func InWindow(day, dayStart, dayEnd int) bool {
	if dayStart > dayEnd {
		return day >= dayStart || day <= dayEnd
	}
	return day >= dayStart && day <= dayEnd
}

type ReminderProcessor struct{}

func NewReminderProcessor() *ReminderProcessor { return &ReminderProcessor{} }

// DueReminders evaluates active reminders with a remaining count and both window days set,
// soonest first.
func (p *ReminderProcessor) DueReminders(reminders []models.Reminder, today time.Time) []models.DueReminder {
	var due []models.DueReminder
	for _, r := range reminders {
		if !r.IsActive || r.RemainingCount <= 0 || !r.HasDayWindow() {
			continue
		}
		if days := DaysUntilEnd(r.DayStart, r.DayEnd, today); IsDue(days) {
			due = append(due, models.DueReminder{Reminder: r, DaysUntilEnd: days})
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].DaysUntilEnd < due[j].DaysUntilEnd })
	return due
}

// ExpiringCards returns active cards whose expiry month starts within [today, today+months].
func (p *ReminderProcessor) ExpiringCards(cards []*models.CreditCard, today time.Time, months int) []*models.CreditCard {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	limit := start.AddDate(0, months, 0)

	var expiring []*models.CreditCard
	for _, c := range cards {
		if !c.IsActive {
			continue
		}
		exp, ok := ExpiryMonth(c.ExpiryDate)
		if !ok {
			continue
		}
		if !exp.Before(start) && !exp.After(limit) {
			expiring = append(expiring, c)
		}
	}
	return expiring
}

// PaymentContext carries what the progress rules need besides the new payment:
// card codes by ID and the other payments recorded in the payment's month.
type PaymentContext struct {
	CardCodes     map[string]string
	MonthPayments []models.Payment
}

// PaymentProgress decides how a newly recorded payment advances each reminder.
// Only reminders that actually change are returned.
func (p *ReminderProcessor) PaymentProgress(reminders []models.Reminder, payment models.Payment, pc PaymentContext) []models.ReminderUpdate {
	var updates []models.ReminderUpdate
	for _, r := range reminders {
		if !p.matches(r, payment, pc) {
			continue
		}
		if u, changed := progress(r); changed {
			updates = append(updates, u)
		}
	}
	return updates
}

func (p *ReminderProcessor) matches(r models.Reminder, payment models.Payment, pc PaymentContext) bool {
	switch {
	case r.Type == models.ReminderTypeCreditCard && payment.PaymentType == models.PaymentTypeCreditCard:
		if !sameCard(r, payment, pc) {
			return false
		}
		return !r.HasDayWindow() || hasPaymentInWindow(r, payment, pc, func(o models.Payment) bool {
			return o.PaymentType == models.PaymentTypeCreditCard && deref(o.CreditCardID) == deref(payment.CreditCardID)
		})

	case r.Type == models.ReminderTypeCounterparty && payment.PaymentType == models.PaymentTypeCounterparty:
		if r.CounterpartyID == "" || deref(payment.CounterpartyID) != r.CounterpartyID {
			return false
		}
		if r.PaymentType != "" && r.PaymentType != payment.PaymentMethod {
			return false
		}
		return !r.HasDayWindow() || hasPaymentInWindow(r, payment, pc, func(o models.Payment) bool {
			if o.PaymentType != models.PaymentTypeCounterparty || deref(o.CounterpartyID) != r.CounterpartyID {
				return false
			}
			return r.PaymentType == "" || o.PaymentMethod == r.PaymentType
		})

	case r.Type == models.ReminderTypeCreditCard && payment.PaymentType == models.PaymentTypeCounterparty &&
		payment.PaymentMethod == models.PaymentMethodCreditCard:
		if !sameCard(r, payment, pc) {
			return false
		}
		return !r.HasDayWindow() || hasPaymentInWindow(r, payment, pc, func(o models.Payment) bool {
			return o.PaymentMethod == models.PaymentMethodCreditCard && deref(o.CreditCardID) == deref(payment.CreditCardID)
		})
	}
	return false
}

func sameCard(r models.Reminder, payment models.Payment, pc PaymentContext) bool {
	reminderCode, ok := pc.CardCodes[r.CreditCardID]
	if !ok {
		return false
	}
	paymentCode, ok := pc.CardCodes[deref(payment.CreditCardID)]
	return ok && reminderCode == paymentCode
}

// hasPaymentInWindow checks the new payment and the month's other payments for one
// that passes filter and whose day lies in the reminder window.
func hasPaymentInWindow(r models.Reminder, payment models.Payment, pc PaymentContext, filter func(models.Payment) bool) bool {
	month := monthOf(payment.PaymentDate)
	candidates := append([]models.Payment{payment}, pc.MonthPayments...)
	for _, o := range candidates {
		if !filter(o) || monthOf(o.PaymentDate) != month {
			continue
		}
		d, err := time.Parse(models.DateLayout, o.PaymentDate)
		if err != nil {
			continue
		}
		if InWindow(d.Day(), r.DayStart, r.DayEnd) {
			return true
		}
	}
	return false
}

// progress applies one matching payment to a reminder.
func progress(r models.Reminder) (models.ReminderUpdate, bool) {
	u := models.ReminderUpdate{ReminderID: r.ID}
	newCount := r.RemainingCount
	changed := false

	if r.RepeatMonthly {
		newCount = r.RemainingCount + 1
		changed = true
	} else if r.RemainingCount > 0 {
		newCount = r.RemainingCount - 1
		changed = true
	}
	if changed {
		u.RemainingCount = &newCount
	}

	if !r.RepeatMonthly && newCount == 0 && (changed || r.AutoCloseOnPayment) {
		u.Deactivate = true
	}
	return u, changed || u.Deactivate
}

// PaymentLogDetails is the reminder log text for a payment.
func PaymentLogDetails(amount float64) string {
	return fmt.Sprintf("Ödeme yapıldı - %s ₺", FormatTRY(amount))
}

func monthOf(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
