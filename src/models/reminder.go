// backend/src/models/reminder.go
package models

import "time"

// Reminder types.
const (
	ReminderTypeGeneral      = "general"
	ReminderTypeCreditCard   = "credit_card"
	ReminderTypeCounterparty = "counterparty"
)

type Reminder struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	StartDate          string    `json:"startDate"`
	EndDate            string    `json:"endDate"`
	DayStart           int       `json:"dayStart"` // 0 means unset
	DayEnd             int       `json:"dayEnd"`   // 0 means unset
	CreditCardID       string    `json:"creditCardId"`
	CounterpartyID     string    `json:"counterpartyId"`
	PaymentType        string    `json:"paymentType"`
	RepeatMonthly      bool      `json:"repeatMonthly"`
	AutoCloseOnPayment bool      `json:"autoCloseOnPayment"`
	PaymentCount       int       `json:"paymentCount"`
	RemainingCount     int       `json:"remainingCount"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
}

// HasDayWindow reports whether both days of the monthly window are set.
func (r Reminder) HasDayWindow() bool {
	return r.DayStart > 0 && r.DayEnd > 0
}

type ReminderLog struct {
	ID            string    `json:"id"`
	Action        string    `json:"action"`
	ReminderType  string    `json:"reminderType"`
	ReminderID    string    `json:"reminderId"`
	PaymentDate   string    `json:"paymentDate"`
	PaymentAmount float64   `json:"paymentAmount"`
	Details       string    `json:"details"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DueReminder is an active reminder whose window end is at most three days away.
type DueReminder struct {
	Reminder     Reminder `json:"reminder"`
	DaysUntilEnd int      `json:"daysUntilEnd"`
}

// ReminderUpdate is the change the payment-progress rules decided for one reminder.
type ReminderUpdate struct {
	ReminderID     string `json:"reminderId"`
	RemainingCount *int   `json:"remainingCount,omitempty"`
	Deactivate     bool   `json:"deactivate"`
}
