// backend/src/models/payment.go
package models

import "time"

// Payment types and methods stored on payments.
const (
	PaymentTypeCreditCard   = "credit_card"
	PaymentTypeCounterparty = "counterparty"

	PaymentMethodOpeningBalance = "opening_balance"
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodCheck          = "check"
	PaymentMethodOther          = "other"
	PaymentMethodCash           = "cash"
	PaymentMethodTransfer       = "transfer"
	PaymentMethodDBS            = "dbs"

	// OpeningBalanceDescription is the description the desktop client shows for carried-forward balances.
	OpeningBalanceDescription = "Devir"
	// LedgerKeyPrefix prefixes the card ID to form the opening-balance payment key.
	LedgerKeyPrefix = "Devir_"

	// DateLayout is the storage format of payment dates.
	DateLayout = "2006-01-02"
)

// ManualPaymentMethods are the methods a user may pick when recording a payment.
// Opening balances are written only through the ledger.
var ManualPaymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodTransfer,
	PaymentMethodCreditCard,
	PaymentMethodCheck,
	PaymentMethodDBS,
	PaymentMethodOther,
}

// LedgerKey returns the deterministic opening-balance key of a credit card.
func LedgerKey(cardID string) string {
	return LedgerKeyPrefix + cardID
}

// LedgerEntry is the opening-balance ("Devir") entry kept 1:1 with a credit card.
type LedgerEntry struct {
	CreditCardID string  `json:"creditCardId"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"date"`
}

// NewLedgerEntry builds the opening-balance entry for a card dated on the given day.
func NewLedgerEntry(cardID string, amount float64, today time.Time) LedgerEntry {
	return LedgerEntry{
		CreditCardID: cardID,
		Amount:       amount,
		Date:         today.Format(DateLayout),
	}
}

// AsPayment expands a ledger entry into the payment row stored under key.
// Account, category and counterparty references stay empty.
func (e LedgerEntry) AsPayment(key string) Payment {
	cardID := e.CreditCardID
	return Payment{
		ID:            key,
		PaymentDate:   e.Date,
		Amount:        e.Amount,
		PaymentType:   PaymentTypeCreditCard,
		PaymentMethod: PaymentMethodOpeningBalance,
		CreditCardID:  &cardID,
		Description:   OpeningBalanceDescription,
	}
}

type Payment struct {
	ID             string    `json:"id"`
	PaymentDate    string    `json:"paymentDate"`
	Amount         float64   `json:"amount"`
	PaymentType    string    `json:"paymentType"`
	PaymentMethod  string    `json:"paymentMethod"`
	CreditCardID   *string   `json:"creditCardId"`
	BankAccountID  *string   `json:"bankAccountId"`
	CounterpartyID *string   `json:"counterpartyId"`
	CategoryID     *string   `json:"categoryId"`
	Description    string    `json:"description"`
	IsAdminOnly    bool      `json:"isAdminOnly"`
	CreatedAt      time.Time `json:"createdAt"`

	// Enrichment filled on listing.
	CounterpartyName string `json:"counterpartyName,omitempty"`
	CreditCardCode   string `json:"creditCardCode,omitempty"`
	BankAccountName  string `json:"bankAccountName,omitempty"`
}

// IsOpeningBalance reports whether the payment is a carried-forward balance entry.
func (p Payment) IsOpeningBalance() bool {
	return p.PaymentMethod == PaymentMethodOpeningBalance
}

// PaymentFilter restricts payment listings to an inclusive date range. Empty bounds are open.
type PaymentFilter struct {
	StartDate string
	EndDate   string
}

// Statistics is the monthly report of the statistics screen.
type Statistics struct {
	Month             string              `json:"month"`
	TotalPayments     float64             `json:"totalPayments"`
	PaymentCount      int                 `json:"paymentCount"`
	AveragePayment    float64             `json:"averagePayment"`
	ByType            map[string]float64  `json:"byType"`
	ByMethod          map[string]float64  `json:"byMethod"`
	TopCounterparties []CounterpartyTotal `json:"topCounterparties"`
	Checks            CheckTotals         `json:"checks"`
	MonthlyComparison []MonthTotal        `json:"monthlyComparison"`
}

type CounterpartyTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type CheckTotals struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}
