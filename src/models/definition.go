// backend/src/models/definition.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects one of the four definition collections.
type Kind string

const (
	KindCreditCard   Kind = "credit_card"
	KindBankAccount  Kind = "bank_account"
	KindCategory     Kind = "category"
	KindCounterparty Kind = "counterparty"
)

// AllKinds lists the definition kinds in the order the definitions screen shows them.
var AllKinds = []Kind{KindCreditCard, KindBankAccount, KindCategory, KindCounterparty}

// ParseKind accepts the canonical kind names and the Turkish route slugs used by the desktop client.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit_card", "credit-card", "creditcard", "kredi-karti", "kredi_karti":
		return KindCreditCard, nil
	case "bank_account", "bank-account", "bankaccount", "banka-hesabi", "banka_hesabi":
		return KindBankAccount, nil
	case "category", "kategori":
		return KindCategory, nil
	case "counterparty", "cari":
		return KindCounterparty, nil
	}
	return "", fmt.Errorf("unknown definition kind '%s'", s)
}

// Card categories.
const (
	CardCategoryIndividual = "individual"
	CardCategoryCorporate  = "corporate"
)

// Card networks derived from the first digit of the card number.
const (
	CardNetworkVisa       = "Visa"
	CardNetworkMastercard = "Mastercard"
	CardNetworkTroy       = "Troy"
)

// Record is implemented by every definition kind. Identity is the value used for
// collision lookup; for all four kinds it is the code.
type Record interface {
	Kind() Kind
	RecordID() string
	Identity() string
}

type CreditCard struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	OwnerName   string    `json:"ownerName"`
	Category    string    `json:"category"`
	Bank        string    `json:"bank"`
	CardNetwork string    `json:"cardNetwork"`
	ExpiryDate  string    `json:"expiryDate"`
	LimitAmount float64   `json:"limitAmount"`
	CurrentDebt *float64  `json:"currentDebt,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *CreditCard) Kind() Kind { return KindCreditCard }
func (c *CreditCard) RecordID() string { return c.ID }
func (c *CreditCard) Identity() string { return c.Code }

type BankAccount struct {
	ID      string  `json:"id"`
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	IBAN    string  `json:"iban"`
	Balance float64 `json:"balance"`
}

func (a *BankAccount) Kind() Kind { return KindBankAccount }
func (a *BankAccount) RecordID() string { return a.ID }
func (a *BankAccount) Identity() string { return a.Code }

type Category struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func (c *Category) Kind() Kind { return KindCategory }
func (c *Category) RecordID() string { return c.ID }
func (c *Category) Identity() string { return c.Code }

// Counterparty is a trading partner account ("cari"): a customer or supplier.
type Counterparty struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func (c *Counterparty) Kind() Kind { return KindCounterparty }
func (c *Counterparty) RecordID() string { return c.ID }
func (c *Counterparty) Identity() string { return c.Code }

// DisplayName is what conflict listings and activity logs show for a record.
func DisplayName(r Record) string {
	switch v := r.(type) {
	case *CreditCard:
		return v.Code
	case *BankAccount:
		if v.Code != "" {
			return v.Code
		}
		return v.Name
	case *Category:
		if v.Code != "" {
			return v.Code
		}
		return v.Name
	case *Counterparty:
		if v.Code != "" {
			return v.Code
		}
		return v.Name
	}
	return ""
}
