package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/username/finansdefter/backend/src/models"
)

const paymentColumns = `p.id, p.payment_date, p.amount, p.payment_type, p.payment_method,
	p.credit_card_id, p.bank_account_id, p.counterparty_id, p.category_id,
	p.description, p.is_admin_only, p.created_at,
	COALESCE(cp.name, ''), COALESCE(cc.code, ''), COALESCE(ba.name, '')`

const paymentJoins = `FROM payments p
	LEFT JOIN counterparties cp ON cp.id = p.counterparty_id
	LEFT JOIN credit_cards cc ON cc.id = p.credit_card_id
	LEFT JOIN bank_accounts ba ON ba.id = p.bank_account_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (models.Payment, error) {
	var p models.Payment
	var cardID, accountID, partyID, categoryID sql.NullString
	err := row.Scan(&p.ID, &p.PaymentDate, &p.Amount, &p.PaymentType, &p.PaymentMethod,
		&cardID, &accountID, &partyID, &categoryID,
		&p.Description, &p.IsAdminOnly, &p.CreatedAt,
		&p.CounterpartyName, &p.CreditCardCode, &p.BankAccountName)
	if err != nil {
		return p, err
	}
	p.CreditCardID = stringPtr(cardID)
	p.BankAccountID = stringPtr(accountID)
	p.CounterpartyID = stringPtr(partyID)
	p.CategoryID = stringPtr(categoryID)
	return p, nil
}

// CreatePayment inserts a payment and returns it with its generated ID and creation time.
func (s *Store) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	if p.ID == "" {
		p.ID = s.newID()
	}
	p.CreatedAt = s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, payment_date, amount, payment_type, payment_method, credit_card_id,
			bank_account_id, counterparty_id, category_id, description, is_admin_only, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.PaymentDate, p.Amount, p.PaymentType, p.PaymentMethod,
		nullString(p.CreditCardID), nullString(p.BankAccountID), nullString(p.CounterpartyID), nullString(p.CategoryID),
		p.Description, p.IsAdminOnly, p.CreatedAt)
	if err != nil {
		return models.Payment{}, fmt.Errorf("error inserting payment: %w", err)
	}
	return p, nil
}

func (s *Store) UpdatePayment(ctx context.Context, p models.Payment) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE payments
		SET payment_date = ?, amount = ?, payment_type = ?, payment_method = ?, credit_card_id = ?,
			bank_account_id = ?, counterparty_id = ?, category_id = ?, description = ?, is_admin_only = ?
		WHERE id = ?`,
		p.PaymentDate, p.Amount, p.PaymentType, p.PaymentMethod,
		nullString(p.CreditCardID), nullString(p.BankAccountID), nullString(p.CounterpartyID), nullString(p.CategoryID),
		p.Description, p.IsAdminOnly, p.ID)
	if err != nil {
		return fmt.Errorf("error updating payment %s: %w", p.ID, err)
	}
	return checkAffected(res)
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting payment %s: %w", id, err)
	}
	return checkAffected(res)
}

func (s *Store) GetPayment(ctx context.Context, id string) (models.Payment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" "+paymentJoins+" WHERE p.id = ?", id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, ErrNotFound
	}
	if err != nil {
		return models.Payment{}, fmt.Errorf("error fetching payment %s: %w", id, err)
	}
	return p, nil
}

// ListPayments returns payments inside the filter's date range, newest first,
// with counterparty, card and account names filled in.
func (s *Store) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	var (
		where []string
		args  []any
	)
	if filter.StartDate != "" {
		where = append(where, "p.payment_date >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		where = append(where, "p.payment_date <= ?")
		args = append(args, filter.EndDate)
	}
	query := "SELECT " + paymentColumns + " " + paymentJoins
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.payment_date DESC, p.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
