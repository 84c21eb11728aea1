package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/username/finansdefter/backend/src/models"
)

// Insert persists a new definition and returns its generated ID. A credit card
// keeps the CreatedAt it carries; a zero CreatedAt is stamped with the current time.
func (s *Store) Insert(ctx context.Context, record models.Record) (string, error) {
	id := s.newID()
	var err error
	switch r := record.(type) {
	case *models.CreditCard:
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = s.now()
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO credit_cards (id, code, owner_name, category, bank, card_network, expiry_date, limit_amount, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
			id, r.Code, r.OwnerName, r.Category, r.Bank, r.CardNetwork, r.ExpiryDate, r.LimitAmount, createdAt.UTC())
	case *models.BankAccount:
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO bank_accounts (id, code, name, iban, balance) VALUES (?, ?, ?, ?, ?)",
			id, r.Code, r.Name, r.IBAN, r.Balance)
	case *models.Category:
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO categories (id, code, name) VALUES (?, ?, ?)",
			id, r.Code, r.Name)
	case *models.Counterparty:
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO counterparties (id, code, name) VALUES (?, ?, ?)",
			id, r.Code, r.Name)
	default:
		return "", fmt.Errorf("unsupported record type %T", record)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateCode, record.Identity())
		}
		return "", fmt.Errorf("error inserting %s: %w", record.Kind(), err)
	}
	return id, nil
}

// Update overwrites the mutable fields of an existing definition. For credit cards
// created_at and is_active are never touched.
func (s *Store) Update(ctx context.Context, kind models.Kind, id string, record models.Record) error {
	if record.Kind() != kind {
		return fmt.Errorf("record of kind %s cannot update a %s", record.Kind(), kind)
	}
	var (
		res sql.Result
		err error
	)
	switch r := record.(type) {
	case *models.CreditCard:
		res, err = s.db.ExecContext(ctx, `
			UPDATE credit_cards
			SET code = ?, owner_name = ?, category = ?, bank = ?, card_network = ?, expiry_date = ?, limit_amount = ?
			WHERE id = ?`,
			r.Code, r.OwnerName, r.Category, r.Bank, r.CardNetwork, r.ExpiryDate, r.LimitAmount, id)
	case *models.BankAccount:
		res, err = s.db.ExecContext(ctx,
			"UPDATE bank_accounts SET code = ?, name = ?, iban = ?, balance = ? WHERE id = ?",
			r.Code, r.Name, r.IBAN, r.Balance, id)
	case *models.Category:
		res, err = s.db.ExecContext(ctx,
			"UPDATE categories SET code = ?, name = ? WHERE id = ?",
			r.Code, r.Name, id)
	case *models.Counterparty:
		res, err = s.db.ExecContext(ctx,
			"UPDATE counterparties SET code = ?, name = ? WHERE id = ?",
			r.Code, r.Name, id)
	default:
		return fmt.Errorf("unsupported record type %T", record)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateCode, record.Identity())
		}
		return fmt.Errorf("error updating %s %s: %w", kind, id, err)
	}
	return checkAffected(res)
}

// GetAll returns every record of a kind, including inactive credit cards.
func (s *Store) GetAll(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	var records []models.Record
	switch kind {
	case models.KindCreditCard:
		cards, err := s.GetCreditCards(ctx, true)
		if err != nil {
			return nil, err
		}
		for _, c := range cards {
			records = append(records, c)
		}
	case models.KindBankAccount:
		rows, err := s.db.QueryContext(ctx, "SELECT id, code, name, iban, balance FROM bank_accounts ORDER BY code, name")
		if err != nil {
			return nil, fmt.Errorf("error querying bank accounts: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			a := &models.BankAccount{}
			if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.IBAN, &a.Balance); err != nil {
				return nil, fmt.Errorf("error scanning bank account: %w", err)
			}
			records = append(records, a)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	case models.KindCategory, models.KindCounterparty:
		table := tableFor(kind)
		rows, err := s.db.QueryContext(ctx, "SELECT id, code, name FROM "+table+" ORDER BY code, name")
		if err != nil {
			return nil, fmt.Errorf("error querying %s: %w", table, err)
		}
		defer rows.Close()
		for rows.Next() {
			var id, code, name string
			if err := rows.Scan(&id, &code, &name); err != nil {
				return nil, fmt.Errorf("error scanning %s: %w", table, err)
			}
			if kind == models.KindCategory {
				records = append(records, &models.Category{ID: id, Code: code, Name: name})
			} else {
				records = append(records, &models.Counterparty{ID: id, Code: code, Name: name})
			}
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
	return records, nil
}

// GetCreditCards returns credit cards ordered by code; inactive cards only when asked.
func (s *Store) GetCreditCards(ctx context.Context, includeInactive bool) ([]*models.CreditCard, error) {
	query := `SELECT id, code, owner_name, category, bank, card_network, expiry_date, limit_amount, is_active, created_at
		FROM credit_cards`
	if !includeInactive {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY code"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying credit cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.CreditCard
	for rows.Next() {
		c := &models.CreditCard{}
		if err := rows.Scan(&c.ID, &c.Code, &c.OwnerName, &c.Category, &c.Bank, &c.CardNetwork,
			&c.ExpiryDate, &c.LimitAmount, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning credit card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Get returns one record by ID.
func (s *Store) Get(ctx context.Context, kind models.Kind, id string) (models.Record, error) {
	all, err := s.GetAll(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		if r.RecordID() == id {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes a definition. Deleting a credit card also removes its opening-balance entry.
func (s *Store) Delete(ctx context.Context, kind models.Kind, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM "+tableFor(kind)+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting %s %s: %w", kind, id, err)
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	if kind == models.KindCreditCard {
		if _, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", models.LedgerKey(id)); err != nil {
			return fmt.Errorf("error deleting opening balance of card %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// UpsertLedgerEntry writes the opening-balance payment under its deterministic key,
// replacing any previous entry with the same key.
func (s *Store) UpsertLedgerEntry(ctx context.Context, key string, entry models.LedgerEntry) error {
	p := entry.AsPayment(key)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, payment_date, amount, payment_type, payment_method, credit_card_id,
			bank_account_id, counterparty_id, category_id, description, is_admin_only, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL, NULL, NULL, ?, 0, ?)
		ON CONFLICT(id) DO UPDATE SET
			payment_date = excluded.payment_date,
			amount = excluded.amount,
			payment_type = excluded.payment_type,
			payment_method = excluded.payment_method,
			credit_card_id = excluded.credit_card_id,
			bank_account_id = NULL,
			counterparty_id = NULL,
			category_id = NULL,
			description = excluded.description,
			created_at = excluded.created_at`,
		key, p.PaymentDate, p.Amount, p.PaymentType, p.PaymentMethod, nullString(p.CreditCardID),
		p.Description, s.now())
	if err != nil {
		return fmt.Errorf("error upserting ledger entry %s: %w", key, err)
	}
	return nil
}

// OpeningBalances returns the opening-balance amount of every card that has one, keyed by card ID.
func (s *Store) OpeningBalances(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT credit_card_id, amount FROM payments WHERE payment_method = ? AND id = ? || credit_card_id",
		models.PaymentMethodOpeningBalance, models.LedgerKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("error querying opening balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]float64)
	for rows.Next() {
		var cardID sql.NullString
		var amount float64
		if err := rows.Scan(&cardID, &amount); err != nil {
			return nil, err
		}
		if cardID.Valid {
			balances[cardID.String] = amount
		}
	}
	return balances, rows.Err()
}

func tableFor(kind models.Kind) string {
	switch kind {
	case models.KindCreditCard:
		return "credit_cards"
	case models.KindBankAccount:
		return "bank_accounts"
	case models.KindCategory:
		return "categories"
	case models.KindCounterparty:
		return "counterparties"
	}
	return ""
}
