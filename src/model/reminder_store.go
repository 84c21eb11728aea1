package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/finansdefter/backend/src/models"
)

const reminderColumns = `id, type, title, description, start_date, end_date, day_start, day_end,
	credit_card_id, counterparty_id, payment_type, repeat_monthly, auto_close_on_payment,
	payment_count, remaining_count, is_active, created_at`

func scanReminder(row rowScanner) (models.Reminder, error) {
	var r models.Reminder
	err := row.Scan(&r.ID, &r.Type, &r.Title, &r.Description, &r.StartDate, &r.EndDate, &r.DayStart, &r.DayEnd,
		&r.CreditCardID, &r.CounterpartyID, &r.PaymentType, &r.RepeatMonthly, &r.AutoCloseOnPayment,
		&r.PaymentCount, &r.RemainingCount, &r.IsActive, &r.CreatedAt)
	return r, err
}

func (s *Store) CreateReminder(ctx context.Context, r models.Reminder) (models.Reminder, error) {
	r.ID = s.newID()
	r.CreatedAt = s.now()
	_, err := s.db.ExecContext(ctx, "INSERT INTO reminders ("+reminderColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.Type, r.Title, r.Description, r.StartDate, r.EndDate, r.DayStart, r.DayEnd,
		r.CreditCardID, r.CounterpartyID, r.PaymentType, r.RepeatMonthly, r.AutoCloseOnPayment,
		r.PaymentCount, r.RemainingCount, r.IsActive, r.CreatedAt)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("error inserting reminder: %w", err)
	}
	return r, nil
}

func (s *Store) UpdateReminder(ctx context.Context, r models.Reminder) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminders
		SET type = ?, title = ?, description = ?, start_date = ?, end_date = ?, day_start = ?, day_end = ?,
			credit_card_id = ?, counterparty_id = ?, payment_type = ?, repeat_monthly = ?, auto_close_on_payment = ?,
			payment_count = ?, remaining_count = ?, is_active = ?
		WHERE id = ?`,
		r.Type, r.Title, r.Description, r.StartDate, r.EndDate, r.DayStart, r.DayEnd,
		r.CreditCardID, r.CounterpartyID, r.PaymentType, r.RepeatMonthly, r.AutoCloseOnPayment,
		r.PaymentCount, r.RemainingCount, r.IsActive, r.ID)
	if err != nil {
		return fmt.Errorf("error updating reminder %s: %w", r.ID, err)
	}
	return checkAffected(res)
}

// ApplyReminderUpdate stores the outcome of the payment-progress rules for one reminder.
func (s *Store) ApplyReminderUpdate(ctx context.Context, u models.ReminderUpdate) error {
	var (
		res sql.Result
		err error
	)
	switch {
	case u.RemainingCount != nil:
		res, err = s.db.ExecContext(ctx,
			"UPDATE reminders SET remaining_count = ?, is_active = ? WHERE id = ?",
			*u.RemainingCount, !u.Deactivate, u.ReminderID)
	case u.Deactivate:
		res, err = s.db.ExecContext(ctx, "UPDATE reminders SET is_active = 0 WHERE id = ?", u.ReminderID)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("error applying reminder update %s: %w", u.ReminderID, err)
	}
	return checkAffected(res)
}

func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting reminder %s: %w", id, err)
	}
	return checkAffected(res)
}

func (s *Store) GetReminder(ctx context.Context, id string) (models.Reminder, error) {
	r, err := scanReminder(s.db.QueryRowContext(ctx, "SELECT "+reminderColumns+" FROM reminders WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reminder{}, ErrNotFound
	}
	if err != nil {
		return models.Reminder{}, fmt.Errorf("error fetching reminder %s: %w", id, err)
	}
	return r, nil
}

// ListReminders returns reminders newest first; only active ones when activeOnly is set.
func (s *Store) ListReminders(ctx context.Context, activeOnly bool) ([]models.Reminder, error) {
	query := "SELECT " + reminderColumns + " FROM reminders"
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *Store) AddReminderLog(ctx context.Context, l models.ReminderLog) error {
	l.ID = s.newID()
	l.CreatedAt = s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_logs (id, action, reminder_type, reminder_id, payment_date, payment_amount, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Action, l.ReminderType, l.ReminderID, l.PaymentDate, l.PaymentAmount, l.Details, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reminder log: %w", err)
	}
	return nil
}

// ListReminderLogs returns the logs of one reminder, or of all reminders when reminderID is empty.
func (s *Store) ListReminderLogs(ctx context.Context, reminderID string) ([]models.ReminderLog, error) {
	query := "SELECT id, action, reminder_type, reminder_id, payment_date, payment_amount, details, created_at FROM reminder_logs"
	var args []any
	if reminderID != "" {
		query += " WHERE reminder_id = ?"
		args = append(args, reminderID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reminder logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ReminderLog
	for rows.Next() {
		var l models.ReminderLog
		if err := rows.Scan(&l.ID, &l.Action, &l.ReminderType, &l.ReminderID, &l.PaymentDate,
			&l.PaymentAmount, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reminder log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
