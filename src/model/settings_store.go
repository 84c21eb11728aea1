package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/finansdefter/backend/src/models"
)

// GetSettings returns the saved settings of a user, or ErrNotFound.
func (s *Store) GetSettings(ctx context.Context, username string) (models.UserSettings, error) {
	var st models.UserSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT username, calendar_theme, card_expiry_months, show_reminder_badge, updated_at
		FROM user_settings WHERE username = ?`, username).
		Scan(&st.Username, &st.CalendarTheme, &st.CardExpiryMonths, &st.ShowReminderBadge, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserSettings{}, ErrNotFound
	}
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("error fetching settings for %s: %w", username, err)
	}
	return st, nil
}

func (s *Store) SaveSettings(ctx context.Context, st models.UserSettings) (models.UserSettings, error) {
	st.UpdatedAt = s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (username, calendar_theme, card_expiry_months, show_reminder_badge, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			calendar_theme = excluded.calendar_theme,
			card_expiry_months = excluded.card_expiry_months,
			show_reminder_badge = excluded.show_reminder_badge,
			updated_at = excluded.updated_at`,
		st.Username, st.CalendarTheme, st.CardExpiryMonths, st.ShowReminderBadge, st.UpdatedAt)
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("error saving settings for %s: %w", st.Username, err)
	}
	return st, nil
}

func (s *Store) AddActivity(ctx context.Context, username, action, details string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activity_logs (id, username, action, details, created_at) VALUES (?, ?, ?, ?, ?)",
		s.newID(), username, action, details, s.now())
	if err != nil {
		return fmt.Errorf("error inserting activity log: %w", err)
	}
	return nil
}

// ListActivity returns the most recent activity entries, newest first.
func (s *Store) ListActivity(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, action, details, created_at FROM activity_logs ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("error querying activity logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ActivityLog
	for rows.Next() {
		var l models.ActivityLog
		if err := rows.Scan(&l.ID, &l.Username, &l.Action, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning activity log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
