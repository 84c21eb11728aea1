// backend/src/services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/processors"
	"github.com/username/finansdefter/backend/src/security/validation"
)

type ReminderService interface {
	Create(ctx context.Context, r models.Reminder, username string) (models.Reminder, error)
	Update(ctx context.Context, id string, r models.Reminder, username string) (models.Reminder, error)
	Delete(ctx context.Context, id, username string) error
	SetActive(ctx context.Context, id string, active bool, username string) (models.Reminder, error)
	Active(ctx context.Context) ([]models.Reminder, error)
	History(ctx context.Context) ([]models.Reminder, error)
	Logs(ctx context.Context, reminderID string) ([]models.ReminderLog, error)
	Due(ctx context.Context) ([]models.DueReminder, error)
	ExpiringCards(ctx context.Context, username string) ([]*models.CreditCard, error)
}

type reminderServiceImpl struct {
	reminders   ReminderStore
	definitions DefinitionStore
	settings    SettingsService
	activity    ActivityRecorder
	processor   *processors.ReminderProcessor
	clock       Clock
}

func NewReminderService(reminders ReminderStore, definitions DefinitionStore, settings SettingsService, activity ActivityRecorder, clock Clock) ReminderService {
	if clock == nil {
		clock = time.Now
	}
	return &reminderServiceImpl{
		reminders:   reminders,
		definitions: definitions,
		settings:    settings,
		activity:    activity,
		processor:   processors.NewReminderProcessor(),
		clock:       clock,
	}
}

func (s *reminderServiceImpl) Create(ctx context.Context, r models.Reminder, username string) (models.Reminder, error) {
	r, err := normalizeReminder(r, username)
	if err != nil {
		logger.FromContext(ctx).Warn("Reminder rejected", "error", err)
		return models.Reminder{}, err
	}
	if r.RepeatMonthly {
		r.RemainingCount = 0
	} else {
		r.RemainingCount = r.PaymentCount
	}
	r.IsActive = true

	created, err := s.reminders.CreateReminder(ctx, r)
	if err != nil {
		return models.Reminder{}, err
	}
	s.recordActivity(ctx, username, "create_reminder", created)
	return created, nil
}

// Update edits a reminder. A repeating reminder keeps its counter; otherwise the
// payments already made are carried over to the new payment count.
func (s *reminderServiceImpl) Update(ctx context.Context, id string, r models.Reminder, username string) (models.Reminder, error) {
	existing, err := s.reminders.GetReminder(ctx, id)
	if err != nil {
		return models.Reminder{}, err
	}
	r, err = normalizeReminder(r, username)
	if err != nil {
		return models.Reminder{}, err
	}

	r.ID = id
	r.IsActive = existing.IsActive
	r.CreatedAt = existing.CreatedAt
	r.RemainingCount = RemainingAfterEdit(existing, r)

	if err := s.reminders.UpdateReminder(ctx, r); err != nil {
		return models.Reminder{}, err
	}
	s.recordActivity(ctx, username, "update_reminder", r)
	return s.reminders.GetReminder(ctx, id)
}

// RemainingAfterEdit computes the remaining count of an edited reminder.
func RemainingAfterEdit(old, edited models.Reminder) int {
	if edited.RepeatMonthly {
		return old.RemainingCount
	}
	completed := old.PaymentCount - old.RemainingCount
	if remaining := edited.PaymentCount - completed; remaining > 0 {
		return remaining
	}
	return 0
}

func (s *reminderServiceImpl) SetActive(ctx context.Context, id string, active bool, username string) (models.Reminder, error) {
	r, err := s.reminders.GetReminder(ctx, id)
	if err != nil {
		return models.Reminder{}, err
	}
	r.IsActive = active
	if err := s.reminders.UpdateReminder(ctx, r); err != nil {
		return models.Reminder{}, err
	}
	action := "deactivate_reminder"
	if active {
		action = "activate_reminder"
	}
	s.recordActivity(ctx, username, action, r)
	return r, nil
}

func (s *reminderServiceImpl) Delete(ctx context.Context, id, username string) error {
	r, err := s.reminders.GetReminder(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reminders.DeleteReminder(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, username, "delete_reminder", r)
	return nil
}

func (s *reminderServiceImpl) Active(ctx context.Context) ([]models.Reminder, error) {
	return s.reminders.ListReminders(ctx, true)
}

func (s *reminderServiceImpl) History(ctx context.Context) ([]models.Reminder, error) {
	all, err := s.reminders.ListReminders(ctx, false)
	if err != nil {
		return nil, err
	}
	inactive := make([]models.Reminder, 0, len(all))
	for _, r := range all {
		if !r.IsActive {
			inactive = append(inactive, r)
		}
	}
	return inactive, nil
}

func (s *reminderServiceImpl) Logs(ctx context.Context, reminderID string) ([]models.ReminderLog, error) {
	if _, err := s.reminders.GetReminder(ctx, reminderID); err != nil {
		return nil, err
	}
	return s.reminders.ListReminderLogs(ctx, reminderID)
}

func (s *reminderServiceImpl) Due(ctx context.Context) ([]models.DueReminder, error) {
	active, err := s.reminders.ListReminders(ctx, true)
	if err != nil {
		return nil, err
	}
	due := s.processor.DueReminders(active, s.clock())
	if due == nil {
		due = []models.DueReminder{}
	}
	return due, nil
}

// ExpiringCards lists the active cards that expire within the user's warning window.
func (s *reminderServiceImpl) ExpiringCards(ctx context.Context, username string) ([]*models.CreditCard, error) {
	settings, err := s.settings.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	cards, err := s.definitions.GetCreditCards(ctx, false)
	if err != nil {
		return nil, err
	}
	expiring := s.processor.ExpiringCards(cards, s.clock(), settings.CardExpiryMonths)
	if expiring == nil {
		expiring = []*models.CreditCard{}
	}
	return expiring, nil
}

func (s *reminderServiceImpl) recordActivity(ctx context.Context, username, action string, r models.Reminder) {
	if s.activity == nil {
		return
	}
	title := r.Title
	if title == "" {
		title = r.Type
	}
	if err := s.activity.AddActivity(ctx, username, action, title); err != nil {
		logger.FromContext(ctx).Warn("Failed to record activity", "action", action, "error", err)
	}
}

func normalizeReminder(r models.Reminder, contextID string) (models.Reminder, error) {
	fields := map[string]string{"title": r.Title, "description": r.Description}
	if err := validation.ScanFields(fields, validation.MaxDescriptionLength, contextID); err != nil {
		return r, err
	}
	r.Title = validation.SanitizeText(r.Title)
	r.Description = validation.SanitizeText(r.Description)

	switch r.Type {
	case models.ReminderTypeGeneral:
		if r.Title == "" {
			return r, fmt.Errorf("%w: a general reminder needs a title", validation.ErrValidationFailed)
		}
	case models.ReminderTypeCreditCard:
		if r.CreditCardID == "" {
			return r, fmt.Errorf("%w: a credit card reminder needs a card", validation.ErrValidationFailed)
		}
	case models.ReminderTypeCounterparty:
		if r.CounterpartyID == "" {
			return r, fmt.Errorf("%w: a counterparty reminder needs a counterparty", validation.ErrValidationFailed)
		}
		if err := validatePaymentMethod(r.PaymentType); err != nil {
			return r, err
		}
	default:
		return r, fmt.Errorf("%w: unknown reminder type '%s'", validation.ErrValidationFailed, r.Type)
	}

	errs := []error{
		validation.ValidateDayOfMonth(r.DayStart, "Day start"),
		validation.ValidateDayOfMonth(r.DayEnd, "Day end"),
	}
	for field, date := range map[string]string{"Start date": r.StartDate, "End date": r.EndDate} {
		if date != "" {
			_, err := validation.ValidateDateString(date, field)
			errs = append(errs, err)
		}
	}
	if r.PaymentCount < 0 {
		errs = append(errs, fmt.Errorf("%w: payment count cannot be negative", validation.ErrValidationFailed))
	}
	if err := errors.Join(errs...); err != nil {
		return r, err
	}
	return r, nil
}
