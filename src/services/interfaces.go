// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/finansdefter/backend/src/model"
	"github.com/username/finansdefter/backend/src/models"
)

// Define common service errors
var (
	ErrParsingFailed = errors.New("spreadsheet parsing failed")
	ErrPlanNotFound  = errors.New("import plan not found or expired")
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("operation not permitted for this role")

	// Store errors are shared so errors.Is works across layers.
	ErrNotFound      = model.ErrNotFound
	ErrDuplicateCode = model.ErrDuplicateCode
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// RecordStore is the persistence collaborator of the import reconciler.
type RecordStore interface {
	Insert(ctx context.Context, record models.Record) (string, error)
	Update(ctx context.Context, kind models.Kind, id string, record models.Record) error
	GetAll(ctx context.Context, kind models.Kind) ([]models.Record, error)
	UpsertLedgerEntry(ctx context.Context, key string, entry models.LedgerEntry) error
}

// DefinitionStore adds the single-record and card queries used by manual entry and export.
type DefinitionStore interface {
	RecordStore
	Get(ctx context.Context, kind models.Kind, id string) (models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id string) error
	GetCreditCards(ctx context.Context, includeInactive bool) ([]*models.CreditCard, error)
	OpeningBalances(ctx context.Context) (map[string]float64, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error)
	UpdatePayment(ctx context.Context, p models.Payment) error
	DeletePayment(ctx context.Context, id string) error
	GetPayment(ctx context.Context, id string) (models.Payment, error)
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
}

type ReminderStore interface {
	CreateReminder(ctx context.Context, r models.Reminder) (models.Reminder, error)
	UpdateReminder(ctx context.Context, r models.Reminder) error
	ApplyReminderUpdate(ctx context.Context, u models.ReminderUpdate) error
	DeleteReminder(ctx context.Context, id string) error
	GetReminder(ctx context.Context, id string) (models.Reminder, error)
	ListReminders(ctx context.Context, activeOnly bool) ([]models.Reminder, error)
	AddReminderLog(ctx context.Context, l models.ReminderLog) error
	ListReminderLogs(ctx context.Context, reminderID string) ([]models.ReminderLog, error)
}

type SettingsStore interface {
	GetSettings(ctx context.Context, username string) (models.UserSettings, error)
	SaveSettings(ctx context.Context, st models.UserSettings) (models.UserSettings, error)
}

// ActivityRecorder appends to the activity log.
type ActivityRecorder interface {
	AddActivity(ctx context.Context, username, action, details string) error
	ListActivity(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

var (
	_ DefinitionStore  = (*model.Store)(nil)
	_ PaymentStore     = (*model.Store)(nil)
	_ ReminderStore    = (*model.Store)(nil)
	_ SettingsStore    = (*model.Store)(nil)
	_ ActivityRecorder = (*model.Store)(nil)
)
