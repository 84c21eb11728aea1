// backend/src/services/payment_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/processors"
	"github.com/username/finansdefter/backend/src/security"
	"github.com/username/finansdefter/backend/src/security/validation"
	"github.com/username/finansdefter/backend/src/utils"
)

const (
	ckStatistics = "statistics_%s"

	upcomingDays  = 7
	upcomingLimit = 5
)

// PaymentResult is a recorded payment together with the reminder changes it caused.
type PaymentResult struct {
	Payment         models.Payment          `json:"payment"`
	ReminderUpdates []models.ReminderUpdate `json:"reminderUpdates"`
}

type PaymentService interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	Get(ctx context.Context, id string) (models.Payment, error)
	Create(ctx context.Context, p models.Payment, username string) (*PaymentResult, error)
	Update(ctx context.Context, id string, p models.Payment, username string) (models.Payment, error)
	Delete(ctx context.Context, id, username string) error
	Upcoming(ctx context.Context, role string) ([]models.Payment, error)
	Statistics(ctx context.Context, month string) (models.Statistics, error)
}

type paymentServiceImpl struct {
	payments          PaymentStore
	definitions       DefinitionStore
	reminders         ReminderStore
	activity          ActivityRecorder
	reportCache       *cache.Cache
	reportTTL         time.Duration
	reminderProcessor *processors.ReminderProcessor
	statsProcessor    *processors.StatisticsProcessor
	clock             Clock
}

func NewPaymentService(
	payments PaymentStore,
	definitions DefinitionStore,
	reminders ReminderStore,
	activity ActivityRecorder,
	reportCache *cache.Cache,
	reportTTL time.Duration,
	clock Clock,
) PaymentService {
	if clock == nil {
		clock = time.Now
	}
	if reportCache == nil {
		reportCache = cache.New(reportTTL, 2*reportTTL)
	}
	return &paymentServiceImpl{
		payments:          payments,
		definitions:       definitions,
		reminders:         reminders,
		activity:          activity,
		reportCache:       reportCache,
		reportTTL:         reportTTL,
		reminderProcessor: processors.NewReminderProcessor(),
		statsProcessor:    processors.NewStatisticsProcessor(),
		clock:             clock,
	}
}

func (s *paymentServiceImpl) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	for field, date := range map[string]string{"Start date": filter.StartDate, "End date": filter.EndDate} {
		if date == "" {
			continue
		}
		if _, err := validation.ValidateDateString(date, field); err != nil {
			return nil, err
		}
	}
	return s.payments.ListPayments(ctx, filter)
}

func (s *paymentServiceImpl) Get(ctx context.Context, id string) (models.Payment, error) {
	return s.payments.GetPayment(ctx, id)
}

// Create records a payment and advances the reminders it settles.
func (s *paymentServiceImpl) Create(ctx context.Context, p models.Payment, username string) (*PaymentResult, error) {
	log := logger.FromContext(ctx)

	p, err := normalizePayment(p, username)
	if err != nil {
		log.Warn("Payment rejected", "error", err)
		return nil, err
	}

	pc, reminders, err := s.progressContext(ctx, p)
	if err != nil {
		return nil, err
	}

	p.ID = ""
	created, err := s.payments.CreatePayment(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidateReports()

	updates := s.reminderProcessor.PaymentProgress(reminders, created, pc)
	byID := make(map[string]models.Reminder, len(reminders))
	for _, r := range reminders {
		byID[r.ID] = r
	}
	applied := make([]models.ReminderUpdate, 0, len(updates))
	for _, u := range updates {
		if err := s.reminders.ApplyReminderUpdate(ctx, u); err != nil {
			log.Error("Failed to advance reminder after payment", "reminderID", u.ReminderID, "paymentID", created.ID, "error", err)
			continue
		}
		applied = append(applied, u)
		entry := models.ReminderLog{
			Action:        "payment",
			ReminderType:  byID[u.ReminderID].Type,
			ReminderID:    u.ReminderID,
			PaymentDate:   created.PaymentDate,
			PaymentAmount: created.Amount,
			Details:       processors.PaymentLogDetails(created.Amount),
		}
		if err := s.reminders.AddReminderLog(ctx, entry); err != nil {
			log.Warn("Failed to write reminder log", "reminderID", u.ReminderID, "error", err)
		}
	}

	s.recordActivity(ctx, username, "create_payment", created)
	log.Info("Payment recorded", "id", created.ID, "remindersUpdated", len(applied))
	return &PaymentResult{Payment: created, ReminderUpdates: applied}, nil
}

// progressContext loads what the reminder rules need: active reminders, card codes
// and the payments already recorded in the new payment's month.
func (s *paymentServiceImpl) progressContext(ctx context.Context, p models.Payment) (processors.PaymentContext, []models.Reminder, error) {
	var pc processors.PaymentContext

	reminders, err := s.reminders.ListReminders(ctx, true)
	if err != nil {
		return pc, nil, fmt.Errorf("error loading reminders: %w", err)
	}
	if len(reminders) == 0 {
		return pc, nil, nil
	}

	cards, err := s.definitions.GetCreditCards(ctx, true)
	if err != nil {
		return pc, nil, fmt.Errorf("error loading credit cards: %w", err)
	}
	pc.CardCodes = make(map[string]string, len(cards))
	for _, c := range cards {
		pc.CardCodes[c.ID] = c.Code
	}

	date, _ := time.Parse(models.DateLayout, p.PaymentDate)
	start, end := processors.MonthRange(date)
	pc.MonthPayments, err = s.payments.ListPayments(ctx, models.PaymentFilter{StartDate: start, EndDate: end})
	if err != nil {
		return pc, nil, fmt.Errorf("error loading payments of %s: %w", date.Format("2006-01"), err)
	}
	return pc, reminders, nil
}

func (s *paymentServiceImpl) Update(ctx context.Context, id string, p models.Payment, username string) (models.Payment, error) {
	existing, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return models.Payment{}, err
	}
	if existing.IsOpeningBalance() {
		return models.Payment{}, fmt.Errorf("%w: opening balances are edited on the credit card", ErrInvalidInput)
	}
	p, err = normalizePayment(p, username)
	if err != nil {
		return models.Payment{}, err
	}
	p.ID = id
	if err := s.payments.UpdatePayment(ctx, p); err != nil {
		return models.Payment{}, err
	}
	s.invalidateReports()
	s.recordActivity(ctx, username, "update_payment", p)
	return s.payments.GetPayment(ctx, id)
}

func (s *paymentServiceImpl) Delete(ctx context.Context, id, username string) error {
	existing, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.payments.DeletePayment(ctx, id); err != nil {
		return err
	}
	s.invalidateReports()
	s.recordActivity(ctx, username, "delete_payment", existing)
	return nil
}

// Upcoming returns the next payments due within a week, earliest first. Opening
// balances are left out, and so are admin-only payments unless role is an admin role.
func (s *paymentServiceImpl) Upcoming(ctx context.Context, role string) ([]models.Payment, error) {
	today := s.clock()
	filter := models.PaymentFilter{
		StartDate: today.Format(models.DateLayout),
		EndDate:   today.AddDate(0, 0, upcomingDays).Format(models.DateLayout),
	}
	payments, err := s.payments.ListPayments(ctx, filter)
	if err != nil {
		return nil, err
	}

	upcoming := make([]models.Payment, 0, upcomingLimit)
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].PaymentDate < payments[j].PaymentDate })
	for _, p := range payments {
		if p.IsOpeningBalance() || (p.IsAdminOnly && !security.IsAdmin(role)) {
			continue
		}
		upcoming = append(upcoming, p)
		if len(upcoming) == upcomingLimit {
			break
		}
	}
	return upcoming, nil
}

// Statistics returns the monthly report for month (YYYY-MM), cached until the next
// payment change.
func (s *paymentServiceImpl) Statistics(ctx context.Context, month string) (models.Statistics, error) {
	m, err := processors.ParseMonth(month)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("%w: month must be YYYY-MM", validation.ErrValidationFailed)
	}
	cacheKey := fmt.Sprintf(ckStatistics, m.Format("2006-01"))
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.FromContext(ctx).Debug("Statistics served from cache", "month", month)
		return cached.(models.Statistics), nil
	}

	_, end := processors.MonthRange(m)
	payments, err := s.payments.ListPayments(ctx, models.PaymentFilter{StartDate: processors.ComparisonStart(m), EndDate: end})
	if err != nil {
		return models.Statistics{}, err
	}
	stats := s.statsProcessor.Process(m, payments)
	s.reportCache.Set(cacheKey, stats, s.reportTTL)
	return stats, nil
}

func (s *paymentServiceImpl) invalidateReports() {
	s.reportCache.Flush()
}

func (s *paymentServiceImpl) recordActivity(ctx context.Context, username, action string, p models.Payment) {
	if s.activity == nil {
		return
	}
	details := fmt.Sprintf("%s %s %s ₺", p.PaymentDate, p.PaymentType, processors.FormatTRY(p.Amount))
	if err := s.activity.AddActivity(ctx, username, action, details); err != nil {
		logger.FromContext(ctx).Warn("Failed to record activity", "action", action, "error", err)
	}
}

// normalizePayment validates a manually entered payment and cleans its free text.
func normalizePayment(p models.Payment, contextID string) (models.Payment, error) {
	if _, err := validation.ValidateDateString(p.PaymentDate, "Payment date"); err != nil {
		return p, err
	}
	if err := validation.ValidateAmount(p.Amount, "Amount", false); err != nil {
		return p, err
	}
	p.Amount = utils.RoundFloat(p.Amount, 2)
	if p.Amount == 0 {
		return p, fmt.Errorf("%w: Amount must be greater than zero", validation.ErrValidationFailed)
	}
	if err := validatePaymentMethod(p.PaymentMethod); err != nil {
		return p, err
	}

	switch p.PaymentType {
	case models.PaymentTypeCreditCard:
		if isBlank(p.CreditCardID) {
			return p, fmt.Errorf("%w: a credit card payment needs a card", validation.ErrValidationFailed)
		}
	case models.PaymentTypeCounterparty:
		if isBlank(p.CounterpartyID) {
			return p, fmt.Errorf("%w: a counterparty payment needs a counterparty", validation.ErrValidationFailed)
		}
		if p.PaymentMethod == models.PaymentMethodCreditCard && isBlank(p.CreditCardID) {
			return p, fmt.Errorf("%w: paying by credit card needs a card", validation.ErrValidationFailed)
		}
	default:
		return p, fmt.Errorf("%w: unknown payment type '%s'", validation.ErrValidationFailed, p.PaymentType)
	}

	if err := validation.ScanFields(map[string]string{"description": p.Description}, validation.MaxDescriptionLength, contextID); err != nil {
		return p, err
	}
	p.Description = validation.SanitizeText(p.Description)
	return p, nil
}

func validatePaymentMethod(method string) error {
	if method == "" {
		return nil
	}
	for _, m := range models.ManualPaymentMethods {
		if m == method {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown payment method '%s'", validation.ErrValidationFailed, method)
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}
