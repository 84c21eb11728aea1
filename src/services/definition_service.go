// backend/src/services/definition_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/processors"
	"github.com/username/finansdefter/backend/src/security/validation"
	"github.com/username/finansdefter/backend/src/utils"
)

// DefinitionInput is the manual-entry form for every definition kind. Fields that do
// not apply to the kind are ignored.
type DefinitionInput struct {
	Code string `json:"code"`
	Name string `json:"name"`

	OwnerName   string   `json:"ownerName"`
	Category    string   `json:"category"`
	Bank        string   `json:"bank"`
	ExpiryMonth int      `json:"expiryMonth"`
	ExpiryYear  int      `json:"expiryYear"`
	ExpiryDate  string   `json:"expiryDate"`
	LimitAmount float64  `json:"limitAmount"`
	CurrentDebt *float64 `json:"currentDebt"`

	IBAN    string  `json:"iban"`
	Balance float64 `json:"balance"`
}

type ListOptions struct {
	Query string
	Sort  string
	Desc  bool
}

type DefinitionService interface {
	List(ctx context.Context, kind models.Kind, opts ListOptions) ([]models.Record, error)
	Get(ctx context.Context, kind models.Kind, id string) (models.Record, error)
	Create(ctx context.Context, kind models.Kind, in DefinitionInput, username string) (models.Record, error)
	Update(ctx context.Context, kind models.Kind, id string, in DefinitionInput, username string) (models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id, username string) error
}

type definitionServiceImpl struct {
	store       DefinitionStore
	activity    ActivityRecorder
	reportCache *cache.Cache
	clock       Clock
}

func NewDefinitionService(store DefinitionStore, activity ActivityRecorder, reportCache *cache.Cache, clock Clock) DefinitionService {
	if clock == nil {
		clock = time.Now
	}
	return &definitionServiceImpl{store: store, activity: activity, reportCache: reportCache, clock: clock}
}

func (s *definitionServiceImpl) List(ctx context.Context, kind models.Kind, opts ListOptions) ([]models.Record, error) {
	records, err := s.store.GetAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", kind, err)
	}
	if kind == models.KindCreditCard {
		if err := s.attachDebts(ctx, records); err != nil {
			return nil, err
		}
	}

	if q := strings.ToLower(strings.TrimSpace(opts.Query)); q != "" {
		filtered := records[:0]
		for _, r := range records {
			if matchesQuery(r, q) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	if opts.Sort != "" {
		sortRecords(records, opts.Sort, opts.Desc)
	}
	return records, nil
}

func (s *definitionServiceImpl) attachDebts(ctx context.Context, records []models.Record) error {
	balances, err := s.store.OpeningBalances(ctx)
	if err != nil {
		return fmt.Errorf("error loading opening balances: %w", err)
	}
	for _, r := range records {
		card := r.(*models.CreditCard)
		debt := balances[card.ID]
		card.CurrentDebt = &debt
	}
	return nil
}

func (s *definitionServiceImpl) Get(ctx context.Context, kind models.Kind, id string) (models.Record, error) {
	record, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if kind == models.KindCreditCard {
		if err := s.attachDebts(ctx, []models.Record{record}); err != nil {
			return nil, err
		}
	}
	return record, nil
}

func (s *definitionServiceImpl) Create(ctx context.Context, kind models.Kind, in DefinitionInput, username string) (models.Record, error) {
	log := logger.FromContext(ctx)

	record, err := buildRecord(kind, in, s.clock(), username)
	if err != nil {
		log.Warn("Definition rejected", "kind", kind, "error", err)
		return nil, err
	}

	id, err := s.store.Insert(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := s.writeDebt(ctx, record, id); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, username, "create_definition", kind, record)
	log.Info("Definition created", "kind", kind, "id", id)
	return s.Get(ctx, kind, id)
}

func (s *definitionServiceImpl) Update(ctx context.Context, kind models.Kind, id string, in DefinitionInput, username string) (models.Record, error) {
	log := logger.FromContext(ctx)

	if _, err := s.store.Get(ctx, kind, id); err != nil {
		return nil, err
	}
	record, err := buildRecord(kind, in, s.clock(), username)
	if err != nil {
		log.Warn("Definition update rejected", "kind", kind, "id", id, "error", err)
		return nil, err
	}
	if err := s.store.Update(ctx, kind, id, record); err != nil {
		return nil, err
	}
	if err := s.writeDebt(ctx, record, id); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, username, "update_definition", kind, record)
	log.Info("Definition updated", "kind", kind, "id", id)
	return s.Get(ctx, kind, id)
}

func (s *definitionServiceImpl) Delete(ctx context.Context, kind models.Kind, id, username string) error {
	record, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, kind, id); err != nil {
		return err
	}
	if kind == models.KindCreditCard {
		s.flushReports()
	}
	s.recordActivity(ctx, username, "delete_definition", kind, record)
	logger.FromContext(ctx).Info("Definition deleted", "kind", kind, "id", id)
	return nil
}

// writeDebt stores the card's opening balance when the form supplied one.
func (s *definitionServiceImpl) writeDebt(ctx context.Context, record models.Record, id string) error {
	card, ok := record.(*models.CreditCard)
	if !ok || card.CurrentDebt == nil {
		return nil
	}
	entry := models.NewLedgerEntry(id, *card.CurrentDebt, s.clock())
	if err := s.store.UpsertLedgerEntry(ctx, models.LedgerKey(id), entry); err != nil {
		return fmt.Errorf("error saving opening balance for card %s: %w", id, err)
	}
	s.flushReports()
	return nil
}

func (s *definitionServiceImpl) flushReports() {
	if s.reportCache != nil {
		s.reportCache.Flush()
	}
}

func (s *definitionServiceImpl) recordActivity(ctx context.Context, username, action string, kind models.Kind, record models.Record) {
	if s.activity == nil {
		return
	}
	details := fmt.Sprintf("%s: %s", kind, models.DisplayName(record))
	if err := s.activity.AddActivity(ctx, username, action, details); err != nil {
		logger.FromContext(ctx).Warn("Failed to record activity", "action", action, "error", err)
	}
}

// buildRecord validates the form and returns the normalized record, without an ID.
// Amounts are kept to kuruş precision.
func buildRecord(kind models.Kind, in DefinitionInput, now time.Time, contextID string) (models.Record, error) {
	in.LimitAmount = utils.RoundFloat(in.LimitAmount, 2)
	in.Balance = utils.RoundFloat(in.Balance, 2)
	if in.CurrentDebt != nil {
		debt := utils.RoundFloat(*in.CurrentDebt, 2)
		in.CurrentDebt = &debt
	}
	fields := map[string]string{
		"code":      in.Code,
		"name":      in.Name,
		"ownerName": in.OwnerName,
		"bank":      in.Bank,
	}
	if err := validation.ScanFields(fields, validation.MaxNameLength, contextID); err != nil {
		return nil, err
	}

	switch kind {
	case models.KindCreditCard:
		return buildCreditCard(in, now)
	case models.KindBankAccount:
		code, name := validation.SanitizeText(in.Code), validation.SanitizeText(in.Name)
		if err := requireCodeOrName(code, name); err != nil {
			return nil, err
		}
		if err := validation.ValidateIBAN(in.IBAN); err != nil {
			return nil, err
		}
		if err := validation.ValidateAmount(in.Balance, "Balance", true); err != nil {
			return nil, err
		}
		return &models.BankAccount{Code: code, Name: name, IBAN: processors.FormatIBAN(in.IBAN), Balance: in.Balance}, nil
	case models.KindCategory, models.KindCounterparty:
		code, name := validation.SanitizeText(in.Code), validation.SanitizeText(in.Name)
		if err := requireCodeOrName(code, name); err != nil {
			return nil, err
		}
		if kind == models.KindCategory {
			return &models.Category{Code: code, Name: name}, nil
		}
		return &models.Counterparty{Code: code, Name: name}, nil
	}
	return nil, fmt.Errorf("%w: unsupported kind '%s'", ErrInvalidInput, kind)
}

func buildCreditCard(in DefinitionInput, now time.Time) (models.Record, error) {
	if err := validation.ValidateCardNumber(in.Code); err != nil {
		return nil, err
	}
	expiry := strings.TrimSpace(in.ExpiryDate)
	if in.ExpiryMonth != 0 || in.ExpiryYear != 0 {
		expiry = processors.FormatExpiry(in.ExpiryMonth, in.ExpiryYear)
		if expiry == "" {
			return nil, fmt.Errorf("%w: expiry month must be between 1 and 12", validation.ErrValidationFailed)
		}
	}
	if err := validation.ValidateExpiry(expiry); err != nil {
		return nil, err
	}
	if err := validation.ValidateAmount(in.LimitAmount, "Limit", false); err != nil {
		return nil, err
	}
	if in.CurrentDebt != nil {
		if err := validation.ValidateAmount(*in.CurrentDebt, "Current debt", true); err != nil {
			return nil, err
		}
	}

	code := processors.FormatCardNumber(in.Code)
	return &models.CreditCard{
		Code:        code,
		OwnerName:   validation.SanitizeText(in.OwnerName),
		Category:    processors.NormalizeCardCategory(in.Category),
		Bank:        validation.SanitizeText(in.Bank),
		CardNetwork: processors.DetectCardNetwork(code),
		ExpiryDate:  expiry,
		LimitAmount: in.LimitAmount,
		CurrentDebt: in.CurrentDebt,
		IsActive:    true,
		CreatedAt:   now.UTC(),
	}, nil
}

func requireCodeOrName(code, name string) error {
	if code == "" && name == "" {
		return fmt.Errorf("%w: code or name is required", validation.ErrValidationFailed)
	}
	if err := validation.ValidateStringMaxLength(code, validation.MaxCodeLength, "Code"); err != nil {
		return err
	}
	return nil
}

func matchesQuery(r models.Record, q string) bool {
	var haystack []string
	switch v := r.(type) {
	case *models.CreditCard:
		haystack = []string{v.Code, v.OwnerName, v.Bank}
	case *models.BankAccount:
		haystack = []string{v.Code, v.Name, v.IBAN}
	case *models.Category:
		haystack = []string{v.Code, v.Name}
	case *models.Counterparty:
		haystack = []string{v.Code, v.Name}
	}
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), q) {
			return true
		}
	}
	return false
}

// sortValue returns the value a list is ordered by. Unknown fields sort by code.
func sortValue(r models.Record, field string) (string, float64) {
	switch v := r.(type) {
	case *models.CreditCard:
		switch field {
		case "ownerName":
			return v.OwnerName, 0
		case "bank":
			return v.Bank, 0
		case "category":
			return v.Category, 0
		case "expiryDate":
			if t, ok := processors.ExpiryMonth(v.ExpiryDate); ok {
				return t.Format(models.DateLayout), 0
			}
			return "", 0
		case "limitAmount":
			return "", v.LimitAmount
		case "currentDebt":
			if v.CurrentDebt != nil {
				return "", *v.CurrentDebt
			}
			return "", 0
		case "createdAt":
			return v.CreatedAt.Format(time.RFC3339Nano), 0
		}
	case *models.BankAccount:
		switch field {
		case "name":
			return v.Name, 0
		case "balance":
			return "", v.Balance
		}
	case *models.Category:
		if field == "name" {
			return v.Name, 0
		}
	case *models.Counterparty:
		if field == "name" {
			return v.Name, 0
		}
	}
	return r.Identity(), 0
}

func sortRecords(records []models.Record, field string, desc bool) {
	sort.SliceStable(records, func(i, j int) bool {
		si, fi := sortValue(records[i], field)
		sj, fj := sortValue(records[j], field)
		if li, lj := strings.ToLower(si), strings.ToLower(sj); li != lj {
			if desc {
				return li > lj
			}
			return li < lj
		}
		if fi != fj {
			if desc {
				return fi > fj
			}
			return fi < fj
		}
		return false
	})
}
