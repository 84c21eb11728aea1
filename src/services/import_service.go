// backend/src/services/import_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/parsers"
	"github.com/username/finansdefter/backend/src/processors"
)

const planCacheKey = "import_plan_%s"

// ImportPlan is an import halted on conflicts, waiting for the user's overwrite decision.
// The snapshot is the one taken when the file was read; it is not refreshed.
type ImportPlan struct {
	ID        string
	Kind      models.Kind
	Username  string
	Pending   []models.PendingItem
	Skipped   []models.RowOutcome
	Snapshot  processors.Snapshot
	Conflicts []models.Conflict
	CreatedAt time.Time
}

// ImportPreview is what a first import call returns: either a finished result, or a
// plan ID with the conflicts the user must decide on.
type ImportPreview struct {
	PlanID    string               `json:"planId,omitempty"`
	Conflicts []models.Conflict    `json:"conflicts,omitempty"`
	Result    *models.ImportResult `json:"result,omitempty"`
}

type ImportService interface {
	ImportFile(ctx context.Context, kind models.Kind, file io.Reader, format, username string) (*ImportPreview, error)
	Prepare(ctx context.Context, kind models.Kind, rows []models.ImportRow, username string) (*ImportPreview, error)
	Resolve(ctx context.Context, planID string, overwrite bool, username string) (*models.ImportResult, error)
	Discard(planID, username string) bool
}

type importServiceImpl struct {
	store       RecordStore
	activity    ActivityRecorder
	mapper      *processors.RowMapper
	plans       *cache.Cache
	plansMu     sync.Mutex // guards the lookup-and-remove of a plan
	reportCache *cache.Cache
	planTTL     time.Duration
	clock       Clock
}

func NewImportService(store RecordStore, activity ActivityRecorder, reportCache *cache.Cache, planTTL time.Duration, clock Clock) ImportService {
	if clock == nil {
		clock = time.Now
	}
	return &importServiceImpl{
		store:       store,
		activity:    activity,
		mapper:      processors.NewRowMapper(clock),
		plans:       cache.New(planTTL, 2*planTTL),
		reportCache: reportCache,
		planTTL:     planTTL,
		clock:       clock,
	}
}

func (s *importServiceImpl) ImportFile(ctx context.Context, kind models.Kind, file io.Reader, format, username string) (*ImportPreview, error) {
	parser, err := parsers.GetParser(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	rows, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	return s.Prepare(ctx, kind, rows, username)
}

// Prepare maps the rows, takes the snapshot and checks for collisions. Without
// conflicts the import runs straight away with overwrite off.
func (s *importServiceImpl) Prepare(ctx context.Context, kind models.Kind, rows []models.ImportRow, username string) (*ImportPreview, error) {
	log := logger.FromContext(ctx)

	pending, skipped := s.mapper.MapAll(kind, rows)

	existing, err := s.store.GetAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("error loading %s snapshot: %w", kind, err)
	}
	snapshot := processors.NewSnapshot(existing)

	conflicts, clean := processors.DetectCollisions(kind, pending, snapshot)
	log.Info("Import prepared", "kind", kind, "rows", len(rows), "pending", len(pending),
		"skipped", len(skipped), "conflicts", len(conflicts), "clean", clean)

	if len(conflicts) == 0 {
		result := s.execute(ctx, kind, pending, skipped, snapshot, false, username)
		return &ImportPreview{Result: &result}, nil
	}

	plan := &ImportPlan{
		ID:        uuid.New().String(),
		Kind:      kind,
		Username:  username,
		Pending:   pending,
		Skipped:   skipped,
		Snapshot:  snapshot,
		Conflicts: conflicts,
		CreatedAt: s.clock(),
	}
	s.plans.Set(fmt.Sprintf(planCacheKey, plan.ID), plan, s.planTTL)
	return &ImportPreview{PlanID: plan.ID, Conflicts: conflicts}, nil
}

// Resolve runs a halted plan with the user's decision. A plan runs at most once.
func (s *importServiceImpl) Resolve(ctx context.Context, planID string, overwrite bool, username string) (*models.ImportResult, error) {
	plan, ok := s.takePlan(planID, username)
	if !ok {
		return nil, ErrPlanNotFound
	}
	result := s.execute(ctx, plan.Kind, plan.Pending, plan.Skipped, plan.Snapshot, overwrite, username)
	return &result, nil
}

func (s *importServiceImpl) Discard(planID, username string) bool {
	_, ok := s.takePlan(planID, username)
	return ok
}

// takePlan removes and returns the user's plan. Only one caller can take a given plan.
func (s *importServiceImpl) takePlan(planID, username string) (*ImportPlan, bool) {
	key := fmt.Sprintf(planCacheKey, planID)

	s.plansMu.Lock()
	defer s.plansMu.Unlock()

	cached, found := s.plans.Get(key)
	if !found {
		return nil, false
	}
	plan := cached.(*ImportPlan)
	if plan.Username != username {
		return nil, false
	}
	s.plans.Delete(key)
	return plan, true
}

func (s *importServiceImpl) execute(ctx context.Context, kind models.Kind, pending []models.PendingItem, skipped []models.RowOutcome, snapshot processors.Snapshot, overwrite bool, username string) models.ImportResult {
	result := ExecuteImport(ctx, s.store, kind, pending, snapshot, overwrite, s.clock())

	result.Outcomes = append(result.Outcomes, skipped...)
	result.SkippedCount += len(skipped)
	sort.SliceStable(result.Outcomes, func(i, j int) bool { return result.Outcomes[i].Row < result.Outcomes[j].Row })

	if kind == models.KindCreditCard && result.SuccessCount > 0 && s.reportCache != nil {
		s.reportCache.Flush()
	}
	if s.activity != nil {
		details := fmt.Sprintf("%s: %d imported, %d failed, %d skipped", kind, result.SuccessCount, result.ErrorCount, result.SkippedCount)
		if err := s.activity.AddActivity(ctx, username, "import", details); err != nil {
			logger.FromContext(ctx).Warn("Failed to record import activity", "error", err)
		}
	}
	return result
}

// ExecuteImport persists pending items one at a time against the snapshot taken
// before the run. A failing item is counted and the run continues; items already
// written stay written. Conflicting items are updated only when overwrite is set,
// otherwise they are skipped without counting. Every persisted credit card carrying
// a current debt gets its opening-balance entry upserted, dated today.
func ExecuteImport(ctx context.Context, store RecordStore, kind models.Kind, pending []models.PendingItem, snapshot processors.Snapshot, overwrite bool, today time.Time) models.ImportResult {
	log := logger.FromContext(ctx)
	result := models.ImportResult{Kind: kind}

	for _, item := range pending {
		outcome := models.RowOutcome{Row: item.Row, Identity: item.Identifier}

		existing, found := snapshot.Lookup(item.Identifier)
		if found && !overwrite {
			log.Debug("Import item skipped, existing record kept", "kind", kind, "row", item.Row, "identity", item.Identifier)
			outcome.Status = models.OutcomeSkipped
			outcome.Reason = models.SkipConflictNotOverwritten
			result.SkippedCount++
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		id, status, err := persistItem(ctx, store, kind, item, existing, found)
		if err == nil {
			err = upsertLedgerFor(ctx, store, item.Record, id, today)
		}
		if err != nil {
			log.Warn("Import item failed", "kind", kind, "row", item.Row, "identity", item.Identifier, "error", err)
			outcome.Status = models.OutcomeFailed
			outcome.Reason = err.Error()
			result.ErrorCount++
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		outcome.Status = status
		result.SuccessCount++
		result.Outcomes = append(result.Outcomes, outcome)
	}

	log.Info("Import executed", "kind", kind, "overwrite", overwrite,
		"success", result.SuccessCount, "errors", result.ErrorCount, "skipped", result.SkippedCount)
	return result
}

func persistItem(ctx context.Context, store RecordStore, kind models.Kind, item models.PendingItem, existing models.Record, found bool) (string, string, error) {
	if item.Record == nil {
		return "", "", fmt.Errorf("%w: row %d has no record", ErrInvalidInput, item.Row)
	}
	if found {
		id := existing.RecordID()
		if err := store.Update(ctx, kind, id, item.Record); err != nil {
			return "", "", err
		}
		return id, models.OutcomeUpdated, nil
	}
	id, err := store.Insert(ctx, item.Record)
	if err != nil {
		return "", "", err
	}
	return id, models.OutcomeImported, nil
}

func upsertLedgerFor(ctx context.Context, store RecordStore, record models.Record, cardID string, today time.Time) error {
	card, ok := record.(*models.CreditCard)
	if !ok || card.CurrentDebt == nil {
		return nil
	}
	return store.UpsertLedgerEntry(ctx, models.LedgerKey(cardID), models.NewLedgerEntry(cardID, *card.CurrentDebt, today))
}
