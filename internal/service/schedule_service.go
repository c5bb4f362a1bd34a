package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
	"github.com/mfirdaus-dev/petrostaff-api/internal/scheduler"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/config"
	appErrors "github.com/mfirdaus-dev/petrostaff-api/pkg/errors"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/export"
)

const (
	scheduleCacheKey     = "schedule:current"
	shortageCacheKey     = "schedule:shortage"
	scheduleCachePattern = "schedule:*"
)

type rosterSource interface {
	ListActive(ctx context.Context) ([]models.Employee, error)
}

type leaveSource interface {
	ListApproved(ctx context.Context) ([]models.LeaveRequest, error)
}

type scheduleStore interface {
	GetRange(ctx context.Context, start, end time.Time) ([]models.ScheduleSlot, error)
	ReplaceRange(ctx context.Context, start, end time.Time, slots []models.ScheduleSlot) error
	UpdateSlots(ctx context.Context, slots []models.ScheduleSlot) error
	Bounds(ctx context.Context) (time.Time, time.Time, bool, error)
}

// BuildScheduleRequest is the payload for generating a new schedule.
type BuildScheduleRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	Days      int    `json:"days"`
}

// ScheduleService owns the assignment table. Builds and leave-driven
// reallocations are serialized through a single mutex so concurrent
// requests never interleave engine passes over the same stored slots.
type ScheduleService struct {
	mu sync.Mutex

	employees rosterSource
	leaves    leaveSource
	store     scheduleStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	catalog      scheduler.Catalog
	maxRangeDays int
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(employees rosterSource, leaves leaveSource, store scheduleStore, cache *CacheService, metrics *MetricsService, catalog scheduler.Catalog, maxRangeDays int, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRangeDays <= 0 {
		maxRangeDays = 62
	}
	return &ScheduleService{
		employees:    employees,
		leaves:       leaves,
		store:        store,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		catalog:      catalog,
		maxRangeDays: maxRangeDays,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
	}
}

// CatalogFromConfig turns operator headcount settings into the engine's
// shift catalog, keeping the standard station time windows.
func CatalogFromConfig(cfg config.ShiftConfig) scheduler.Catalog {
	return scheduler.NewCatalog(
		models.ShiftDefinition{
			Type:      models.ShiftMorning,
			StartTime: "07:00",
			EndTime:   "15:00",
			Requirements: map[models.Position]int{
				models.PositionCashier:   cfg.MorningCashiers,
				models.PositionForecourt: cfg.MorningForecourt,
			},
		},
		models.ShiftDefinition{
			Type:      models.ShiftEvening,
			StartTime: "15:00",
			EndTime:   "23:00",
			Requirements: map[models.Position]int{
				models.PositionCashier:   cfg.EveningCashiers,
				models.PositionForecourt: cfg.EveningForecourt,
			},
		},
		models.ShiftDefinition{
			Type:      models.ShiftNight,
			StartTime: "23:00",
			EndTime:   "07:00",
			Requirements: map[models.Position]int{
				models.PositionCashier:   cfg.NightCashiers,
				models.PositionForecourt: cfg.NightForecourt,
			},
		},
	)
}

// Build generates and persists a fresh schedule for the requested range,
// replacing whatever was stored for those dates.
func (s *ScheduleService) Build(ctx context.Context, req BuildScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	start, err := time.Parse(models.DateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidDate, "start_date must be formatted as YYYY-MM-DD")
	}
	if req.Days <= 0 || req.Days > s.maxRangeDays {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, fmt.Sprintf("days must be between 1 and %d", s.maxRangeDays))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	began := time.Now()
	roster, err := s.snapshotRoster(ctx)
	if err != nil {
		return nil, err
	}

	allocator := scheduler.NewAllocator(roster, s.catalog)
	schedule, err := allocator.BuildSchedule(start, req.Days)
	if err != nil {
		return nil, mapEngineError(err)
	}

	if err := s.store.ReplaceRange(ctx, schedule.StartDate, schedule.EndDate(), schedule.Slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
	}

	shortages := 0
	for _, slot := range schedule.Slots {
		if slot.Shortage {
			shortages++
		}
	}
	s.metrics.ObserveScheduleBuild(time.Since(began), shortages)

	s.invalidateCache(ctx)
	_ = s.cache.Set(ctx, scheduleCacheKey, schedule, 0)

	s.logger.Info("schedule built",
		zap.String("start_date", schedule.StartDate.Format(models.DateLayout)),
		zap.Int("days", schedule.Days),
		zap.Int("slots", len(schedule.Slots)),
		zap.Int("shortages", shortages))

	return schedule, nil
}

// Current returns the stored schedule, served from cache when possible.
func (s *ScheduleService) Current(ctx context.Context) (*models.Schedule, error) {
	cached := &models.Schedule{}
	if hit, _ := s.cache.Get(ctx, scheduleCacheKey, cached); hit {
		return cached, nil
	}

	schedule, err := s.loadStored(ctx)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, scheduleCacheKey, schedule, 0)
	return schedule, nil
}

// ApplyLeaveApproval reruns allocation for the slots the approved leave
// invalidates and persists only the patched slots. The returned deltas
// list slots whose shortage status changed.
func (s *ScheduleService) ApplyLeaveApproval(ctx context.Context, leave models.LeaveRequest) ([]models.ShortageDelta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule, err := s.loadStored(ctx)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrNotFound.Code {
			// Nothing scheduled yet, so the approval needs no patching.
			return nil, nil
		}
		return nil, err
	}

	affected := make([]int, 0, 8)
	for i := range schedule.Slots {
		if leave.Covers(schedule.Slots[i].Date) && schedule.Slots[i].Contains(leave.EmployeeID) {
			affected = append(affected, i)
		}
	}
	if len(affected) == 0 {
		return nil, nil
	}

	roster, err := s.snapshotRoster(ctx)
	if err != nil {
		return nil, err
	}

	reallocator := scheduler.NewReallocator(roster)
	deltas, err := reallocator.OnLeaveApproved(leave, schedule)
	if err != nil {
		return nil, mapEngineError(err)
	}

	patched := make([]models.ScheduleSlot, 0, len(affected))
	for _, i := range affected {
		patched = append(patched, schedule.Slots[i])
	}
	if err := s.store.UpdateSlots(ctx, patched); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist reallocated slots")
	}

	shortages := 0
	for _, slot := range schedule.Slots {
		if slot.Shortage {
			shortages++
		}
	}
	s.metrics.SetShortageSlots(shortages)
	s.invalidateCache(ctx)

	s.logger.Info("schedule reallocated after leave approval",
		zap.String("leave_id", leave.ID),
		zap.String("employee_id", leave.EmployeeID),
		zap.Int("patched_slots", len(patched)),
		zap.Int("shortage_changes", len(deltas)))

	return deltas, nil
}

// ShortageReport projects the understaffed slots of the stored schedule.
func (s *ScheduleService) ShortageReport(ctx context.Context) ([]models.ShortageEntry, error) {
	cached := []models.ShortageEntry{}
	if hit, _ := s.cache.Get(ctx, shortageCacheKey, &cached); hit {
		return cached, nil
	}

	schedule, err := s.loadStored(ctx)
	if err != nil {
		return nil, err
	}

	report := scheduler.ShortageReport(schedule)
	_ = s.cache.Set(ctx, shortageCacheKey, report, 0)
	return report, nil
}

// ExportCSV renders the stored schedule as a CSV document.
func (s *ScheduleService) ExportCSV(ctx context.Context) ([]byte, string, error) {
	schedule, err := s.loadStored(ctx)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(scheduleDataset(schedule))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	filename := fmt.Sprintf("schedule_%s.csv", schedule.StartDate.Format(models.DateLayout))
	return payload, filename, nil
}

// ExportPDF renders the stored schedule as a PDF document.
func (s *ScheduleService) ExportPDF(ctx context.Context) ([]byte, string, error) {
	schedule, err := s.loadStored(ctx)
	if err != nil {
		return nil, "", err
	}
	title := fmt.Sprintf("Staff schedule %s to %s", schedule.StartDate.Format(models.DateLayout), schedule.EndDate().Format(models.DateLayout))
	payload, err := s.pdf.Render(scheduleDataset(schedule), title)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	filename := fmt.Sprintf("schedule_%s.pdf", schedule.StartDate.Format(models.DateLayout))
	return payload, filename, nil
}

// ExportShortageCSV renders the shortage report as a CSV document.
func (s *ScheduleService) ExportShortageCSV(ctx context.Context) ([]byte, string, error) {
	report, err := s.ShortageReport(ctx)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(shortageDataset(report))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, "shortage_report.csv", nil
}

// ExportShortagePDF renders the shortage report as a PDF document.
func (s *ScheduleService) ExportShortagePDF(ctx context.Context) ([]byte, string, error) {
	report, err := s.ShortageReport(ctx)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(shortageDataset(report), "Staffing shortage report")
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, "shortage_report.pdf", nil
}

func (s *ScheduleService) snapshotRoster(ctx context.Context) (*scheduler.Roster, error) {
	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	approved, err := s.leaves.ListApproved(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave ledger")
	}
	return scheduler.NewRoster(employees, scheduler.NewLeaveLedger(approved)), nil
}

func (s *ScheduleService) loadStored(ctx context.Context) (*models.Schedule, error) {
	start, end, ok, err := s.store.Bounds(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect stored schedule")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no schedule has been generated yet")
	}

	slots, err := s.store.GetRange(ctx, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stored schedule")
	}

	startDay := models.Midnight(start)
	days := int(models.Midnight(end).Sub(startDay).Hours()/24) + 1
	schedule := &models.Schedule{StartDate: startDay, Days: days, Slots: slots}
	schedule.Summary = summarizeStored(schedule)
	return schedule, nil
}

func (s *ScheduleService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, scheduleCachePattern); err != nil {
		s.logger.Warn("schedule cache invalidation failed", zap.Error(err))
	}
}

// summarizeStored rebuilds the summary roll-up from persisted slots.
func summarizeStored(schedule *models.Schedule) models.ScheduleSummary {
	distribution := make(map[string]int)
	staff := make(map[models.Position]map[string]struct{})
	for _, position := range models.Positions() {
		staff[position] = make(map[string]struct{})
	}
	for _, slot := range schedule.Slots {
		for _, id := range slot.AssignedIDs {
			distribution[id]++
			if _, ok := staff[slot.Position]; ok {
				staff[slot.Position][id] = struct{}{}
			}
		}
	}
	return models.ScheduleSummary{
		TotalDays:         schedule.Days,
		StartDate:         schedule.StartDate,
		EndDate:           schedule.EndDate(),
		TotalCashiers:     len(staff[models.PositionCashier]),
		TotalForecourt:    len(staff[models.PositionForecourt]),
		ShiftDistribution: distribution,
	}
}

func scheduleDataset(schedule *models.Schedule) export.Dataset {
	headers := []string{"Date", "Shift", "Position", "Required", "Assigned", "Shortage"}
	rows := make([]map[string]string, 0, len(schedule.Slots))
	for _, slot := range schedule.Slots {
		rows = append(rows, map[string]string{
			"Date":     slot.Date.Format(models.DateLayout),
			"Shift":    string(slot.Shift),
			"Position": string(slot.Position),
			"Required": strconv.Itoa(slot.Required),
			"Assigned": strings.Join(slot.AssignedIDs, " "),
			"Shortage": strconv.FormatBool(slot.Shortage),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func shortageDataset(report []models.ShortageEntry) export.Dataset {
	headers := []string{"Date", "Shift", "Position", "Required", "Assigned", "Missing"}
	rows := make([]map[string]string, 0, len(report))
	for _, entry := range report {
		rows = append(rows, map[string]string{
			"Date":     entry.Date.Format(models.DateLayout),
			"Shift":    string(entry.Shift),
			"Position": string(entry.Position),
			"Required": strconv.Itoa(entry.Required),
			"Assigned": strconv.Itoa(entry.Assigned),
			"Missing":  strconv.Itoa(entry.Required - entry.Assigned),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// mapEngineError translates engine sentinels into API errors.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrInvalidRange):
		return appErrors.Clone(appErrors.ErrInvalidRange, "schedule range is invalid")
	case errors.Is(err, scheduler.ErrInvalidDate):
		return appErrors.Clone(appErrors.ErrInvalidDate, "schedule date is invalid")
	case errors.Is(err, scheduler.ErrPositionNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "position not found")
	case errors.Is(err, scheduler.ErrEmployeeNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "employee not part of the roster")
	case errors.Is(err, scheduler.ErrLeaveNotApproved):
		return appErrors.Clone(appErrors.ErrConflict, "leave request is not approved")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule engine failure")
	}
}
