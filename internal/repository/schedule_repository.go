package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

// ScheduleRepository manages the persisted assignment table. The
// schedule owns its slots: a rebuild replaces the whole date range,
// a reallocation patches individual rows in place.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetRange returns the stored slots covering [start, end] inclusive,
// ordered the way the engine emits them.
func (r *ScheduleRepository) GetRange(ctx context.Context, start, end time.Time) ([]models.ScheduleSlot, error) {
	const query = `SELECT id, slot_date, shift, position, required, assigned_ids, shortage
		FROM schedule_slots
		WHERE slot_date >= $1 AND slot_date <= $2
		ORDER BY slot_date, CASE shift WHEN 'MORNING' THEN 0 WHEN 'EVENING' THEN 1 ELSE 2 END, position`
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, models.Midnight(start), models.Midnight(end)); err != nil {
		return nil, fmt.Errorf("get schedule range: %w", err)
	}
	return slots, nil
}

// ReplaceRange atomically swaps the stored slots for [start, end] with
// the freshly built ones.
func (r *ScheduleRepository) ReplaceRange(ctx context.Context, start, end time.Time, slots []models.ScheduleSlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace range: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_slots WHERE slot_date >= $1 AND slot_date <= $2`, models.Midnight(start), models.Midnight(end)); err != nil {
		return fmt.Errorf("clear schedule range: %w", err)
	}

	const insert = `INSERT INTO schedule_slots (id, slot_date, shift, position, required, assigned_ids, shortage)
		VALUES (:id, :slot_date, :shift, :position, :required, :assigned_ids, :shortage)`
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, insert, slots[i]); err != nil {
			return fmt.Errorf("insert schedule slot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace range: %w", err)
	}
	return nil
}

// UpdateSlots writes back patched assignments and shortage flags for
// the given slots only.
func (r *ScheduleRepository) UpdateSlots(ctx context.Context, slots []models.ScheduleSlot) error {
	if len(slots) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update slots: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const update = `UPDATE schedule_slots SET assigned_ids = :assigned_ids, shortage = :shortage WHERE id = :id`
	for i := range slots {
		if _, err := tx.NamedExecContext(ctx, update, slots[i]); err != nil {
			return fmt.Errorf("update schedule slot %s: %w", slots[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update slots: %w", err)
	}
	return nil
}

// Bounds returns the first and last stored slot dates, or ok=false when
// no schedule has been built yet.
func (r *ScheduleRepository) Bounds(ctx context.Context) (start, end time.Time, ok bool, err error) {
	row := struct {
		Min *time.Time `db:"min"`
		Max *time.Time `db:"max"`
	}{}
	if err = r.db.GetContext(ctx, &row, `SELECT MIN(slot_date) AS min, MAX(slot_date) AS max FROM schedule_slots`); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("schedule bounds: %w", err)
	}
	if row.Min == nil || row.Max == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	return *row.Min, *row.Max, true, nil
}
