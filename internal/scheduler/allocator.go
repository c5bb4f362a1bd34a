package scheduler

import (
	"sort"
	"time"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

// Allocator assigns eligible employees to required slots over a date
// range. It carries explicit fairness state, a rotation cursor per
// position plus per-employee shift counts, so identical snapshots
// always produce identical schedules.
type Allocator struct {
	roster  *Roster
	catalog Catalog
	cursors map[models.Position]int
	counts  map[string]int
}

// NewAllocator constructs an allocator over a roster snapshot and a
// shift catalog. Fairness state starts at zero and persists across the
// whole schedule run, not per day.
func NewAllocator(roster *Roster, catalog Catalog) *Allocator {
	return &Allocator{
		roster:  roster,
		catalog: catalog,
		cursors: make(map[models.Position]int),
		counts:  make(map[string]int),
	}
}

// BuildSchedule derives the full assignment table for
// [start, start+numDays). Understaffed slots are filled as far as
// possible and flagged, never treated as fatal.
func (a *Allocator) BuildSchedule(start time.Time, numDays int) (*models.Schedule, error) {
	if numDays <= 0 {
		return nil, ErrInvalidRange
	}
	if start.IsZero() {
		return nil, ErrInvalidDate
	}

	startDay := models.Midnight(start)
	schedule := &models.Schedule{
		StartDate: startDay,
		Days:      numDays,
		Slots:     make([]models.ScheduleSlot, 0, numDays*a.catalog.SlotsPerDay()),
	}

	for day := 0; day < numDays; day++ {
		date := startDay.AddDate(0, 0, day)
		assignedToday := make(map[string]struct{})

		for _, shift := range a.catalog.Shifts() {
			for _, position := range models.Positions() {
				required := shift.Required(position)
				if required == 0 {
					continue
				}

				eligible, err := a.roster.ListEligible(position, date)
				if err != nil {
					return nil, err
				}

				candidates := rotate(eligible, a.cursors[position])
				free := candidates[:0:0]
				for _, id := range candidates {
					if _, busy := assignedToday[id]; busy {
						continue
					}
					free = append(free, id)
				}

				picked := pickFair(free, required, a.counts)
				a.cursors[position] += len(picked)
				for _, id := range picked {
					a.counts[id]++
					assignedToday[id] = struct{}{}
				}

				schedule.Slots = append(schedule.Slots, models.ScheduleSlot{
					Date:        date,
					Shift:       shift.Type,
					Position:    position,
					Required:    required,
					AssignedIDs: append([]string(nil), picked...),
					Shortage:    len(picked) < required,
				})
			}
		}
	}

	schedule.Summary = a.summarize(schedule)
	return schedule, nil
}

func (a *Allocator) summarize(schedule *models.Schedule) models.ScheduleSummary {
	distribution := make(map[string]int, len(a.counts))
	for id, count := range a.counts {
		distribution[id] = count
	}
	return models.ScheduleSummary{
		TotalDays:         schedule.Days,
		StartDate:         schedule.StartDate,
		EndDate:           schedule.EndDate(),
		TotalCashiers:     a.roster.Headcount(models.PositionCashier),
		TotalForecourt:    a.roster.Headcount(models.PositionForecourt),
		ShiftDistribution: distribution,
	}
}

// pickFair selects up to n candidates. When more candidates than slots
// exist, employees with fewer shifts so far win, ties broken by
// identifier ascending. The incoming candidate order (cursor rotation)
// is otherwise preserved.
func pickFair(candidates []string, n int, counts map[string]int) []string {
	if len(candidates) <= n {
		return candidates
	}
	ranked := append([]string(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] < counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	return ranked[:n]
}

// rotate shifts the slice start to offset modulo its length, so the
// fairness cursor walks the eligible pool round-robin.
func rotate(ids []string, offset int) []string {
	if len(ids) == 0 {
		return ids
	}
	offset %= len(ids)
	if offset == 0 {
		return ids
	}
	rotated := make([]string, 0, len(ids))
	rotated = append(rotated, ids[offset:]...)
	rotated = append(rotated, ids[:offset]...)
	return rotated
}
