package scheduler

import (
	"sort"
	"time"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
)

// Roster is an immutable snapshot of active employees grouped by
// position, consulted together with the leave ledger to answer
// eligibility queries.
type Roster struct {
	byPosition map[models.Position][]string
	positions  map[string]models.Position
	ledger     *LeaveLedger
}

// NewRoster builds a roster snapshot. Inactive employees are excluded
// up front; availability per date is derived from the ledger.
func NewRoster(employees []models.Employee, ledger *LeaveLedger) *Roster {
	roster := &Roster{
		byPosition: make(map[models.Position][]string),
		positions:  make(map[string]models.Position),
		ledger:     ledger,
	}
	for _, position := range models.Positions() {
		roster.byPosition[position] = []string{}
	}
	for _, emp := range employees {
		if !emp.Active || !emp.Position.Valid() {
			continue
		}
		roster.byPosition[emp.Position] = append(roster.byPosition[emp.Position], emp.ID)
		roster.positions[emp.ID] = emp.Position
	}
	for position := range roster.byPosition {
		sort.Strings(roster.byPosition[position])
	}
	return roster
}

// ListEligible returns the identifiers of employees holding the
// position who are not on approved leave for the date, ordered by
// identifier so repeated calls are deterministic.
func (r *Roster) ListEligible(position models.Position, date time.Time) ([]string, error) {
	ids, ok := r.byPosition[position]
	if !ok {
		return nil, ErrPositionNotFound
	}
	eligible := make([]string, 0, len(ids))
	for _, id := range ids {
		if r.ledger.OnLeave(id, date) {
			continue
		}
		eligible = append(eligible, id)
	}
	return eligible, nil
}

// Knows reports whether the employee is part of the roster snapshot.
func (r *Roster) Knows(employeeID string) bool {
	_, ok := r.positions[employeeID]
	return ok
}

// Headcount returns the total number of rostered employees for a
// position, regardless of leave state.
func (r *Roster) Headcount(position models.Position) int {
	return len(r.byPosition[position])
}
