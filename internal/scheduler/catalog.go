package scheduler

import "github.com/mfirdaus-dev/petrostaff-api/internal/models"

// Catalog is the static shift definition table: time windows plus
// per-position headcount requirements. It is supplied by configuration
// and never mutated by the engine.
type Catalog struct {
	shifts []models.ShiftDefinition
}

// NewCatalog builds a catalog from shift definitions, preserving order.
func NewCatalog(shifts ...models.ShiftDefinition) Catalog {
	defs := make([]models.ShiftDefinition, len(shifts))
	copy(defs, shifts)
	return Catalog{shifts: defs}
}

// DefaultCatalog returns the station's standard three-shift layout.
// The forecourt is day/evening only, so night requires no forecourt staff.
func DefaultCatalog() Catalog {
	return NewCatalog(
		models.ShiftDefinition{
			Type:      models.ShiftMorning,
			StartTime: "07:00",
			EndTime:   "15:00",
			Requirements: map[models.Position]int{
				models.PositionCashier:   2,
				models.PositionForecourt: 2,
			},
		},
		models.ShiftDefinition{
			Type:      models.ShiftEvening,
			StartTime: "15:00",
			EndTime:   "23:00",
			Requirements: map[models.Position]int{
				models.PositionCashier:   2,
				models.PositionForecourt: 2,
			},
		},
		models.ShiftDefinition{
			Type:      models.ShiftNight,
			StartTime: "23:00",
			EndTime:   "07:00",
			Requirements: map[models.Position]int{
				models.PositionCashier:   2,
				models.PositionForecourt: 0,
			},
		},
	)
}

// Shifts returns the shift definitions in daily order.
func (c Catalog) Shifts() []models.ShiftDefinition {
	return c.shifts
}

// SlotsPerDay counts (shift, position) combinations with a non-zero
// requirement.
func (c Catalog) SlotsPerDay() int {
	total := 0
	for _, shift := range c.shifts {
		for _, position := range models.Positions() {
			if shift.Required(position) > 0 {
				total++
			}
		}
	}
	return total
}
