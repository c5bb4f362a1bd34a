package models

// ShiftType identifies one of the three daily shifts.
type ShiftType string

const (
	ShiftMorning ShiftType = "MORNING"
	ShiftEvening ShiftType = "EVENING"
	ShiftNight   ShiftType = "NIGHT"
)

// ShiftTypes lists shifts in their daily order.
func ShiftTypes() []ShiftType {
	return []ShiftType{ShiftMorning, ShiftEvening, ShiftNight}
}

// ShiftDefinition describes a shift's time window and per-position
// headcount requirements. Requirements are operator-editable
// configuration, never computed by the engine.
type ShiftDefinition struct {
	Type         ShiftType        `json:"type"`
	StartTime    string           `json:"start_time"`
	EndTime      string           `json:"end_time"`
	Requirements map[Position]int `json:"requirements"`
}

// Required returns the headcount requirement for a position, zero when
// the position is not staffed on this shift.
func (d ShiftDefinition) Required(p Position) int {
	return d.Requirements[p]
}
