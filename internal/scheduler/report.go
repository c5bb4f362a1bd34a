package scheduler

import "github.com/mfirdaus-dev/petrostaff-api/internal/models"

// ShortageReport projects the understaffed slots of a schedule, in slot
// order (date, shift, position). It never mutates the schedule.
func ShortageReport(schedule *models.Schedule) []models.ShortageEntry {
	report := []models.ShortageEntry{}
	for _, slot := range schedule.Slots {
		if !slot.Shortage {
			continue
		}
		report = append(report, models.ShortageEntry{
			Date:     slot.Date,
			Shift:    slot.Shift,
			Position: slot.Position,
			Required: slot.Required,
			Assigned: len(slot.AssignedIDs),
		})
	}
	return report
}
