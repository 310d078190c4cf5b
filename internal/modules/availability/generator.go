package availability

import (
	"fmt"
	"time"

	"fieldbook/internal/domain"
)

// Hours describes the fixed business-hours window and slot width the
// generator enumerates.
type Hours struct {
	OpenHour    int
	CloseHour   int
	SlotMinutes int
	HorizonDays int
}

// DayLabels enumerates the slot labels for one day: fixed-width windows
// starting at the opening hour, stepping by the slot duration, stopping
// once the next slot's end would pass closing time. A trailing partial
// slot is dropped, not truncated.
func DayLabels(h Hours) []string {
	open := time.Duration(h.OpenHour) * time.Hour
	close := time.Duration(h.CloseHour) * time.Hour
	step := time.Duration(h.SlotMinutes) * time.Minute

	labels := make([]string, 0)
	for start := open; start+step <= close; start += step {
		labels = append(labels, fmt.Sprintf("%s-%s", formatClock(start), formatClock(start+step)))
	}
	return labels
}

// BuildHorizon produces the slot grid for each of the next HorizonDays
// calendar days starting at from (normalized to UTC midnight). Generation
// is deterministic: the same field and day always yield the same sets.
func BuildHorizon(fieldID int64, from time.Time, h Hours) []domain.DaySlotSet {
	labels := DayLabels(h)
	day := Midnight(from)

	sets := make([]domain.DaySlotSet, 0, h.HorizonDays)
	for i := 0; i < h.HorizonDays; i++ {
		slots := make([]domain.Slot, 0, len(labels))
		for _, l := range labels {
			slots = append(slots, domain.Slot{Time: l, Booked: false})
		}
		sets = append(sets, domain.DaySlotSet{
			FieldID: fieldID,
			Date:    day.AddDate(0, 0, i),
			Slots:   slots,
		})
	}
	return sets
}

// Midnight strips the time-of-day, giving the day-granular key bookings
// and slot sets are stored under.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
