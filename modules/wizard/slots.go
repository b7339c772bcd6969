package wizard

import (
	"sort"
	"time"
)

// TimeSlot is a candidate 30-minute meeting time within business hours.
type TimeSlot struct {
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
	Label       string `json:"label"`
	IsAvailable bool   `json:"is_available"`
}

// BusyInterval is an occupied [Start, End) range reported by the
// availability endpoint.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// generateSlots builds the full candidate list for one day: business open to
// close in 30-minute steps, tentatively available until busy intervals are
// applied. 10:00-19:00 yields 18 slots, 10:00 AM through 6:30 PM.
func generateSlots(startHour, endHour, stepMinutes int) []TimeSlot {
	var slots []TimeSlot
	for hour := startHour; hour < endHour; hour++ {
		for minute := 0; minute < 60; minute += stepMinutes {
			slots = append(slots, TimeSlot{
				Hour:        hour,
				Minute:      minute,
				Label:       slotLabel(hour, minute),
				IsAvailable: true,
			})
		}
	}
	return slots
}

func slotLabel(hour, minute int) string {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("3:04 PM")
}

// slotStart anchors a slot on a calendar day in the given location.
func slotStart(day time.Time, slot TimeSlot, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, loc)
}

// applyBusyIntervals marks each slot unavailable when its [start, start+d)
// interval intersects any busy interval. Half-open on both sides: a slot
// ending exactly where a busy interval begins stays available.
func applyBusyIntervals(slots []TimeSlot, day time.Time, busy []BusyInterval, stepMinutes int, loc *time.Location) {
	merged := mergeIntervals(busy)
	d := time.Duration(stepMinutes) * time.Minute

	for i := range slots {
		start := slotStart(day, slots[i], loc)
		end := start.Add(d)
		for _, b := range merged {
			if start.Before(b.End) && end.After(b.Start) {
				slots[i].IsAvailable = false
				break
			}
		}
	}
}

// markAllUnavailable is the failure posture: no slot is offered until a
// successful availability fetch.
func markAllUnavailable(slots []TimeSlot) {
	for i := range slots {
		slots[i].IsAvailable = false
	}
}

// mergeIntervals sorts and merges overlapping or adjacent busy intervals.
func mergeIntervals(intervals []BusyInterval) []BusyInterval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]BusyInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []BusyInterval{sorted[0]}
	for _, curr := range sorted[1:] {
		last := &merged[len(merged)-1]
		if curr.Start.Before(last.End) || curr.Start.Equal(last.End) {
			if curr.End.After(last.End) {
				last.End = curr.End
			}
		} else {
			merged = append(merged, curr)
		}
	}
	return merged
}
