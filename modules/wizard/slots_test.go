package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots(t *testing.T) {
	slots := generateSlots(10, 19, 30)

	require.Len(t, slots, 18)
	assert.Equal(t, TimeSlot{Hour: 10, Minute: 0, Label: "10:00 AM", IsAvailable: true}, slots[0])
	assert.Equal(t, TimeSlot{Hour: 10, Minute: 30, Label: "10:30 AM", IsAvailable: true}, slots[1])
	assert.Equal(t, TimeSlot{Hour: 18, Minute: 30, Label: "6:30 PM", IsAvailable: true}, slots[17])
}

func TestApplyBusyIntervalsHalfOpen(t *testing.T) {
	loc := time.FixedZone("UTC-05:00", -5*3600)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	// 15:00Z-15:30Z is 10:00-10:30 local.
	busy := []BusyInterval{
		{
			Start: time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC),
		},
	}

	slots := generateSlots(10, 19, 30)
	applyBusyIntervals(slots, day, busy, 30, loc)

	assert.False(t, slots[0].IsAvailable, "10:00 overlaps the busy interval")
	assert.True(t, slots[1].IsAvailable, "10:30 starts exactly when the busy interval ends")
	for _, s := range slots[2:] {
		assert.True(t, s.IsAvailable, "slot %s should be free", s.Label)
	}
}

func TestApplyBusyIntervalsPartialOverlap(t *testing.T) {
	loc := time.UTC
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	// 10:15-10:45 clips both the 10:00 and 10:30 slots.
	busy := []BusyInterval{
		{
			Start: time.Date(2025, 3, 10, 10, 15, 0, 0, loc),
			End:   time.Date(2025, 3, 10, 10, 45, 0, 0, loc),
		},
	}

	slots := generateSlots(10, 19, 30)
	applyBusyIntervals(slots, day, busy, 30, loc)

	assert.False(t, slots[0].IsAvailable)
	assert.False(t, slots[1].IsAvailable)
	assert.True(t, slots[2].IsAvailable)
}

func TestMergeIntervals(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	at := func(mins int) time.Time { return base.Add(time.Duration(mins) * time.Minute) }

	merged := mergeIntervals([]BusyInterval{
		{Start: at(60), End: at(90)},
		{Start: at(0), End: at(30)},
		{Start: at(20), End: at(45)},
		{Start: at(45), End: at(50)},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, at(0), merged[0].Start)
	assert.Equal(t, at(50), merged[0].End)
	assert.Equal(t, at(60), merged[1].Start)
	assert.Equal(t, at(90), merged[1].End)
}

func TestMergeIntervalsEmpty(t *testing.T) {
	assert.Nil(t, mergeIntervals(nil))
}
