package provider

import (
	"context"
	"time"
)

// BusyInterval is an occupied [Start, End) range on the backing calendar.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// EventInput describes the calendar event to create for a booked demo.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	// Attendees receive the provider's native invitation email.
	Attendees []string
}

// CreatedEvent is the provider's view of the event after creation.
type CreatedEvent struct {
	ID          string
	MeetingLink string
	Start       time.Time
	End         time.Time
}

// Calendar is the calendar system of record. Implemented by GoogleCalendar;
// faked in tests.
type Calendar interface {
	FreeBusy(ctx context.Context, start, end time.Time) ([]BusyInterval, error)
	InsertEvent(ctx context.Context, in EventInput) (*CreatedEvent, error)
}
