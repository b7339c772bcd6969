// Package wizard implements the four-step demo booking flow used by the
// marketing website: pick a date, pick a time, enter contact details,
// confirmation. It keeps all flow state behind a mutex so a UI layer can
// drive it from event handlers while availability fetches run in the
// background.
package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"flowsite-api/core/constants"
	"flowsite-api/core/logger"
)

type Step int

const (
	StepDate Step = iota + 1
	StepTime
	StepDetails
	StepConfirmed
)

var (
	ErrDateInPast     = errors.New("selected date is in the past")
	ErrDateTooFar     = errors.New("selected date is beyond the booking window")
	ErrNoDateSelected = errors.New("no date selected")
	ErrNoSlotSelected = errors.New("no time slot selected")
	ErrMissingFields  = errors.New("name, email and company are required")
	ErrSubmitInFlight = errors.New("a booking submission is already in progress")
)

// ContactFields are the visitor's details collected at the third step.
type ContactFields struct {
	Name    string
	Email   string
	Company string
	Message string
}

// State is a point-in-time snapshot of the wizard, safe to hand to a
// renderer while the wizard keeps mutating.
type State struct {
	Step         Step
	SelectedDate time.Time
	Slots        []TimeSlot
	SelectedSlot *TimeSlot
	Fields       ContactFields
	Loading      bool
	Submitting   bool
	LastError    string
	Retryable    bool
	MeetingLink  string
}

// Options configures a Wizard. Client is required; everything else has a
// working default.
type Options struct {
	Client       Client
	Location     *time.Location
	Now          func() time.Time
	StartHour    int
	EndHour      int
	StepMinutes  int
	AdvanceWeeks int
	// OnChange, when set, receives a snapshot after every state change.
	OnChange func(State)
}

type Wizard struct {
	mu sync.Mutex
	// notifyMu serializes OnChange deliveries so observers see snapshots in
	// mutation order.
	notifyMu sync.Mutex

	client       Client
	loc          *time.Location
	now          func() time.Time
	startHour    int
	endHour      int
	stepMinutes  int
	advanceWeeks int
	onChange     func(State)

	step         Step
	selectedDate time.Time
	slots        []TimeSlot
	selectedSlot *TimeSlot
	fields       ContactFields
	loading      bool
	submitting   bool
	lastError    string
	retryable    bool
	meetingLink  string

	// fetchGen invalidates in-flight availability fetches when the user
	// switches dates before a response lands.
	fetchGen int
	inflight sync.WaitGroup
}

func New(opts Options) *Wizard {
	if opts.Location == nil {
		opts.Location = time.FixedZone("business", constants.DefaultUTCOffsetMins*60)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.StartHour == 0 && opts.EndHour == 0 {
		opts.StartHour = constants.BusinessHoursStart
		opts.EndHour = constants.BusinessHoursEnd
	}
	if opts.StepMinutes == 0 {
		opts.StepMinutes = constants.SlotDurationMinutes
	}
	if opts.AdvanceWeeks == 0 {
		opts.AdvanceWeeks = constants.MaxAdvanceWeeks
	}

	return &Wizard{
		client:       opts.Client,
		loc:          opts.Location,
		now:          opts.Now,
		startHour:    opts.StartHour,
		endHour:      opts.EndHour,
		stepMinutes:  opts.StepMinutes,
		advanceWeeks: opts.AdvanceWeeks,
		onChange:     opts.OnChange,
		step:         StepDate,
	}
}

// State returns a snapshot of the current wizard state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

// DateRange returns the selectable window: today through the configured
// number of weeks ahead, both at midnight in the business time zone.
func (w *Wizard) DateRange() (time.Time, time.Time) {
	today := startOfDay(w.now().In(w.loc))
	return today, today.AddDate(0, 0, 7*w.advanceWeeks)
}

// SelectDate picks a day, advances to the time step and starts an
// asynchronous availability fetch. While the fetch is in flight every slot
// renders tentatively available; only a failed fetch blanks them out.
func (w *Wizard) SelectDate(ctx context.Context, date time.Time) error {
	day := startOfDay(date.In(w.loc))
	min, max := w.DateRange()
	if day.Before(min) {
		return ErrDateInPast
	}
	if day.After(max) {
		return ErrDateTooFar
	}

	w.mu.Lock()
	w.selectedDate = day
	w.selectedSlot = nil
	w.meetingLink = ""
	w.lastError = ""
	w.retryable = false
	w.step = StepTime
	w.mu.Unlock()

	w.fetchAvailability(ctx)
	return nil
}

// RetryAvailability re-runs the availability fetch for the selected date
// after a failed attempt.
func (w *Wizard) RetryAvailability(ctx context.Context) error {
	w.mu.Lock()
	if w.selectedDate.IsZero() {
		w.mu.Unlock()
		return ErrNoDateSelected
	}
	w.lastError = ""
	w.retryable = false
	w.mu.Unlock()

	w.fetchAvailability(ctx)
	return nil
}

func (w *Wizard) fetchAvailability(ctx context.Context) {
	w.mu.Lock()
	w.fetchGen++
	gen := w.fetchGen
	day := w.selectedDate
	w.slots = generateSlots(w.startHour, w.endHour, w.stepMinutes)
	w.loading = true
	w.unlockAndNotify()

	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()

		busy, err := w.client.GetAvailability(ctx, day)

		w.mu.Lock()
		if gen != w.fetchGen || !day.Equal(w.selectedDate) {
			// A newer fetch superseded this one.
			w.mu.Unlock()
			return
		}
		w.loading = false
		if err != nil {
			logger.Warn("Wizard:fetchAvailability:Error", "date", day.Format("2006-01-02"), "error", err)
			markAllUnavailable(w.slots)
			w.lastError = "could not load availability"
			w.retryable = true
			w.unlockAndNotify()
			return
		}

		slots := generateSlots(w.startHour, w.endHour, w.stepMinutes)
		applyBusyIntervals(slots, day, busy, w.stepMinutes, w.loc)
		w.slots = slots
		w.unlockAndNotify()
	}()
}

// SelectTimeSlot picks the slot at the given hour and minute and advances to
// the details step. Unavailable or unknown slots are rejected.
func (w *Wizard) SelectTimeSlot(hour, minute int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepTime && w.step != StepDetails {
		return false
	}
	for i := range w.slots {
		if w.slots[i].Hour == hour && w.slots[i].Minute == minute {
			if !w.slots[i].IsAvailable {
				return false
			}
			chosen := w.slots[i]
			w.selectedSlot = &chosen
			w.step = StepDetails
			return true
		}
	}
	return false
}

// SetContactFields stores the visitor's details without validating them.
func (w *Wizard) SetContactFields(f ContactFields) {
	w.mu.Lock()
	w.fields = f
	w.unlockAndNotify()
}

// SubmitBooking validates the collected details and submits the booking.
// On success the wizard advances to the confirmation step and clears the
// contact fields. On failure the fields and selections are preserved so the
// visitor can retry.
func (w *Wizard) SubmitBooking(ctx context.Context, f ContactFields) error {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	if w.selectedDate.IsZero() {
		w.mu.Unlock()
		return ErrNoDateSelected
	}
	if w.selectedSlot == nil {
		w.mu.Unlock()
		return ErrNoSlotSelected
	}

	w.fields = f
	if f.Name == "" || f.Email == "" || f.Company == "" {
		w.lastError = ErrMissingFields.Error()
		w.retryable = false
		w.unlockAndNotify()
		return ErrMissingFields
	}

	start := slotStart(w.selectedDate, *w.selectedSlot, w.loc)
	w.submitting = true
	w.lastError = ""
	w.unlockAndNotify()

	result, err := w.client.ScheduleMeeting(ctx, BookingSubmission{
		Name:    f.Name,
		Email:   f.Email,
		Company: f.Company,
		Message: f.Message,
		Start:   start,
	})

	w.mu.Lock()
	w.submitting = false
	if err != nil {
		logger.Warn("Wizard:SubmitBooking:Error", "start", start.Format(time.RFC3339), "error", err)
		w.lastError = "booking failed, please try again"
		w.retryable = true
		w.unlockAndNotify()
		return err
	}

	w.step = StepConfirmed
	w.meetingLink = result.MeetingLink
	w.fields = ContactFields{}
	w.lastError = ""
	w.retryable = false
	w.unlockAndNotify()
	return nil
}

// ChangeDate returns to the date step, keeping the current selections.
func (w *Wizard) ChangeDate() {
	w.mu.Lock()
	if w.step == StepTime || w.step == StepDetails {
		w.step = StepDate
	}
	w.unlockAndNotify()
}

// ChangeTime returns to the time step, keeping the current selections.
func (w *Wizard) ChangeTime() {
	w.mu.Lock()
	if w.step == StepDetails {
		w.step = StepTime
	}
	w.unlockAndNotify()
}

// Reset starts a new booking: selections and the confirmation link are
// cleared, a fresh flow begins at the date step.
func (w *Wizard) Reset() {
	w.mu.Lock()
	w.fetchGen++
	w.step = StepDate
	w.selectedDate = time.Time{}
	w.slots = nil
	w.selectedSlot = nil
	w.loading = false
	w.submitting = false
	w.lastError = ""
	w.retryable = false
	w.meetingLink = ""
	w.unlockAndNotify()
}

func (w *Wizard) snapshot() State {
	st := State{
		Step:         w.step,
		SelectedDate: w.selectedDate,
		Fields:       w.fields,
		Loading:      w.loading,
		Submitting:   w.submitting,
		LastError:    w.lastError,
		Retryable:    w.retryable,
		MeetingLink:  w.meetingLink,
	}
	if len(w.slots) > 0 {
		st.Slots = make([]TimeSlot, len(w.slots))
		copy(st.Slots, w.slots)
	}
	if w.selectedSlot != nil {
		chosen := *w.selectedSlot
		st.SelectedSlot = &chosen
	}
	return st
}

// unlockAndNotify releases the state lock and, when an observer is
// registered, delivers the snapshot taken inside the same critical section
// that mutated the state. notifyMu is acquired before the state lock is
// released so deliveries arrive in mutation order.
func (w *Wizard) unlockAndNotify() {
	if w.onChange == nil {
		w.mu.Unlock()
		return
	}
	st := w.snapshot()
	w.notifyMu.Lock()
	w.mu.Unlock()
	w.onChange(st)
	w.notifyMu.Unlock()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
