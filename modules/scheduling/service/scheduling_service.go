package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"flowsite-api/core/cache"
	"flowsite-api/core/config"
	"flowsite-api/core/constants"
	"flowsite-api/core/errors"
	"flowsite-api/core/logger"
	"flowsite-api/core/utils"
	"flowsite-api/modules/scheduling/dto"
	"flowsite-api/modules/scheduling/provider"
)

// BookingInput is the validated server-side booking request.
type BookingInput struct {
	Name    string
	Email   string
	Company string
	Message string
	Start   time.Time
}

type SchedulingService interface {
	// GetAvailability returns the busy intervals within the business-hours
	// window of the given day. Pure read, no side effects.
	GetAvailability(ctx context.Context, dateISO string) ([]provider.BusyInterval, *errors.AppError)
	// ScheduleMeeting creates the demo event on the backing calendar and
	// returns its identity and conferencing link. Not idempotent: a retry
	// after an ambiguous failure can create a duplicate event.
	ScheduleMeeting(ctx context.Context, in BookingInput) (*dto.Meeting, *errors.AppError)
}

type schedulingService struct {
	calendar provider.Calendar
	cache    cache.Cache
	cfg      config.SchedulingConfig
	inbox    string
	loc      *time.Location
}

func NewSchedulingService(calendar provider.Calendar, c cache.Cache, cfg config.SchedulingConfig, businessInbox string) SchedulingService {
	if cfg.BusinessHoursStart == 0 && cfg.BusinessHoursEnd == 0 {
		cfg.BusinessHoursStart = constants.BusinessHoursStart
		cfg.BusinessHoursEnd = constants.BusinessHoursEnd
	}
	if cfg.SlotDurationMinutes == 0 {
		cfg.SlotDurationMinutes = constants.SlotDurationMinutes
	}

	offset := cfg.UTCOffsetMinutes
	name := fmt.Sprintf("UTC%+03d:%02d", offset/60, abs(offset%60))
	return &schedulingService{
		calendar: calendar,
		cache:    c,
		cfg:      cfg,
		inbox:    businessInbox,
		loc:      time.FixedZone(name, offset*60),
	}
}

func (s *schedulingService) GetAvailability(ctx context.Context, dateISO string) ([]provider.BusyInterval, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	day, appErr := s.parseDay(dateISO)
	if appErr != nil {
		return nil, appErr
	}

	cacheKey := constants.AvailabilityCacheKey + day.Format("2006-01-02")
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		logger.Debug("SchedulingService:GetAvailability:CacheHit", "date", day.Format("2006-01-02"))
		return cached, nil
	}

	windowStart, windowEnd := s.businessWindow(day)
	busy, err := s.calendar.FreeBusy(ctx, windowStart, windowEnd)
	if err != nil {
		logger.Error("SchedulingService:GetAvailability:FreeBusy:Error", "error", err, "date", dateISO)
		if ae, ok := err.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrProviderError, "failed to query calendar availability", err)
	}

	s.cacheSet(ctx, cacheKey, busy)
	return busy, nil
}

func (s *schedulingService) ScheduleMeeting(ctx context.Context, in BookingInput) (*dto.Meeting, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Start.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name, email and appointment start are required", nil)
	}
	if !utils.IsValidEmail(in.Email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid email address", nil)
	}

	end := in.Start.Add(time.Duration(s.cfg.SlotDurationMinutes) * time.Minute)

	summary := fmt.Sprintf("FlowSuite demo – %s", in.Name)
	if company := strings.TrimSpace(in.Company); company != "" {
		summary = fmt.Sprintf("FlowSuite demo – %s (%s)", in.Name, company)
	}
	description := buildDescription(in)

	attendees := []string{in.Email}
	if s.inbox != "" {
		attendees = append(attendees, s.inbox)
	}

	created, err := s.calendar.InsertEvent(ctx, provider.EventInput{
		Summary:     summary,
		Description: description,
		Start:       in.Start,
		End:         end,
		Attendees:   attendees,
	})
	if err != nil {
		logger.Error("SchedulingService:ScheduleMeeting:InsertEvent:Error", "error", err, "email", in.Email)
		if ae, ok := err.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrProviderError, "failed to create calendar event", err)
	}

	// The new event changes the day's availability.
	s.cacheDelete(ctx, constants.AvailabilityCacheKey+in.Start.In(s.loc).Format("2006-01-02"))

	logger.Info("SchedulingService:ScheduleMeeting:Success",
		"event_id", created.ID,
		"start", created.Start.Format(time.RFC3339),
		"email", in.Email,
	)

	return &dto.Meeting{
		ID:        created.ID,
		Link:      created.MeetingLink,
		StartTime: created.Start.Format(time.RFC3339),
		EndTime:   created.End.Format(time.RFC3339),
	}, nil
}

// parseDay accepts a plain ISO date or a full RFC3339 timestamp and returns
// the calendar day anchored at midnight in the business time zone.
func (s *schedulingService) parseDay(dateISO string) (time.Time, *errors.AppError) {
	dateISO = strings.TrimSpace(dateISO)
	if dateISO == "" {
		return time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "date is required", nil)
	}

	if t, err := time.Parse("2006-01-02", dateISO); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc), nil
	}
	if t, err := time.Parse(time.RFC3339, dateISO); err == nil {
		local := t.In(s.loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc), nil
	}
	return time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "invalid date format", nil)
}

// businessWindow returns the queryable range for a day: business open to
// close at the configured fixed UTC offset.
func (s *schedulingService) businessWindow(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), s.cfg.BusinessHoursStart, 0, 0, 0, s.loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), s.cfg.BusinessHoursEnd, 0, 0, 0, s.loc)
	return start, end
}

func (s *schedulingService) cacheGet(ctx context.Context, key string) ([]provider.BusyInterval, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var slots []dto.BusySlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		logger.Warn("SchedulingService:cacheGet:Unmarshal:Error", "key", key, "error", err)
		return nil, false
	}
	busy := make([]provider.BusyInterval, 0, len(slots))
	for _, sl := range slots {
		start, err1 := time.Parse(time.RFC3339, sl.Start)
		end, err2 := time.Parse(time.RFC3339, sl.End)
		if err1 != nil || err2 != nil {
			return nil, false
		}
		busy = append(busy, provider.BusyInterval{Start: start, End: end})
	}
	return busy, true
}

func (s *schedulingService) cacheSet(ctx context.Context, key string, busy []provider.BusyInterval) {
	if s.cache == nil {
		return
	}
	slots := make([]dto.BusySlot, len(busy))
	for i, b := range busy {
		slots[i] = dto.BusySlot{
			Start: b.Start.Format(time.RFC3339),
			End:   b.End.Format(time.RFC3339),
		}
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, string(data), constants.AvailabilityCacheTTL)
}

func (s *schedulingService) cacheDelete(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, key)
}

func buildDescription(in BookingInput) string {
	var b strings.Builder
	b.WriteString("Demo booking from the FlowSuite website.\n\n")
	b.WriteString("Name: " + in.Name + "\n")
	b.WriteString("Email: " + in.Email + "\n")
	if company := strings.TrimSpace(in.Company); company != "" {
		b.WriteString("Company: " + company + "\n")
	}
	if msg := strings.TrimSpace(in.Message); msg != "" {
		b.WriteString("\n" + msg + "\n")
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
