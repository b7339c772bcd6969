package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"flowsite-api/modules/scheduling/dto"
)

// MeetingResult is the confirmed meeting returned by the booking endpoint.
type MeetingResult struct {
	ID          string
	MeetingLink string
	StartTime   time.Time
	EndTime     time.Time
}

// BookingSubmission carries everything the booking endpoint needs.
type BookingSubmission struct {
	Name    string
	Email   string
	Company string
	Message string
	Start   time.Time
}

// Client is the wizard's view of the scheduling backend.
type Client interface {
	GetAvailability(ctx context.Context, day time.Time) ([]BusyInterval, error)
	ScheduleMeeting(ctx context.Context, sub BookingSubmission) (*MeetingResult, error)
}

// HTTPClient talks to the scheduling API over its public JSON contract.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) GetAvailability(ctx context.Context, day time.Time) ([]BusyInterval, error) {
	req := dto.AvailabilityRequest{Date: day.Format("2006-01-02")}
	var resp dto.AvailabilityResponse
	if err := c.postJSON(ctx, "/api/v1/availability", req, &resp); err != nil {
		return nil, err
	}

	busy := make([]BusyInterval, 0, len(resp.BusySlots))
	for _, s := range resp.BusySlots {
		start, err := time.Parse(time.RFC3339, s.Start)
		if err != nil {
			return nil, fmt.Errorf("availability: invalid busy slot start %q: %w", s.Start, err)
		}
		end, err := time.Parse(time.RFC3339, s.End)
		if err != nil {
			return nil, fmt.Errorf("availability: invalid busy slot end %q: %w", s.End, err)
		}
		busy = append(busy, BusyInterval{Start: start, End: end})
	}
	return busy, nil
}

func (c *HTTPClient) ScheduleMeeting(ctx context.Context, sub BookingSubmission) (*MeetingResult, error) {
	req := dto.BookingRequest{
		Name:            sub.Name,
		Email:           sub.Email,
		Company:         sub.Company,
		Message:         sub.Message,
		AppointmentDate: sub.Start.Format(time.RFC3339),
	}
	var resp dto.BookingResponse
	if err := c.postJSON(ctx, "/api/v1/bookings", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("booking: backend reported failure")
	}

	start, err := time.Parse(time.RFC3339, resp.Meeting.StartTime)
	if err != nil {
		return nil, fmt.Errorf("booking: invalid meeting start %q: %w", resp.Meeting.StartTime, err)
	}
	end, err := time.Parse(time.RFC3339, resp.Meeting.EndTime)
	if err != nil {
		return nil, fmt.Errorf("booking: invalid meeting end %q: %w", resp.Meeting.EndTime, err)
	}

	return &MeetingResult{
		ID:          resp.Meeting.ID,
		MeetingLink: resp.Meeting.Link,
		StartTime:   start,
		EndTime:     end,
	}, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload dto.ErrorPayload
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			return fmt.Errorf("%s: %s", path, payload.Error)
		}
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}
