package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flowsite-api/core/config"
	"flowsite-api/core/constants"
	"flowsite-api/core/errors"
	"flowsite-api/core/logger"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

const googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"

const calendarScope = "https://www.googleapis.com/auth/calendar"

// GoogleCalendar talks to the Google Calendar REST API with service-account
// credentials. All calls authenticate through an oauth2 JWT token source
// built from the injected config; a missing credential pair fails every call
// with ErrProviderConfig instead of crashing the process.
type GoogleCalendar struct {
	calendarID  string
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
	baseURL     string
	configErr   error
}

func NewGoogleCalendar(cfg config.GoogleCalendarConfig) *GoogleCalendar {
	g := &GoogleCalendar{
		calendarID: cfg.CalendarID,
		baseURL:    googleCalendarAPIBase,
		httpClient: &http.Client{Timeout: constants.ProviderHTTPTimeout},
	}
	if g.calendarID == "" {
		g.calendarID = "primary"
	}

	if cfg.ServiceAccountEmail == "" || cfg.PrivateKey == "" {
		g.configErr = fmt.Errorf("service account email or private key missing")
		return g
	}

	conf := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{calendarScope},
		TokenURL:   google.JWTTokenURL,
		Subject:    cfg.Subject,
	}
	g.tokenSource = conf.TokenSource(context.Background())
	return g
}

// FreeBusy returns the busy intervals on the configured calendar between
// start and end.
func (g *GoogleCalendar) FreeBusy(ctx context.Context, start, end time.Time) ([]BusyInterval, error) {
	payload := map[string]any{
		"timeMin": start.Format(time.RFC3339),
		"timeMax": end.Format(time.RFC3339),
		"items": []map[string]string{
			{"id": g.calendarID},
		},
	}

	body, appErr := g.doJSON(ctx, http.MethodPost, g.baseURL+"/freeBusy", payload)
	if appErr != nil {
		return nil, appErr
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
			Errors []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"calendars"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		logger.Error("GoogleCalendar:FreeBusy:Unmarshal:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrProviderError, "failed to parse free/busy response", err)
	}

	cal, ok := result.Calendars[g.calendarID]
	if !ok {
		// A response without the queried calendar must not read as a free
		// day.
		return nil, errors.NewAppError(errors.ErrProviderError,
			fmt.Sprintf("free/busy response missing calendar %s", g.calendarID), nil)
	}
	if len(cal.Errors) > 0 {
		return nil, errors.NewAppError(errors.ErrProviderError,
			fmt.Sprintf("calendar query failed: %s", cal.Errors[0].Reason), nil)
	}

	var busy []BusyInterval
	for _, b := range cal.Busy {
		bs, err1 := time.Parse(time.RFC3339, b.Start)
		be, err2 := time.Parse(time.RFC3339, b.End)
		if err1 != nil || err2 != nil {
			logger.Warn("GoogleCalendar:FreeBusy:SkippingInterval", "start", b.Start, "end", b.End)
			continue
		}
		busy = append(busy, BusyInterval{Start: bs, End: be})
	}
	return busy, nil
}

// InsertEvent creates the event with provider-generated Meet conferencing
// and asks the provider to notify all attendees, so the requester receives a
// native calendar invitation. One atomic call, no retries.
func (g *GoogleCalendar) InsertEvent(ctx context.Context, in EventInput) (*CreatedEvent, error) {
	event := map[string]any{
		"summary":     in.Summary,
		"description": in.Description,
		"start": map[string]string{
			"dateTime": in.Start.Format(time.RFC3339),
		},
		"end": map[string]string{
			"dateTime": in.End.Format(time.RFC3339),
		},
		"conferenceData": map[string]any{
			"createRequest": map[string]any{
				"requestId": uuid.NewString(),
				"conferenceSolutionKey": map[string]string{
					"type": "hangoutsMeet",
				},
			},
		},
	}
	if len(in.Attendees) > 0 {
		attendees := make([]map[string]string, len(in.Attendees))
		for i, email := range in.Attendees {
			attendees[i] = map[string]string{"email": email}
		}
		event["attendees"] = attendees
	}

	insertURL := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1&sendUpdates=all",
		g.baseURL, url.PathEscape(g.calendarID))

	body, appErr := g.doJSON(ctx, http.MethodPost, insertURL, event)
	if appErr != nil {
		return nil, appErr
	}

	var result struct {
		ID          string `json:"id"`
		HangoutLink string `json:"hangoutLink"`
		Start       struct {
			DateTime string `json:"dateTime"`
		} `json:"start"`
		End struct {
			DateTime string `json:"dateTime"`
		} `json:"end"`
		ConferenceData struct {
			EntryPoints []struct {
				EntryPointType string `json:"entryPointType"`
				URI            string `json:"uri"`
			} `json:"entryPoints"`
		} `json:"conferenceData"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		logger.Error("GoogleCalendar:InsertEvent:Unmarshal:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrProviderError, "failed to parse event response", err)
	}

	created := &CreatedEvent{
		ID:          result.ID,
		MeetingLink: result.HangoutLink,
		Start:       in.Start,
		End:         in.End,
	}
	if created.MeetingLink == "" {
		for _, ep := range result.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				created.MeetingLink = ep.URI
				break
			}
		}
	}
	if t, err := time.Parse(time.RFC3339, result.Start.DateTime); err == nil {
		created.Start = t
	}
	if t, err := time.Parse(time.RFC3339, result.End.DateTime); err == nil {
		created.End = t
	}

	logger.Info("GoogleCalendar:InsertEvent:Success", "event_id", created.ID, "meeting_link", created.MeetingLink)
	return created, nil
}

func (g *GoogleCalendar) doJSON(ctx context.Context, method, apiURL string, payload any) ([]byte, *errors.AppError) {
	if g.configErr != nil {
		return nil, errors.NewAppError(errors.ErrProviderConfig, "calendar credentials not configured", g.configErr)
	}

	token, err := g.tokenSource.Token()
	if err != nil {
		logger.Error("GoogleCalendar:doJSON:Token:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrProviderAuth, "calendar authentication failed", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderError, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, strings.NewReader(string(data)))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderError, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		logger.Error("GoogleCalendar:doJSON:Request:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrProviderError, "calendar request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderError, "failed to read response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		logger.Error("GoogleCalendar:doJSON:APIAuthError", "status", resp.StatusCode, "body", string(body))
		return nil, errors.NewAppError(errors.ErrProviderAuth,
			fmt.Sprintf("calendar authentication rejected: %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		logger.Error("GoogleCalendar:doJSON:APIError", "status", resp.StatusCode, "body", string(body))
		return nil, errors.NewAppError(errors.ErrProviderError,
			fmt.Sprintf("calendar API error: %d", resp.StatusCode), nil)
	}

	return body, nil
}
