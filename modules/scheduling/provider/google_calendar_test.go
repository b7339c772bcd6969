package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flowsite-api/core/config"
	"flowsite-api/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestCalendar(srv *httptest.Server) *GoogleCalendar {
	return &GoogleCalendar{
		calendarID:  "primary",
		tokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}),
		httpClient:  srv.Client(),
		baseURL:     srv.URL,
	}
}

func TestFreeBusyParsesIntervals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/freeBusy", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-03-10T15:00:00Z", body["timeMin"])
		assert.Equal(t, "2025-03-11T00:00:00Z", body["timeMax"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"calendars": {
				"primary": {
					"busy": [
						{"start": "2025-03-10T15:00:00Z", "end": "2025-03-10T15:30:00Z"},
						{"start": "2025-03-10T17:00:00Z", "end": "2025-03-10T18:00:00Z"}
					]
				}
			}
		}`))
	}))
	defer srv.Close()

	g := newTestCalendar(srv)
	busy, err := g.FreeBusy(context.Background(),
		time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	require.Len(t, busy, 2)
	assert.True(t, busy[0].Start.Equal(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)))
	assert.True(t, busy[1].End.Equal(time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)))
}

func TestFreeBusyMissingCalendarKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"calendars":{"someone-else@group.calendar.google.com":{"busy":[]}}}`))
	}))
	defer srv.Close()

	g := newTestCalendar(srv)
	_, err := g.FreeBusy(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err, "a response without the queried calendar must not read as a free day")

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrProviderError, appErr.Code)
}

func TestFreeBusyCalendarError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"calendars":{"primary":{"errors":[{"reason":"notFound"}]}}}`))
	}))
	defer srv.Close()

	g := newTestCalendar(srv)
	_, err := g.FreeBusy(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrProviderError, appErr.Code)
}

func TestInsertEventRequestShape(t *testing.T) {
	start := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("conferenceDataVersion"))
		assert.Equal(t, "all", r.URL.Query().Get("sendUpdates"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "FlowSuite demo – Jane Doe (Acme)", body["summary"])

		conf := body["conferenceData"].(map[string]any)["createRequest"].(map[string]any)
		assert.NotEmpty(t, conf["requestId"], "every insert carries a fresh conference request id")
		key := conf["conferenceSolutionKey"].(map[string]any)
		assert.Equal(t, "hangoutsMeet", key["type"])

		attendees := body["attendees"].([]any)
		require.Len(t, attendees, 2)
		assert.Equal(t, "jane@acme.com", attendees[0].(map[string]any)["email"])
		assert.Equal(t, "sales@flowsuite.io", attendees[1].(map[string]any)["email"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "evt1",
			"hangoutLink": "https://meet.google.com/abc-defg-hij",
			"start": {"dateTime": "2025-03-10T15:30:00Z"},
			"end": {"dateTime": "2025-03-10T16:00:00Z"}
		}`))
	}))
	defer srv.Close()

	g := newTestCalendar(srv)
	created, err := g.InsertEvent(context.Background(), EventInput{
		Summary:   "FlowSuite demo – Jane Doe (Acme)",
		Start:     start,
		End:       end,
		Attendees: []string{"jane@acme.com", "sales@flowsuite.io"},
	})
	require.NoError(t, err)

	assert.Equal(t, "evt1", created.ID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", created.MeetingLink)
	assert.True(t, created.Start.Equal(start))
	assert.True(t, created.End.Equal(end))
}

func TestInsertEventFallsBackToEntryPoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "evt2",
			"conferenceData": {
				"entryPoints": [
					{"entryPointType": "phone", "uri": "tel:+1-555-0100"},
					{"entryPointType": "video", "uri": "https://meet.google.com/xyz"}
				]
			}
		}`))
	}))
	defer srv.Close()

	g := newTestCalendar(srv)
	created, err := g.InsertEvent(context.Background(), EventInput{
		Start: time.Now(),
		End:   time.Now().Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/xyz", created.MeetingLink)
}

func TestAuthRejectionMapsToProviderAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401}}`))
	}))
	defer srv.Close()

	g := newTestCalendar(srv)
	_, err := g.FreeBusy(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrProviderAuth, appErr.Code)
}

func TestMissingCredentialsFailEveryCall(t *testing.T) {
	g := NewGoogleCalendar(config.GoogleCalendarConfig{CalendarID: "primary"})

	_, err := g.FreeBusy(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrProviderConfig, appErr.Code)

	_, err = g.InsertEvent(context.Background(), EventInput{Start: time.Now(), End: time.Now()})
	require.Error(t, err)
	appErr, ok = err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrProviderConfig, appErr.Code)
}
