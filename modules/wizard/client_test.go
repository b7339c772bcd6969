package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientGetAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/availability", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-03-10", body["date"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"busySlots":[{"start":"2025-03-10T15:00:00Z","end":"2025-03-10T15:30:00Z"}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	busy, err := c.GetAvailability(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, busy, 1)
	assert.True(t, busy[0].Start.Equal(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)))
	assert.True(t, busy[0].End.Equal(time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)))
}

func TestHTTPClientGetAvailabilityError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"failed to query calendar availability"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.GetAvailability(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query calendar availability")
}

func TestHTTPClientScheduleMeeting(t *testing.T) {
	start := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/bookings", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jane Doe", body["name"])
		assert.Equal(t, "jane@acme.com", body["email"])
		assert.Equal(t, "Acme", body["company"])
		assert.Equal(t, start.Format(time.RFC3339), body["appointmentDate"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"meeting": {
				"id": "evt1",
				"link": "https://meet.google.com/abc-defg-hij",
				"startTime": "2025-03-10T15:30:00Z",
				"endTime": "2025-03-10T16:00:00Z"
			}
		}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	result, err := c.ScheduleMeeting(context.Background(), BookingSubmission{
		Name:    "Jane Doe",
		Email:   "jane@acme.com",
		Company: "Acme",
		Start:   start,
	})
	require.NoError(t, err)

	assert.Equal(t, "evt1", result.ID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", result.MeetingLink)
	assert.True(t, result.StartTime.Equal(start))
	assert.True(t, result.EndTime.Equal(start.Add(30*time.Minute)))
}

func TestHTTPClientScheduleMeetingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid appointmentDate","details":"expected an RFC3339 timestamp"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.ScheduleMeeting(context.Background(), BookingSubmission{
		Name:  "Jane",
		Email: "jane@acme.com",
		Start: time.Now(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid appointmentDate")
}
