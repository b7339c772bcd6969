package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flowsite-api/core/errors"
	"flowsite-api/modules/scheduling/dto"
	"flowsite-api/modules/scheduling/provider"
	"flowsite-api/modules/scheduling/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	busy       []provider.BusyInterval
	getErr     *errors.AppError
	meeting    *dto.Meeting
	scheduleIn service.BookingInput
	schedErr   *errors.AppError
}

func (f *fakeService) GetAvailability(ctx context.Context, dateISO string) ([]provider.BusyInterval, *errors.AppError) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.busy, nil
}

func (f *fakeService) ScheduleMeeting(ctx context.Context, in service.BookingInput) (*dto.Meeting, *errors.AppError) {
	f.scheduleIn = in
	if f.schedErr != nil {
		return nil, f.schedErr
	}
	return f.meeting, nil
}

func doRequest(t *testing.T, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func TestGetAvailabilityResponseShape(t *testing.T) {
	svc := &fakeService{
		busy: []provider.BusyInterval{
			{
				Start: time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
				End:   time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC),
			},
		},
	}
	ctrl := NewSchedulingController(svc)

	rec := doRequest(t, ctrl.GetAvailability, `{"date":"2025-03-10"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		BusySlots []map[string]string `json:"busySlots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.BusySlots, 1)
	assert.Equal(t, "2025-03-10T15:00:00Z", resp.BusySlots[0]["start"])
	assert.Equal(t, "2025-03-10T15:30:00Z", resp.BusySlots[0]["end"])
}

func TestGetAvailabilityEmptyDay(t *testing.T) {
	ctrl := NewSchedulingController(&fakeService{})

	rec := doRequest(t, ctrl.GetAvailability, `{"date":"2025-03-10"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"busySlots":[]}`, rec.Body.String())
}

func TestGetAvailabilityProviderFailure(t *testing.T) {
	ctrl := NewSchedulingController(&fakeService{
		getErr: errors.NewAppError(errors.ErrProviderError, "failed to query calendar availability", nil),
	})

	rec := doRequest(t, ctrl.GetAvailability, `{"date":"2025-03-10"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed to query calendar availability", resp["error"])
}

func TestCreateBookingResponseShape(t *testing.T) {
	svc := &fakeService{
		meeting: &dto.Meeting{
			ID:        "evt1",
			Link:      "https://meet.google.com/abc-defg-hij",
			StartTime: "2025-03-10T15:30:00Z",
			EndTime:   "2025-03-10T16:00:00Z",
		},
	}
	ctrl := NewSchedulingController(svc)

	rec := doRequest(t, ctrl.CreateBooking, `{
		"name": "Jane Doe",
		"email": "jane@acme.com",
		"company": "Acme",
		"message": "hello",
		"appointmentDate": "2025-03-10T15:30:00Z"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `{
		"success": true,
		"meeting": {
			"id": "evt1",
			"link": "https://meet.google.com/abc-defg-hij",
			"startTime": "2025-03-10T15:30:00Z",
			"endTime": "2025-03-10T16:00:00Z"
		}
	}`, rec.Body.String())

	assert.Equal(t, "Jane Doe", svc.scheduleIn.Name)
	assert.True(t, svc.scheduleIn.Start.Equal(time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)))
}

func TestCreateBookingMissingFields(t *testing.T) {
	svc := &fakeService{}
	ctrl := NewSchedulingController(svc)

	rec := doRequest(t, ctrl.CreateBooking, `{"name":"Jane"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "name, email and appointmentDate are required", resp["error"])
	assert.Empty(t, svc.scheduleIn.Name, "the service must not be called")
}

func TestCreateBookingBadTimestamp(t *testing.T) {
	ctrl := NewSchedulingController(&fakeService{})

	rec := doRequest(t, ctrl.CreateBooking, `{
		"name": "Jane",
		"email": "jane@acme.com",
		"appointmentDate": "10/03/2025 15:30"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid appointmentDate", resp["error"])
	assert.Equal(t, "expected an RFC3339 timestamp", resp["details"])
}

func TestCreateBookingConfigErrorIsGeneric(t *testing.T) {
	ctrl := NewSchedulingController(&fakeService{
		schedErr: errors.NewAppError(errors.ErrProviderConfig, "calendar credentials not configured", nil),
	})

	rec := doRequest(t, ctrl.CreateBooking, `{
		"name": "Jane",
		"email": "jane@acme.com",
		"appointmentDate": "2025-03-10T15:30:00Z"
	}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
