package dto

// ========== Availability ==========

// AvailabilityRequest carries the ISO date the wizard wants busy intervals
// for.
type AvailabilityRequest struct {
	Date string `json:"date"`
}

// BusySlot is an occupied [start, end) range, RFC3339.
type BusySlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AvailabilityResponse struct {
	BusySlots []BusySlot `json:"busySlots"`
}

// ========== Booking ==========

type BookingRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Company         string `json:"company"`
	Message         string `json:"message,omitempty"`
	AppointmentDate string `json:"appointmentDate"` // RFC3339
}

type Meeting struct {
	ID        string `json:"id"`
	Link      string `json:"link"`
	StartTime string `json:"startTime"` // RFC3339
	EndTime   string `json:"endTime"`   // RFC3339
}

type BookingResponse struct {
	Success bool    `json:"success"`
	Meeting Meeting `json:"meeting"`
}

// ErrorPayload is the failure shape shared by both public endpoints.
type ErrorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
