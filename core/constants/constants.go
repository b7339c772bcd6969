package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"
)

// Timeouts
const (
	DefaultTimeout      = 30 * time.Second
	ProviderHTTPTimeout = 30 * time.Second
	ShutdownTimeout     = 10 * time.Second
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Scheduling defaults. The business window is 10:00-19:00 local, 30-minute
// slots, bookable from today through four weeks out.
const (
	BusinessHoursStart    = 10
	BusinessHoursEnd      = 19
	SlotDurationMinutes   = 30
	MaxAdvanceWeeks       = 4
	AvailabilityCacheTTL  = 60 * time.Second
	AvailabilityCacheKey  = "availability:"
	DefaultUTCOffsetMins  = -300
)

// Asynq task type names
const (
	TaskContactNotification = "email:contact_notification"
)
