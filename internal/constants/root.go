package constants

import (
	"time"
)

const (
	AppName             = "blossom"
	DefaultKeyringUser  = "gemini-api-key"
	PostgresKeyringUser = "database-connection"
	DefaultConfigPath   = "~/.config/blossom/blossom.db"
	Version             = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// InsightCacheKey is the key-value store key holding the daily insight
	InsightCacheKey = "daily_insight_424"

	// Gemini defaults
	DefaultModel          = "gemini-3-flash-preview"
	DefaultGeminiBaseURL  = "https://generativelanguage.googleapis.com"
	DefaultRequestTimeout = 30 * time.Second
	MaxErrorBodyBytes     = 4096

	// Countdown target defaults (April 24, midnight)
	DefaultTargetMonth  = time.April
	DefaultTargetDay    = 24
	DefaultTargetHour   = 0
	DefaultTargetMinute = 0

	// DaysPerYear is the run-up length the progress bar measures against
	DaysPerYear = 365

	// TUI timing
	TickInterval  = time.Second
	PetalInterval = 150 * time.Millisecond
	PetalCount    = 15

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "blossom-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.blossom"
)
