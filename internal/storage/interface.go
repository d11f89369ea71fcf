package storage

import "errors"

var (
	// ErrNotInitialized is returned by Load when the backing store does not exist yet
	ErrNotInitialized = errors.New("storage not initialized")
	// ErrNotLoaded is returned when a store is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// KV is the small key-value capability the insight cache depends on.
// Get reports ok=false for a missing key rather than an error.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	KV
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL-backed providers
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	ValidateSchema() error
	PendingMigrations() (int, error)
}
