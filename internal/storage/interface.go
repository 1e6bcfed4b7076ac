package storage

import (
	"time"

	"github.com/julianstephens/tachoplan/internal/models"
)

// Provider persists the caller-owned calculator state: settings and the
// reduced-rest ledger. Trips themselves are never stored.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Reduced-rest ledger
	AddReducedRest(models.ReducedRest) error
	// GetReducedRestsSince returns ledger rows used at or after since,
	// oldest first.
	GetReducedRestsSince(since time.Time) ([]models.ReducedRest, error)
	// ResetReducedRests clears the ledger and returns the number of rows removed.
	ResetReducedRests() (int, error)

	// Schema
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current int, latest int, err error)

	// Utils
	GetConfigPath() string
}
