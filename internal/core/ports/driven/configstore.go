package driven

import "github.com/veridoc-labs/veridoc-cli/internal/core/domain"

// ConfigStore loads and persists the application settings.
// Backed by a TOML file in the veridoc config directory.
type ConfigStore interface {
	// Load returns the stored settings with defaults applied for any
	// keys the file does not set.
	Load() (domain.Settings, error)

	// Save writes the settings back to the store.
	Save(settings domain.Settings) error
}
