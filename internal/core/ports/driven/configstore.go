package driven

import "github.com/vellumlabs/docchat-cli/internal/core/domain"

// ConfigStore loads and persists the application configuration.
// Implementations handle storage mechanics (e.g. TOML files); validation
// and defaulting happen once at load time.
type ConfigStore interface {
	// Load reads the configuration, applies defaults and validates it.
	// A missing file yields the default configuration.
	Load() (*domain.Config, error)

	// Save persists the configuration.
	Save(cfg *domain.Config) error

	// Path returns the configuration file path.
	Path() string
}
