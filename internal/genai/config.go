package genai

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const configFile = "service.toml"

// Config holds the generation service connection settings, loaded from
// ~/.config/scene-studio/service.toml.
type Config struct {
	// Endpoint is the base URL of the generation service.
	Endpoint string `toml:"endpoint"`

	// APIKey authenticates requests. Empty means unauthenticated (local
	// development service).
	APIKey string `toml:"api_key"`

	// Model selects the generation model on the service side.
	Model string `toml:"model"`

	// TimeoutSec bounds each remote call.
	TimeoutSec int `toml:"timeout_sec"`
}

// DefaultConfig returns settings suitable for a locally running service.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "http://localhost:8089",
		Model:      "scene-composite-1",
		TimeoutSec: 120,
	}
}

// Timeout returns the per-call timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// LoadConfig reads the service configuration, falling back to defaults when
// the file does not exist. Fields missing from the file keep their default.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	path := filepath.Join(configDir, "scene-studio", configFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
