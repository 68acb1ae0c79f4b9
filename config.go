package hitbeat

import (
	"errors"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/hitbeat/hitbeat-go/pkg/tracking"
)

// Config holds the client configuration. All fields are read-only at
// request time and safe for concurrent reads.
type Config struct {
	// APIKey authenticates requests to the collector. Required when Enabled.
	APIKey string `env:"HITBEAT_API_KEY"`

	// APIURL is the collector base URL.
	APIURL string `env:"HITBEAT_API_URL" envDefault:"https://hitbeat.io/api/v1"`

	// Enabled switches the whole SDK on or off. Disabled clients resolve
	// identity normally but never perform network I/O.
	Enabled bool `env:"HITBEAT_ENABLED" envDefault:"true"`

	// Debug enables verbose logging of delivery failures.
	Debug bool `env:"HITBEAT_DEBUG" envDefault:"false"`

	// Timeout bounds each collector request.
	Timeout time.Duration `env:"HITBEAT_TIMEOUT" envDefault:"5s"`

	// Tracking configures the middleware (cookie names, session window,
	// skip rules).
	Tracking tracking.Config
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		APIURL:   "https://hitbeat.io/api/v1",
		Enabled:  true,
		Timeout:  5 * time.Second,
		Tracking: tracking.DefaultConfig(),
	}
}

var dotenvOnce sync.Once

// LoadConfig reads configuration from the environment, loading a .env file
// first when one exists.
func LoadConfig() (Config, error) {
	dotenvOnce.Do(func() {
		// The .env file is optional
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParseConfig, err)
	}
	return cfg, nil
}

// Validate checks that an enabled configuration is usable.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
