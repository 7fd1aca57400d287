package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Teams to match against the schedule (exact names as they appear on the site)
	TeamNames []string `envconfig:"TEAM_NAMES" required:"true"`

	// Schedule source
	ScheduleURL string `envconfig:"SCHEDULE_URL" default:"https://www.ddlc.ca/ligues/calendrier/"`

	// Browser
	BrowserTimeout time.Duration `envconfig:"BROWSER_TIMEOUT" default:"90s"`
	FrameTimeout   time.Duration `envconfig:"FRAME_TIMEOUT" default:"10s"`
	RenderDelay    time.Duration `envconfig:"RENDER_DELAY" default:"2s"`
	ViewDelay      time.Duration `envconfig:"VIEW_DELAY" default:"5s"`
	Headless       bool          `envconfig:"HEADLESS" default:"true"`
	ChromePath     string        `envconfig:"CHROME_PATH" default:""`

	// Calendar
	GameDuration time.Duration `envconfig:"GAME_DURATION" default:"50m"`
	OsascriptBin string        `envconfig:"OSASCRIPT_BIN" default:"osascript"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"false"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from a .env file if one is present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	c.TeamNames = trimTeams(c.TeamNames)
	if len(c.TeamNames) == 0 {
		return fmt.Errorf("TEAM_NAMES is required (comma-separated team names)")
	}

	if c.ScheduleURL == "" {
		return fmt.Errorf("SCHEDULE_URL must not be empty")
	}

	if c.GameDuration <= 0 {
		return fmt.Errorf("GAME_DURATION must be positive")
	}

	return nil
}

// trimTeams strips whitespace around each name and drops empties
func trimTeams(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
