package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Simlane engine configuration
type Config struct {
	Allocation AllocationConfig `mapstructure:"allocation"`
	Stint      StintConfig      `mapstructure:"stint"`
	Session    SessionConfig    `mapstructure:"session"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Paths      PathsConfig      `mapstructure:"paths"`
}

// AllocationConfig controls team allocation suggestions and validation
type AllocationConfig struct {
	// Strategy is the default suggestion strategy
	// Options: "skill-balanced", "availability-optimized", "preference-grouped", "random"
	Strategy string `mapstructure:"strategy"`
	// TeamCount is the default number of teams to form
	TeamCount int `mapstructure:"team_count"`
	// TeamSize is the target team size; 0 divides the pool evenly
	TeamSize int `mapstructure:"team_size"`
	// Seed drives the random strategy; the same seed reproduces the same draft
	Seed int64 `mapstructure:"seed"`
	// MinTeams is the smallest draft the validator accepts
	MinTeams int `mapstructure:"min_teams"`
	// MinTeamSize flags teams below this size as warnings
	MinTeamSize int `mapstructure:"min_team_size"`
	// MaxTeamSize flags teams above this size as blocking; 0 disables the cap
	MaxTeamSize int `mapstructure:"max_team_size"`
	// RequiredRoles lists roles every team must cover (e.g. "drive", "spot")
	RequiredRoles []string `mapstructure:"required_roles"`
}

// StintConfig controls stint plan generation
type StintConfig struct {
	// MaxStintMinutes is the comfort ceiling on stint length (default: 90)
	MaxStintMinutes int `mapstructure:"max_stint_minutes"`
	// FuelSafetyFactor scales the fuel-limited stint length, in (0, 1]
	FuelSafetyFactor float64 `mapstructure:"fuel_safety_factor"`
	// PitServiceMinutes is the service window reserved at stint boundaries
	PitServiceMinutes int `mapstructure:"pit_service_minutes"`
	// FuelReserveLiters is added to every stint's fuel load, capped at tank size
	FuelReserveLiters float64 `mapstructure:"fuel_reserve_liters"`
}

// SessionConfig controls collaborative editing sessions
type SessionConfig struct {
	// HeartbeatIntervalSeconds is how often members announce liveness (default: 5)
	HeartbeatIntervalSeconds int `mapstructure:"heartbeat_interval_seconds"`
	// IdleTimeoutSeconds demotes a silent member to idle (default: 30)
	IdleTimeoutSeconds int `mapstructure:"idle_timeout_seconds"`
	// EvictTimeoutSeconds removes a silent member from the presence view (default: 120)
	EvictTimeoutSeconds int `mapstructure:"evict_timeout_seconds"`
	// HistoryLimit caps the undo stack depth; 0 means unlimited (default: 100)
	HistoryLimit int `mapstructure:"history_limit"`
}

// HeartbeatInterval returns the heartbeat interval as a time.Duration
func (c *SessionConfig) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatIntervalSeconds) * time.Second
}

// IdleTimeout returns the idle timeout as a time.Duration
func (c *SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// EvictTimeout returns the evict timeout as a time.Duration
func (c *SessionConfig) EvictTimeout() time.Duration {
	return time.Duration(c.EvictTimeoutSeconds) * time.Second
}

// LoggingConfig controls engine logging
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the log directory; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// PathsConfig controls where the engine stores data
type PathsConfig struct {
	// PlanDir is the directory where stint plans are persisted.
	// If empty, defaults to ".simlane/plans" relative to the working
	// directory. Supports ~ for home directory expansion.
	PlanDir string `mapstructure:"plan_dir"`
}

// ResolvePlanDir returns the resolved plan directory path.
// If PlanDir is empty, it returns the default path relative to baseDir.
// If PlanDir starts with ~, it expands to the user's home directory.
// If PlanDir is a relative path, it's resolved relative to baseDir.
func (p *PathsConfig) ResolvePlanDir(baseDir string) string {
	if p.PlanDir == "" {
		return filepath.Join(baseDir, ".simlane", "plans")
	}

	path := p.PlanDir

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Allocation: AllocationConfig{
			Strategy:      "skill-balanced",
			TeamCount:     2,
			TeamSize:      0, // divide the pool evenly
			Seed:          0,
			MinTeams:      2,
			MinTeamSize:   1,
			MaxTeamSize:   0, // no cap
			RequiredRoles: []string{},
		},
		Stint: StintConfig{
			MaxStintMinutes:   90,
			FuelSafetyFactor:  0.9,
			PitServiceMinutes: 3,
			FuelReserveLiters: 2.0,
		},
		Session: SessionConfig{
			HeartbeatIntervalSeconds: 5,
			IdleTimeoutSeconds:       30,
			EvictTimeoutSeconds:      120,
			HistoryLimit:             100,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
		Paths: PathsConfig{
			PlanDir: "", // Empty means use default: .simlane/plans
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Allocation defaults
	viper.SetDefault("allocation.strategy", defaults.Allocation.Strategy)
	viper.SetDefault("allocation.team_count", defaults.Allocation.TeamCount)
	viper.SetDefault("allocation.team_size", defaults.Allocation.TeamSize)
	viper.SetDefault("allocation.seed", defaults.Allocation.Seed)
	viper.SetDefault("allocation.min_teams", defaults.Allocation.MinTeams)
	viper.SetDefault("allocation.min_team_size", defaults.Allocation.MinTeamSize)
	viper.SetDefault("allocation.max_team_size", defaults.Allocation.MaxTeamSize)
	viper.SetDefault("allocation.required_roles", defaults.Allocation.RequiredRoles)

	// Stint defaults
	viper.SetDefault("stint.max_stint_minutes", defaults.Stint.MaxStintMinutes)
	viper.SetDefault("stint.fuel_safety_factor", defaults.Stint.FuelSafetyFactor)
	viper.SetDefault("stint.pit_service_minutes", defaults.Stint.PitServiceMinutes)
	viper.SetDefault("stint.fuel_reserve_liters", defaults.Stint.FuelReserveLiters)

	// Session defaults
	viper.SetDefault("session.heartbeat_interval_seconds", defaults.Session.HeartbeatIntervalSeconds)
	viper.SetDefault("session.idle_timeout_seconds", defaults.Session.IdleTimeoutSeconds)
	viper.SetDefault("session.evict_timeout_seconds", defaults.Session.EvictTimeoutSeconds)
	viper.SetDefault("session.history_limit", defaults.Session.HistoryLimit)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	// Paths defaults
	viper.SetDefault("paths.plan_dir", defaults.Paths.PlanDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "simlane")
	}
	// Fall back to ~/.config/simlane
	home, err := os.UserHomeDir()
	if err != nil {
		return ".simlane"
	}
	return filepath.Join(home, ".config", "simlane")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
