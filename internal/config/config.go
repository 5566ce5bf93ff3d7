// Package config loads and saves tburn's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/tburn/internal/model"
)

// Environment overrides, applied after the file is read.
const (
	EnvLedger     = "TBURN_LEDGER"
	EnvLogLevel   = "TBURN_LOG_LEVEL"
	EnvDaemonAddr = "TBURN_DAEMON_ADDR"
)

// Config holds all tburn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Profile    ProfileConfig    `toml:"profile"`
	Storage    StorageConfig    `toml:"storage"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
}

// ProfileConfig is the user's financial profile. Rates are percentages.
type ProfileConfig struct {
	Age                  float64   `toml:"age"`
	Salary               float64   `toml:"salary"`
	TargetRetireAge      float64   `toml:"target_retire_age"`
	CurrentSavings       float64   `toml:"current_savings"`
	MonthlySavings       float64   `toml:"monthly_savings"`
	InflationRate        float64   `toml:"inflation_rate"`
	ROIRate              float64   `toml:"roi_rate"`
	TargetRetirementFund *float64  `toml:"target_retirement_fund,omitempty"`
	CreatedAt            time.Time `toml:"created_at,omitempty"`
	TrajectoryStart      time.Time `toml:"trajectory_start,omitempty"`
}

// StorageConfig locates the ledger database.
type StorageConfig struct {
	Ledger string `toml:"ledger,omitempty"`
}

// DaemonConfig holds the background service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	PollSeconds  int    `toml:"poll_seconds"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Profile: ProfileConfig{
			Age:             30,
			TargetRetireAge: 65,
			InflationRate:   3,
			ROIRate:         7,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			PollSeconds:  15,
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tburn")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tburn")
}

// LedgerPath returns the configured ledger path, or the default under
// DataDir.
func (c Config) LedgerPath() string {
	if c.Storage.Ledger != "" {
		return c.Storage.Ledger
	}
	return filepath.Join(DataDir(), "ledger.db")
}

// PollInterval is the daemon's ledger poll period.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Daemon.PollSeconds) * time.Second
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

// ApplyEnv loads a .env file from the working directory, if any, and lets
// TBURN_* variables override cfg.
func ApplyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(EnvLedger); v != "" {
		cfg.Storage.Ledger = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.General.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvDaemonAddr); v != "" {
		cfg.Daemon.Addr = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	p := c.Profile
	if p.Age <= 0 {
		errs = append(errs, fmt.Errorf("profile.age must be positive, got %g", p.Age))
	}
	if p.TargetRetireAge <= p.Age {
		errs = append(errs, fmt.Errorf("profile.target_retire_age (%g) must exceed age (%g)", p.TargetRetireAge, p.Age))
	}
	if p.Salary < 0 {
		errs = append(errs, fmt.Errorf("profile.salary must not be negative, got %g", p.Salary))
	}
	if p.CurrentSavings < 0 || p.MonthlySavings < 0 {
		errs = append(errs, errors.New("profile savings must not be negative"))
	}
	if p.InflationRate <= -100 || p.ROIRate <= -100 {
		errs = append(errs, errors.New("profile rates must be above -100%"))
	}
	if p.TargetRetirementFund != nil && *p.TargetRetirementFund < 0 {
		errs = append(errs, errors.New("profile.target_retirement_fund must not be negative"))
	}
	if c.Daemon.PollSeconds <= 0 {
		errs = append(errs, fmt.Errorf("daemon.poll_seconds must be positive, got %d", c.Daemon.PollSeconds))
	}
	if c.Daemon.EventsBuffer <= 0 {
		errs = append(errs, fmt.Errorf("daemon.events_buffer must be positive, got %d", c.Daemon.EventsBuffer))
	}
	switch c.General.LogLevel {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, fmt.Errorf("general.log_level %q is not a known level", c.General.LogLevel))
	}
	return errors.Join(errs...)
}

// Params converts the profile into engine parameters.
func (p ProfileConfig) Params() model.Params {
	return model.Params{
		Age:                  p.Age,
		Salary:               p.Salary,
		TargetRetireAge:      p.TargetRetireAge,
		CurrentSavings:       p.CurrentSavings,
		MonthlySavings:       p.MonthlySavings,
		InflationRate:        p.InflationRate,
		ROIRate:              p.ROIRate,
		TargetRetirementFund: p.TargetRetirementFund,
		CreatedAt:            p.CreatedAt,
		TrajectoryStart:      p.TrajectoryStart,
	}
}
