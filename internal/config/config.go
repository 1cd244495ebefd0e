// Package config handles configuration loading and validation for hls.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Display runners.
const (
	DisplayWindow   = "window"
	DisplayTerminal = "terminal"
)

// Port buses.
const (
	PortsEmulated = "emulated"
	PortsDevPort  = "devport"
)

// Config holds the application configuration.
type Config struct {
	Display string       `yaml:"display" toml:"display"`
	Ports   string       `yaml:"ports" toml:"ports"`
	Log     LogConfig    `yaml:"log" toml:"log"`
	RTC     RTCConfig    `yaml:"rtc" toml:"rtc"`
	Power   PowerConfig  `yaml:"power" toml:"power"`
	Window  WindowConfig `yaml:"window" toml:"window"`
}

// LogConfig selects the log level and destination file.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// RTCConfig tunes the RTC driver and the emulated CMOS clock.
type RTCConfig struct {
	// UpdateSpinLimit bounds the update-in-progress wait. 0 waits forever.
	UpdateSpinLimit int  `yaml:"update_spin_limit" toml:"update_spin_limit"`
	BinaryMode      bool `yaml:"binary_mode" toml:"binary_mode"`
	HourOffset      int  `yaml:"hour_offset" toml:"hour_offset"`
	// UpdateEvery pulses update-in-progress on every Nth status read.
	UpdateEvery int `yaml:"update_every" toml:"update_every"`
}

// PowerConfig tunes reboot timing and what the emulated machine honors.
type PowerConfig struct {
	RebootDelay  Duration `yaml:"reboot_delay" toml:"reboot_delay"`
	EmulateACPI  bool     `yaml:"emulate_acpi" toml:"emulate_acpi"`
	EmulateReset bool     `yaml:"emulate_reset" toml:"emulate_reset"`
}

type WindowConfig struct {
	Scale int `yaml:"scale" toml:"scale"`
}

// Duration is a time.Duration written as a string ("50ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Display: DisplayWindow,
		Ports:   PortsEmulated,
		Log:     LogConfig{Level: "info"},
		RTC:     RTCConfig{UpdateSpinLimit: 1_000_000, UpdateEvery: 64},
		Power: PowerConfig{
			RebootDelay:  Duration{50 * time.Millisecond},
			EmulateACPI:  true,
			EmulateReset: true,
		},
		Window: WindowConfig{Scale: 2},
	}
}

// Load reads the configuration file at configPath over the defaults. A missing
// file is not an error. The format follows the extension: .toml is TOML,
// anything else YAML.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := unmarshal(configPath, data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// applyDefaults fills fields whose zero value is not meaningful.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Display == "" {
		c.Display = defaults.Display
	}
	if c.Ports == "" {
		c.Ports = defaults.Ports
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Window.Scale == 0 {
		c.Window.Scale = defaults.Window.Scale
	}
}
