package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "hls.yaml", `
display: terminal
log:
  level: debug
rtc:
  update_spin_limit: 0
  binary_mode: true
  hour_offset: -2
power:
  reboot_delay: 10ms
  emulate_reset: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DisplayTerminal, cfg.Display)
	assert.Equal(t, PortsEmulated, cfg.Ports)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0, cfg.RTC.UpdateSpinLimit)
	assert.True(t, cfg.RTC.BinaryMode)
	assert.Equal(t, -2, cfg.RTC.HourOffset)
	assert.Equal(t, 10*time.Millisecond, cfg.Power.RebootDelay.Duration)
	assert.True(t, cfg.Power.EmulateACPI, "unset keys keep their defaults")
	assert.False(t, cfg.Power.EmulateReset)
	assert.Equal(t, 2, cfg.Window.Scale)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "hls.toml", `
ports = "devport"

[power]
reboot_delay = "1s"

[window]
scale = 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PortsDevPort, cfg.Ports)
	assert.Equal(t, time.Second, cfg.Power.RebootDelay.Duration)
	assert.Equal(t, 3, cfg.Window.Scale)
}

func TestLoad_ParseErrors(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "display: [unclosed"))
	assert.ErrorContains(t, err, "parse config file")

	_, err = Load(writeFile(t, "bad.toml", `[power]
reboot_delay = "soon"`))
	assert.ErrorContains(t, err, "parse config file")

	_, err = Load(writeFile(t, "hls.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "display", mutate: func(c *Config) { c.Display = "vga" }, field: "display"},
		{name: "ports", mutate: func(c *Config) { c.Ports = "serial" }, field: "ports"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "loud" }, field: "log.level"},
		{name: "spin limit", mutate: func(c *Config) { c.RTC.UpdateSpinLimit = -1 }, field: "rtc.update_spin_limit"},
		{name: "update every", mutate: func(c *Config) { c.RTC.UpdateEvery = -1 }, field: "rtc.update_every"},
		{name: "hour offset", mutate: func(c *Config) { c.RTC.HourOffset = 24 }, field: "rtc.hour_offset"},
		{name: "reboot delay", mutate: func(c *Config) { c.Power.RebootDelay.Duration = -time.Second }, field: "power.reboot_delay"},
		{name: "scale", mutate: func(c *Config) { c.Window.Scale = 9 }, field: "window.scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, cfg.Validate(), &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Contains(t, fieldErrs[0].Field, tt.field)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display = "x"
	cfg.Ports = "y"

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.Validate(), &fieldErrs)
	assert.Len(t, fieldErrs, 2)

	def := DefaultConfig()
	assert.NoError(t, def.Validate())
}
