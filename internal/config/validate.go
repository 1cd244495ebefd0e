package config

import (
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

const maxWindowScale = 8

// Validate checks every field and reports all problems at once as
// criterio.FieldErrors.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	switch c.Display {
	case DisplayWindow, DisplayTerminal:
	default:
		errs = errs.Append("display", fmt.Errorf("must be %q or %q, got %q", DisplayWindow, DisplayTerminal, c.Display))
	}

	switch c.Ports {
	case PortsEmulated, PortsDevPort:
	default:
		errs = errs.Append("ports", fmt.Errorf("must be %q or %q, got %q", PortsEmulated, PortsDevPort, c.Ports))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = errs.Append("log.level", err)
	}

	if c.RTC.UpdateSpinLimit < 0 {
		errs = errs.Append("rtc.update_spin_limit", fmt.Errorf("must not be negative"))
	}
	if c.RTC.UpdateEvery < 0 {
		errs = errs.Append("rtc.update_every", fmt.Errorf("must not be negative"))
	}
	if c.RTC.HourOffset < -23 || c.RTC.HourOffset > 23 {
		errs = errs.Append("rtc.hour_offset", fmt.Errorf("must be within -23..23"))
	}

	if c.Power.RebootDelay.Duration < 0 {
		errs = errs.Append("power.reboot_delay", fmt.Errorf("must not be negative"))
	}

	if c.Window.Scale < 1 || c.Window.Scale > maxWindowScale {
		errs = errs.Append("window.scale", fmt.Errorf("must be within 1..%d", maxWindowScale))
	}

	return errs.ToError()
}
