// Package power drives the legacy power-off and reset paths of a PC.
package power

import (
	"time"

	"github.com/rs/zerolog"

	"hls/hal"
)

const (
	kbcPort          uint16 = 0x64
	kbcInputFull     uint8  = 0x02
	kbcPulseReset    uint8  = 0xFE
	kbcWaitPollLimit        = 10000

	// DefaultRebootDelay is how long Reboot waits for the reset to take effect.
	DefaultRebootDelay = 50 * time.Millisecond
)

// Sequence is one port write that powers off a particular machine.
type Sequence struct {
	Name  string
	Port  uint16
	Value uint16
}

// ShutdownSequences are tried in order; the first one the machine honors
// never returns.
var ShutdownSequences = []Sequence{
	{Name: "acpi-pm1a", Port: 0x604, Value: 0x2000},
	{Name: "qemu", Port: 0x604, Value: 0x2000},
	{Name: "bochs", Port: 0xB004, Value: 0x2000},
	{Name: "virtualbox", Port: 0x4004, Value: 0x3400},
}

// Controller issues power sequences on a port bus.
type Controller struct {
	ports       hal.Ports
	rebootDelay time.Duration
	sleep       func(time.Duration)
	log         zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithRebootDelay sets the wait after the reset pulse.
func WithRebootDelay(d time.Duration) Option {
	return func(c *Controller) { c.rebootDelay = d }
}

// WithSleep replaces time.Sleep (tests).
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Controller) { c.sleep = fn }
}

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func New(ports hal.Ports, opts ...Option) *Controller {
	c := &Controller{
		ports:       ports,
		rebootDelay: DefaultRebootDelay,
		sleep:       time.Sleep,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Shutdown writes every known power-off sequence. It only returns if none of
// them took effect.
func (c *Controller) Shutdown() {
	for _, seq := range ShutdownSequences {
		c.log.Debug().Str("method", seq.Name).Uint16("port", seq.Port).Msg("power-off write")
		c.ports.Out16(seq.Port, seq.Value)
	}
	c.log.Warn().Msg("no power-off sequence took effect")
}

// Reboot pulses the reset line through the keyboard controller after its
// input buffer drains (bounded at 10000 polls), then waits the reboot delay.
// It only returns if the machine did not reset. drained reports whether the
// input buffer emptied before the pulse.
func (c *Controller) Reboot() (drained bool) {
	for i := 0; i < kbcWaitPollLimit; i++ {
		if c.ports.In8(kbcPort)&kbcInputFull == 0 {
			drained = true
			break
		}
	}
	if !drained {
		c.log.Warn().Msg("keyboard controller input buffer still full; pulsing reset anyway")
	}

	c.ports.Out8(kbcPort, kbcPulseReset)
	if c.rebootDelay > 0 {
		c.sleep(c.rebootDelay)
	}
	c.log.Warn().Msg("reset pulse did not take effect")
	return drained
}
