// Package app boots HighlightOS on a HAL: it builds the display, drivers and
// shell, and returns the step function the host runner calls every tick.
package app

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"hls/hal"
	"hls/internal/logutils"
	"hls/kernel"
	"hls/keyboard"
	"hls/power"
	"hls/rtc"
	"hls/shell"
	"hls/vga"
)

// Config is what the runner knows about the machine.
type Config struct {
	Logger zerolog.Logger

	// Events carries machine power-off and reset notifications. May be nil.
	Events <-chan error

	RTC   []rtc.Option
	Power []power.Option
}

type display interface {
	shell.Display
	Backspace()
}

// App is one running instance of the OS. A machine reset rebuilds it in place.
type App struct {
	h      hal.HAL
	cfg    Config
	log    zerolog.Logger
	events <-chan error

	k        *kernel.Kernel
	display  display
	writer   *vga.Writer
	renderer *vga.Renderer
	buf      *keyboard.Buffer
	sh       *shell.Shell
	boots    int
}

// New boots the OS and returns its step function. A boot failure is reported
// by the first step.
func New(h hal.HAL, cfg Config) func() error {
	a, err := Boot(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return a.Step
}

// Boot initializes the OS and prints the banner.
func Boot(h hal.HAL, cfg Config) (*App, error) {
	a := &App{
		h:      h,
		cfg:    cfg,
		log:    logutils.Component(cfg.Logger, "app"),
		events: cfg.Events,
	}
	if err := a.boot(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) boot() error {
	a.boots++
	a.k = kernel.New()
	a.writer, a.renderer = nil, nil

	var fb hal.Framebuffer
	if d := a.h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	switch {
	case fb != nil:
		a.writer = vga.NewWriter()
		a.renderer = vga.NewRenderer(a.writer, fb)
		a.display = a.writer
	case consoleOf(a.h) != nil:
		c := vga.NewConsole(consoleOf(a.h))
		if a.boots > 1 {
			c.Clear()
		}
		a.display = c
	default:
		a.writer = vga.NewWriter()
		a.display = a.writer
	}

	var (
		clock shell.Clock
		pwr   shell.Power
	)
	if ports := a.h.Ports(); ports != nil {
		clock = rtc.New(ports, a.cfg.RTC...)
		opts := append([]power.Option{power.WithLogger(logutils.Component(a.cfg.Logger, "power"))}, a.cfg.Power...)
		pwr = power.New(ports, opts...)
	}

	history := shell.NewHistory()
	a.buf = keyboard.NewBuffer(a.display, history)

	sh, err := shell.New(shell.Config{
		Display: a.display,
		Input:   a.buf,
		History: history,
		RTC:     clock,
		Power:   pwr,
		Logger:  logutils.Component(a.cfg.Logger, "shell"),
	})
	if err != nil {
		return err
	}
	a.sh = sh

	a.installPanicHandler()
	a.printBanner()
	a.log.Info().Int("boot", a.boots).Bool("framebuffer", fb != nil).Msg("system up")
	return nil
}

func consoleOf(h hal.HAL) io.Writer {
	ch, ok := h.(hal.ConsoleHAL)
	if !ok {
		return nil
	}
	if w := ch.Console(); w != nil {
		return w
	}
	return nil
}

// Step runs one iteration of the control loop: machine events, pending keys
// (dispatching each completed line) and rendering. After a fault keys are
// discarded unread. It returns hal.ErrPoweredOff once the machine is off.
func (a *App) Step() error {
	if err := a.machineEvent(); err != nil {
		return err
	}
	a.pumpKeys()
	if a.renderer != nil {
		if _, err := a.renderer.Render(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) machineEvent() error {
	select {
	case err, ok := <-a.events:
		if !ok {
			a.events = nil
			return nil
		}
		if errors.Is(err, hal.ErrReset) {
			a.log.Info().Msg("machine reset")
			return a.boot()
		}
		a.log.Info().Err(err).Msg("machine stopped")
		return err
	default:
		return nil
	}
}

// pumpKeys feeds queued key events into the line buffer and dispatches each
// line as soon as it completes, so lines typed ahead are not merged.
func (a *App) pumpKeys() {
	in := a.h.Input()
	if in == nil {
		return
	}
	kbd := in.Keyboard()
	if kbd == nil {
		return
	}

	for {
		select {
		case ev := <-kbd.Events():
			if a.k.InPanicMode() {
				continue
			}
			a.buf.Feed(ev)
			if !ev.Press || ev.Code != hal.KeyEnter {
				continue
			}
			if err := a.k.Guard(a.sh.Poll); err != nil {
				return
			}
			if len(a.events) > 0 {
				// Power-off or reset pending; handle it before more input.
				return
			}
		default:
			return
		}
	}
}

// Writer returns the text buffer, or nil when output goes to a console.
func (a *App) Writer() *vga.Writer { return a.writer }

// Shell returns the running shell.
func (a *App) Shell() *shell.Shell { return a.sh }

// Kernel returns the running kernel.
func (a *App) Kernel() *kernel.Kernel { return a.k }

// Boots counts boots including resets.
func (a *App) Boots() int { return a.boots }
