package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hls/app"
	"hls/hal"
	"hls/internal/buildinfo"
	"hls/internal/config"
	"hls/internal/logutils"
	"hls/power"
	"hls/rtc"
)

type rootOptions struct {
	configPath string
	display    string
	ports      string
	logLevel   string
	logFile    string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "hls",
		Short:         "HighlightOS shell",
		Long:          "hls boots the HighlightOS shell in a window or on the terminal,\non an emulated PC port bus or on the host's /dev/port.",
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	f.StringVar(&opts.display, "display", config.DisplayWindow, "display: window or terminal")
	f.StringVar(&opts.ports, "ports", config.PortsEmulated, "port bus: emulated or devport")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to this file")

	return cmd
}

// loadConfig reads the config file; flags given on the command line win.
func loadConfig(cmd *cobra.Command, opts rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("display") {
		cfg.Display = opts.display
	}
	if f.Changed("ports") {
		cfg.Ports = opts.ports
	}
	if f.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if f.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	// The terminal runner owns the tty; logs only go to a file there.
	var fallback io.Writer = os.Stderr
	if cfg.Display == config.DisplayTerminal {
		fallback = nil
	}
	log, closeLog, err := logutils.New(cfg.Log.Level, cfg.Log.File, fallback)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer closeLog()

	ports, events, closePorts, err := openPorts(cfg, log)
	if err != nil {
		return err
	}
	defer closePorts()

	appCfg := app.Config{
		Logger: log,
		Events: events,
		RTC:    []rtc.Option{rtc.WithUpdateSpinLimit(cfg.RTC.UpdateSpinLimit)},
		Power:  []power.Option{power.WithRebootDelay(cfg.Power.RebootDelay.Duration)},
	}
	newApp := func(h hal.HAL) func() error { return app.New(h, appCfg) }

	log.Info().
		Str("version", buildinfo.Short()).
		Str("display", cfg.Display).
		Str("ports", cfg.Ports).
		Msg("starting")

	switch cfg.Display {
	case config.DisplayTerminal:
		err = hal.RunTerminal(cmd.Context(), ports, hal.TerminalConfig{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
		}, newApp)
	default:
		err = hal.RunWindow(ports, hal.WindowConfig{Scale: cfg.Window.Scale}, newApp)
	}

	if errors.Is(err, hal.ErrPoweredOff) {
		log.Info().Msg("powered off")
		return nil
	}
	return err
}

func openPorts(cfg *config.Config, log zerolog.Logger) (hal.Ports, <-chan error, func(), error) {
	if cfg.Ports == config.PortsDevPort {
		p, err := hal.OpenDevPorts()
		if err != nil {
			return nil, nil, nil, err
		}
		return p, nil, func() {
			if err := p.Err(); err != nil {
				log.Warn().Err(err).Msg("port i/o errors")
			}
			_ = p.Close()
		}, nil
	}

	m := hal.NewMachine(hal.MachineConfig{
		BinaryRTC:   cfg.RTC.BinaryMode,
		HourOffset:  cfg.RTC.HourOffset,
		UpdateEvery: cfg.RTC.UpdateEvery,
		ACPI:        cfg.Power.EmulateACPI,
		Reset:       cfg.Power.EmulateReset,
	})
	return m, m.Events(), func() {}, nil
}
