// Package shell is the HighlightOS command shell: it reads completed lines,
// dispatches them to registered commands and reports their return codes.
package shell

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"hls/rtc"
	"hls/vga"
)

// Prompt is printed whenever the shell waits for a line.
const Prompt = "hls > "

// Display is the text output the shell and its commands draw on.
type Display interface {
	Print(s string)
	PrintColored(s string, fg, bg vga.Color)
	Clear()
	ChangeColor(fg, bg vga.Color)
}

// LineSource is the keyboard line buffer. A line is complete once Read ends
// with a newline.
type LineSource interface {
	Read() string
	Clear()
}

// Clock reads the wall-clock time.
type Clock interface {
	ReadDateTime() (rtc.DateTime, error)
}

// Power switches the machine off or resets it. Both only return on failure.
type Power interface {
	Shutdown()
	Reboot() (drained bool)
}

// Config holds what a Shell is built from. Input, RTC and Power may be nil.
type Config struct {
	Display Display
	Input   LineSource
	History *History
	RTC     Clock
	Power   Power
	Logger  zerolog.Logger
}

// Shell is the application context handed to every command.
type Shell struct {
	display Display
	input   LineSource
	history *History
	rtc     Clock
	power   Power
	log     zerolog.Logger

	reg *registry
}

func New(cfg Config) (*Shell, error) {
	if cfg.Display == nil {
		return nil, fmt.Errorf("shell: display is required")
	}
	s := &Shell{
		display: cfg.Display,
		input:   cfg.Input,
		history: cfg.History,
		rtc:     cfg.RTC,
		power:   cfg.Power,
		log:     cfg.Logger,
	}
	if s.history == nil {
		s.history = NewHistory()
	}
	if err := s.initRegistry(); err != nil {
		return nil, err
	}
	return s, nil
}

// History returns the shell's history log.
func (s *Shell) History() *History { return s.history }

// Prompt prints the prompt.
func (s *Shell) Prompt() {
	s.display.Print(Prompt)
}

// Poll dispatches the pending line if it is complete. The line buffer is
// cleared before dispatch so the next line can accumulate.
func (s *Shell) Poll() error {
	if s.input == nil {
		return nil
	}
	line := s.input.Read()
	if !strings.HasSuffix(line, "\n") {
		return nil
	}
	s.input.Clear()
	s.history.ResetCursor()
	return s.Dispatch(line)
}

// Dispatch runs one submitted line. A non-nil error is a fault returned by
// the command; the shell then prints nothing further.
func (s *Shell) Dispatch(raw string) error {
	line := strings.TrimSuffix(raw, "\n")
	if line == "" {
		s.Prompt()
		return nil
	}

	tokens := strings.Split(line, " ")
	name := tokens[0]

	cmd, ok := s.reg.resolve(name)
	if !ok {
		s.log.Debug().Str("line", line).Msg("command not found")
		s.display.PrintColored("\n > hls: command not found: "+line+"\n", vga.LightRed, vga.Black)
	} else {
		s.display.Print("\n")
		code, err := cmd.Run(s, tokens[1:])
		if err != nil {
			s.log.Error().Err(err).Str("cmd", name).Msg("command faulted")
			return err
		}
		s.report(name, code)
	}

	s.history.Record(line)
	s.Prompt()
	return nil
}

func (s *Shell) report(name string, code int) {
	ev := s.log.Debug().Str("cmd", name).Int("code", code)
	if code == CodeSelfRendered {
		ev.Msg("dispatched")
		return
	}

	rc, ok := Classify(code)
	if !ok {
		ev.Msg("dispatched")
		s.display.Print(fmt.Sprintf("\n > %s\nreturned : %d\n\n", name, code))
		return
	}
	ev.Str("status", rc.Message).Msg("dispatched")
	s.display.Print("\n > " + name + "\n")
	s.display.PrintColored(fmt.Sprintf("%d:%s\n\n", rc.Code, rc.Message), rc.Color, vga.Black)
}

func (s *Shell) println(str string) {
	s.display.Print(str + "\n")
}

func (s *Shell) printError(str string) {
	s.display.PrintColored(str, vga.LightRed, vga.Black)
}
