package hal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// TerminalConfig controls the terminal runner.
type TerminalConfig struct {
	// In and Out default to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer

	// Hz is the step rate. Defaults to 60.
	Hz int
}

var errInterrupted = errors.New("terminal: interrupted")

// RunTerminal runs the OS on a text terminal: keystrokes come from In (raw
// mode when In is a tty) and the text console is Out. It returns nil when
// the input ends or Ctrl-C is pressed; ErrPoweredOff and step errors are
// returned as-is.
func RunTerminal(ctx context.Context, ports Ports, cfg TerminalConfig, newApp func(HAL) func() error) error {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	period := time.Second / time.Duration(cfg.Hz)
	if period <= 0 {
		return fmt.Errorf("invalid terminal hz: %d", cfg.Hz)
	}

	h := newHostHAL(ports)
	h.console = cfg.Out

	if f, ok := cfg.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("terminal raw mode: %w", err)
		}
		defer func() { _ = term.Restore(int(f.Fd()), state) }()
		h.console = crlfWriter{w: cfg.Out}
	}

	step := newApp(h)

	// The reader blocks in Read and cannot observe ctx; it exits on EOF.
	chunks := make(chan []byte, 16)
	go readChunks(cfg.In, chunks)

	inputDone := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(inputDone)
		return pumpKeys(ctx, chunks, h.kbd.ch)
	})

	g.Go(func() error {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}

			select {
			case <-inputDone:
				// Drain what the input left behind while steps consume it,
				// then stop.
				for n := len(h.kbd.ch); n > 0; {
					if err := runStep(step); err != nil {
						return err
					}
					left := len(h.kbd.ch)
					if left >= n {
						break
					}
					n = left
				}
				return runStep(step)
			default:
			}

			if err := runStep(step); err != nil {
				return err
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, errInterrupted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runStep(step func() error) error {
	if step == nil {
		return nil
	}
	return step()
}

func readChunks(r io.Reader, out chan<- []byte) {
	defer close(out)
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out <- bytes.Clone(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func pumpKeys(ctx context.Context, chunks <-chan []byte, out chan<- KeyEvent) error {
	var pending []byte
	for {
		var chunk []byte
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok = <-chunks:
		}
		if !ok {
			return nil
		}

		events, rest, interrupt := decodeTerminalKeys(append(pending, chunk...))
		pending = append(pending[:0], rest...)
		for _, ev := range events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if interrupt {
			return errInterrupted
		}
	}
}

// crlfWriter restores carriage returns that raw mode no longer adds.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
