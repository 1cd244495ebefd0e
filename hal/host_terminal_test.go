package hal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func collectKeys(h HAL, out *[]KeyEvent) func() error {
	return func() error {
		ch := h.Input().Keyboard().Events()
		for {
			select {
			case ev := <-ch:
				*out = append(*out, ev)
			default:
				return nil
			}
		}
	}
}

func TestRunTerminal_StopsAtEndOfInput(t *testing.T) {
	defer goleak.VerifyNone(t)

	var got []KeyEvent
	var console io.Writer
	var out bytes.Buffer

	err := RunTerminal(context.Background(), NewMachine(MachineConfig{}), TerminalConfig{
		In:  strings.NewReader("ok\n"),
		Out: &out,
		Hz:  1000,
	}, func(h HAL) func() error {
		console = h.(ConsoleHAL).Console()
		return collectKeys(h, &got)
	})

	require.NoError(t, err)
	assert.Same(t, &out, console)
	assert.Equal(t, []KeyEvent{
		{Press: true, Rune: 'o'},
		{Press: true, Rune: 'k'},
		{Code: KeyEnter, Press: true},
	}, got)
}

func TestRunTerminal_InterruptIsCleanExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	err := RunTerminal(context.Background(), NewMachine(MachineConfig{}), TerminalConfig{
		In:  strings.NewReader("a\x03"),
		Out: io.Discard,
		Hz:  1000,
	}, func(h HAL) func() error {
		var sink []KeyEvent
		return collectKeys(h, &sink)
	})
	require.NoError(t, err)
}

func TestRunTerminal_EndsWhenStepsIgnoreKeys(t *testing.T) {
	defer goleak.VerifyNone(t)

	done := make(chan error, 1)
	go func() {
		done <- RunTerminal(context.Background(), NewMachine(MachineConfig{}), TerminalConfig{
			In:  strings.NewReader("help\ntest\n"),
			Out: io.Discard,
			Hz:  1000,
		}, func(HAL) func() error {
			// A halted system leaves its keys queued.
			return func() error { return nil }
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner kept stepping after end of input")
	}
}

func TestRunTerminal_ReturnsStepError(t *testing.T) {
	defer goleak.VerifyNone(t)

	pr, pw := io.Pipe()
	defer pw.Close()

	err := RunTerminal(context.Background(), NewMachine(MachineConfig{}), TerminalConfig{
		In:  pr,
		Out: io.Discard,
		Hz:  1000,
	}, func(HAL) func() error {
		return func() error { return ErrPoweredOff }
	})
	assert.True(t, errors.Is(err, ErrPoweredOff))

	// Unblock the reader goroutine.
	require.NoError(t, pw.Close())
	goleak.VerifyNone(t)
}

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := crlfWriter{w: &buf}.Write([]byte("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "a\r\nb\r\n", buf.String())
}
