// Package keyboard accumulates key events into the line the shell reads.
package keyboard

import (
	"strings"
	"sync"

	"hls/hal"
)

// Echo is where typed characters are shown.
type Echo interface {
	Print(s string)
	Backspace()
}

// Recaller supplies history entries for arrow up/down.
type Recaller interface {
	Previous() (string, bool)
	Next() (string, bool)
}

// Buffer is the line being typed. A line is complete once it ends with the
// newline marker; the consumer reads it and then clears the buffer.
type Buffer struct {
	mu     sync.Mutex
	line   []rune
	echo   Echo
	recall Recaller
}

// NewBuffer returns an empty line buffer. recall may be nil.
func NewBuffer(echo Echo, recall Recaller) *Buffer {
	return &Buffer{echo: echo, recall: recall}
}

// Feed applies one key event. Releases are ignored.
func (b *Buffer) Feed(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.complete() {
		// The previous line has not been consumed yet.
		return
	}

	switch ev.Code {
	case hal.KeyEnter:
		b.line = append(b.line, '\n')
		b.print("\n")
	case hal.KeyBackspace:
		if len(b.line) > 0 {
			b.line = b.line[:len(b.line)-1]
			if b.echo != nil {
				b.echo.Backspace()
			}
		}
	case hal.KeyUp:
		if b.recall != nil {
			if s, ok := b.recall.Previous(); ok {
				b.replace(s)
			}
		}
	case hal.KeyDown:
		if b.recall != nil {
			if s, ok := b.recall.Next(); ok {
				b.replace(s)
			}
		}
	case hal.KeyUnknown:
		if ev.Rune >= 0x20 && ev.Rune != 0x7f {
			b.line = append(b.line, ev.Rune)
			b.print(string(ev.Rune))
		}
	}
}

// Read returns the buffer contents, including the trailing newline once the
// line is complete.
func (b *Buffer) Read() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.line)
}

// Clear empties the buffer so the next line can accumulate.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.line = b.line[:0]
}

func (b *Buffer) complete() bool {
	return len(b.line) > 0 && b.line[len(b.line)-1] == '\n'
}

func (b *Buffer) replace(s string) {
	if b.echo != nil {
		for range b.line {
			b.echo.Backspace()
		}
	}
	b.line = append(b.line[:0], []rune(strings.TrimSuffix(s, "\n"))...)
	b.print(string(b.line))
}

func (b *Buffer) print(s string) {
	if b.echo != nil && s != "" {
		b.echo.Print(s)
	}
}
