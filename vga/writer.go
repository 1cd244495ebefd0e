package vga

import "sync"

// Text-mode geometry.
const (
	Width  = 80
	Height = 25
)

// Cell is one character position of the text buffer.
type Cell struct {
	Char rune
	Fg   Color
	Bg   Color
}

// Screen is a copy of the whole text buffer plus the cursor column on the
// bottom row, where all output is written.
type Screen struct {
	Cells  [Height][Width]Cell
	Column int
}

// Writer is the text buffer. Output always lands on the bottom row; a
// newline (or a full row) scrolls everything up by one.
//
// Every method takes the display lock and releases it on return, so the
// crash banner can be drawn from whatever goroutine faulted.
type Writer struct {
	mu     sync.Mutex
	screen Screen
	fg, bg Color
	gen    uint64
}

// NewWriter returns a cleared buffer in white on black.
func NewWriter() *Writer {
	w := &Writer{fg: White, bg: Black}
	w.clear()
	return w
}

// Print writes s in the current colors.
func (w *Writer) Print(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.write(s, w.fg, w.bg)
}

// PrintColored writes s in the given colors without changing the current ones.
func (w *Writer) PrintColored(s string, fg, bg Color) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.write(s, fg, bg)
}

// Clear blanks the buffer in the current background color.
func (w *Writer) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clear()
}

// ChangeColor sets the colors used by Print and Clear.
func (w *Writer) ChangeColor(fg, bg Color) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fg, w.bg = fg, bg
	w.gen++
}

// Colors returns the current foreground and background.
func (w *Writer) Colors() (fg, bg Color) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fg, w.bg
}

// Backspace erases the character left of the cursor on the bottom row.
func (w *Writer) Backspace() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.screen.Column == 0 {
		return
	}
	w.screen.Column--
	w.screen.Cells[Height-1][w.screen.Column] = Cell{Char: ' ', Fg: w.fg, Bg: w.bg}
	w.gen++
}

// Snapshot copies the buffer into dst and returns its generation, which
// changes whenever the contents or colors do.
func (w *Writer) Snapshot(dst *Screen) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	*dst = w.screen
	return w.gen
}

// Generation returns the current generation without copying.
func (w *Writer) Generation() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gen
}

// Lines returns the buffer rows as text with trailing blanks trimmed.
func (w *Writer) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, Height)
	for row := range w.screen.Cells {
		runes := make([]rune, 0, Width)
		for _, c := range w.screen.Cells[row] {
			runes = append(runes, c.Char)
		}
		end := len(runes)
		for end > 0 && runes[end-1] == ' ' {
			end--
		}
		out[row] = string(runes[:end])
	}
	return out
}

func (w *Writer) write(s string, fg, bg Color) {
	for _, r := range s {
		switch {
		case r == '\n':
			w.newLine()
		case r == '\r':
		case r == '\t':
			w.put(' ', fg, bg)
		case r < 0x20 || r == 0x7f:
			w.put('■', fg, bg)
		default:
			w.put(r, fg, bg)
		}
	}
	w.gen++
}

func (w *Writer) put(r rune, fg, bg Color) {
	if w.screen.Column >= Width {
		w.newLine()
	}
	w.screen.Cells[Height-1][w.screen.Column] = Cell{Char: r, Fg: fg, Bg: bg}
	w.screen.Column++
}

func (w *Writer) newLine() {
	copy(w.screen.Cells[:Height-1], w.screen.Cells[1:])
	w.blankRow(Height - 1)
	w.screen.Column = 0
}

func (w *Writer) blankRow(row int) {
	for col := range w.screen.Cells[row] {
		w.screen.Cells[row][col] = Cell{Char: ' ', Fg: w.fg, Bg: w.bg}
	}
}

func (w *Writer) clear() {
	for row := range w.screen.Cells {
		w.blankRow(row)
	}
	w.screen.Column = 0
	w.gen++
}
