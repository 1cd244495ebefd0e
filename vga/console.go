package vga

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	ansiClear     = "\x1b[2J\x1b[H"
	ansiBackspace = "\b \b"
)

// Console streams the text display to an ANSI terminal. It has the same
// surface as Writer but keeps no cell buffer: the terminal is the buffer.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	r      *lipgloss.Renderer
	fg, bg Color
}

// NewConsole renders on out, detecting color support from it.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, r: lipgloss.NewRenderer(out), fg: White, bg: Black}
}

func (c *Console) Print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write(s, c.fg, c.bg)
}

func (c *Console) PrintColored(s string, fg, bg Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write(s, fg, bg)
}

// Clear erases the terminal in the current background color.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	bg := c.r.ColorProfile().Color(strconv.Itoa(int(c.bg.ANSI())))
	if seq := bg.Sequence(true); seq != "" {
		_, _ = io.WriteString(c.out, termenv.CSI+seq+"m")
	}
	_, _ = io.WriteString(c.out, ansiClear)
}

func (c *Console) ChangeColor(fg, bg Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fg, c.bg = fg, bg
}

func (c *Console) Colors() (fg, bg Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fg, c.bg
}

func (c *Console) Backspace() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, ansiBackspace)
}

// write styles each line separately; lipgloss pads multi-line blocks to a
// common width, which a stream must not do.
func (c *Console) write(s string, fg, bg Color) {
	style := c.r.NewStyle().
		Foreground(lipgloss.Color(strconv.Itoa(int(fg.ANSI())))).
		Background(lipgloss.Color(strconv.Itoa(int(bg.ANSI()))))

	lines := strings.Split(s, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if line != "" {
			b.WriteString(style.Render(line))
		}
	}
	_, _ = io.WriteString(c.out, b.String())
}
