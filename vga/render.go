package vga

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"hls/hal"
)

// Font metrics for proggy TinySZ8pt7b inside a cell.
const (
	fontBaseline = int16(11)
)

var cellFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// Renderer draws a Writer onto an RGB565 framebuffer, one glyph per cell.
type Renderer struct {
	w  *Writer
	fb hal.Framebuffer
	d  *fbDisplay

	cellW, cellH int16

	drawn   uint64
	primed  bool
	current Screen
	last    Screen
}

// NewRenderer sizes cells so the 80x25 grid fills fb.
func NewRenderer(w *Writer, fb hal.Framebuffer) *Renderer {
	r := &Renderer{w: w, fb: fb, d: newFBDisplay(fb)}
	if fb != nil {
		r.cellW = int16(fb.Width() / Width)
		r.cellH = int16(fb.Height() / Height)
	}
	return r
}

// Render redraws the cells that changed since the last call and presents the
// frame. It reports whether anything was drawn.
func (r *Renderer) Render() (bool, error) {
	if r.fb == nil || r.cellW <= 0 || r.cellH <= 0 {
		return false, nil
	}

	gen := r.w.Snapshot(&r.current)
	if r.primed && gen == r.drawn {
		return false, nil
	}

	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			c := r.current.Cells[row][col]
			if r.primed && c == r.last.Cells[row][col] && !r.cursorMoved(row, col) {
				continue
			}
			r.drawCell(row, col, c)
		}
	}
	r.drawCursor()

	r.last = r.current
	r.drawn = gen
	r.primed = true
	return true, r.d.Display()
}

// cursorMoved reports whether the cell held the cursor in either frame.
func (r *Renderer) cursorMoved(row, col int) bool {
	if row != Height-1 || r.current.Column == r.last.Column {
		return false
	}
	return col == r.current.Column || col == r.last.Column
}

func (r *Renderer) drawCell(row, col int, c Cell) {
	x := int16(col) * r.cellW
	y := int16(row) * r.cellH
	_ = r.d.FillRectangle(x, y, r.cellW, r.cellH, c.Bg.RGBA())
	if c.Char == ' ' || c.Char == 0 {
		return
	}
	tinyfont.DrawChar(r.d, cellFont, x+1, y+fontBaseline, c.Char, c.Fg.RGBA())
}

func (r *Renderer) drawCursor() {
	col := r.current.Column
	if col >= Width {
		col = Width - 1
	}
	c := r.current.Cells[Height-1][col]
	x := int16(col) * r.cellW
	y := int16(Height-1)*r.cellH + r.cellH - 2
	_ = r.d.FillRectangle(x, y, r.cellW, 2, c.Fg.RGBA())
}

// fbDisplay adapts a framebuffer to drivers.Displayer for tinyfont.
type fbDisplay struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{fb: fb}
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}

	pixel := hal.RGB565(c)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := d.fb.Buffer()
	w, h := d.fb.Width(), d.fb.Height()

	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := hal.RGB565(c)
	lo, hi := byte(pixel), byte(pixel>>8)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
