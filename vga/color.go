// Package vga is the text-mode display: a 16-color palette, an 80x25 cell
// buffer and the renderers that put it on a framebuffer or a terminal.
package vga

import "image/color"

// Color is a VGA text-mode palette index.
type Color uint8

const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	Pink
	Yellow
	White
)

var palette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0x00, 0x00, 0xAA, 0xFF},
	{0x00, 0xAA, 0x00, 0xFF},
	{0x00, 0xAA, 0xAA, 0xFF},
	{0xAA, 0x00, 0x00, 0xFF},
	{0xAA, 0x00, 0xAA, 0xFF},
	{0xAA, 0x55, 0x00, 0xFF},
	{0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x55, 0x55, 0xFF},
	{0x55, 0x55, 0xFF, 0xFF},
	{0x55, 0xFF, 0x55, 0xFF},
	{0x55, 0xFF, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55, 0xFF},
	{0xFF, 0x55, 0xFF, 0xFF},
	{0xFF, 0xFF, 0x55, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
}

// ansiIndex maps VGA order onto the ANSI 16-color order (red and blue swap places).
var ansiIndex = [16]uint8{0, 4, 2, 6, 1, 5, 3, 7, 8, 12, 10, 14, 9, 13, 11, 15}

// RGBA returns the palette color.
func (c Color) RGBA() color.RGBA { return palette[c&0x0F] }

// ANSI returns the ANSI 16-color index.
func (c Color) ANSI() uint8 { return ansiIndex[c&0x0F] }

func (c Color) String() string {
	if int(c) < len(NamedColors) {
		return NamedColors[c].Name
	}
	return "unknown"
}

// NamedColor is a color name accepted on the command line.
type NamedColor struct {
	Name  string
	Color Color
}

// NamedColors is the fixed set of color names, in palette order.
var NamedColors = []NamedColor{
	{Name: "black", Color: Black},
	{Name: "blue", Color: Blue},
	{Name: "green", Color: Green},
	{Name: "cyan", Color: Cyan},
	{Name: "red", Color: Red},
	{Name: "magenta", Color: Magenta},
	{Name: "brown", Color: Brown},
	{Name: "lightgray", Color: LightGray},
	{Name: "darkgray", Color: DarkGray},
	{Name: "lightblue", Color: LightBlue},
	{Name: "lightgreen", Color: LightGreen},
	{Name: "lightcyan", Color: LightCyan},
	{Name: "lightred", Color: LightRed},
	{Name: "pink", Color: Pink},
	{Name: "yellow", Color: Yellow},
	{Name: "white", Color: White},
}

// ColorByName looks up an exact (case-sensitive) color name.
func ColorByName(name string) (Color, bool) {
	for _, nc := range NamedColors {
		if nc.Name == name {
			return nc.Color, true
		}
	}
	return 0, false
}
