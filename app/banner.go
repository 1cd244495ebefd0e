package app

import (
	"hls/internal/buildinfo"
	"hls/vga"
)

const docsURL = "https://os.adamperkowski.dev"

var stripColors = []vga.Color{
	vga.Blue, vga.Pink, vga.Red, vga.Green, vga.Yellow, vga.LightBlue,
	vga.Magenta, vga.Cyan, vga.Brown, vga.Blue, vga.Blue,
}

func (a *App) printBanner() {
	d := a.display
	if buildinfo.Debug {
		d.Print("Initializing...\n\n")
		d.PrintColored("\nHighlightOS v"+buildinfo.Version+" *DEBUG*", vga.Black, vga.Yellow)
	} else {
		d.PrintColored("\n                 HighlightOS v"+buildinfo.Version, vga.Black, vga.Yellow)
	}
	d.PrintColored("\n Documentation: "+docsURL, vga.Cyan, vga.Black)

	for i, c := range stripColors {
		s := "aA"
		if i == 0 {
			s = "\n" + s
		}
		d.PrintColored(s, c, c)
	}

	d.Print("\n\n")
	a.sh.Prompt()
}
