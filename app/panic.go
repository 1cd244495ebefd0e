package app

import (
	"fmt"

	"hls/kernel"
	"hls/vga"
)

// installPanicHandler prints the crash banner on the first fault. The kernel
// is halted afterwards; Step keeps presenting the banner.
func (a *App) installPanicHandler() {
	d := a.display
	a.k.SetPanicHandler(func(info kernel.PanicInfo) {
		a.log.Error().
			Str("fault", fmt.Sprint(info.Value)).
			Bytes("stack", info.Stack).
			Msg("kernel crashed")

		d.PrintColored(fmt.Sprintf("KERNEL CRASHED\n%v\n", info.Value), vga.Red, vga.Black)
	})
}
