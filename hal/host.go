package hal

import "io"

// Host screen geometry: an 80x25 text mode at 8x16 pixels per cell.
const (
	hostScreenWidth  = 640
	hostScreenHeight = 400
)

type hostHAL struct {
	ports   Ports
	fb      *hostFramebuffer
	kbd     *hostKeyboard
	console io.Writer
}

func newHostHAL(ports Ports) *hostHAL {
	return &hostHAL{
		ports: ports,
		kbd:   newHostKeyboard(),
	}
}

func (h *hostHAL) Ports() Ports      { return h.ports }
func (h *hostHAL) Display() Display  { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input      { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Console() io.Writer { return h.console }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer {
	if d.fb == nil {
		return nil
	}
	return d.fb
}

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

// ConsoleHAL is implemented by HALs that expose a text console instead of
// (or next to) a framebuffer.
type ConsoleHAL interface {
	HAL
	Console() io.Writer
}
