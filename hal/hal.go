package hal

import "errors"

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrPoweredOff is reported by a runner after the machine accepted a power-off sequence.
	ErrPoweredOff = errors.New("machine powered off")

	// ErrReset is reported by a runner after the machine accepted a reset pulse.
	ErrReset = errors.New("machine reset")
)

// Ports is x86-style port I/O.
//
// It is the only path to hardware registers (CMOS, 8042, ACPI). Implementations
// perform no locking; callers serialize access to a device.
type Ports interface {
	In8(port uint16) uint8
	Out8(port uint16, v uint8)
	Out16(port uint16, v uint16)
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Ports() Ports
	Display() Display
	Input() Input
}
