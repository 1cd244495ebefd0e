//go:build !linux

package hal

import "fmt"

// DevPorts is only available on linux.
type DevPorts struct{}

func OpenDevPorts() (*DevPorts, error) {
	return nil, fmt.Errorf("/dev/port: %w", ErrNotImplemented)
}

func (p *DevPorts) In8(uint16) uint8     { return 0xFF }
func (p *DevPorts) Out8(uint16, uint8)   {}
func (p *DevPorts) Out16(uint16, uint16) {}
func (p *DevPorts) Err() error           { return ErrNotImplemented }
func (p *DevPorts) Close() error         { return nil }
