//go:build linux

package hal

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
)

// DevPorts performs real port I/O through /dev/port (requires CAP_SYS_RAWIO).
//
// /dev/port issues one byte-wide access per file offset, so Out16 becomes two
// consecutive byte writes (low byte first).
type DevPorts struct {
	f *os.File

	mu  sync.Mutex
	err error
}

// OpenDevPorts opens /dev/port for reading and writing.
func OpenDevPorts() (*DevPorts, error) {
	f, err := os.OpenFile("/dev/port", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/port: %w", err)
	}
	return &DevPorts{f: f}, nil
}

func (p *DevPorts) In8(port uint16) uint8 {
	var b [1]byte
	if _, err := p.f.ReadAt(b[:], int64(port)); err != nil {
		p.record(fmt.Errorf("in8 %#x: %w", port, err))
	}
	return b[0]
}

func (p *DevPorts) Out8(port uint16, v uint8) {
	if _, err := p.f.WriteAt([]byte{v}, int64(port)); err != nil {
		p.record(fmt.Errorf("out8 %#x: %w", port, err))
	}
}

func (p *DevPorts) Out16(port uint16, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	if _, err := p.f.WriteAt(b[:], int64(port)); err != nil {
		p.record(fmt.Errorf("out16 %#x: %w", port, err))
	}
}

// Err returns the first I/O error seen, if any.
func (p *DevPorts) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *DevPorts) Close() error { return p.f.Close() }

func (p *DevPorts) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}
