// Package rtc reads wall-clock time from the CMOS real-time clock.
package rtc

import (
	"errors"
	"fmt"
	"sync"

	"hls/hal"
)

const (
	addrPort uint16 = 0x70
	dataPort uint16 = 0x71

	regSeconds uint8 = 0x00
	regMinutes uint8 = 0x02
	regHours   uint8 = 0x04
	regDay     uint8 = 0x07
	regMonth   uint8 = 0x08
	regYear    uint8 = 0x09
	regStatusA uint8 = 0x0A
	regStatusB uint8 = 0x0B

	statusAUpdating uint8 = 0x80
	statusBBinary   uint8 = 0x04
)

// DefaultUpdateSpinLimit bounds the update-in-progress wait. The hardware
// update cycle lasts under 2ms, far below this many status reads.
const DefaultUpdateSpinLimit = 1_000_000

var (
	// ErrNotInitialized is returned when there is no driver to read from.
	ErrNotInitialized = errors.New("RTC not initialized")

	// ErrUpdateTimeout is returned when status A never leaves update-in-progress.
	ErrUpdateTimeout = errors.New("rtc: update in progress did not clear")
)

// DateTime is one RTC reading. Year is the two-digit year within the century.
type DateTime struct {
	Second uint8
	Minute uint8
	Hour   uint8
	Day    uint8
	Month  uint8
	Year   uint8
}

// FormatTime renders HH:MM:SS.
func (d DateTime) FormatTime() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hour, d.Minute, d.Second)
}

// FormatDate renders DD/MM/20YY. Only correct for 2000-2099.
func (d DateTime) FormatDate() string {
	return fmt.Sprintf("%02d/%02d/20%02d", d.Day, d.Month, d.Year)
}

// FormatFull renders "<date> <time>".
func (d DateTime) FormatFull() string {
	return d.FormatDate() + " " + d.FormatTime()
}

// Driver owns the CMOS address/data port pair.
type Driver struct {
	mu        sync.Mutex
	ports     hal.Ports
	spinLimit int
}

// Option configures a Driver.
type Option func(*Driver)

// WithUpdateSpinLimit caps how many times status A is polled while an update
// is in progress. Zero polls without bound.
func WithUpdateSpinLimit(n int) Option {
	return func(d *Driver) { d.spinLimit = n }
}

// New returns a driver on ports. The caller must not hand the same ports'
// CMOS pair to another driver.
func New(ports hal.Ports, opts ...Option) *Driver {
	d := &Driver{ports: ports, spinLimit: DefaultUpdateSpinLimit}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ReadDateTime waits for the clock to finish any update in progress, then reads
// and decodes the six date/time registers. Values are not range-checked.
//
// A nil driver reports ErrNotInitialized.
func (d *Driver) ReadDateTime() (DateTime, error) {
	if d == nil || d.ports == nil {
		return DateTime{}, ErrNotInitialized
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.waitForUpdate(); err != nil {
		return DateTime{}, err
	}

	raw := [6]uint8{
		d.readRegister(regSeconds),
		d.readRegister(regMinutes),
		d.readRegister(regHours),
		d.readRegister(regDay),
		d.readRegister(regMonth),
		d.readRegister(regYear),
	}

	if d.readRegister(regStatusB)&statusBBinary == 0 {
		for i := range raw {
			raw[i] = DecodeBCD(raw[i])
		}
	}

	return DateTime{
		Second: raw[0],
		Minute: raw[1],
		Hour:   raw[2],
		Day:    raw[3],
		Month:  raw[4],
		Year:   raw[5],
	}, nil
}

func (d *Driver) readRegister(reg uint8) uint8 {
	d.ports.Out8(addrPort, reg)
	return d.ports.In8(dataPort)
}

func (d *Driver) waitForUpdate() error {
	for i := 0; d.spinLimit <= 0 || i < d.spinLimit; i++ {
		if d.readRegister(regStatusA)&statusAUpdating == 0 {
			return nil
		}
	}
	return ErrUpdateTimeout
}

// DecodeBCD converts one packed BCD byte (two decimal digits) to binary.
func DecodeBCD(b uint8) uint8 {
	return (b>>4)*10 + b&0x0F
}

// EncodeBCD packs a value in [0, 99] into BCD.
func EncodeBCD(v uint8) uint8 {
	return (v/10)<<4 | v%10
}
