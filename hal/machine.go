package hal

import (
	"sync"
	"time"
)

// Port numbers of the legacy PC devices the emulated machine answers to.
const (
	PortCMOSAddr uint16 = 0x70
	PortCMOSData uint16 = 0x71

	Port8042 uint16 = 0x64

	PortACPIPM1a   uint16 = 0x604
	PortBochsPower uint16 = 0xB004
	PortVBoxPower  uint16 = 0x4004
)

const (
	cmosSeconds uint8 = 0x00
	cmosMinutes uint8 = 0x02
	cmosHours   uint8 = 0x04
	cmosDay     uint8 = 0x07
	cmosMonth   uint8 = 0x08
	cmosYear    uint8 = 0x09
	cmosStatusA uint8 = 0x0A
	cmosStatusB uint8 = 0x0B
	cmosCentury uint8 = 0x32

	statusAUpdating uint8 = 0x80
	statusADivider  uint8 = 0x26
	statusB24Hour   uint8 = 0x02
	statusBBinary   uint8 = 0x04

	kbcStatusIdle uint8 = 0x14
	kbcPulseReset uint8 = 0xFE
)

// MachineConfig describes the emulated PC.
type MachineConfig struct {
	// Now is the wall clock backing the CMOS RTC. Defaults to time.Now.
	Now func() time.Time

	// BinaryRTC reports RTC values in binary instead of BCD (status B bit 2).
	BinaryRTC bool

	// HourOffset shifts the RTC relative to Now.
	HourOffset int

	// UpdateEvery makes every Nth status A read report an update in progress.
	// Zero disables the pulse.
	UpdateEvery int

	// ACPI accepts the legacy power-off writes; Reset accepts the 8042 reset pulse.
	ACPI  bool
	Reset bool
}

// Machine is an in-memory PC port bus: CMOS RTC, 8042 controller and the
// QEMU/Bochs/VirtualBox power-off ports.
type Machine struct {
	mu  sync.Mutex
	cfg MachineConfig

	cmosIndex   uint8
	statusReads int

	events chan error
}

// NewMachine returns an emulated machine.
func NewMachine(cfg MachineConfig) *Machine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Machine{cfg: cfg, events: make(chan error, 1)}
}

// Events delivers ErrPoweredOff or ErrReset once the machine accepts one.
func (m *Machine) Events() <-chan error { return m.events }

func (m *Machine) In8(port uint16) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch port {
	case PortCMOSData:
		return m.readCMOS(m.cmosIndex)
	case Port8042:
		return kbcStatusIdle
	default:
		return 0xFF
	}
}

func (m *Machine) Out8(port uint16, v uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch port {
	case PortCMOSAddr:
		// Bit 7 is the NMI mask, not part of the register index.
		m.cmosIndex = v & 0x7F
	case Port8042:
		if v == kbcPulseReset && m.cfg.Reset {
			m.signal(ErrReset)
		}
	}
}

func (m *Machine) Out16(port uint16, v uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.ACPI {
		return
	}
	switch {
	case port == PortACPIPM1a && v == 0x2000,
		port == PortBochsPower && v == 0x2000,
		port == PortVBoxPower && v == 0x3400:
		m.signal(ErrPoweredOff)
	}
}

func (m *Machine) signal(err error) {
	select {
	case m.events <- err:
	default:
	}
}

func (m *Machine) readCMOS(reg uint8) uint8 {
	now := m.cfg.Now().Add(time.Duration(m.cfg.HourOffset) * time.Hour)

	switch reg {
	case cmosStatusA:
		m.statusReads++
		if m.cfg.UpdateEvery > 0 && m.statusReads%m.cfg.UpdateEvery == 0 {
			return statusADivider | statusAUpdating
		}
		return statusADivider
	case cmosStatusB:
		b := statusB24Hour
		if m.cfg.BinaryRTC {
			b |= statusBBinary
		}
		return b
	case cmosSeconds:
		return m.encode(now.Second())
	case cmosMinutes:
		return m.encode(now.Minute())
	case cmosHours:
		return m.encode(now.Hour())
	case cmosDay:
		return m.encode(now.Day())
	case cmosMonth:
		return m.encode(int(now.Month()))
	case cmosYear:
		return m.encode(now.Year() % 100)
	case cmosCentury:
		return m.encode(now.Year() / 100)
	default:
		return 0
	}
}

func (m *Machine) encode(v int) uint8 {
	if m.cfg.BinaryRTC {
		return uint8(v)
	}
	return uint8(v/10)<<4 | uint8(v%10)
}
