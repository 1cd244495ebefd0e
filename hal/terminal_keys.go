package hal

import "unicode/utf8"

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyDel       = 0x7f
	keyEsc       = 0x1b
)

// decodeTerminalKeys turns raw terminal bytes into key events. Incomplete
// escape or UTF-8 sequences at the end of b are returned as rest so the caller
// can prepend them to the next read. interrupt is set on Ctrl-C / Ctrl-D.
func decodeTerminalKeys(b []byte) (events []KeyEvent, rest []byte, interrupt bool) {
	for len(b) > 0 {
		switch c := b[0]; {
		case c == keyEsc:
			n, code, complete := parseEscape(b)
			if !complete {
				return events, b, false
			}
			if code != KeyUnknown {
				events = append(events, KeyEvent{Code: code, Press: true})
			}
			b = b[n:]
		case c == '\r' || c == '\n':
			// Raw mode delivers CR for Enter; a following LF belongs to the same key.
			if c == '\r' && len(b) > 1 && b[1] == '\n' {
				b = b[1:]
			}
			events = append(events, KeyEvent{Code: KeyEnter, Press: true})
			b = b[1:]
		case c == keyDel || c == keyBackspace:
			events = append(events, KeyEvent{Code: KeyBackspace, Press: true})
			b = b[1:]
		case c == keyCtrlC || c == keyCtrlD:
			return events, nil, true
		case c == '\t':
			events = append(events, KeyEvent{Code: KeyTab, Press: true})
			b = b[1:]
		case c < 0x20:
			b = b[1:]
		default:
			if !utf8.FullRune(b) {
				return events, b, false
			}
			r, sz := utf8.DecodeRune(b)
			b = b[sz:]
			if r == utf8.RuneError && sz == 1 {
				continue
			}
			events = append(events, KeyEvent{Press: true, Rune: r})
		}
	}
	return events, nil, false
}

// parseEscape decodes one VT100 sequence at the start of b.
func parseEscape(b []byte) (consumed int, code KeyCode, complete bool) {
	if len(b) < 2 {
		return 0, KeyUnknown, false
	}
	if b[1] != '[' {
		return 2, KeyEscape, true
	}
	if len(b) < 3 {
		return 0, KeyUnknown, false
	}
	switch b[2] {
	case 'A':
		return 3, KeyUp, true
	case 'B':
		return 3, KeyDown, true
	case 'C':
		return 3, KeyRight, true
	case 'D':
		return 3, KeyLeft, true
	case 'H':
		return 3, KeyHome, true
	case 'F':
		return 3, KeyEnd, true
	}

	// CSI n ~
	for i := 2; i < len(b); i++ {
		if b[i] < 0x40 || b[i] > 0x7e {
			continue
		}
		if b[i] == '~' && i == 3 {
			switch b[2] {
			case '1', '7':
				return 4, KeyHome, true
			case '3':
				return 4, KeyDelete, true
			case '4', '8':
				return 4, KeyEnd, true
			}
		}
		return i + 1, KeyUnknown, true
	}
	return 0, KeyUnknown, false
}
