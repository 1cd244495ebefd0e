package shell

import "sync"

// History is the log of submitted lines. No two consecutive entries are
// equal. The cursor tracks arrow-key browsing: 0 is the live line, n is the
// n-th most recent entry.
//
// When both are needed, take the display lock before the history lock.
type History struct {
	mu      sync.Mutex
	entries []string
	cursor  int
}

func NewHistory() *History {
	return &History{}
}

// Record appends line unless it repeats the last entry.
func (h *History) Record(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
}

// ResetCursor returns browsing to the live line.
func (h *History) ResetCursor() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursor = 0
}

// All returns the entries oldest first.
func (h *History) All() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *History) Cursor() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// Previous steps one entry back. It stops at the oldest entry and reports
// false only when the log is empty.
func (h *History) Previous() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.entries)
	if n == 0 {
		return "", false
	}
	if h.cursor < n {
		h.cursor++
	}
	return h.entries[n-h.cursor], true
}

// Next steps one entry forward. Stepping past the newest entry yields the
// empty live line; at the live line it reports false.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case h.cursor == 0:
		return "", false
	case h.cursor == 1:
		h.cursor = 0
		return "", true
	default:
		h.cursor--
		return h.entries[len(h.entries)-h.cursor], true
	}
}
