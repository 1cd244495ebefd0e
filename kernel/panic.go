// Package kernel owns the fatal path: a command either reports an error
// through its return code or it faults, and a fault halts the machine.
package kernel

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Fault is an unrecoverable failure. Returning one from a command (or
// panicking inside one) renders the crash banner and halts the machine.
type Fault struct {
	Value any
}

func (f *Fault) Error() string { return fmt.Sprint(f.Value) }

// Faultf builds a Fault from a formatted message.
func Faultf(format string, args ...any) *Fault {
	return &Fault{Value: fmt.Sprintf(format, args...)}
}

// PanicInfo contains details about a fault.
type PanicInfo struct {
	Value any
	Stack []byte
}

// Kernel tracks whether the machine has halted and who renders the banner.
type Kernel struct {
	panicActive atomic.Bool
	panicOnce   sync.Once

	panicHandler atomic.Value // func(PanicInfo)
}

// New returns a running kernel with no panic handler.
func New() *Kernel {
	return &Kernel{}
}

// InPanicMode reports whether the kernel has faulted and halted.
func (k *Kernel) InPanicMode() bool {
	return k.panicActive.Load()
}

// SetPanicHandler installs the crash handler.
//
// The handler is invoked at most once (on the first fault). It must not panic.
func (k *Kernel) SetPanicHandler(fn func(PanicInfo)) {
	k.panicHandler.Store(fn)
}

func (k *Kernel) triggerPanic(info PanicInfo) {
	k.panicOnce.Do(func() {
		k.panicActive.Store(true)
		if info.Stack == nil {
			info.Stack = debug.Stack()
		}
		if v := k.panicHandler.Load(); v != nil {
			if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
				fn(info)
			}
		}
	})
}
