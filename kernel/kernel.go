package kernel

import (
	"errors"
	"runtime/debug"
)

// Guard runs fn, the body of one control-loop iteration.
//
// A panic inside fn or a *Fault returned from it puts the kernel in panic mode,
// runs the panic handler and is reported as a *Fault. Once halted, Guard no
// longer calls fn and returns the halting fault's error again, so callers can
// keep stepping without dispatching anything (the halt loop).
func (k *Kernel) Guard(fn func() error) (err error) {
	if k.InPanicMode() {
		return ErrHalted
	}

	defer func() {
		if v := recover(); v != nil {
			fault := &Fault{Value: v}
			k.triggerPanic(PanicInfo{Value: v, Stack: debug.Stack()})
			err = fault
		}
	}()

	err = fn()
	var fault *Fault
	if errors.As(err, &fault) {
		k.triggerPanic(PanicInfo{Value: fault.Value})
	}
	return err
}

// ErrHalted is returned by Guard after the kernel has faulted.
var ErrHalted = errors.New("kernel halted")
