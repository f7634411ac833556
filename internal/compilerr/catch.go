// Package compilerr implements a recover dance for a synchronous
// pipeline: a compile phase aborts by panicking with an error, and the
// nearest Catch turns that back into a plain returned error. There is no
// goroutine here — the front end is single-threaded and synchronous end
// to end, so the panic simply unwinds the Go call stack in place.
package compilerr

import (
	"fmt"
	"runtime/debug"
)

// Abort panics with err, to be recovered by the nearest enclosing Catch. It
// is a no-op if err is nil, so callers can write `compilerr.Abort(f())`
// freely.
func Abort(err error) {
	if err != nil {
		panic(abortError{err})
	}
}

// Catch runs f, recovering any panic raised via Abort and returning it as
// a plain error. A panic not raised via Abort is re-panicked rather than
// swallowed, distinguishing an expected abort from an unexpected crash.
func Catch(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ae, ok := r.(abortError); ok {
				err = ae.error
				return
			}
			panic(panicError{e: r, stack: debug.Stack()})
		}
	}()
	f()
	return nil
}

type abortError struct{ error }

func (err abortError) Unwrap() error { return err.error }

// panicError reports an unexpected (non-Abort) panic recovered by Catch,
// preserving its stack trace for diagnosis.
type panicError struct {
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string {
	return fmt.Sprintf("unexpected panic: %v", pe.e)
}

func (pe panicError) Format(f fmt.State, c rune) {
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "unexpected panic: %v\nstack:\n%s", pe.e, pe.stack)
		return
	}
	fmt.Fprintf(f, "unexpected panic: %v", pe.e)
}
