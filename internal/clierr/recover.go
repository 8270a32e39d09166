package clierr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f, converting any panic into a non-nil error return instead
// of letting it escape to the caller. Grounded on the teacher's
// internal/panicerr.Recover, but synchronous: the interpreter has no need
// for the teacher's goroutine-isolation (that existed to catch
// runtime.Goexit from deep within VM opcode handlers); a plain deferred
// recover suffices here.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{name: name, cause: r, stack: debug.Stack()}
		}
	}()
	return f()
}

type panicError struct {
	name  string
	cause interface{}
	stack []byte
}

func (pe panicError) Error() string {
	return fmt.Sprintf("%v paniced: %v", pe.name, pe.cause)
}

func (pe panicError) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.cause)
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\n%s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.cause.(error)
	return err
}

// IsPanic reports whether err was produced by Recover catching a panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}
