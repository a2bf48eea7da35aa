package logger

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

// maxTraceFrames bounds the stack captured by Trace.
const maxTraceFrames = 32

// Describe converts err into a structured [ErrorDetail].
//
// The Kind is the dynamic type name of the innermost non-wrapper
// error, the Args are the messages of its wrapped causes and the
// Trace renders the origin stack when err carries one (see [Trace]).
// Describe never panics; a nil err yields a nil detail.
func Describe(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	base := unwrapTraced(err)
	d := &ErrorDetail{
		Kind:    kindOf(base),
		Message: base.Error(),
		Trace:   stackOf(err),
	}

	for cause := errors.Unwrap(base); cause != nil; cause = errors.Unwrap(cause) {
		if _, ok := cause.(*tracedError); ok {
			continue
		}
		d.Args = append(d.Args, cause.Error())
	}
	if m, ok := base.(interface{ Unwrap() []error }); ok {
		for _, cause := range m.Unwrap() {
			d.Args = append(d.Args, cause.Error())
		}
	}

	return d
}

// unwrapTraced strips any trace wrappers so Kind and Message describe
// the application error itself.
func unwrapTraced(err error) error {
	for {
		te, ok := err.(*tracedError)
		if !ok {
			return err
		}
		err = te.err
	}
}

// Trace wraps err with the call stack captured at the wrap point, so a
// later [Describe] can report where the error originated rather than
// where it was logged. A nil err stays nil.
func Trace(err error) error {
	if err == nil {
		return nil
	}

	var pcs [maxTraceFrames]uintptr
	n := runtime.Callers(2, pcs[:])
	return &tracedError{err: err, pcs: pcs[:n]}
}

type tracedError struct {
	err error
	pcs []uintptr
}

func (e *tracedError) Error() string { return e.err.Error() }

func (e *tracedError) Unwrap() error { return e.err }

// StackTrace exposes the captured program counters to Describe.
func (e *tracedError) StackTrace() []uintptr { return e.pcs }

// kindOf names the dynamic type of err.
func kindOf(err error) string {
	t := reflect.TypeOf(err)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// stackOf renders the origin stack of the first error in the chain
// carrying one. Errors without a captured stack yield no trace.
func stackOf(err error) []string {
	var st interface{ StackTrace() []uintptr }
	if !errors.As(err, &st) {
		return nil
	}

	pcs := st.StackTrace()
	if len(pcs) == 0 {
		return nil
	}

	var lines []string
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		lines = append(lines, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		if !more {
			break
		}
	}

	return lines
}
