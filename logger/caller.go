package logger

import (
	"runtime"
	"strings"
)

// knownFrames is the number of stack frames the facade itself adds
// between application code and resolveCaller: the public level method
// and (*Logger).log.
//
// Changing how level methods reach log changes this constant; the
// caller-identity tests in caller_test.go catch a stale value.
const knownFrames = 2

// resolveCaller walks the active call stack and describes the frame
// skip levels above its own caller.
//
// A stack shallower than skip yields a zero Caller; a frame whose
// function cannot be resolved yields whichever fields are available.
// resolveCaller never fails the surrounding log call.
func resolveCaller(skip int) Caller {
	var pcs [1]uintptr
	// +2 skips runtime.Callers and resolveCaller itself.
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return Caller{}
	}

	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	c := Caller{Line: frame.Line}
	if frame.Function != "" {
		c.Module, c.Class, c.Function = splitQualified(frame.Function)
	}

	return c
}

// splitQualified breaks a runtime-qualified function name, e.g.
// "github.com/acme/app/web.(*Handler).Serve", into the package import
// path, the receiver type (best effort, empty for plain functions) and
// the bare function name.
func splitQualified(qualified string) (pkg, recv, fn string) {
	rest := qualified
	if slash := strings.LastIndexByte(qualified, '/'); slash >= 0 {
		pkg, rest = qualified[:slash+1], qualified[slash+1:]
	}

	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return pkg + rest, "", ""
	}
	pkg, rest = pkg+rest[:dot], rest[dot+1:]

	parts := strings.Split(rest, ".")
	switch {
	case len(parts) == 1:
		fn = parts[0]

	case strings.HasPrefix(parts[0], "("):
		recv = strings.TrimPrefix(parts[0], "(")
		recv = strings.TrimPrefix(recv, "*")
		recv = strings.TrimSuffix(recv, ")")
		fn = strings.Join(parts[1:], ".")

	case isClosureName(parts[1]):
		// e.g. "Serve.func1": a closure in a plain function,
		// not a method on a "Serve" receiver.
		fn = rest

	default:
		recv = parts[0]
		fn = strings.Join(parts[1:], ".")
	}

	return pkg, recv, fn
}

// isClosureName reports whether part is a compiler-generated closure
// suffix such as "func1" or "func12.1".
func isClosureName(part string) bool {
	if !strings.HasPrefix(part, "func") {
		return false
	}

	rest := part[len("func"):]
	return rest != "" && rest[0] >= '0' && rest[0] <= '9'
}
