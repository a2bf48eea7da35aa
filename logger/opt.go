package logger

import "log"

// A LoggerOptFn is a functional option configuring a Logger when constructing a new one.
type LoggerOptFn func(*Logger)

// WithFallback sets the last-resort log.Logger sink failures are reported to.
func WithFallback(fallback *log.Logger) LoggerOptFn {
	return func(l *Logger) {
		l.fallback = fallback
	}
}

// WithSink attaches an already provisioned Sink ahead of the configured ones.
func WithSink(s Sink) LoggerOptFn {
	return func(l *Logger) {
		l.sinks = append(l.sinks, s)
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to resolve the desired call site.
func WithSkip(skip int) LoggerOptFn {
	return func(l *Logger) {
		l.skip = skip
	}
}
