package logger

import "time"

// A Record is one enriched logging event.
//
// A Record is built once per emission call and then handed to every
// attached [Sink] by value; nothing mutates it after enrichment, so
// all sinks observe identical data.
type Record struct {
	Timestamp  time.Time
	LoggerName string
	Level      Level
	Message    string

	// Caller is the resolved call site; fields are zero when the
	// stack could not be introspected that far.
	Caller Caller

	// Err carries a captured error description for error- and
	// critical-level records, nil otherwise.
	Err *ErrorDetail
}

// A Caller locates the application code a record originated from.
type Caller struct {
	// Module is the import path of the package the call was made in.
	Module string `json:"module,omitempty"`

	// Class is the receiver type of the calling method, best effort.
	Class string `json:"class,omitempty"`

	// Function is the bare function or method name.
	Function string `json:"function,omitempty"`

	Line int `json:"line,omitempty"`
}

// An ErrorDetail is a structured description of an application error,
// produced by [Describe].
type ErrorDetail struct {
	// Kind is the dynamic type name of the error.
	Kind string `json:"kind"`

	Message string `json:"message"`

	// Args are the messages of the wrapped causes, outermost first.
	Args []string `json:"args,omitempty"`

	// Trace describes where the error originated, when the error
	// carries a captured stack (see [Trace]). Empty otherwise.
	Trace []string `json:"trace,omitempty"`
}
