package logger

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/tracknine/spoor"
	"golang.org/x/time/rate"
)

// fallback reporting is rate limited so a persistently broken sink
// cannot flood stderr.
const (
	fallbackReportsPerSec = 1
	fallbackReportBurst   = 10
)

// Config describes a facade to construct.
type Config struct {
	// Name identifies the facade in every record it emits.
	Name string

	// Style picks the line format; defaults to the SPOOR_STYLE
	// environment variable, then spoor.Local.
	Style spoor.Style

	// FilePath, when set, attaches a rotating file sink in addition
	// to Sinks, plus a console sink unless one is configured
	// explicitly; a convenience for the common console+file pair.
	FilePath string

	// Sinks are provisioned eagerly, in order; attach order is
	// dispatch order. An empty Sinks with no FilePath yields a
	// single console sink.
	Sinks []SinkConfig
}

// A Logger is the public emission facade: it resolves the caller of
// each level method, enriches a record with that context - and, for
// error-grade calls, with captured error detail - and offers the
// record to every attached sink.
//
// A Logger is safe for concurrent use. Application code never sees a
// failure from logging itself; only construction can return an error.
type Logger struct {
	style    spoor.Style
	skip     int
	sinks    []Sink
	fallback *log.Logger
	limiter  *rate.Limiter

	mu   sync.RWMutex
	name string
}

// New constructs a Logger, provisioning every configured sink.
//
// Provisioning is eager and fail-fast: when sink N fails, sinks
// 1..N-1 are closed before the error returns, so a partially built
// facade never leaks resources.
func New(cfg Config, opts ...LoggerOptFn) (*Logger, error) {
	style := cfg.Style
	if style == "" {
		style = spoor.EnvVarOrStyle("SPOOR_STYLE", spoor.Local)
	}
	if err := style.Valid(); err != nil {
		return nil, fmt.Errorf("%w: style %q", spoor.ErrBadConfig, cfg.Style)
	}

	l := &Logger{
		name:     cfg.Name,
		style:    style,
		fallback: log.New(os.Stderr, "spoor: ", log.LstdFlags),
		limiter:  rate.NewLimiter(rate.Limit(fallbackReportsPerSec), fallbackReportBurst),
	}
	for _, opt := range opts {
		opt(l)
	}

	sinkCfgs := make([]SinkConfig, 0, len(cfg.Sinks)+2)
	sinkCfgs = append(sinkCfgs, cfg.Sinks...)
	if cfg.FilePath != "" {
		sinkCfgs = append(sinkCfgs, FileConfig{Path: cfg.FilePath})
		if !hasConsole(cfg.Sinks) {
			sinkCfgs = append(sinkCfgs, ConsoleConfig{})
		}
	}
	if len(sinkCfgs) == 0 && len(l.sinks) == 0 {
		sinkCfgs = []SinkConfig{ConsoleConfig{}}
	}

	for _, sc := range sinkCfgs {
		s, err := sc.provision(style)
		if err != nil {
			closeSinks(l.sinks)
			return nil, err
		}
		l.sinks = append(l.sinks, s)
	}

	return l, nil
}

// Name returns the facade's current logical name.
func (l *Logger) Name() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.name
}

// SetName renames the facade. Reused registry entries are renamed this
// way instead of re-provisioning their sinks.
func (l *Logger) SetName(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.name = name
}

// Skip returns the current amount of frames to scroll back
// when resolving the call site.
func (l *Logger) Skip() int { return l.skip }

// AddSkip derives a Logger resolving the call site i frames further
// up, for wrapping code that logs on behalf of its own caller. The
// derived Logger shares the parent's sinks; use Skip to read the
// current amount when adding to it.
func (l *Logger) AddSkip(i int) *Logger {
	return &Logger{
		name:     l.Name(),
		style:    l.style,
		skip:     i,
		sinks:    l.sinks,
		fallback: l.fallback,
		limiter:  l.limiter,
	}
}

// Debug emits a debug record. args, when present, are interpolated
// into msg via the fmt verbs it contains.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, nil, args...)
}

// Info emits an info record.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, nil, args...)
}

// Warning emits a warning record.
func (l *Logger) Warning(msg string, args ...any) {
	l.log(LevelWarning, msg, nil, args...)
}

// Error emits an error record. err, when non-nil, is captured into
// the record's error detail.
func (l *Logger) Error(msg string, err error, args ...any) {
	l.log(LevelError, msg, err, args...)
}

// Critical emits a critical record. err, when non-nil, is captured
// into the record's error detail.
func (l *Logger) Critical(msg string, err error, args ...any) {
	l.log(LevelCritical, msg, err, args...)
}

// Close releases every attached sink. Closing is attempted on all
// sinks even when one fails; the errors are joined.
func (l *Logger) Close() error {
	return closeSinks(l.sinks)
}

// log builds the enriched record and offers it to each sink in attach
// order. The caller context is resolved into a call-local value; no
// shared state is touched, so concurrent emissions cannot observe
// each other mid-flight.
func (l *Logger) log(level Level, msg string, err error, args ...any) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	r := Record{
		Timestamp:  time.Now(),
		LoggerName: l.Name(),
		Level:      level,
		Message:    msg,
		Caller:     resolveCaller(knownFrames + l.skip),
	}
	if err != nil {
		r.Err = Describe(err)
	}

	for _, s := range l.sinks {
		if level < s.MinLevel() {
			continue
		}
		if emitErr := emit(s, r); emitErr != nil {
			l.report(emitErr)
		}
	}
}

// hasConsole reports whether a console sink is among the configured ones.
func hasConsole(cfgs []SinkConfig) bool {
	for _, sc := range cfgs {
		if _, ok := sc.(ConsoleConfig); ok {
			return true
		}
	}

	return false
}

// emit isolates one sink: an Emit error or panic is contained here and
// never reaches the caller nor the remaining sinks.
func emit(s Sink, r Record) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: sink panic: %v", spoor.ErrUnexpected, p)
		}
	}()

	return s.Emit(r)
}

// report writes a sink failure to the last-resort stderr channel.
func (l *Logger) report(err error) {
	if !l.limiter.Allow() {
		return
	}

	l.fallback.Printf("sink failure: %s", err)
}

func closeSinks(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
