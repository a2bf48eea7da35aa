package logger

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/tracknine/spoor"
)

const sentryFlushTimeout = 2 * time.Second

// SentryConfig configures a sink forwarding error-grade records to Sentry.
type SentryConfig struct {
	// DSN is the Sentry project DSN. Required.
	DSN string

	// Environment defaults to the facade's style.
	Environment string

	// MinLevel defaults to LevelError.
	MinLevel Level
}

func (cfg SentryConfig) provision(style spoor.Style) (Sink, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: sentry sink requires a DSN", spoor.ErrBadConfig)
	}

	env := cfg.Environment
	if env == "" {
		env = style.String()
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:          cfg.DSN,
		Environment:  env,
		IgnoreErrors: []string{"write: broken pipe"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: unable to init Sentry: %s", spoor.ErrBadConfig, err)
	}

	min := cfg.MinLevel
	if min == LevelUnk {
		min = LevelError
	}

	return &SentrySink{min: min}, nil
}

// A SentrySink ships records to Sentry, carrying the caller context as
// event extras and the captured error detail as the event exception.
type SentrySink struct {
	min Level
}

func (s *SentrySink) Emit(r Record) error {
	event := sentry.NewEvent()
	event.Level = sentryLevel(r.Level)
	event.Message = r.Message
	event.Logger = r.LoggerName
	event.Extra = map[string]any{
		"module":   r.Caller.Module,
		"function": r.Caller.Function,
		"line":     r.Caller.Line,
	}
	if r.Caller.Class != "" {
		event.Extra["class"] = r.Caller.Class
	}

	if r.Err != nil {
		event.Exception = []sentry.Exception{{
			Type:  r.Err.Kind,
			Value: r.Err.Message,
		}}
		if len(r.Err.Trace) > 0 {
			event.Extra["error_trace"] = r.Err.Trace
		}
	}

	sentry.CaptureEvent(event)
	return nil
}

func (s *SentrySink) MinLevel() Level { return s.min }

// Close flushes buffered events to Sentry.
func (s *SentrySink) Close() error {
	if ok := sentry.Flush(sentryFlushTimeout); !ok {
		return fmt.Errorf("%w: sentry flush timed out", spoor.ErrUnexpected)
	}

	return nil
}

func sentryLevel(level Level) sentry.Level {
	switch level {
	case LevelDebug:
		return sentry.LevelDebug
	case LevelInfo:
		return sentry.LevelInfo
	case LevelWarning:
		return sentry.LevelWarning
	case LevelCritical:
		return sentry.LevelFatal
	default:
		return sentry.LevelError
	}
}
