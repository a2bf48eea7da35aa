package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tracknine/spoor"
)

// A Sink consumes enriched records, persisting or transmitting them.
//
// Emit is called once per record passing the sink's minimum level, in
// attach order. A Sink reports failures through its error return; the
// facade isolates them, so a broken sink never reaches application
// code nor starves its siblings.
type Sink interface {
	Emit(r Record) error
	MinLevel() Level
	Close() error
}

// A SinkConfig provisions one Sink variant for a facade.
//
// Provisioning happens eagerly at facade construction; a malformed
// config fails fast there with [spoor.ErrBadConfig], outside the hot
// logging path.
type SinkConfig interface {
	provision(style spoor.Style) (Sink, error)
}

// ConsoleConfig configures a console sink.
type ConsoleConfig struct {
	// MinLevel defaults to LevelDebug.
	MinLevel Level

	// Writer overrides os.Stdout, e.g. in tests.
	Writer io.Writer
}

func (cfg ConsoleConfig) provision(style spoor.Style) (Sink, error) {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	min := cfg.MinLevel
	if min == LevelUnk {
		min = LevelDebug
	}

	return &ConsoleSink{style: style, min: min, w: w}, nil
}

// A ConsoleSink writes colored formatted lines to standard output.
type ConsoleSink struct {
	style spoor.Style
	min   Level

	mu sync.Mutex
	w  io.Writer
}

func (s *ConsoleSink) Emit(r Record) error {
	line := colorizer(r.Level)("%s", formatLine(s.style, r))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		return fmt.Errorf("%w: console write: %s", spoor.ErrUnexpected, err)
	}

	return nil
}

func (s *ConsoleSink) MinLevel() Level { return s.min }

// Close is a no-op; the console sink does not own its writer.
func (s *ConsoleSink) Close() error { return nil }
