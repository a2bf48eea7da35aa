package logger_test

import (
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tracknine/spoor/logger"
)

// memorySink records every emission so tests can inspect dispatched records.
type memorySink struct {
	min     logger.Level
	emitErr error

	mu      sync.Mutex
	records []logger.Record
	closed  bool
}

func (s *memorySink) Emit(r logger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emitErr != nil {
		return s.emitErr
	}

	s.records = append(s.records, r)
	return nil
}

func (s *memorySink) MinLevel() logger.Level { return s.min }

func (s *memorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *memorySink) all() []logger.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]logger.Record(nil), s.records...)
}

func (s *memorySink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func TestCallerDirectPath(t *testing.T) {
	// Arrange
	sink := &memorySink{min: logger.LevelDebug}
	l, err := logger.New(logger.Config{Name: "caller-test"}, logger.WithSink(sink))
	require.Nil(t, err)

	// Act
	_, _, here, _ := runtime.Caller(0)
	l.Info("direct call")

	// Assert
	records := sink.all()
	require.Len(t, records, 1)
	caller := records[0].Caller
	require.Equal(t, "TestCallerDirectPath", caller.Function)
	require.True(t, strings.HasSuffix(caller.Module, "spoor/logger_test"), caller.Module)
	require.Equal(t, here+1, caller.Line)
	require.Empty(t, caller.Class)
}

// logThrough stands in for internal code logging on behalf of its own caller.
func logThrough(l *logger.Logger, msg string) {
	l.AddSkip(l.Skip() + 1).Info(msg)
}

func TestCallerWrappedPath(t *testing.T) {
	// Arrange
	sink := &memorySink{min: logger.LevelDebug}
	l, err := logger.New(logger.Config{Name: "caller-test"}, logger.WithSink(sink))
	require.Nil(t, err)

	// Act
	logThrough(l, "wrapped call")

	// Assert
	records := sink.all()
	require.Len(t, records, 1)
	require.Equal(t, "TestCallerWrappedPath", records[0].Caller.Function)
}

type emitter struct {
	l *logger.Logger
}

func (e emitter) speak() { e.l.Info("from method") }

func TestCallerReceiverType(t *testing.T) {
	// Arrange
	sink := &memorySink{min: logger.LevelDebug}
	l, err := logger.New(logger.Config{Name: "caller-test"}, logger.WithSink(sink))
	require.Nil(t, err)

	// Act
	emitter{l: l}.speak()

	// Assert
	records := sink.all()
	require.Len(t, records, 1)
	require.Equal(t, "emitter", records[0].Caller.Class)
	require.Equal(t, "speak", records[0].Caller.Function)
}

func TestCallerShallowStack(t *testing.T) {
	// Arrange: a skip far beyond any plausible stack depth.
	sink := &memorySink{min: logger.LevelDebug}
	l, err := logger.New(logger.Config{Name: "caller-test"}, logger.WithSink(sink), logger.WithSkip(1000))
	require.Nil(t, err)

	// Act
	l.Info("unresolvable")

	// Assert: the record still dispatches, with empty context.
	records := sink.all()
	require.Len(t, records, 1)
	require.Equal(t, logger.Caller{}, records[0].Caller)
	require.Equal(t, "unresolvable", records[0].Message)
}
