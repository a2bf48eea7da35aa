package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tracknine/spoor"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the file sink, in the units lumberjack uses.
const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 5
	defaultMaxAgeDays = 30
)

// FileConfig configures a rotating file sink.
type FileConfig struct {
	// Path is the log file to append to. Required; parent
	// directories are created at provision time.
	Path string

	// MinLevel defaults to LevelDebug.
	MinLevel Level

	// MaxSizeMB, MaxBackups and MaxAgeDays bound rotation;
	// zero values take the package defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (cfg FileConfig) provision(style spoor.Style) (Sink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: file sink requires a path", spoor.ErrBadConfig)
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create log directory: %s", spoor.ErrBadConfig, err)
		}
	}

	// Probe the path now so an unwritable target surfaces at
	// construction instead of on the first emission.
	f, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open log file: %s", spoor.ErrBadConfig, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: open log file: %s", spoor.ErrBadConfig, err)
	}

	maxSize := cfg.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := cfg.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	}
	maxAge := cfg.MaxAgeDays
	if maxAge == 0 {
		maxAge = defaultMaxAgeDays
	}

	min := cfg.MinLevel
	if min == LevelUnk {
		min = LevelDebug
	}

	return &FileSink{
		style: style,
		min:   min,
		out: &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   cfg.Compress,
		},
	}, nil
}

// A FileSink appends formatted lines to a size-rotated log file.
type FileSink struct {
	style spoor.Style
	min   Level

	mu  sync.Mutex
	out *lumberjack.Logger
}

func (s *FileSink) Emit(r Record) error {
	line := formatLine(s.style, r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("%w: file write: %s", spoor.ErrUnexpected, err)
	}

	return nil
}

func (s *FileSink) MinLevel() Level { return s.min }

// Close releases the underlying file handle.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}
