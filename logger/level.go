package logger

import "github.com/tracknine/spoor"

// A Level grades the importance of a logged record.
//
// Levels are ordered; a [Sink] configured with a minimum Level only
// receives records at or above it.
type Level int

var _ spoor.Enumerable = LevelUnk

const (
	LevelUnk Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

// NewLevel casts val into a Level.
func NewLevel(val string) Level {
	switch val {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARNING":
		return LevelWarning
	case "ERROR":
		return LevelError
	case "CRITICAL":
		return LevelCritical
	default:
		return LevelUnk
	}
}

func (l Level) String() string {
	return map[Level]string{
		LevelDebug:    "DEBUG",
		LevelInfo:     "INFO",
		LevelWarning:  "WARNING",
		LevelError:    "ERROR",
		LevelCritical: "CRITICAL",
		LevelUnk:      "UNK",
	}[l]
}

func (l Level) Valid() error {
	switch l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical:
		return nil
	default:
		return spoor.ErrNotValid
	}
}
