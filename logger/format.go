package logger

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/tracknine/spoor"
)

const timestampLayout = "2006-01-02 15:04:05"

// formatLine renders a record into the shared console/file line format:
//
//	<timestamp> - <logger_name> - <LEVEL> - <message> -> <module> - <function> - <line>
//
// The timestamp is present only under [spoor.Local]; deployed styles
// omit it because the collecting infrastructure stamps records itself.
func formatLine(style spoor.Style, r Record) string {
	line := fmt.Sprintf("%s - %s - %s -> %s - %s - %d",
		r.LoggerName, r.Level, r.Message, r.Caller.Module, r.Caller.Function, r.Caller.Line)
	if style.IncludesTimestamp() {
		line = r.Timestamp.Format(timestampLayout) + " - " + line
	}

	return line
}

// colorizer picks the console color for a level.
func colorizer(level Level) func(string, ...any) string {
	switch level {
	case LevelDebug:
		return color.WhiteString
	case LevelInfo:
		return color.BlueString
	case LevelWarning:
		return color.YellowString
	case LevelError:
		return color.RedString
	case LevelCritical:
		return color.MagentaString
	default:
		return fmt.Sprintf
	}
}
