package log

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

// Level is the severity of a log message.
// It extends [slog.Level] with [LevelTrace], which sits below debug.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel keeps a calculator quiet unless something goes wrong.
const DefaultLevel = LevelWarn

var levelNames = []struct {
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

// String returns the lowercase name of the level.
// Levels between the named ones are rendered the way [slog.Level] renders
// them, e.g. "INFO+2", lowercased.
func (l Level) String() string {
	for _, n := range levelNames {
		if n.level == l {
			return n.name
		}
	}

	if l < LevelDebug {
		return fmt.Sprintf("trace%+d", int(l-LevelTrace))
	}

	return strings.ToLower(slog.Level(l).String())
}

// Levels returns an iterator over the names of the defined levels, from the
// most verbose to the least.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range levelNames {
			if !yield(n.name) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, case-insensitively.
// Besides the names yielded by [Levels], any string accepted by
// [slog.Level.UnmarshalText] is recognized, such as "warn+2".
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)

	for _, n := range levelNames {
		if strings.EqualFold(n.name, s) {
			return n.level, nil
		}
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel, fmt.Errorf("unknown log level %q", s)
	}

	return Level(l), nil
}

// Format selects the encoding of log records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format used when none is configured.
const DefaultFormat = FormatText

var formatNames = [...]string{
	FormatText: "text",
	FormatJSON: "json",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}

	return formatNames[f]
}

// Formats returns an iterator over the names of the defined formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range formatNames {
			if !yield(name) {
				return
			}
		}
	}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)

	for f, name := range formatNames {
		if strings.EqualFold(name, s) {
			return Format(f), nil
		}
	}

	return DefaultFormat, fmt.Errorf("unknown log format %q", s)
}
