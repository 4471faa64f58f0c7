// Package log is the structured logger shared by the calc packages and
// command line.
//
// A [Logger] wraps a [log/slog] logger configured with functional options
// and adds [LevelTrace] below [LevelDebug]. The parser, cache and compiler
// in package lang report their progress at trace level, so a default
// logger at [DefaultLevel] stays silent during normal use:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelTrace))
//	e, err := lang.ParseString(ctx, "2^10", lang.WithLogger(logger))
//
// # Formats
//
// [FormatText] writes one line per record. With [WithPretty] enabled the
// line is colorized when the output is a terminal and left plain
// otherwise. [FormatJSON] writes one JSON object per record.
//
// # Timestamps
//
// [WithTimeLayout] accepts the named layouts of package [time] in any case,
// a custom layout, or "none" to omit timestamps.
//
// # Package-Level Logger
//
// [Config] and [SetDefault] replace the logger behind the package-level
// functions such as [InfoContext]. Replacement is atomic, so concurrent
// logging always sees either the old or the new configuration.
//
// The zero Logger is valid and discards every record.
package log
