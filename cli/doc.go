// Package cli contains the command line interface for calc.
//
// # Usage
//
//	calc [flags] [eval] [expr ...]
//	calc fmt (text|json|yaml|tree) [expr]
//	calc funcs
//	calc repl
//
// Eval is the default command, so a bare expression is evaluated:
//
//	calc '2^10'
//	calc -D x=3 'x^2 + 1'
//	calc --source=exprs.txt --output=json
//
// # Configuration Files
//
// Flag defaults are read from config.json, config.yaml or config.yml in the
// user configuration directory (e.g. ~/.config/calc). Top-level keys name
// global flags; a key naming a command holds that command's flags. Keys may
// use "_" in place of "-":
//
//	log_level: debug
//	eval:
//	  policy: ieee
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, ms, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/calc/pprof)
//
// For example:
//
//	go build -tags pprof -o calc .
//	./calc --pprof-mode=cpu --source=exprs.txt
package cli
