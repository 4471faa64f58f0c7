// Package cmd implements the calc subcommands: eval, fmt, funcs and repl.
//
// Commands receive their inputs through the context prepared by package
// cli: the parsed command line ([WithContext]), the source files read when
// no expression is given ([WithSourceFiles]), and the standard streams
// ([WithStdin], [WithStdout]), which tests replace.
package cmd
