package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// Fmt parses an expression and prints it in the chosen format.
type Fmt struct {
	Text Text `cmd:"" default:"withargs" help:"Print the canonical form (default)."`
	JSON JSON `cmd:""                    help:"Print the expression tree as JSON."`
	YAML YAML `cmd:""                    help:"Print the expression tree as YAML."`
	Tree Tree `cmd:""                    help:"Print the concrete parse tree."`
}

// source is the expression argument shared by the fmt subcommands.
type source struct {
	Expr string `arg:"" help:"Expression to format. Without one, reads --source or stdin." name:"expr" optional:""`
}

// parse parses the argument, or the whole of the source input when no
// argument is given.
func (s source) parse(ctx context.Context) (*lang.Expr, error) {
	opts := []lang.Option{lang.WithLogger(log.Default())}

	if strings.TrimSpace(s.Expr) != "" {
		return lang.ParseString(ctx, strings.TrimSpace(s.Expr), opts...)
	}

	src, err := openSources(ctx)
	if err != nil {
		return nil, err
	}

	defer src.Close()

	return lang.ParseReader(ctx, src, opts...)
}

// text returns the argument, or the whole of the source input.
func (s source) text(ctx context.Context) (string, error) {
	if strings.TrimSpace(s.Expr) != "" {
		return strings.TrimSpace(s.Expr), nil
	}

	src, err := openSources(ctx)
	if err != nil {
		return "", err
	}

	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err)
	}

	return strings.TrimSpace(string(data)), nil
}

// Text prints the canonical form of an expression.
type Text struct {
	source
}

// Run executes the fmt text command.
func (f *Text) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := f.parse(ctx)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "text"))
	}

	if err := e.Format(ctx, stdoutFrom(ctx)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// JSON prints the expression tree as JSON.
type JSON struct {
	source

	Indent int `default:"2" help:"Indent width; 0 prints a single line." short:"i"`
}

// Run executes the fmt json command.
func (f *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := f.parse(ctx)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "json"))
	}

	if err := e.FormatJSON(ctx, stdoutFrom(ctx), f.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML prints the expression tree as YAML.
type YAML struct {
	source

	Indent int `default:"2" help:"Indent width; 0 prints flow style." short:"i"`
}

// Run executes the fmt yaml command.
func (f *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := f.parse(ctx)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "yaml"))
	}

	if err := e.FormatYAML(ctx, stdoutFrom(ctx), f.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// Tree prints the concrete parse tree, one grammar rule per line.
type Tree struct {
	source
}

// Run executes the fmt tree command.
func (f *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := f.text(ctx)
	if err != nil {
		return err
	}

	tree, err := lang.ParseTree(text)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "tree"))
	}

	if err := tree.Print(stdoutFrom(ctx)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
