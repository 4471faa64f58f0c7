package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/lang"
)

// Funcs lists the operators and builtin functions.
type Funcs struct {
	Output string `default:"text" enum:"text,yaml" help:"Listing format." short:"o"`
}

type funcInfo struct {
	Signature string `yaml:"signature"`
	Arity     int    `yaml:"arity"`
	Pure      bool   `yaml:"pure"`
}

type operatorInfo struct {
	Symbol     string `yaml:"symbol"`
	Name       string `yaml:"name"`
	Arity      int    `yaml:"arity"`
	Precedence int    `yaml:"precedence"`
	Assoc      string `yaml:"assoc"`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var (
		ops   []operatorInfo
		funcs []funcInfo
	)

	for op := range lang.Operators() {
		ops = append(ops, operatorInfo{
			Symbol:     op.Symbol,
			Name:       op.Name,
			Arity:      op.Arity,
			Precedence: op.Prec,
			Assoc:      op.Assoc.String(),
		})
	}

	for fn := range lang.Builtins() {
		funcs = append(funcs, funcInfo{
			Signature: fn.Signature(),
			Arity:     fn.Arity,
			Pure:      fn.Pure,
		})
	}

	out := stdoutFrom(ctx)

	if f.Output == outputYAML {
		data, err := yaml.MarshalContext(ctx, map[string]any{
			"operators": ops,
			"functions": funcs,
		})
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		if _, err := out.Write(data); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if err := writeListing(out, ops, funcs); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func writeListing(w io.Writer, ops []operatorInfo, funcs []funcInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "OPERATOR\tNAME\tPRECEDENCE\tASSOC")

	for _, op := range ops {
		symbol := op.Symbol
		if op.Arity == 1 {
			symbol += "x"
		} else {
			symbol = "x " + symbol + " y"
		}

		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", symbol, op.Name, op.Precedence, op.Assoc)
	}

	fmt.Fprintln(tw, "\t\t\t")
	fmt.Fprintln(tw, "FUNCTION\tPURE\t\t")

	for _, fn := range funcs {
		fmt.Fprintf(tw, "%s\t%t\t\t\n", fn.Signature, fn.Pure)
	}

	return tw.Flush()
}
