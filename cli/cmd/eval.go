package cmd

import (
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// Evaluation backends.
const (
	backendTree = "tree"
	backendVM   = "vm"
)

// Result formats.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// Eval evaluates expressions given as arguments, or one per line from the
// source files or standard input.
type Eval struct {
	Exprs []string `arg:"" help:"Expressions to evaluate. Without any, reads one expression per line from --source or stdin." name:"expr" optional:""`

	Var     map[string]float64 `help:"Bind variable NAME to VALUE."                                      placeholder:"NAME=VALUE" short:"D"`
	Vars    []string           `help:"YAML file(s) mapping variable names to values."                    type:"existingfile"`
	Prefix  string             `help:"Only evaluate lines starting with PREFIX and print EXPR=RESULT."`
	Policy  string             `help:"Arithmetic policy for non-finite results."                         default:"strict" enum:"strict,ieee"`
	Backend string             `help:"Walk the expression tree or run a compiled program."               default:"tree"   enum:"tree,vm"`
	Output  string             `help:"Result format."                                                    default:"text"   enum:"text,json,yaml" short:"o"`
	Cache   bool               `help:"Reuse parse trees of repeated expressions."                        default:"true"   negatable:""`
}

// input is one expression and the line it came from (0 for arguments).
type input struct {
	line int
	text string
}

// result is the outcome of evaluating one input.
type result struct {
	Line   int    `json:"line,omitempty"   yaml:"line,omitempty"`
	Expr   string `json:"expr"             yaml:"expr"`
	Result string `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string `json:"error,omitempty"  yaml:"error,omitempty"`

	err error
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	policy, err := lang.ParsePolicy(e.Policy)
	if err != nil {
		return ErrInvalidFlag.Wrap(err).With(slog.String("flag", "policy"))
	}

	env, err := loadVars(e.Vars, e.Var)
	if err != nil {
		return err
	}

	ev := newEvaluator(e.Backend, e.Cache,
		lang.WithPolicy(policy),
		lang.WithLogger(log.Default()),
	)

	out := stdoutFrom(ctx)

	var (
		results []result
		failed  []result
	)

	for in, err := range e.inputs(ctx) {
		if err != nil {
			return err
		}

		r := e.evaluate(ctx, ev, in, env)

		if r.err != nil {
			if e.Prefix != "" {
				log.DebugContext(ctx, "mention dropped",
					slog.Int("line", in.line),
					slog.Any("error", r.err),
				)

				continue
			}

			log.WarnContext(ctx, "evaluation failed",
				slog.Int("line", in.line),
				slog.String("expr", in.text),
				slog.Any("error", r.err),
			)

			failed = append(failed, r)
		}

		if e.Output == outputYAML {
			results = append(results, r)

			continue
		}

		if err := e.write(out, r); err != nil {
			return err
		}
	}

	if e.Output == outputYAML && len(results) > 0 {
		data, err := yaml.MarshalContext(ctx, results)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		if _, err := out.Write(data); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	switch len(failed) {
	case 0:
		return nil

	case 1:
		return ErrEvalFailed.Wrap(failed[0].err)

	default:
		return ErrEvalFailed.With(slog.Int("failures", len(failed)))
	}
}

// inputs yields the expressions to evaluate. In mention mode only lines
// carrying the prefix are yielded, with the prefix removed.
func (e *Eval) inputs(ctx context.Context) iter.Seq2[input, error] {
	return func(yield func(input, error) bool) {
		if len(e.Exprs) > 0 {
			for _, s := range e.Exprs {
				if in, ok := e.mention(input{text: strings.TrimSpace(s)}); ok {
					if !yield(in, nil) {
						return
					}
				}
			}

			return
		}

		src, err := openSources(ctx)
		if err != nil {
			yield(input{}, err)

			return
		}

		defer src.Close()

		if f, ok := src.reader.(*os.File); ok && isTerminal(f) {
			if ktx := kongContextFrom(ctx); ktx != nil {
				_ = ktx.PrintUsage(true)
			}

			yield(input{}, ErrNoInput)

			return
		}

		for line, err := range lang.Lines(ctx, src) {
			if err != nil {
				yield(input{}, err)

				return
			}

			if in, ok := e.mention(input{line: line.Number, text: line.Text}); ok {
				if !yield(in, nil) {
					return
				}
			}
		}
	}
}

func (e *Eval) mention(in input) (input, bool) {
	if e.Prefix == "" {
		return in, true
	}

	text, ok := strings.CutPrefix(in.text, e.Prefix)
	if !ok {
		return in, false
	}

	in.text = strings.TrimSpace(text)

	return in, true
}

func (e *Eval) evaluate(ctx context.Context, ev *evaluator, in input, env lang.Env) result {
	r := result{Line: in.line, Expr: in.text}

	v, err := ev.eval(ctx, in.text, env)
	if err != nil {
		r.Error, r.err = err.Error(), err

		return r
	}

	r.Result = lang.FormatResult(v)

	return r
}

func (e *Eval) write(w io.Writer, r result) error {
	switch e.Output {
	case outputJSON:
		data, err := json.Marshal(r)
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = w.Write(append(data, '\n'))
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil

	default:
		if r.err != nil {
			return nil
		}

		line := r.Result
		if e.Prefix != "" {
			line = r.Expr + "=" + r.Result
		}

		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()

	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// evaluator parses and evaluates expressions with a fixed set of options.
type evaluator struct {
	opts     []lang.Option
	backend  string
	cached   bool
	programs map[string]*lang.Program
}

func newEvaluator(backend string, cached bool, opts ...lang.Option) *evaluator {
	return &evaluator{
		opts:     opts,
		backend:  backend,
		cached:   cached,
		programs: make(map[string]*lang.Program),
	}
}

func (ev *evaluator) parse(ctx context.Context, s string) (*lang.Expr, error) {
	if ev.cached {
		return lang.ParseCached(ctx, s, ev.opts...)
	}

	return lang.ParseString(ctx, s, ev.opts...)
}

func (ev *evaluator) eval(ctx context.Context, s string, env lang.Env) (float64, error) {
	if ev.backend == backendVM {
		p, err := ev.compile(ctx, s)
		if err != nil {
			return 0, err
		}

		return p.Run(env)
	}

	e, err := ev.parse(ctx, s)
	if err != nil {
		return 0, err
	}

	return e.Evaluate(ctx, env)
}

func (ev *evaluator) compile(ctx context.Context, s string) (*lang.Program, error) {
	if p, ok := ev.programs[s]; ok {
		return p, nil
	}

	e, err := ev.parse(ctx, s)
	if err != nil {
		return nil, err
	}

	p, err := lang.Compile(ctx, e)
	if err != nil {
		return nil, err
	}

	ev.programs[s] = p

	return p, nil
}
