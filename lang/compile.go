package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// compiledPrefix namespaces every identifier of a compiled program, so
// they never collide with names expr-lang predefines.
const compiledPrefix = "calc_"

// Program is an expression lowered to an expr-lang program. Running it
// produces the same results and error kinds as evaluating the tree.
type Program struct {
	expr    *Expr
	program *vm.Program
	source  string
	consts  map[string]float64
}

// Compile lowers e to an expr-lang program. Constant subtrees are
// evaluated once, populating their memo, and enter the program as named
// constants. Subtrees that fail to fold are lowered as-is so that the
// error surfaces when the program runs.
func Compile(ctx context.Context, e *Expr) (*Program, error) {
	if e == nil || e.Root == nil {
		return nil, ErrCompile.Wrapf("compile empty expression")
	}

	c := compiler{consts: make(map[string]float64)}

	var sb strings.Builder

	c.lower(&sb, e.Root)

	p := &Program{
		expr:   e,
		source: sb.String(),
		consts: c.consts,
	}

	program, err := expr.Compile(
		p.source,
		expr.Env(p.bindings(new(runState))),
		expr.AsFloat64(),
	)
	if err != nil {
		return nil, ErrCompile.Wrap(err).
			With(slog.String("source", e.Source))
	}

	p.program = program

	e.logger.TraceContext(ctx, "compile complete",
		slog.String("source", e.Source),
		slog.String("program", p.source),
		slog.Int("const_count", len(p.consts)),
	)

	return p, nil
}

// String returns the expr-lang source of p.
func (p *Program) String() string { return p.source }

// Expr returns the expression p was compiled from.
func (p *Program) Expr() *Expr { return p.expr }

// Run executes p with variables from env.
func (p *Program) Run(env Env) (float64, error) {
	st := &runState{expr: p.expr, env: env}

	out, err := vm.Run(p.program, p.bindings(st))

	// An error recorded by a callback precedes whatever the VM reports.
	if st.err != nil {
		return 0, st.err
	}

	if err != nil {
		return 0, ErrCompile.Wrap(err).
			With(slog.String("source", p.expr.Source))
	}

	v, ok := out.(float64)
	if !ok {
		return 0, ErrCompile.Wrapf("result has type %T", out)
	}

	return v, nil
}

// bindings returns the environment of one run of p: the folded constants
// and a callback per operator, variable lookup, and function call.
func (p *Program) bindings(st *runState) map[string]any {
	env := make(map[string]any, len(p.consts)+10)

	for name, v := range p.consts {
		env[name] = v
	}

	policy := DefaultPolicy
	if p.expr != nil {
		policy = p.expr.opts.policy
	}

	for op := range Operators() {
		if op.Arity == 2 {
			env[compiledPrefix+op.Name] = st.binary(op, policy)
		} else {
			env[compiledPrefix+op.Name] = st.unary(op, policy)
		}
	}

	env[compiledPrefix+"lookup"] = st.lookup
	env[compiledPrefix+"call"] = st.call(policy)

	return env
}

// compiler accumulates the constants of a program while lowering a tree.
type compiler struct {
	consts map[string]float64
}

func (c *compiler) constant(v float64) string {
	name := compiledPrefix + "k" + strconv.Itoa(len(c.consts))
	c.consts[name] = v

	return name
}

func (c *compiler) lower(sb *strings.Builder, n Node) {
	if n.IsConstant() {
		if v, err := evaluate(n, nil); err == nil {
			sb.WriteString(c.constant(v))

			return
		}
	}

	switch n := n.(type) {
	case *Const:
		sb.WriteString(c.constant(n.Value))

	case *Variable:
		sb.WriteString(compiledPrefix + "lookup(" + strconv.Quote(n.Name) + ")")

	case *BinaryOp:
		sb.WriteString(compiledPrefix + n.Op.Name + "(")
		c.lower(sb, n.Left)
		sb.WriteString(", ")
		c.lower(sb, n.Right)
		sb.WriteString(")")

	case *UnaryOp:
		sb.WriteString(compiledPrefix + n.Op.Name + "(")
		c.lower(sb, n.Operand)
		sb.WriteString(")")

	case *Call:
		sb.WriteString(compiledPrefix + "call(" + strconv.Quote(n.Name))

		for _, arg := range n.Args {
			sb.WriteString(", ")
			c.lower(sb, arg)
		}

		sb.WriteString(")")
	}
}

// runState carries the environment of one run and the first error raised
// by a callback. Once an error is recorded, every callback returns 0.
type runState struct {
	expr *Expr
	env  Env
	err  error
}

func (st *runState) fail(err error) float64 {
	if st.err == nil {
		st.err = err
	}

	return 0
}

func (st *runState) binary(op *Operator, policy Policy) func(x, y float64) float64 {
	return func(x, y float64) float64 {
		if st.err != nil {
			return 0
		}

		v, err := op.Apply(policy, x, y)
		if err != nil {
			return st.fail(err)
		}

		return v
	}
}

func (st *runState) unary(op *Operator, policy Policy) func(x float64) float64 {
	return func(x float64) float64 {
		if st.err != nil {
			return 0
		}

		v, err := op.ApplyUnary(policy, x)
		if err != nil {
			return st.fail(err)
		}

		return v
	}
}

func (st *runState) lookup(name string) float64 {
	if st.err != nil {
		return 0
	}

	v, err := lookup(&Variable{Name: name}, st.env)
	if err != nil {
		return st.fail(err)
	}

	return v
}

func (st *runState) call(policy Policy) func(name string, args ...float64) float64 {
	return func(name string, args ...float64) float64 {
		if st.err != nil {
			return 0
		}

		var fn *Function
		if st.expr != nil {
			fn = st.expr.lookupFunction(name)
		}

		if fn == nil {
			return st.fail(ErrUnknownFunction.Wrapf("%s", name).
				With(slog.String("function", name)))
		}

		v, err := fn.invoke(policy, args)
		if err != nil {
			return st.fail(err)
		}

		return v
	}
}
