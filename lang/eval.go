package lang

import (
	"context"
	"log/slog"
	"strconv"
)

// Env supplies variable values during evaluation. A nil Env is empty.
type Env interface {
	Lookup(name string) (float64, bool)
}

// Vars is an [Env] backed by a map.
type Vars map[string]float64

// Lookup implements [Env].
func (v Vars) Lookup(name string) (float64, bool) {
	x, ok := v[name]

	return x, ok
}

// EnvFunc adapts a function to the [Env] interface.
type EnvFunc func(name string) (float64, bool)

// Lookup implements [Env].
func (f EnvFunc) Lookup(name string) (float64, bool) { return f(name) }

// Evaluate computes the value of tree in env.
func Evaluate(ctx context.Context, tree *Expr, env Env) (float64, error) {
	return tree.Evaluate(ctx, env)
}

// Evaluate computes the value of the expression in env. Constant subtrees
// are computed at most once over the life of e.
func (e *Expr) Evaluate(ctx context.Context, env Env) (float64, error) {
	if e == nil || e.Root == nil {
		return 0, ErrInternal.Wrapf("evaluate empty expression")
	}

	v, err := evaluate(e.Root, env)

	if err != nil {
		e.logger.TraceContext(ctx, "evaluate failed",
			slog.String("source", e.Source),
			slog.Any("error", err),
		)

		return 0, err
	}

	e.logger.TraceContext(ctx, "evaluate",
		slog.String("source", e.Source),
		slog.String("result", FormatResult(v)),
	)

	return v, nil
}

// Value computes the value of n in env.
func Value(n Node, env Env) (float64, error) {
	return evaluate(n, env)
}

func evaluate(n Node, env Env) (float64, error) {
	switch n := n.(type) {
	case *Const:
		return n.Value, nil

	case *Variable:
		return lookup(n, env)

	case *BinaryOp:
		if v, ok := n.cached(); ok {
			return v, nil
		}

		x, err := evaluate(n.Left, env)
		if err != nil {
			return 0, err
		}

		y, err := evaluate(n.Right, env)
		if err != nil {
			return 0, err
		}

		v, err := n.Op.Apply(n.policy, x, y)
		if err != nil {
			return 0, err
		}

		return n.store(v), nil

	case *UnaryOp:
		if v, ok := n.cached(); ok {
			return v, nil
		}

		x, err := evaluate(n.Operand, env)
		if err != nil {
			return 0, err
		}

		v, err := n.Op.ApplyUnary(n.policy, x)
		if err != nil {
			return 0, err
		}

		return n.store(v), nil

	case *Call:
		if v, ok := n.cached(); ok {
			return v, nil
		}

		if n.fn == nil {
			return 0, ErrUnknownFunction.WithPosition(n.Pos).
				Wrapf("%s", n.Name).
				With(slog.String("function", n.Name))
		}

		args := make([]float64, len(n.Args))
		for i, arg := range n.Args {
			v, err := evaluate(arg, env)
			if err != nil {
				return 0, err
			}

			args[i] = v
		}

		v, err := n.fn.invoke(n.policy, args)
		if err != nil {
			return 0, WrapError(err).WithPosition(n.Pos)
		}

		return n.store(v), nil

	default:
		return 0, ErrInternal.Wrapf("unknown node type %T", n)
	}
}

func lookup(v *Variable, env Env) (float64, error) {
	if env != nil {
		if x, ok := env.Lookup(v.Name); ok {
			return x, nil
		}
	}

	err := ErrUndefinedVariable.Wrapf("%s", v.Name).
		With(slog.String("name", v.Name))
	if v.Pos.Column > 0 {
		err = err.WithPosition(v.Pos)
	}

	return 0, err
}

// FormatResult renders v in the shortest form that parses back to v.
func FormatResult(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
