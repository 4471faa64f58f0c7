package lang

import (
	"github.com/ardnew/calc/log"
)

// Expr is a parsed expression: the root of its expression tree together
// with the options it was built with.
type Expr struct {
	Root   Node
	Source string

	opts   optionsKey           // configuration that shapes the tree
	funcs  map[string]*Function // functions registered with WithFunction
	logger log.Logger           // structured logger (outside optionsKey, doesn't affect cache)
}

// optionsKey holds the options that change the tree built from a source.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	policy   Policy
	maxDepth int
}

// DefaultMaxDepth is the default limit on the depth of the parse tree.
// Each level of parentheses adds a handful of levels.
var DefaultMaxDepth = 1 << 16

// Option configures parsing or evaluation behavior.
type Option func(*Expr)

// WithPolicy sets the arithmetic policy bound into operator and call nodes.
func WithPolicy(policy Policy) Option {
	return func(e *Expr) {
		e.opts.policy = policy
	}
}

// WithMaxDepth limits the depth of the parse tree. Deeper input is
// rejected with [ErrSyntax]. A depth of zero or less removes the limit.
func WithMaxDepth(depth int) Option {
	return func(e *Expr) {
		e.opts.maxDepth = depth
	}
}

// WithFunction registers fn for calls by name, shadowing a built-in
// function of the same name. Functions are resolved while the tree is
// built, so they must be registered at parse time.
func WithFunction(fn Function) Option {
	return func(e *Expr) {
		if fn.Name == "" || fn.Call == nil {
			return
		}

		if e.funcs == nil {
			e.funcs = make(map[string]*Function)
		}

		e.funcs[fn.Name] = &fn
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(e *Expr) {
		e.logger = logger
	}
}

// applyDefaults sets default option values on an Expr.
func applyDefaults(e *Expr) {
	e.opts.policy = DefaultPolicy
	e.opts.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to an Expr.
func applyOptions(e *Expr, opts ...Option) {
	for _, opt := range opts {
		opt(e)
	}
}

func newExpr(source string, opts ...Option) *Expr {
	e := &Expr{Source: source}

	applyDefaults(e)
	applyOptions(e, opts...)

	return e
}

// Policy returns the arithmetic policy of e.
func (e *Expr) Policy() Policy { return e.opts.policy }

// IsConstant reports whether e evaluates to the same value in every
// environment.
func (e *Expr) IsConstant() bool {
	return e.Root != nil && e.Root.IsConstant()
}

// Function returns the function that calls by name resolve to in e.
func (e *Expr) Function(name string) (Function, bool) {
	fn := e.lookupFunction(name)
	if fn == nil {
		return Function{}, false
	}

	return *fn, true
}

func (e *Expr) lookupFunction(name string) *Function {
	if fn, ok := e.funcs[name]; ok {
		return fn
	}

	return builtins[name]
}

// Variables returns the sorted names of the variables e refers to.
func (e *Expr) Variables() []string {
	return e.collect(func(n Node) (string, bool) {
		v, ok := n.(*Variable)
		if !ok {
			return "", false
		}

		return v.Name, true
	})
}

// Calls returns the sorted names of the functions e calls.
func (e *Expr) Calls() []string {
	return e.collect(func(n Node) (string, bool) {
		c, ok := n.(*Call)
		if !ok {
			return "", false
		}

		return c.Name, true
	})
}

func (e *Expr) collect(name func(Node) (string, bool)) []string {
	if e.Root == nil {
		return nil
	}

	seen := make(map[string]struct{})

	Walk(e.Root, func(n Node) bool {
		if s, ok := name(n); ok {
			seen[s] = struct{}{}
		}

		return true
	})

	return sortedKeys(seen)
}
