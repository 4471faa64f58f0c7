package lang

import (
	"errors"
	"iter"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
)

// Policy selects how operators and functions report results that are not
// finite real numbers.
type Policy int

const (
	// PolicyStrict fails with an [ArithmeticError] whenever an operator or
	// function yields a non-finite result from finite arguments.
	PolicyStrict Policy = iota

	// PolicyIEEE returns IEEE-754 infinities and NaN unchanged.
	PolicyIEEE
)

// DefaultPolicy is the policy of trees parsed without [WithPolicy].
const DefaultPolicy = PolicyStrict

// Policies returns the names accepted by [ParsePolicy].
func Policies() iter.Seq[string] {
	return slices.Values([]string{PolicyStrict.String(), PolicyIEEE.String()})
}

// String returns the name of p.
func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"

	case PolicyIEEE:
		return "ieee"

	default:
		return "unknown"
	}
}

// ParsePolicy returns the Policy named s, ignoring case.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return PolicyStrict, nil

	case "ieee", "ieee754":
		return PolicyIEEE, nil

	default:
		return DefaultPolicy, errors.New("unknown arithmetic policy: " + s)
	}
}

var (
	errDivisionByZero = errors.New("division by zero")
	errDomain         = errors.New("invalid domain")
	errRange          = errors.New("result out of range")
)

// check applies p to result v computed from args.
func (p Policy) check(v float64, args ...float64) (float64, error) {
	if p == PolicyIEEE || !isNonFinite(v) {
		return v, nil
	}

	for _, a := range args {
		if isNonFinite(a) {
			return v, nil
		}
	}

	if math.IsNaN(v) {
		return 0, ErrArithmetic.Wrap(errDomain)
	}

	return 0, ErrArithmetic.Wrap(errRange)
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Assoc is the associativity of an [Operator].
type Assoc int

const (
	AssocNone  Assoc = iota // prefix operators
	AssocLeft               // a op b op c == (a op b) op c
	AssocRight              // a op b op c == a op (b op c)
)

func (a Assoc) String() string {
	switch a {
	case AssocNone:
		return "none"
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "Assoc(" + strconv.Itoa(int(a)) + ")"
	}
}

// Binding strengths used to decide where parentheses are required when a
// tree is rendered as text. They mirror the nonterminals of the grammar.
const (
	precSum     = iota + 1 // E
	precProduct            // T
	precPower              // F
	precUnary              // N
	precAtom               // P
)

// Operator describes a unary or binary arithmetic operator.
type Operator struct {
	Symbol string // source text, e.g. "+"
	Name   string // identifier used by compiled programs, e.g. "add"
	Arity  int    // 1 for prefix operators, 2 for infix operators
	Assoc  Assoc  // grouping of chained infix operators
	Prec   int    // binding strength; greater binds tighter

	unary  func(x float64) float64
	binary func(x, y float64) float64
}

// String returns the symbol of op.
func (op *Operator) String() string { return op.Symbol }

// Apply applies a binary operator under policy.
func (op *Operator) Apply(policy Policy, x, y float64) (float64, error) {
	if op.binary == nil {
		return 0, ErrInternal.Wrapf("operator %s is not binary", op.Symbol)
	}

	if policy == PolicyStrict && !isNonFinite(x) && !isNonFinite(y) {
		switch {
		case (op.Symbol == "/" || op.Symbol == "%") && y == 0,
			op.Symbol == "^" && x == 0 && y < 0:
			return 0, ErrArithmetic.Wrap(errDivisionByZero).
				With(slog.String("operator", op.Symbol))
		}
	}

	v, err := policy.check(op.binary(x, y), x, y)
	if err != nil {
		return 0, WrapError(err).With(slog.String("operator", op.Symbol))
	}

	return v, nil
}

// ApplyUnary applies a prefix operator under policy.
func (op *Operator) ApplyUnary(policy Policy, x float64) (float64, error) {
	if op.unary == nil {
		return 0, ErrInternal.Wrapf("operator %s is not unary", op.Symbol)
	}

	return policy.check(op.unary(x), x)
}

var (
	opAdd = &Operator{
		Symbol: "+", Name: "add", Arity: 2, Assoc: AssocLeft, Prec: precSum,
		binary: func(x, y float64) float64 { return x + y },
	}
	opSub = &Operator{
		Symbol: "-", Name: "sub", Arity: 2, Assoc: AssocLeft, Prec: precSum,
		binary: func(x, y float64) float64 { return x - y },
	}
	opMul = &Operator{
		Symbol: "*", Name: "mul", Arity: 2, Assoc: AssocLeft, Prec: precProduct,
		binary: func(x, y float64) float64 { return x * y },
	}
	opDiv = &Operator{
		Symbol: "/", Name: "div", Arity: 2, Assoc: AssocLeft, Prec: precProduct,
		binary: func(x, y float64) float64 { return x / y },
	}
	opMod = &Operator{
		Symbol: "%", Name: "mod", Arity: 2, Assoc: AssocLeft, Prec: precProduct,
		binary: math.Mod,
	}
	opPow = &Operator{
		Symbol: "^", Name: "pow", Arity: 2, Assoc: AssocRight, Prec: precPower,
		binary: math.Pow,
	}
	opPos = &Operator{
		Symbol: "+", Name: "pos", Arity: 1, Assoc: AssocNone, Prec: precUnary,
		unary: func(x float64) float64 { return x },
	}
	opNeg = &Operator{
		Symbol: "-", Name: "neg", Arity: 1, Assoc: AssocNone, Prec: precUnary,
		unary: func(x float64) float64 { return -x },
	}
)

var (
	binaryOperators = map[Kind]*Operator{
		Plus:    opAdd,
		Minus:   opSub,
		Star:    opMul,
		Slash:   opDiv,
		Percent: opMod,
		Caret:   opPow,
	}

	unaryOperators = map[Kind]*Operator{
		Plus:  opPos,
		Minus: opNeg,
	}
)

// Operators returns every operator, binary operators first.
func Operators() iter.Seq[*Operator] {
	return slices.Values([]*Operator{
		opAdd, opSub, opMul, opDiv, opMod, opPow, opPos, opNeg,
	})
}

// LookupOperator returns the operator with the given symbol and arity.
func LookupOperator(symbol string, arity int) (*Operator, bool) {
	for op := range Operators() {
		if op.Symbol == symbol && op.Arity == arity {
			return op, true
		}
	}

	return nil, false
}

// Variadic is the [Function.Arity] of functions accepting any number of
// arguments.
const Variadic = -1

// Function is a named numeric function callable from expressions.
type Function struct {
	Name string

	// Arity is the exact number of arguments, or [Variadic].
	Arity int

	// Pure functions always return the same result for the same arguments,
	// so calls with constant arguments are memoized.
	Pure bool

	Call func(args []float64) (float64, error)
}

// Signature returns the name and parameter list of f, e.g. "hypot(x, y)".
func (f Function) Signature() string {
	switch f.Arity {
	case Variadic:
		return f.Name + "(...)"

	case 0:
		return f.Name + "()"

	case 1:
		return f.Name + "(x)"

	case 2:
		return f.Name + "(x, y)"

	default:
		params := make([]string, f.Arity)
		for i := range params {
			params[i] = "x" + strconv.Itoa(i+1)
		}

		return f.Name + "(" + strings.Join(params, ", ") + ")"
	}
}

// invoke checks the argument count against f and applies f under policy.
func (f *Function) invoke(policy Policy, args []float64) (float64, error) {
	if f.Arity != Variadic && len(args) != f.Arity {
		return 0, ErrArityMismatch.
			Wrapf("%s takes %d argument(s), got %d", f.Name, f.Arity, len(args)).
			With(slog.String("function", f.Name))
	}

	v, err := f.Call(args)
	if err != nil {
		if e := WrapError(err); e.Kind() != UnknownError {
			return 0, e
		}

		return 0, ErrArithmetic.Wrap(err).With(slog.String("function", f.Name))
	}

	v, err = policy.check(v, args...)
	if err != nil {
		return 0, WrapError(err).With(slog.String("function", f.Name))
	}

	return v, nil
}

func unaryFunc(name string, fn func(float64) float64) *Function {
	return &Function{
		Name: name, Arity: 1, Pure: true,
		Call: func(args []float64) (float64, error) { return fn(args[0]), nil },
	}
}

func binaryFunc(name string, fn func(x, y float64) float64) *Function {
	return &Function{
		Name: name, Arity: 2, Pure: true,
		Call: func(args []float64) (float64, error) {
			return fn(args[0], args[1]), nil
		},
	}
}

func constFunc(name string, v float64) *Function {
	return &Function{
		Name: name, Arity: 0, Pure: true,
		Call: func([]float64) (float64, error) { return v, nil },
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1

	case x < 0:
		return -1

	default:
		return x // preserves 0, -0, and NaN
	}
}

// builtins holds the functions available to every expression.
var builtins = indexFunctions(
	unaryFunc("sin", math.Sin),
	unaryFunc("cos", math.Cos),
	unaryFunc("tan", math.Tan),
	unaryFunc("asin", math.Asin),
	unaryFunc("acos", math.Acos),
	unaryFunc("atan", math.Atan),
	unaryFunc("sinh", math.Sinh),
	unaryFunc("cosh", math.Cosh),
	unaryFunc("tanh", math.Tanh),
	unaryFunc("sqrt", math.Sqrt),
	unaryFunc("exp", math.Exp),
	unaryFunc("ln", math.Log),
	unaryFunc("log10", math.Log10),
	unaryFunc("log2", math.Log2),
	unaryFunc("abs", math.Abs),
	unaryFunc("floor", math.Floor),
	unaryFunc("ceil", math.Ceil),
	unaryFunc("round", math.Round),
	unaryFunc("trunc", math.Trunc),
	unaryFunc("sign", sign),
	binaryFunc("atan2", math.Atan2),
	binaryFunc("hypot", math.Hypot),
	binaryFunc("min", math.Min),
	binaryFunc("max", math.Max),
	binaryFunc("pow", math.Pow),
	binaryFunc("mod", math.Mod),
	constFunc("pi", math.Pi),
	constFunc("e", math.E),
	&Function{
		Name: "rand", Arity: 0, Pure: false,
		Call: func([]float64) (float64, error) { return rand.Float64(), nil },
	},
)

func indexFunctions(fns ...*Function) map[string]*Function {
	index := make(map[string]*Function, len(fns))
	for _, fn := range fns {
		index[fn.Name] = fn
	}

	return index
}

// Builtins returns the built-in functions sorted by name.
func Builtins() iter.Seq[Function] {
	return func(yield func(Function) bool) {
		for _, name := range sortedKeys(builtins) {
			if !yield(*builtins[name]) {
				return
			}
		}
	}
}

// LookupBuiltin returns the built-in function with the given name.
func LookupBuiltin(name string) (Function, bool) {
	fn, ok := builtins[name]
	if !ok {
		return Function{}, false
	}

	return *fn, true
}
