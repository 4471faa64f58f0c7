package lang

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
)

func TestEvaluate_Functions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  float64
	}{
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"tan(0)", 0},
		{"abs(-5)", 5},
		{"abs(5)", 5},
		{"pi()", math.Pi},
		{"e()", math.E},
		{"sqrt(16)", 4},
		{"ln(e())", 1},
		{"log10(1000)", 3},
		{"log2(8)", 3},
		{"floor(-1.5)", -2},
		{"ceil(1.2)", 2},
		{"round(2.5)", 3},
		{"trunc(-2.7)", -2},
		{"sign(-3)", -1},
		{"sign(0)", 0},
		{"atan2(1, 1)", math.Pi / 4},
		{"hypot(3, 4)", 5},
		{"min(3, -1)", -1},
		{"max(3, -1)", 3},
		{"pow(2, 10)", 1024},
		{"mod(7, 4)", 3},
		{"2*pi()", 2 * math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := mustEvaluate(t, tt.input, nil)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluate_Variables(t *testing.T) {
	t.Parallel()

	e := mustParse(t, "x+1")

	v, err := e.Evaluate(t.Context(), Vars{"x": 4})
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if v != 5 {
		t.Errorf("expected 5, got %v", v)
	}

	for _, env := range []Env{nil, Vars{}, Vars{"y": 4}} {
		_, err := e.Evaluate(t.Context(), env)
		if !errors.Is(err, ErrUndefinedVariable) {
			t.Errorf("expected undefined variable error, got %v", err)
		}

		if !IsEvaluationError(err) || IsParseError(err) {
			t.Errorf("expected an evaluation error, got %v", err)
		}
	}
}

func TestEvaluate_EnvFunc(t *testing.T) {
	t.Parallel()

	env := EnvFunc(func(name string) (float64, bool) {
		return float64(len(name)), true
	})

	if got := mustEvaluate(t, "abc * de", env); got != 6 {
		t.Errorf("expected 6, got %v", got)
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		env   Env
		want  float64
		err   error
	}{
		{"1+2*3", nil, 7, nil},
		{"2^3^2", nil, 512, nil},
		{"x*x - y", Vars{"x": 3, "y": 1}, 8, nil},
		{"x+1", nil, 0, ErrUndefinedVariable},
		{"1/0", nil, 0, ErrArithmetic},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := Evaluate(t.Context(), mustParse(t, tt.input), tt.env)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}

			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := Evaluate(t.Context(), nil, nil); !errors.Is(err, ErrInternal) {
		t.Errorf("expected internal error for a nil tree, got %v", err)
	}
}

func TestValue(t *testing.T) {
	t.Parallel()

	e := mustParse(t, "(a + 2) * 3")

	v, err := Value(e.Root, Vars{"a": 1})
	if err != nil {
		t.Fatalf("value error: %v", err)
	}

	if v != 9 {
		t.Errorf("expected 9, got %v", v)
	}

	// Subtrees evaluate on their own.
	mul, ok := e.Root.(*BinaryOp)
	if !ok {
		t.Fatalf("expected *BinaryOp root, got %T", e.Root)
	}

	if v, err := Value(mul.Right, nil); err != nil || v != 3 {
		t.Errorf("expected 3, got %v (%v)", v, err)
	}

	if _, err := Value(mul.Left, nil); !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("expected undefined variable error, got %v", err)
	}

	sum := newBinaryOp(opAdd, &Const{Value: 1}, &Variable{Name: "b"}, PolicyStrict)

	if v, err := Value(sum, Vars{"b": 41}); err != nil || v != 42 {
		t.Errorf("expected 42, got %v (%v)", v, err)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  error
	}{
		{"1/0", ErrArithmetic},
		{"1%0", ErrArithmetic},
		{"0/0", ErrArithmetic},
		{"0^-1", ErrArithmetic},
		{"(-8)^(1/3)", ErrArithmetic},
		{"10^400", ErrArithmetic},
		{"sqrt(-1)", ErrArithmetic},
		{"ln(0)", ErrArithmetic},
		{"asin(2)", ErrArithmetic},
		{"mod(1, 0)", ErrArithmetic},
		{"sin(1,2)", ErrArityMismatch},
		{"sin()", ErrArityMismatch},
		{"pi(1)", ErrArityMismatch},
		{"nope(1)", ErrUnknownFunction},
		{"nope()", ErrUnknownFunction},
		{"1 + 2 * y", ErrUndefinedVariable},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			e := mustParse(t, tt.input)

			v, err := e.Evaluate(t.Context(), nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v (value %v)", tt.want, err, v)
			}

			if v != 0 {
				t.Errorf("expected zero value on error, got %v", v)
			}

			// Errors are never memoized.
			if _, err := e.Evaluate(t.Context(), nil); !errors.Is(err, tt.want) {
				t.Errorf("expected %v on second evaluation, got %v", tt.want, err)
			}
		})
	}
}

func TestEvaluate_PolicyIEEE(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		check func(float64) bool
	}{
		{"1/0", func(v float64) bool { return math.IsInf(v, 1) }},
		{"-1/0", func(v float64) bool { return math.IsInf(v, -1) }},
		{"0/0", math.IsNaN},
		{"1%0", math.IsNaN},
		{"sqrt(-1)", math.IsNaN},
		{"ln(0)", func(v float64) bool { return math.IsInf(v, -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if v := mustEvaluate(t, tt.input, nil, WithPolicy(PolicyIEEE)); !tt.check(v) {
				t.Errorf("unexpected value %v", v)
			}
		})
	}
}

func TestEvaluate_NonFiniteInputsPassThrough(t *testing.T) {
	t.Parallel()

	v := mustEvaluate(t, "x + 1", Vars{"x": math.Inf(1)})
	if !math.IsInf(v, 1) {
		t.Errorf("expected +Inf, got %v", v)
	}
}

func TestEvaluate_ConstantMemo(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	counted := Function{
		Name:  "counted",
		Arity: 1,
		Pure:  true,
		Call: func(args []float64) (float64, error) {
			calls.Add(1)

			return args[0] * 2, nil
		},
	}

	e := mustParse(t, "counted(3) + x", WithFunction(counted))

	for i := range 5 {
		v, err := e.Evaluate(t.Context(), Vars{"x": float64(i)})
		if err != nil {
			t.Fatalf("evaluate error: %v", err)
		}

		if v != 6+float64(i) {
			t.Errorf("expected %v, got %v", 6+float64(i), v)
		}
	}

	if n := calls.Load(); n != 1 {
		t.Errorf("expected the constant call once, got %d calls", n)
	}

	if e.IsConstant() {
		t.Error("expression with a variable reported constant")
	}

	sum := e.Root.(*BinaryOp)
	if !sum.Left.IsConstant() {
		t.Error("pure call with constant arguments reported non-constant")
	}
}

func TestEvaluate_ImpureNotMemoized(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	tick := Function{
		Name:  "tick",
		Arity: 0,
		Call: func([]float64) (float64, error) {
			return float64(calls.Add(1)), nil
		},
	}

	e := mustParse(t, "tick() * 1", WithFunction(tick))

	if e.IsConstant() {
		t.Fatal("impure call reported constant")
	}

	for want := 1.0; want <= 3; want++ {
		v, err := e.Evaluate(t.Context(), nil)
		if err != nil {
			t.Fatalf("evaluate error: %v", err)
		}

		if v != want {
			t.Errorf("expected %v, got %v", want, v)
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	t.Parallel()

	e := mustParse(t, "sin(pi()/6) * x + 2^0.5")
	env := Vars{"x": 10}

	first, err := e.Evaluate(t.Context(), env)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	for range 10 {
		v, err := e.Evaluate(t.Context(), env)
		if err != nil {
			t.Fatalf("evaluate error: %v", err)
		}

		if v != first {
			t.Fatalf("expected %v, got %v", first, v)
		}
	}
}

func TestEvaluate_Concurrent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	slow := Function{
		Name:  "slow",
		Arity: 1,
		Pure:  true,
		Call: func(args []float64) (float64, error) {
			calls.Add(1)

			return math.Sqrt(args[0]), nil
		},
	}

	e := mustParse(t, "slow(2) * x", WithFunction(slow))

	var wg sync.WaitGroup

	results := make([]float64, 64)
	for i := range results {
		wg.Go(func() {
			v, err := e.Evaluate(t.Context(), Vars{"x": 1})
			if err != nil {
				t.Errorf("evaluate error: %v", err)
			}

			results[i] = v
		})
	}

	wg.Wait()

	for i, v := range results {
		if v != math.Sqrt2 {
			t.Errorf("result %d: expected %v, got %v", i, math.Sqrt2, v)
		}
	}

	if n := calls.Load(); n < 1 {
		t.Errorf("expected at least one call, got %d", n)
	}
}

func TestEvaluate_ZeroArity(t *testing.T) {
	t.Parallel()

	e := mustParse(t, "pi()")

	call, ok := e.Root.(*Call)
	if !ok {
		t.Fatalf("expected a call, got %#v", e.Root)
	}

	if len(call.Args) != 0 {
		t.Errorf("expected no arguments, got %d", len(call.Args))
	}

	if !call.IsConstant() {
		t.Error("pi() reported non-constant")
	}

	v, err := e.Evaluate(t.Context(), nil)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if v != math.Pi {
		t.Errorf("expected π, got %v", v)
	}

	if cached, ok := call.cached(); !ok || cached != math.Pi {
		t.Errorf("expected π memoized, got %v (%v)", cached, ok)
	}

	// A bare identifier is a variable, not a zero-argument call.
	if _, err := mustParse(t, "pi").Evaluate(t.Context(), nil); !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("expected undefined variable error, got %v", err)
	}
}

func TestWithFunction_ShadowsBuiltin(t *testing.T) {
	t.Parallel()

	sin := Function{
		Name:  "sin",
		Arity: 1,
		Pure:  true,
		Call:  func(args []float64) (float64, error) { return 42, nil },
	}

	if got := mustEvaluate(t, "sin(0)", nil, WithFunction(sin)); got != 42 {
		t.Errorf("expected 42, got %v", got)
	}

	if got := mustEvaluate(t, "sin(0)", nil); got != 0 {
		t.Errorf("expected builtin sin, got %v", got)
	}
}

func TestWithFunction_Errors(t *testing.T) {
	t.Parallel()

	failing := Function{
		Name:  "fail",
		Arity: Variadic,
		Call: func([]float64) (float64, error) {
			return 0, errors.New("boom")
		},
	}

	undefined := Function{
		Name:  "needs",
		Arity: 0,
		Call: func([]float64) (float64, error) {
			return 0, ErrUndefinedVariable.Wrapf("z")
		},
	}

	_, err := mustParse(t, "fail(1, 2, 3)", WithFunction(failing)).
		Evaluate(t.Context(), nil)
	if !errors.Is(err, ErrArithmetic) {
		t.Errorf("expected arithmetic error, got %v", err)
	}

	_, err = mustParse(t, "needs()", WithFunction(undefined)).
		Evaluate(t.Context(), nil)
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("expected undefined variable error, got %v", err)
	}
}

func TestOperator_Lookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		symbol string
		arity  int
		want   *Operator
	}{
		{"+", 2, opAdd},
		{"+", 1, opPos},
		{"-", 1, opNeg},
		{"^", 2, opPow},
		{"^", 1, nil},
		{"&", 2, nil},
	}

	for _, tt := range tests {
		op, ok := LookupOperator(tt.symbol, tt.arity)
		if op != tt.want || ok != (tt.want != nil) {
			t.Errorf("%s/%d: expected %v, got %v (%v)", tt.symbol, tt.arity, tt.want, op, ok)
		}
	}
}

func TestOperator_Assoc(t *testing.T) {
	t.Parallel()

	for op, want := range map[*Operator]string{
		opAdd: "left",
		opPow: "right",
		opNeg: "none",
	} {
		if got := op.Assoc.String(); got != want {
			t.Errorf("%s: expected %q, got %q", op.Name, want, got)
		}
	}

	if got := Assoc(7).String(); got != "Assoc(7)" {
		t.Errorf("expected Assoc(7), got %q", got)
	}
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	for name := range Policies() {
		p, err := ParsePolicy(name)
		if err != nil {
			t.Errorf("%q: %v", name, err)
		}

		if p.String() != name {
			t.Errorf("expected %q, got %q", name, p)
		}
	}

	if _, err := ParsePolicy("lenient"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestBuiltins(t *testing.T) {
	t.Parallel()

	prev := ""
	count := 0

	for fn := range Builtins() {
		if fn.Name <= prev {
			t.Errorf("builtins out of order: %q after %q", fn.Name, prev)
		}

		prev = fn.Name
		count++

		if fn.Name == "rand" && fn.Pure {
			t.Error("rand reported pure")
		}
	}

	if count != len(builtins) {
		t.Errorf("expected %d builtins, got %d", len(builtins), count)
	}

	for _, name := range []string{"sin", "cos", "tan", "abs", "pi"} {
		if _, ok := LookupBuiltin(name); !ok {
			t.Errorf("missing builtin %q", name)
		}
	}

	if fn, _ := LookupBuiltin("pi"); fn.Arity != 0 {
		t.Errorf("expected pi to take no arguments, got arity %d", fn.Arity)
	}
}
