package lang

import (
	"context"
	"testing"
)

const benchSource = "sin(pi()/4)^2 + cos(pi()/4)^2 * x - sqrt(2)/y"

func BenchmarkParseString(b *testing.B) {
	ctx := context.Background()

	for b.Loop() {
		if _, err := ParseString(ctx, benchSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseCached(b *testing.B) {
	ClearCache()
	b.Cleanup(ClearCache)

	ctx := context.Background()

	for b.Loop() {
		if _, err := ParseCached(ctx, benchSource); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEvaluate measures evaluation with constant subtrees memoized
// after the first iteration.
func BenchmarkEvaluate(b *testing.B) {
	ctx := context.Background()
	env := Vars{"x": 3, "y": 4}

	e, err := ParseString(ctx, benchSource)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := e.Evaluate(ctx, env); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEvaluateUncached reparses before every evaluation so no memo
// survives between iterations.
func BenchmarkEvaluateUncached(b *testing.B) {
	ctx := context.Background()
	env := Vars{"x": 3, "y": 4}

	for b.Loop() {
		e, err := ParseString(ctx, benchSource)
		if err != nil {
			b.Fatal(err)
		}

		if _, err := e.Evaluate(ctx, env); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProgramRun(b *testing.B) {
	ctx := context.Background()
	env := Vars{"x": 3, "y": 4}

	e, err := ParseString(ctx, benchSource)
	if err != nil {
		b.Fatal(err)
	}

	p, err := Compile(ctx, e)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := p.Run(env); err != nil {
			b.Fatal(err)
		}
	}
}
