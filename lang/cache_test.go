package lang

import (
	"errors"
	"sync"
	"testing"
)

// Tests that touch the global cache do not run in parallel with each other.

func TestParseCached_SharesTree(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	a, err := ParseCached(t.Context(), "2 * pi() + x")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	b, err := ParseCached(t.Context(), "2 * pi() + x")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if a == b {
		t.Error("expected distinct Expr values")
	}

	if a.Root != b.Root {
		t.Error("expected a shared tree")
	}

	// The memo populated through one Expr is visible through the other.
	if _, err := a.Evaluate(t.Context(), Vars{"x": 1}); err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	left := b.Root.(*BinaryOp).Left.(*BinaryOp)
	if _, ok := left.cached(); !ok {
		t.Error("expected the constant subtree memoized")
	}
}

func TestParseCached_KeyIncludesOptions(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	strict, err := ParseCached(t.Context(), "1/0")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	ieee, err := ParseCached(t.Context(), "1/0", WithPolicy(PolicyIEEE))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if strict.Root == ieee.Root {
		t.Fatal("expected separate trees per policy")
	}

	if _, err := strict.Evaluate(t.Context(), nil); !errors.Is(err, ErrArithmetic) {
		t.Errorf("expected arithmetic error, got %v", err)
	}

	if _, err := ieee.Evaluate(t.Context(), nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseCached_CachesErrors(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		e, err := ParseCached(t.Context(), "1 +")
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("expected syntax error, got %v", err)
		}

		if e != nil {
			t.Error("expected no tree on error")
		}
	}
}

func TestParseCached_BypassesCustomFunctions(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	one := Function{
		Name: "one", Arity: 0, Pure: true,
		Call: func([]float64) (float64, error) { return 1, nil },
	}

	a, err := ParseCached(t.Context(), "one()", WithFunction(one))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	b, err := ParseCached(t.Context(), "one()", WithFunction(one))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if a.Root == b.Root {
		t.Error("expected separate trees with custom functions")
	}
}

func TestParseCached_Concurrent(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	roots := make([]Node, 32)

	var wg sync.WaitGroup
	for i := range roots {
		wg.Go(func() {
			e, err := ParseCached(t.Context(), "sin(1) * cos(1)")
			if err != nil {
				t.Errorf("parse error: %v", err)

				return
			}

			roots[i] = e.Root
		})
	}

	wg.Wait()

	for i, root := range roots {
		if root != roots[0] {
			t.Errorf("goroutine %d saw a different tree", i)
		}
	}
}

func TestHashOptions(t *testing.T) {
	t.Parallel()

	strict := hashOptions(optionsKey{policy: PolicyStrict})
	ieee := hashOptions(optionsKey{policy: PolicyIEEE})

	if strict == ieee {
		t.Error("expected distinct hashes per policy")
	}

	if strict != hashOptions(optionsKey{}) {
		t.Error("expected the zero options to hash like the defaults")
	}

	if strict == hashOptions(optionsKey{maxDepth: 10}) {
		t.Error("expected distinct hashes per depth limit")
	}
}
