package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/lang"
)

func TestText_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr  string
		stdin string
		want  string
	}{
		{"((1+2))*(3)^(2^2)", "", "(1 + 2) * 3 ^ 2 ^ 2\n"},
		{"", "  2*-x\n\n", "2 * -x\n"},
	}

	for _, tt := range tests {
		var out strings.Builder

		ctx := WithStdout(t.Context(), &out)
		ctx = WithStdin(ctx, strings.NewReader(tt.stdin))

		f := &Text{source{Expr: tt.expr}}
		if err := f.Run(ctx); err != nil {
			t.Fatalf("%q: %v", tt.expr, err)
		}

		if out.String() != tt.want {
			t.Errorf("%q: got %q, want %q", tt.expr, out.String(), tt.want)
		}
	}
}

func TestText_SyntaxError(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	f := &Text{source{Expr: "1 + * 2"}}

	err := f.Run(WithStdout(t.Context(), &out))
	if !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("output on error: %q", out.String())
	}
}

func TestJSON_Run(t *testing.T) {
	t.Parallel()

	for _, indent := range []int{0, 2} {
		var out strings.Builder

		f := &JSON{source: source{Expr: "1 + x"}, Indent: indent}
		if err := f.Run(WithStdout(t.Context(), &out)); err != nil {
			t.Fatalf("Run: %v", err)
		}

		if lines := strings.Count(out.String(), "\n"); (indent == 0) != (lines == 1) {
			t.Errorf("indent %d: %d lines", indent, lines)
		}

		var doc map[string]any
		if err := json.Unmarshal([]byte(out.String()), &doc); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		if doc["canonical"] != "1 + x" || doc["constant"] != false {
			t.Errorf("indent %d: %v", indent, doc)
		}
	}
}

func TestYAML_Run(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	f := &YAML{source: source{Expr: "sin(0)"}, Indent: 2}
	if err := f.Run(WithStdout(t.Context(), &out)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(out.String()), &doc); err != nil {
		t.Fatalf("unmarshal %q: %v", out.String(), err)
	}

	if doc["canonical"] != "sin(0)" || doc["policy"] != "strict" || doc["constant"] != true {
		t.Errorf("got %v", doc)
	}
}

func TestTree_Run(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	ctx := WithStdout(t.Context(), &out)
	ctx = WithStdin(ctx, strings.NewReader("x\n"))

	if err := (&Tree{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := strings.Join([]string{
		"E -> T",
		"  T -> F",
		"    F -> N",
		"      N -> P",
		"        P -> identifier",
		`          "x"`,
		"",
	}, "\n")

	if out.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", out.String(), want)
	}

	if err := (&Tree{source{Expr: "(1"}}).Run(ctx); !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}
}
