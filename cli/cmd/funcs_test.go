package cmd

import (
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestFuncs_Text(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	f := &Funcs{Output: outputText}
	if err := f.Run(WithStdout(t.Context(), &out)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{"OPERATOR", "x ^ y", "-x", "right", "FUNCTION", "hypot(x, y)", "pi()"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, out.String())
		}
	}
}

func TestFuncs_YAML(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	f := &Funcs{Output: outputYAML}
	if err := f.Run(WithStdout(t.Context(), &out)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var doc struct {
		Operators []operatorInfo `yaml:"operators"`
		Functions []funcInfo     `yaml:"functions"`
	}

	if err := yaml.Unmarshal([]byte(out.String()), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(doc.Operators) != 8 {
		t.Errorf("expected 8 operators, got %d", len(doc.Operators))
	}

	found := false

	for _, fn := range doc.Functions {
		if fn.Signature == "rand()" {
			found = true

			if fn.Pure || fn.Arity != 0 {
				t.Errorf("rand = %+v", fn)
			}
		}
	}

	if !found {
		t.Error("rand not listed")
	}
}
