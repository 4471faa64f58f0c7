package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func flag(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func command(name string) *kong.Path {
	return &kong.Path{Command: &kong.Node{Name: name}}
}

func TestLoadYAML_Resolve(t *testing.T) {
	t.Parallel()

	resolver, err := loadYAML(strings.NewReader(`
log_level: debug
log-pretty: false
output: json
indent: 4
source: [a.calc, b.calc]
eval:
  output: yaml
  cache: false
`))
	if err != nil {
		t.Fatalf("loadYAML: %v", err)
	}

	tests := []struct {
		name   string
		parent *kong.Path
		want   any
	}{
		{"log-level", nil, "debug"},
		{"log-pretty", nil, false},
		{"indent", nil, "4"},
		{"output", nil, "json"},
		{"output", command("fmt"), "json"},
		{"output", command("eval"), "yaml"},
		{"cache", command("eval"), false},
		{"eval", nil, nil},
		{"missing", nil, nil},
	}

	for _, tt := range tests {
		got, err := resolver.Resolve(nil, tt.parent, flag(tt.name))
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tt.name, err)
		}

		if got != tt.want {
			t.Errorf("Resolve(%s) = %#v, want %#v", tt.name, got, tt.want)
		}
	}

	got, _ := resolver.Resolve(nil, nil, flag("source"))
	if list, ok := got.([]any); !ok || len(list) != 2 || list[0] != "a.calc" {
		t.Errorf("Resolve(source) = %#v", got)
	}
}

func TestLoadYAML_Empty(t *testing.T) {
	t.Parallel()

	resolver, err := loadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("loadYAML: %v", err)
	}

	if v, _ := resolver.Resolve(nil, nil, flag("log-level")); v != nil {
		t.Errorf("expected no value, got %#v", v)
	}
}

func TestLoadYAML_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := loadYAML(strings.NewReader("log_level: [debug\n")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadYAML_Kong(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")

	err := os.WriteFile(path, []byte(`
level: warn
eval:
  policy: ieee
  var:
    g: 9.81
    n: 3
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	var app struct {
		Level string `default:"info"`
		Eval  struct {
			Policy string             `default:"strict"`
			Var    map[string]float64 `short:"D"`
			Exprs  []string           `arg:"" optional:""`
		} `cmd:"" default:"withargs"`
	}

	parser, err := kong.New(&app,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Configuration(loadYAML, path),
	)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	if _, err := parser.Parse([]string{"eval", "--level=error", "g*n"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if app.Level != "error" {
		t.Errorf("command line did not override config: level %q", app.Level)
	}

	if app.Eval.Policy != "ieee" {
		t.Errorf("policy = %q", app.Eval.Policy)
	}

	if app.Eval.Var["g"] != 9.81 || app.Eval.Var["n"] != 3 {
		t.Errorf("var = %v", app.Eval.Var)
	}
}
