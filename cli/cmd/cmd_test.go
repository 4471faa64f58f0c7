package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func readSources(t *testing.T, ctx context.Context) string {
	t.Helper()

	src, err := openSources(ctx)
	if err != nil {
		t.Fatalf("openSources: %v", err)
	}

	defer func() {
		if err := src.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	return string(data)
}

func TestOpenSources_Stdin(t *testing.T) {
	t.Parallel()

	ctx := WithStdin(t.Context(), strings.NewReader("1+1\n"))

	if got := readSources(t, ctx); got != "1+1\n" {
		t.Errorf("got %q", got)
	}
}

func TestOpenSources_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.calc", "1\n")
	b := writeFile(t, dir, "b.calc", "2\n")

	link := filepath.Join(dir, "link.calc")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"in order", []string{b, a}, "2\n1\n"},
		{"same path twice", []string{a, b, a}, "1\n2\n"},
		{"symlink", []string{link, a}, "1\n"},
		{"stdin last", []string{stdinSource, a, b}, "1\n2\nstdin\n"},
		{"stdin once", []string{stdinSource, a, stdinSource}, "1\nstdin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := WithStdin(t.Context(), strings.NewReader("stdin\n"))
			ctx = WithSourceFiles(ctx, tt.paths)

			if got := readSources(t, ctx); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenSources_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.calc", "1\n")

	ctx := WithSourceFiles(t.Context(), []string{a, filepath.Join(dir, "missing.calc")})

	if _, err := openSources(ctx); !errors.Is(err, ErrOpenSource) {
		t.Errorf("expected ErrOpenSource, got %v", err)
	}
}

func TestStdoutFrom_Default(t *testing.T) {
	t.Parallel()

	if w := stdoutFrom(t.Context()); w != os.Stdout {
		t.Errorf("expected os.Stdout, got %T", w)
	}

	if r := stdinFrom(t.Context()); r != os.Stdin {
		t.Errorf("expected os.Stdin, got %T", r)
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := ErrEvalFailed.Wrap(cause)

	if err.Error() != "evaluation failed: boom" {
		t.Errorf("Error() = %q", err.Error())
	}

	if !errors.Is(err, ErrEvalFailed) || !errors.Is(err, cause) {
		t.Error("wrapped error lost its identity")
	}

	if errors.Is(err, ErrNoInput) {
		t.Error("matched an unrelated sentinel")
	}

	if got := NewError("").Wrap(cause).Error(); got != "boom" {
		t.Errorf("Error() without message = %q", got)
	}
}
