package repl

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/calc/lang"
)

func TestSession_Exec(t *testing.T) {
	t.Parallel()

	s := NewSession(lang.Vars{"x": 3})

	steps := []struct {
		line string
		text string
	}{
		{"x^2 + 1", "10"},
		{"ans * 2", "20"},
		{"y = x + ans", "y = 23"},
		{"  y - 3  ", "20"},
		{"", ""},
	}

	for _, step := range steps {
		r := s.Exec(t.Context(), step.line)
		if r.Err != nil {
			t.Fatalf("Exec(%q) error: %v", step.line, r.Err)
		}

		if r.Text != step.text {
			t.Errorf("Exec(%q) = %q, want %q", step.line, r.Text, step.text)
		}
	}

	if got := s.Names(); strings.Join(got, ",") != "ans,x,y" {
		t.Errorf("Names() = %v", got)
	}
}

func TestSession_CopiesInitialVars(t *testing.T) {
	t.Parallel()

	vars := lang.Vars{"x": 1}
	s := NewSession(vars)

	s.Exec(t.Context(), "x = 5")

	if vars["x"] != 1 {
		t.Errorf("initial vars modified: %v", vars)
	}

	if s.Vars()["x"] != 5 {
		t.Errorf("session vars: %v", s.Vars())
	}
}

func TestSession_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want error
	}{
		{"1 +", lang.ErrSyntax},
		{"z * 2", lang.ErrUndefinedVariable},
		{"1/0", lang.ErrArithmetic},
		{"2x = 1", ErrInvalidBinding},
		{"= 1", ErrInvalidBinding},
		{"a b = 1", ErrInvalidBinding},
		{"x = 1 +", lang.ErrSyntax},
		{":bogus", ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			s := NewSession(nil)

			r := s.Exec(t.Context(), tt.line)
			if !errors.Is(r.Err, tt.want) {
				t.Errorf("Exec(%q) error = %v, want %v", tt.line, r.Err, tt.want)
			}

			if len(s.Vars()) != 0 {
				t.Errorf("failed line bound variables: %v", s.Vars())
			}
		})
	}
}

func TestSession_Policy(t *testing.T) {
	t.Parallel()

	s := NewSession(nil, lang.WithPolicy(lang.PolicyIEEE))

	if r := s.Exec(t.Context(), "1/0"); r.Err != nil || r.Text != "+Inf" {
		t.Errorf("Exec(1/0) = %+v", r)
	}
}

func TestSession_Commands(t *testing.T) {
	t.Parallel()

	s := NewSession(lang.Vars{"b": 2, "a": 1})

	if r := s.Exec(t.Context(), ":vars"); r.Text != "a = 1\nb = 2" {
		t.Errorf(":vars = %q", r.Text)
	}

	if r := s.Exec(t.Context(), ":u a"); r.Err != nil || len(s.Vars()) != 1 {
		t.Errorf(":u a = %+v, vars %v", r, s.Vars())
	}

	if r := s.Exec(t.Context(), ":funcs"); !strings.Contains(r.Text, "atan2(x, y)") {
		t.Errorf(":funcs = %q", r.Text)
	}

	if r := s.Exec(t.Context(), ":help"); !strings.Contains(r.Text, ":quit") {
		t.Errorf(":help = %q", r.Text)
	}

	if r := s.Exec(t.Context(), ":"); !strings.Contains(r.Text, "Commands:") {
		t.Errorf(": = %q", r.Text)
	}

	if r := s.Exec(t.Context(), ":clear"); !r.Clear {
		t.Errorf(":clear = %+v", r)
	}

	if r := s.Exec(t.Context(), ":q"); !r.Quit {
		t.Errorf(":q = %+v", r)
	}

	s.Exec(t.Context(), ":unset b")

	if r := s.Exec(t.Context(), ":vars"); r.Text != "no variables" {
		t.Errorf(":vars = %q", r.Text)
	}
}
