package repl

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/calc/lang"
)

// ansName is the variable holding the most recent result.
const ansName = "ans"

// command is a session command entered with a leading colon.
type command struct {
	name  string
	alias string
	help  string
}

var commands = []command{
	{"vars", "v", "List variable bindings"},
	{"funcs", "f", "List builtin functions"},
	{"unset", "u", "Remove the named variable bindings"},
	{"clear", "c", "Clear the screen"},
	{"help", "h", "Print this help"},
	{"quit", "q", "Exit the session"},
}

// commandNames returns the completion candidates for session commands.
func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = ":" + c.name
	}

	return names
}

// Reply is the outcome of one line of input.
type Reply struct {
	Text  string // output to print, if any
	Err   error
	Clear bool // clear the screen
	Quit  bool // end the session
}

// Session evaluates lines against variable bindings that persist between
// lines. A line is one of:
//
//	expr          evaluate expr and bind the result to ans
//	name = expr   evaluate expr and bind the result to name and ans
//	:command      run a session command, see :help
type Session struct {
	vars lang.Vars
	opts []lang.Option
}

// NewSession returns a Session starting with a copy of vars. The options
// apply to every parsed expression.
func NewSession(vars lang.Vars, opts ...lang.Option) *Session {
	s := &Session{vars: lang.Vars{}, opts: opts}
	maps.Copy(s.vars, vars)

	return s
}

// Vars returns a copy of the current bindings.
func (s *Session) Vars() lang.Vars {
	return maps.Clone(s.vars)
}

// Names returns the bound variable names in sorted order.
func (s *Session) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// Exec runs one line of input.
func (s *Session) Exec(ctx context.Context, line string) Reply {
	line = strings.TrimSpace(line)

	switch {
	case line == "":
		return Reply{}

	case strings.HasPrefix(line, ":"):
		return s.command(strings.Fields(line[1:]))
	}

	name, text, bind := strings.Cut(line, "=")
	if !bind {
		name, text = "", line
	}

	name = strings.TrimSpace(name)
	if bind && !lang.IsIdentifier(name) {
		return Reply{Err: fmt.Errorf("%w: %q is not a variable name", ErrInvalidBinding, name)}
	}

	e, err := lang.ParseCached(ctx, strings.TrimSpace(text), s.opts...)
	if err != nil {
		return Reply{Err: err}
	}

	v, err := e.Evaluate(ctx, s.vars)
	if err != nil {
		return Reply{Err: err}
	}

	s.vars[ansName] = v

	if bind {
		s.vars[name] = v

		return Reply{Text: name + " = " + lang.FormatResult(v)}
	}

	return Reply{Text: lang.FormatResult(v)}
}

func (s *Session) command(fields []string) Reply {
	if len(fields) == 0 {
		return Reply{Text: helpText()}
	}

	var c command
	for _, known := range commands {
		if fields[0] == known.name || fields[0] == known.alias {
			c = known

			break
		}
	}

	switch c.name {
	case "vars":
		return Reply{Text: s.listVars()}

	case "funcs":
		return Reply{Text: listFuncs()}

	case "unset":
		for _, name := range fields[1:] {
			delete(s.vars, name)
		}

		return Reply{}

	case "clear":
		return Reply{Clear: true}

	case "help":
		return Reply{Text: helpText()}

	case "quit":
		return Reply{Quit: true}

	default:
		return Reply{Err: fmt.Errorf("%w: %s (try :help)", ErrUnknownCommand, fields[0])}
	}
}

func (s *Session) listVars() string {
	if len(s.vars) == 0 {
		return "no variables"
	}

	var b strings.Builder

	for i, name := range s.Names() {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(name + " = " + lang.FormatResult(s.vars[name]))
	}

	return b.String()
}

func listFuncs() string {
	var sigs []string
	for fn := range lang.Builtins() {
		sigs = append(sigs, fn.Signature())
	}

	return strings.Join(sigs, "\n")
}

func helpText() string {
	var b strings.Builder

	b.WriteString("Enter an expression to evaluate it, or name = expr to bind a variable.\n")
	b.WriteString("The last result is bound to " + ansName + ".\n\nCommands:\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  :%-6s :%-2s %s\n", c.name, c.alias, c.help)
	}

	b.WriteString("\nTab and Shift-Tab cycle completions, Up and Down browse history,\n")
	b.WriteString("Ctrl-C clears the line and Ctrl-D on an empty line exits.")

	return b.String()
}

// LogValue summarizes the session for structured logging.
func (s *Session) LogValue() slog.Value {
	return slog.GroupValue(slog.Int("var_count", len(s.vars)))
}
