package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/calc/cli/cmd/repl"
	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// Repl starts an interactive session.
type Repl struct {
	Var    map[string]float64 `help:"Bind variable NAME to VALUE."                   placeholder:"NAME=VALUE" short:"D"`
	Vars   []string           `help:"YAML file(s) mapping variable names to values." type:"existingfile"`
	Policy string             `help:"Arithmetic policy for non-finite results."      default:"strict"       enum:"strict,ieee"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	policy, err := lang.ParsePolicy(r.Policy)
	if err != nil {
		return ErrInvalidFlag.Wrap(err).With(slog.String("flag", "policy"))
	}

	vars, err := loadVars(r.Vars, r.Var)
	if err != nil {
		return err
	}

	logger := log.Default().With(slog.String("command", "repl"))

	session := repl.NewSession(vars,
		lang.WithPolicy(policy),
		lang.WithLogger(logger),
	)

	return repl.Run(ctx, session, logger)
}
