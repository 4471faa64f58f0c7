package cmd

import (
	"log/slog"
	"maps"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/lang"
)

// loadVars reads YAML files that map variable names to numbers, e.g.
//
//	x: 3
//	rate: 0.075
//
// Later files override earlier ones, and overrides win over all files.
func loadVars(paths []string, overrides map[string]float64) (lang.Vars, error) {
	vars := lang.Vars{}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrReadVars.Wrap(err).With(slog.String("path", path))
		}

		var doc map[string]float64
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, ErrReadVars.Wrap(err).With(slog.String("path", path))
		}

		maps.Copy(vars, doc)
	}

	maps.Copy(vars, overrides)

	for name := range vars {
		if !lang.IsIdentifier(name) {
			return nil, ErrInvalidVar.With(slog.String("name", name))
		}
	}

	return vars, nil
}
