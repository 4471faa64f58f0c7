package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML files of flag values.
//
// Top-level keys name global flags. A key naming a command holds a mapping
// of that command's flags. Keys may use "_" in place of "-":
//
//	log_level: debug
//	eval:
//	  policy: ieee
//	  var:
//	    g: 9.81
//
// Command-line flags override config file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, fmt.Errorf("config: %w", err)
	}

	return config(doc), nil
}

// config implements [kong.Resolver] over a decoded configuration file.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. Values under the section of the
// command being resolved take precedence over top-level values.
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := lookup(c, parent.Command.Name).(map[string]any); ok {
			if v := lookup(section, flag.Name); v != nil {
				return normalize(v), nil
			}
		}
	}

	if v := lookup(c, flag.Name); v != nil {
		if _, isSection := v.(map[string]any); !isSection || flag.IsMap() {
			return normalize(v), nil
		}
	}

	return nil, nil
}

// lookup returns the value of key in m, also trying key with "-" replaced
// by "_".
func lookup(m map[string]any, key string) any {
	if v, ok := m[key]; ok {
		return v
	}

	return m[strings.ReplaceAll(key, "-", "_")]
}

// normalize converts a number to a string for kong's scalar mappers.
// Lists and mappings are passed through for kong to decode.
func normalize(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return v
	}
}
