package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolveYAML is a [kong.ConfigurationLoader] for YAML configuration files
// such as the one written by the init command.
//
// Keys name flags. Nested mappings join their keys with "-", and "_" may
// stand in for "-", so these are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Sequences set list flags. Command-line flags override config file values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return settings{}, nil
	}

	if err != nil {
		return nil, err
	}

	out := settings{}
	out.flatten("", doc)

	return out, nil
}

// settings implements [kong.Resolver] over flattened configuration keys.
type settings map[string]any

func (s settings) flatten(prefix string, doc map[string]any) {
	for key, val := range doc {
		key = prefix + strings.ReplaceAll(key, "_", "-")

		if sub, ok := val.(map[string]any); ok {
			s.flatten(key+"-", sub)

			continue
		}

		s[key] = flagValue(val)
	}
}

// flagValue converts a decoded YAML value to a form kong can decode: scalars
// other than booleans become strings and sequences a comma-separated list.
func flagValue(val any) any {
	switch v := val.(type) {
	case nil, bool, string:
		return v
	case int:
		return strconv.Itoa(v)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		elems := make([]string, len(v))
		for i, e := range v {
			elems[i] = fmt.Sprint(flagValue(e))
		}

		return strings.Join(elems, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (s settings) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A key qualified by the names of the
// commands leading to the flag, such as "run-output", takes precedence over
// the bare flag name.
func (s settings) Resolve(_ *kong.Context, path *kong.Path, flag *kong.Flag) (any, error) {
	for _, key := range []string{commandPrefix(path) + flag.Name, flag.Name} {
		if v, ok := s[key]; ok && v != nil {
			return v, nil
		}
	}

	return nil, nil
}

// commandPrefix returns the names of the commands from the root to path,
// each followed by "-".
func commandPrefix(path *kong.Path) string {
	if path == nil {
		return ""
	}

	var names []string
	for n := path.Command; n != nil && n.Parent != nil; n = n.Parent {
		names = append(names, n.Name+"-")
	}

	slices.Reverse(names)

	return strings.Join(names, "")
}
