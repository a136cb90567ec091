// file:arbor/act/input.go
package act

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

//---------------------
// Input Validation
//---------------------

// ValidateInputsNumber checks that at least n inputs were given.
func (a *Action) ValidateInputsNumber(n int) error {
	if len(a.Inputs) < n {
		return fmt.Errorf("%w: %s requires at least %d args, got %d", ErrMissingInput, a.Name, n, len(a.Inputs))
	}
	return nil
}

func (a *Action) NumberOfInputs() int { return len(a.Inputs) }

func (a *Action) input(i int) (any, bool) {
	if i < 0 || len(a.Inputs) <= i || a.Inputs[i] == nil {
		return nil, false
	}
	return a.Inputs[i], true
}

//---------------------
// Scalar Parsers
//---------------------

// InputString returns input i as a string, or the first default when missing.
func (a *Action) InputString(i int, defaults ...string) string {
	v, ok := a.input(i)
	if !ok {
		if len(defaults) > 0 {
			return defaults[0]
		}
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// InputInt64 parses input i as an integer.
func (a *Action) InputInt64(i int) (int64, error) {
	v, ok := a.input(i)
	if !ok {
		return 0, fmt.Errorf("%w: %s argument %d", ErrMissingInput, a.Name, i)
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("%w: %s argument %d is not an integer: %v", ErrInvalidInput, a.Name, i, n)
		}
		return int64(n), nil
	case string:
		out, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s argument %d: %v", ErrInvalidInput, a.Name, i, err)
		}
		return out, nil
	default:
		return 0, fmt.Errorf("%w: %s argument %d: expected integer, got %T", ErrInvalidInput, a.Name, i, v)
	}
}

// InputInt is InputInt64 with a fallback for missing or malformed input.
func (a *Action) InputInt(i int, defaults ...int) int {
	n, err := a.InputInt64(i)
	if err != nil {
		if len(defaults) > 0 {
			return defaults[0]
		}
		return 0
	}
	return int(n)
}

// InputBool parses input i as a boolean.
func (a *Action) InputBool(i int, defaults ...bool) bool {
	v, ok := a.input(i)
	if !ok {
		return len(defaults) > 0 && defaults[0]
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		out, err := strconv.ParseBool(b)
		if err != nil {
			return len(defaults) > 0 && defaults[0]
		}
		return out
	default:
		return len(defaults) > 0 && defaults[0]
	}
}

//---------------------
// Map Parsers
//---------------------

// InputMap returns input i as a map. url.Values collapse single values.
func (a *Action) InputMap(i int) (map[string]any, error) {
	v, ok := a.input(i)
	if !ok {
		return map[string]any{}, nil
	}
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, nil
	case url.Values:
		out := make(map[string]any, len(m))
		for k, vals := range m {
			if len(vals) == 1 {
				out[k] = vals[0]
			} else {
				out[k] = vals
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s argument %d: expected a map, got %T", ErrInvalidInput, a.Name, i, v)
	}
}

// InputFields merges every input from index `from` on into one map. Map
// inputs are merged as is; "key=value" strings become fields, with values
// parsed as JSON-ish scalars (numbers, booleans) when they look like one.
func (a *Action) InputFields(from int) (map[string]any, error) {
	out := map[string]any{}
	for i := from; i < len(a.Inputs); i++ {
		switch v := a.Inputs[i].(type) {
		case nil:
		case string:
			key, val, ok := strings.Cut(v, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("%w: %s argument %d: expected key=value, got %q", ErrInvalidInput, a.Name, i, v)
			}
			out[key] = scalar(val)
		default:
			m, err := a.InputMap(i)
			if err != nil {
				return nil, err
			}
			for k, mv := range m {
				out[k] = mv
			}
		}
	}
	return out, nil
}

// Decode decodes input i (a map) into out with weak typing.
func (a *Action) Decode(i int, out any) error {
	m, err := a.InputMap(i)
	if err != nil {
		return err
	}
	if err := mapstructure.WeakDecode(m, out); err != nil {
		return fmt.Errorf("%w: %s argument %d: %v", ErrInvalidInput, a.Name, i, err)
	}
	return nil
}

func scalar(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
