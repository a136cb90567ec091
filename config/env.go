// file:arbor/config/env.go
package config

import (
	"os"
	"strconv"
	"strings"
)

// Env reads environment variables sharing one prefix, e.g. "ARBOR_".
// Unset, empty or unparsable values leave the fallback in place.
type Env struct {
	Prefix string
}

// Lookup returns the raw value of Prefix+key and whether it is non-empty.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(e.Prefix + key)
	return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
}

func (e Env) Str(key, fallback string) string {
	return envValue(e, key, fallback, func(s string) (string, error) { return s, nil })
}

func (e Env) Int(key string, fallback int) int {
	return envValue(e, key, fallback, strconv.Atoi)
}

// Bool accepts 1/0, true/false and yes/no in any case.
func (e Env) Bool(key string, fallback bool) bool {
	return envValue(e, key, fallback, parseBool)
}

func envValue[T any](e Env, key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := e.Lookup(key)
	if !ok {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, strconv.ErrSyntax
}
