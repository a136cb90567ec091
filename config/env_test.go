package config_test

import (
	"testing"

	"github.com/rskv-p/arbor/config"
	"github.com/stretchr/testify/assert"
)

func TestEnv_Str(t *testing.T) {
	env := config.Env{Prefix: "ARBOR_T_"}

	t.Setenv("ARBOR_T_NAME", " tree ")
	assert.Equal(t, "tree", env.Str("NAME", "default"))

	t.Setenv("ARBOR_T_NAME", "")
	assert.Equal(t, "default", env.Str("NAME", "default"))
	assert.Equal(t, "default", env.Str("UNSET", "default"))
}

func TestEnv_Int(t *testing.T) {
	env := config.Env{Prefix: "ARBOR_T_"}

	t.Setenv("ARBOR_T_PORT", "9090")
	assert.Equal(t, 9090, env.Int("PORT", 80))

	t.Setenv("ARBOR_T_PORT", "ninety")
	assert.Equal(t, 80, env.Int("PORT", 80))
}

func TestEnv_Bool(t *testing.T) {
	env := config.Env{Prefix: "ARBOR_T_"}

	for raw, want := range map[string]bool{"1": true, "TRUE": true, "yes": true, "0": false, "false": false, "No": false} {
		t.Setenv("ARBOR_T_DEV", raw)
		assert.Equal(t, want, env.Bool("DEV", !want), raw)
	}

	t.Setenv("ARBOR_T_DEV", "maybe")
	assert.True(t, env.Bool("DEV", true))
}
