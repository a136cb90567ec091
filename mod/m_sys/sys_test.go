package m_sys_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/arbor/act"
	"github.com/rskv-p/arbor/mod/m_sys"
)

func TestSystemActions(t *testing.T) {
	ctx := context.Background()
	reg := act.NewRegistry()
	m := m_sys.NewModule("arbor", reg)
	require.NoError(t, m.Init(ctx))

	out, err := reg.Exec(ctx, "system.ping")
	require.NoError(t, err)
	assert.Equal(t, true, out.(map[string]any)["pong"])

	out, err = reg.Exec(ctx, "system.info")
	require.NoError(t, err)
	info := out.(map[string]any)
	assert.Equal(t, "arbor", info["name"])
	assert.Equal(t, []string{"system.info", "system.ping"}, info["actions"])
	require.NoError(t, m.Stop())
}
