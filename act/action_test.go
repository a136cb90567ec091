// file:arbor/act/action_test.go
package act_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/arbor/act"
)

func TestNewAction(t *testing.T) {
	a, err := act.NewAction(context.Background(), "Tree.Add", "1")
	require.NoError(t, err)
	assert.Equal(t, "tree.add", a.Name)
	assert.Equal(t, "tree", a.Group)
	assert.Equal(t, "add", a.Method)
	assert.Equal(t, `tree.add ["1"]`, a.String())

	for _, bad := range []string{"", "tree", ".add", "tree."} {
		_, err := act.NewAction(context.Background(), bad)
		assert.ErrorIs(t, err, act.ErrInvalidName, bad)
	}
}

func TestRegistry_Exec(t *testing.T) {
	r := act.NewRegistry()
	r.Register("demo.greet", func(a *act.Action) (any, error) {
		return map[string]any{"greeting": "Hello " + a.InputString(0, "default")}, nil
	})

	out, err := r.Exec(context.Background(), "DEMO.greet", "Pasha")
	require.NoError(t, err)
	assert.Equal(t, "Hello Pasha", out.(map[string]any)["greeting"])

	out, err = r.Exec(context.Background(), "demo.greet")
	require.NoError(t, err)
	assert.Equal(t, "Hello default", out.(map[string]any)["greeting"])

	_, err = r.Exec(context.Background(), "demo.missing")
	assert.ErrorIs(t, err, act.ErrUnknownAction)
}

func TestRegistry_ErrorsAndPanics(t *testing.T) {
	r := act.NewRegistry()
	boom := errors.New("boom")
	r.Register("demo.fail", func(*act.Action) (any, error) { return nil, boom })
	r.Register("demo.panic", func(*act.Action) (any, error) { panic(boom) })

	_, err := r.Exec(context.Background(), "demo.fail")
	assert.ErrorIs(t, err, boom)

	_, err = r.Exec(context.Background(), "demo.panic")
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_AliasAndDefs(t *testing.T) {
	r := act.NewRegistry()
	r.Add(
		act.Def{Name: "tree.ls", Func: func(*act.Action) (any, error) { return "ls", nil }, Usage: "<id>"},
		act.Def{Name: "tree.add", Func: func(*act.Action) (any, error) { return "add", nil }},
	)
	require.NoError(t, r.Alias("tree.ls", "tree.children"))
	assert.ErrorIs(t, r.Alias("tree.none", "x.y"), act.ErrUnknownAction)
	assert.True(t, r.Exists("TREE.CHILDREN"))

	out, err := r.Exec(context.Background(), "tree.children")
	require.NoError(t, err)
	assert.Equal(t, "ls", out)

	var names []string
	for _, d := range r.Defs() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"tree.add", "tree.children", "tree.ls"}, names)
}

func TestAction_OutputAndDispose(t *testing.T) {
	r := act.NewRegistry()
	r.Register("demo.echo", func(a *act.Action) (any, error) { return a.Inputs[0], nil })

	a, err := act.NewAction(context.Background(), "demo.echo", "x")
	require.NoError(t, err)
	_, err = r.Run(a)
	require.NoError(t, err)
	assert.Equal(t, "x", a.Output())

	a.Dispose()
	assert.Nil(t, a.Output())
	assert.Empty(t, a.Inputs)
}
