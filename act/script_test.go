// file:arbor/act/script_test.go
package act_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/arbor/act"
)

func TestParseLine(t *testing.T) {
	name, args, ok, err := act.ParseLine(`tree.add 1 label="Child A" 'note=a b'`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tree.add", name)
	assert.Equal(t, []any{"1", "label=Child A", "note=a b"}, args)

	for _, skip := range []string{"", "   ", "# comment"} {
		_, _, ok, err := act.ParseLine(skip)
		require.NoError(t, err)
		assert.False(t, ok, skip)
	}

	_, _, _, err = act.ParseLine(`tree.add "unterminated`)
	assert.ErrorIs(t, err, act.ErrInvalidInput)
}

func TestRunScript(t *testing.T) {
	r := act.NewRegistry()
	var calls []string
	r.Register("demo.say", func(a *act.Action) (any, error) {
		calls = append(calls, a.InputString(0))
		return a.InputString(0), nil
	})

	src := strings.NewReader("# greet\ndemo.say hello\n\ndemo.say \"two words\"\n")
	var lines []int
	err := r.RunScript(context.Background(), src, func(s act.Step, out any) {
		lines = append(lines, s.Line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "two words"}, calls)
	assert.Equal(t, []int{2, 4}, lines)

	err = r.RunScript(context.Background(), strings.NewReader("demo.say a\ndemo.nope\ndemo.say b\n"), nil)
	assert.ErrorIs(t, err, act.ErrUnknownAction)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, []string{"hello", "two words", "a"}, calls)
}
