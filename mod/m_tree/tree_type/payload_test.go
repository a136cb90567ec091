package tree_type_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/arbor/mod/m_tree/tree_type"
)

func TestDecodePayload_KeepsWholeNumbers(t *testing.T) {
	got, err := tree_type.DecodePayload([]byte(`{"count":3,"weight":2.5,"big":1e300,"tags":[1,"x"],"meta":{"n":-4}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"count":  3,
		"weight": 2.5,
		"big":    1e300,
		"tags":   []any{1, "x"},
		"meta":   map[string]any{"n": -4},
	}, got)

	empty, err := tree_type.DecodePayload([]byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, empty)

	_, err = tree_type.DecodePayload([]byte(`{"count":`))
	assert.Error(t, err)
}

func TestNormalizePayload(t *testing.T) {
	got, err := tree_type.NormalizePayload(map[string]any{"a": int64(3), "b": float64(4), "c": []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 3, "b": 4, "c": []any{"x"}}, got)

	got, err = tree_type.NormalizePayload(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got)

	_, err = tree_type.NormalizePayload(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestPayloadSerializer_Value(t *testing.T) {
	var s tree_type.PayloadSerializer
	v, err := s.Value(context.Background(), nil, reflect.Value{}, map[string]any(nil))
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	v, err = s.Value(context.Background(), nil, reflect.Value{}, map[string]any{"count": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":3}`, v.(string))
}
