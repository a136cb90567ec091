package tree_type_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rskv-p/arbor/mod/m_tree/tree_type"
)

func TestRow_Helpers(t *testing.T) {
	root := tree_type.Row{ID: 1, Lft: 1, Rgt: 6}
	child := tree_type.Row{ID: 2, ParentID: tree_type.Ptr(1), Lft: 2, Rgt: 3}

	assert.Equal(t, int64(0), root.Parent())
	assert.Equal(t, int64(1), child.Parent())
	assert.Equal(t, int64(6), root.Width())
	assert.Equal(t, int64(2), child.Width())
}
