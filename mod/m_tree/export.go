// file:arbor/mod/m_tree/export.go
package m_tree

import (
	"context"
	"fmt"

	"github.com/rskv-p/arbor/mod/m_tree/tree_visit"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

// Export formats.
const (
	FormatJSON  = "json"
	FormatDot   = "dot"
	FormatText  = "text"
	FormatASCII = "ascii"
)

// Render visits the whole tree, or the subtree of root when root is set,
// and renders it in format.
func Render(ctx context.Context, tr x_tree.Tree, format string, root x_tree.NodeID) (string, error) {
	var (
		v      x_tree.Visitor
		render func() (string, error)
	)
	switch format {
	case FormatJSON, "":
		s := tree_visit.NewStructured()
		v, render = s, func() (string, error) {
			b, err := s.JSON()
			return string(b), err
		}
	case FormatDot:
		d := tree_visit.NewDot()
		v, render = d, func() (string, error) { return d.String(), nil }
	case FormatText, FormatASCII:
		glyphs := tree_visit.UTF8
		if format == FormatASCII {
			glyphs = tree_visit.ASCII
		}
		p := tree_visit.NewPlaintext(glyphs)
		v, render = p, func() (string, error) { return p.String(), nil }
	default:
		return "", fmt.Errorf("%w: unknown export format %q", x_tree.ErrInvalidArgument, format)
	}

	if err := visit(ctx, tr, root, v); err != nil {
		return "", err
	}
	return render()
}

func visit(ctx context.Context, tr x_tree.Tree, root x_tree.NodeID, v x_tree.Visitor) error {
	if root == x_tree.NoID {
		return tr.Accept(ctx, v)
	}
	n, err := tr.FetchNodeByID(ctx, root)
	if err != nil {
		return err
	}
	return n.Accept(ctx, v)
}
