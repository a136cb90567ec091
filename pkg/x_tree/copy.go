// file:arbor/pkg/x_tree/copy.go
package x_tree

import (
	"context"
	"fmt"
)

// Copy duplicates every node of from, payloads included, into to. The
// destination is wiped through SetRootNode first. Copy does not check that
// the two trees use distinct stores.
func Copy(ctx context.Context, from, to Tree) error {
	srcRoot, err := from.GetRootNode(ctx)
	if err != nil {
		return err
	}
	if srcRoot == nil {
		return fmt.Errorf("copy: %w", ErrEmptyTree)
	}
	data, err := srcRoot.Data(ctx)
	if err != nil {
		return err
	}
	dstRoot, err := to.CreateNode(NoID, data.Clone())
	if err != nil {
		return err
	}
	if err := to.SetRootNode(ctx, dstRoot); err != nil {
		return err
	}
	return copyChildren(ctx, srcRoot, dstRoot)
}

func copyChildren(ctx context.Context, src, dst *Node) error {
	children, err := src.FetchChildren(ctx)
	if err != nil {
		return err
	}
	it, err := children.Iterator(ctx, true)
	if err != nil {
		return err
	}
	for ; it.Valid(); it.Next() {
		child := it.Current()
		data, err := child.Data(ctx)
		if err != nil {
			return err
		}
		copied, err := dst.Tree().CreateNode(NoID, data.Clone())
		if err != nil {
			return err
		}
		if err := dst.AddChild(ctx, copied); err != nil {
			return err
		}
		if err := copyChildren(ctx, child, copied); err != nil {
			return err
		}
	}
	return nil
}
