// file:arbor/mod/m_tree/actions.go
package m_tree

import (
	"context"
	"fmt"

	"github.com/rskv-p/arbor/act"
	"github.com/rskv-p/arbor/mod/m_tree/tree_db"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

//---------------------
// Actions
//---------------------

// Actions returns the tree.* action definitions bound to the module tree.
func (m *Module) Actions() []act.Def {
	return []act.Def{
		{Name: "tree.root", Usage: "[key=value...]", Func: m.root},
		{Name: "tree.add", Usage: "<parent> [key=value...]", Func: m.add},
		{Name: "tree.get", Usage: "<id>", Func: m.get},
		{Name: "tree.set", Usage: "<id> key=value...", Func: m.set},
		{Name: "tree.move", Usage: "<id> <parent>", Func: m.move},
		{Name: "tree.delete", Usage: "<id>", Func: m.delete},
		{Name: "tree.children", Usage: "<id>", Func: m.children},
		{Name: "tree.path", Usage: "<id>", Func: m.path},
		{Name: "tree.subtree", Usage: "<id> [dfs|bfs]", Func: m.subtree},
		{Name: "tree.show", Usage: "[id] [text|ascii]", Func: m.show},
		{Name: "tree.export", Usage: "[json|dot|text|ascii] [id]", Func: m.export},
		{Name: "tree.stats", Func: m.stats},
		{Name: "tree.check", Func: m.check},
	}
}

func nodeID(a *act.Action, i int) (x_tree.NodeID, error) {
	n, err := a.InputInt64(i)
	if err != nil {
		return x_tree.NoID, err
	}
	return x_tree.NodeID(n), nil
}

func (m *Module) root(a *act.Action) (any, error) {
	data, err := a.InputFields(0)
	if err != nil {
		return nil, err
	}
	tr := m.Tree()
	n, err := tr.CreateNode(x_tree.NoID, data)
	if err != nil {
		return nil, err
	}
	if err := tr.SetRootNode(a.Context(), n); err != nil {
		return nil, err
	}
	return ViewOf(a.Context(), n)
}

func (m *Module) add(a *act.Action) (any, error) {
	parent, err := nodeID(a, 0)
	if err != nil {
		return nil, err
	}
	data, err := a.InputFields(1)
	if err != nil {
		return nil, err
	}
	tr := m.Tree()
	n, err := tr.CreateNode(x_tree.NoID, data)
	if err != nil {
		return nil, err
	}
	if err := tr.AddChild(a.Context(), parent, n); err != nil {
		return nil, err
	}
	return ViewOf(a.Context(), n)
}

func (m *Module) get(a *act.Action) (any, error) {
	id, err := nodeID(a, 0)
	if err != nil {
		return nil, err
	}
	n, err := m.Tree().FetchNodeByID(a.Context(), id)
	if err != nil {
		return nil, err
	}
	return ViewOf(a.Context(), n)
}

// set merges the given fields into the payload and writes it through.
func (m *Module) set(a *act.Action) (any, error) {
	id, err := nodeID(a, 0)
	if err != nil {
		return nil, err
	}
	fields, err := a.InputFields(1)
	if err != nil {
		return nil, err
	}
	ctx := a.Context()
	n, err := m.Tree().FetchNodeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := n.Data(ctx)
	if err != nil {
		return nil, err
	}
	merged := data.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	if err := n.SetData(ctx, merged); err != nil {
		return nil, err
	}
	return ViewOf(ctx, n)
}

func (m *Module) move(a *act.Action) (any, error) {
	id, err := nodeID(a, 0)
	if err != nil {
		return nil, err
	}
	target, err := nodeID(a, 1)
	if err != nil {
		return nil, err
	}
	if err := m.Tree().Move(a.Context(), id, target); err != nil {
		return nil, err
	}
	return map[string]int64{"id": int64(id), "parent": int64(target)}, nil
}

func (m *Module) delete(a *act.Action) (any, error) {
	id, err := nodeID(a, 0)
	if err != nil {
		return nil, err
	}
	if err := m.Tree().Delete(a.Context(), id); err != nil {
		return nil, err
	}
	return map[string]int64{"deleted": int64(id)}, nil
}

func (m *Module) children(a *act.Action) (any, error) {
	id, err := nodeID(a, 0)
	if err != nil {
		return nil, err
	}
	list, err := m.Tree().FetchChildren(a.Context(), id)
	if err != nil {
		return nil, err
	}
	return ViewsOf(a.Context(), list)
}

func (m *Module) path(a *act.Action) (any, error) {
	id, err := nodeID(a, 0)
	if err != nil {
		return nil, err
	}
	list, err := m.Tree().FetchPath(a.Context(), id)
	if err != nil {
		return nil, err
	}
	return ViewsOf(a.Context(), list)
}

func (m *Module) subtree(a *act.Action) (any, error) {
	id, err := nodeID(a, 0)
	if err != nil {
		return nil, err
	}
	var list *x_tree.NodeList
	switch order := a.InputString(1, "dfs"); order {
	case "dfs":
		list, err = m.Tree().FetchSubtreeDepthFirst(a.Context(), id)
	case "bfs":
		list, err = m.Tree().FetchSubtreeBreadthFirst(a.Context(), id)
	default:
		return nil, fmt.Errorf("%w: order must be dfs or bfs, got %q", x_tree.ErrInvalidArgument, order)
	}
	if err != nil {
		return nil, err
	}
	return ViewsOf(a.Context(), list)
}

func (m *Module) show(a *act.Action) (any, error) {
	root := x_tree.NoID
	if a.InputString(0) != "" {
		id, err := nodeID(a, 0)
		if err != nil {
			return nil, err
		}
		root = id
	}
	return Render(a.Context(), m.Tree(), a.InputString(1, FormatText), root)
}

func (m *Module) export(a *act.Action) (any, error) {
	root := x_tree.NoID
	if a.InputString(1) != "" {
		id, err := nodeID(a, 1)
		if err != nil {
			return nil, err
		}
		root = id
	}
	return Render(a.Context(), m.Tree(), a.InputString(0, FormatJSON), root)
}

func (m *Module) stats(a *act.Action) (any, error) {
	st, ok, err := tree_db.StatsOf(a.Context(), m.Tree())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: backend has no stats", x_tree.ErrInvalidArgument)
	}
	return st, nil
}

// check validates the stored structure when the backend supports it.
func (m *Module) check(a *act.Action) (any, error) {
	c, ok := m.Tree().(interface {
		Check(ctx context.Context) error
	})
	if !ok {
		return map[string]any{"backend": m.Settings.Backend, "checked": false}, nil
	}
	if err := c.Check(a.Context()); err != nil {
		return nil, err
	}
	return map[string]any{"backend": m.Settings.Backend, "checked": true}, nil
}
