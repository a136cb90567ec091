// file:arbor/servs/s_tree/tree_client/actions.go
package tree_client

import (
	"fmt"

	"github.com/rskv-p/arbor/act"
	"github.com/rskv-p/arbor/mod/m_tree"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

//---------------------
// Remote Actions
//---------------------

// Actions mirrors the m_tree tree.* actions over HTTP, so a registry can
// drive a remote tree the same way it drives a local one. tree.check has no
// HTTP counterpart and is not registered.
func (c *RESTClient) Actions() []act.Def {
	return []act.Def{
		{Name: "tree.root", Usage: "[key=value...]", Func: c.root},
		{Name: "tree.add", Usage: "<parent> [key=value...]", Func: c.add},
		{Name: "tree.get", Usage: "<id>", Func: c.get},
		{Name: "tree.set", Usage: "<id> key=value...", Func: c.set},
		{Name: "tree.move", Usage: "<id> <parent>", Func: c.move},
		{Name: "tree.delete", Usage: "<id>", Func: c.delete},
		{Name: "tree.children", Usage: "<id>", Func: c.children},
		{Name: "tree.path", Usage: "<id>", Func: c.path},
		{Name: "tree.subtree", Usage: "<id> [dfs|bfs]", Func: c.subtree},
		{Name: "tree.show", Usage: "[id] [text|ascii]", Func: c.show},
		{Name: "tree.export", Usage: "[json|dot|text|ascii] [id]", Func: c.export},
		{Name: "tree.stats", Func: c.stats},
	}
}

func (c *RESTClient) root(a *act.Action) (any, error) {
	data, err := a.InputFields(0)
	if err != nil {
		return nil, err
	}
	return c.SetRoot(a.Context(), data)
}

func (c *RESTClient) add(a *act.Action) (any, error) {
	parent, err := a.InputInt64(0)
	if err != nil {
		return nil, err
	}
	data, err := a.InputFields(1)
	if err != nil {
		return nil, err
	}
	return c.Add(a.Context(), parent, data)
}

func (c *RESTClient) get(a *act.Action) (any, error) {
	id, err := a.InputInt64(0)
	if err != nil {
		return nil, err
	}
	return c.Get(a.Context(), id)
}

func (c *RESTClient) set(a *act.Action) (any, error) {
	id, err := a.InputInt64(0)
	if err != nil {
		return nil, err
	}
	data, err := a.InputFields(1)
	if err != nil {
		return nil, err
	}
	return c.Update(a.Context(), id, data)
}

func (c *RESTClient) move(a *act.Action) (any, error) {
	id, err := a.InputInt64(0)
	if err != nil {
		return nil, err
	}
	parent, err := a.InputInt64(1)
	if err != nil {
		return nil, err
	}
	if err := c.Move(a.Context(), id, parent); err != nil {
		return nil, err
	}
	return map[string]int64{"id": id, "parent": parent}, nil
}

func (c *RESTClient) delete(a *act.Action) (any, error) {
	id, err := a.InputInt64(0)
	if err != nil {
		return nil, err
	}
	if err := c.Delete(a.Context(), id); err != nil {
		return nil, err
	}
	return map[string]int64{"deleted": id}, nil
}

func (c *RESTClient) children(a *act.Action) (any, error) {
	id, err := a.InputInt64(0)
	if err != nil {
		return nil, err
	}
	return c.Children(a.Context(), id)
}

func (c *RESTClient) path(a *act.Action) (any, error) {
	id, err := a.InputInt64(0)
	if err != nil {
		return nil, err
	}
	return c.Path(a.Context(), id)
}

func (c *RESTClient) subtree(a *act.Action) (any, error) {
	id, err := a.InputInt64(0)
	if err != nil {
		return nil, err
	}
	order := a.InputString(1, "dfs")
	if order != "dfs" && order != "bfs" {
		return nil, fmt.Errorf("%w: order must be dfs or bfs, got %q", x_tree.ErrInvalidArgument, order)
	}
	return c.Subtree(a.Context(), id, order)
}

func (c *RESTClient) show(a *act.Action) (any, error) {
	var root int64
	if a.InputString(0) != "" {
		id, err := a.InputInt64(0)
		if err != nil {
			return nil, err
		}
		root = id
	}
	return c.Export(a.Context(), a.InputString(1, m_tree.FormatText), root)
}

func (c *RESTClient) export(a *act.Action) (any, error) {
	var root int64
	if a.InputString(1) != "" {
		id, err := a.InputInt64(1)
		if err != nil {
			return nil, err
		}
		root = id
	}
	return c.Export(a.Context(), a.InputString(0, m_tree.FormatJSON), root)
}

func (c *RESTClient) stats(a *act.Action) (any, error) {
	return c.Stats(a.Context())
}
