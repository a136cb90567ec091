// file:arbor/mod/m_tree/tree_visit/structured.go
package tree_visit

import (
	"context"
	"encoding/json"

	"github.com/rskv-p/arbor/pkg/x_tree"
)

// Entry is one exported node: "id" (a serial), "dbId", the payload fields
// and "children" when the node has any.
type Entry map[string]any

// Structured collects visited nodes into nested entries suitable for JSON
// tree widgets.
type Structured struct {
	edges
	serial int
}

func NewStructured() *Structured { return &Structured{} }

func (s *Structured) Visit(ctx context.Context, item x_tree.Visitable) error {
	return s.add(ctx, item)
}

// Export returns the children of the visited root as nested entries.
// Serial ids restart at 1 on every call. The reserved keys win over payload
// fields of the same name.
func (s *Structured) Export() []Entry {
	s.serial = 0
	if s.root == nil {
		return []Entry{}
	}
	out := s.build(s.root.id)
	if out == nil {
		return []Entry{}
	}
	return out
}

func (s *Structured) build(id x_tree.NodeID) []Entry {
	children := s.children[id]
	if len(children) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(children))
	for _, child := range children {
		e := make(Entry, len(child.data)+3)
		for k, v := range child.data {
			e[k] = v
		}
		s.serial++
		e["id"] = s.serial
		e["dbId"] = int64(child.id)
		if sub := s.build(child.id); sub != nil {
			e["children"] = sub
		} else {
			delete(e, "children")
		}
		out = append(out, e)
	}
	return out
}

// Text is not available for structured exports.
func (s *Structured) Text() (string, error) {
	return "", x_tree.ErrExportUnsupported
}

// JSON marshals Export.
func (s *Structured) JSON() ([]byte, error) {
	return json.Marshal(s.Export())
}
