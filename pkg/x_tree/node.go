// file:arbor/pkg/x_tree/node.go
package x_tree

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

//---------------------
// Node
//---------------------

// Node is one vertex of a tree. Its payload is fetched from the tree's data
// store on first access. A node does not own its tree.
type Node struct {
	id          NodeID
	tree        Tree
	data        Data
	dataFetched bool
	dataStored  bool
}

// NewNode creates a node handle. A nil data means the payload still lives in
// the data store; a non-nil data is taken as the new, unsaved payload.
func NewNode(tree Tree, id NodeID, data Data) *Node {
	n := &Node{id: id, tree: tree}
	if data == nil {
		n.dataStored = true
		return n
	}
	n.data = data
	n.dataFetched = true
	return n
}

func (n *Node) ID() NodeID        { return n.id }
func (n *Node) Tree() Tree        { return n.tree }
func (n *Node) DataFetched() bool { return n.dataFetched }
func (n *Node) DataStored() bool  { return n.dataStored }

func (n *Node) SetDataStored(v bool) { n.dataStored = v }

// String returns the node id.
func (n *Node) String() string {
	return strconv.FormatInt(int64(n.id), 10)
}

//---------------------
// Payload
//---------------------

// Data returns the payload, fetching it once from the data store.
func (n *Node) Data(ctx context.Context) (Data, error) {
	if err := n.ensureData(ctx); err != nil {
		return nil, err
	}
	return n.data, nil
}

// SetData replaces the payload. When the payload of a persisted node had
// already been fetched, the change is written through immediately. Otherwise
// the node becomes the authority for its data and persists on Save, AddChild
// or SetRootNode.
func (n *Node) SetData(ctx context.Context, data Data) error {
	if data == nil {
		data = Data{}
	}
	writeThrough := n.dataFetched && n.id != NoID
	n.data = data
	n.dataStored = false
	n.dataFetched = true
	if writeThrough {
		return n.tree.DataStore().StoreDataForNode(ctx, n)
	}
	return nil
}

// Field returns one payload field.
func (n *Node) Field(ctx context.Context, name string) (any, error) {
	if err := n.ensureData(ctx); err != nil {
		return nil, err
	}
	v, ok := n.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPropertyNotFound, name)
	}
	return v, nil
}

// SetField updates an existing payload field and marks the payload unsaved.
// The id and tree of a node cannot be set.
func (n *Node) SetField(ctx context.Context, name string, value any) error {
	if name == "id" || name == "tree" {
		return fmt.Errorf("%w: %q", ErrReadOnly, name)
	}
	if err := n.ensureData(ctx); err != nil {
		return err
	}
	if _, ok := n.data[name]; !ok {
		return fmt.Errorf("%w: %q", ErrPropertyNotFound, name)
	}
	n.data[name] = value
	n.dataStored = false
	return nil
}

// Decode copies the payload into out, typically a pointer to a struct.
func (n *Node) Decode(ctx context.Context, out any) error {
	if err := n.ensureData(ctx); err != nil {
		return err
	}
	return mapstructure.WeakDecode(map[string]any(n.data), out)
}

// InjectData is used by data stores to hand over a freshly loaded payload.
func (n *Node) InjectData(data Data) {
	if data == nil {
		data = Data{}
	}
	n.data = data
	n.dataFetched = true
	n.dataStored = true
}

// Save stores the payload.
func (n *Node) Save(ctx context.Context) error {
	if err := n.ensureData(ctx); err != nil {
		return err
	}
	return n.tree.DataStore().StoreDataForNode(ctx, n)
}

func (n *Node) ensureData(ctx context.Context) error {
	if n.dataFetched {
		return nil
	}
	if err := n.tree.DataStore().FetchDataForNode(ctx, n); err != nil {
		return err
	}
	n.dataFetched = true
	if n.data == nil {
		n.data = Data{}
	}
	return nil
}

//---------------------
// Visitable
//---------------------

// Accept visits the node, then each child recursively (pre-order).
func (n *Node) Accept(ctx context.Context, v Visitor) error {
	if err := v.Visit(ctx, n); err != nil {
		return err
	}
	children, err := n.FetchChildren(ctx)
	if err != nil {
		return err
	}
	for _, child := range children.Nodes() {
		if err := child.Accept(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

//---------------------
// Tree facade
//---------------------

func (n *Node) AddChild(ctx context.Context, child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: child node is nil", ErrInvalidArgument)
	}
	return n.tree.AddChild(ctx, n.id, child)
}

func (n *Node) FetchChildren(ctx context.Context) (*NodeList, error) {
	return n.tree.FetchChildren(ctx, n.id)
}

func (n *Node) FetchParent(ctx context.Context) (*Node, error) {
	return n.tree.FetchParent(ctx, n.id)
}

func (n *Node) FetchPath(ctx context.Context) (*NodeList, error) {
	return n.tree.FetchPath(ctx, n.id)
}

func (n *Node) FetchSubtree(ctx context.Context) (*NodeList, error) {
	return n.tree.FetchSubtreeDepthFirst(ctx, n.id)
}

func (n *Node) FetchSubtreeDepthFirst(ctx context.Context) (*NodeList, error) {
	return n.tree.FetchSubtreeDepthFirst(ctx, n.id)
}

func (n *Node) FetchSubtreeBreadthFirst(ctx context.Context) (*NodeList, error) {
	return n.tree.FetchSubtreeBreadthFirst(ctx, n.id)
}

func (n *Node) GetChildCount(ctx context.Context) (int, error) {
	return n.tree.GetChildCount(ctx, n.id)
}

func (n *Node) GetChildCountRecursive(ctx context.Context) (int, error) {
	return n.tree.GetChildCountRecursive(ctx, n.id)
}

func (n *Node) GetPathLength(ctx context.Context) (int, error) {
	return n.tree.GetPathLength(ctx, n.id)
}

func (n *Node) HasChildNodes(ctx context.Context) (bool, error) {
	return n.tree.HasChildNodes(ctx, n.id)
}

func (n *Node) IsChildOf(ctx context.Context, parent *Node) (bool, error) {
	if parent == nil {
		return false, fmt.Errorf("%w: parent node is nil", ErrInvalidArgument)
	}
	return n.tree.IsChildOf(ctx, n.id, parent.id)
}

func (n *Node) IsDescendantOf(ctx context.Context, ancestor *Node) (bool, error) {
	if ancestor == nil {
		return false, fmt.Errorf("%w: ancestor node is nil", ErrInvalidArgument)
	}
	return n.tree.IsDescendantOf(ctx, n.id, ancestor.id)
}

func (n *Node) IsSiblingOf(ctx context.Context, other *Node) (bool, error) {
	if other == nil {
		return false, fmt.Errorf("%w: other node is nil", ErrInvalidArgument)
	}
	return n.tree.IsSiblingOf(ctx, n.id, other.id)
}

//---------------------
// Backend hooks
//---------------------

// BindID gives node the id storage generated for it and returns a func that
// restores the previous id when the surrounding write fails. Only tree
// backends call it; a node id is otherwise fixed at construction.
func BindID(node *Node, id NodeID) (restore func()) {
	prev := node.id
	node.id = id
	return func() { node.id = prev }
}
