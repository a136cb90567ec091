// file:arbor/mod/m_tree/tree_suite/failing.go
package tree_suite

import (
	"context"
	"errors"

	"github.com/rskv-p/arbor/mod/m_tree/tree_type"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

// ErrInjected is returned by FailingStore once its budget is spent.
var ErrInjected = errors.New("injected store failure")

// FailingStore lets the first FailAfter writes through and fails the rest.
// A negative FailAfter never fails. Reads always pass.
type FailingStore struct {
	tree_type.StructureStore
	FailAfter int
	Writes    int
}

// NewFailingStore wraps inner with failures disabled.
func NewFailingStore(inner tree_type.StructureStore) *FailingStore {
	return &FailingStore{StructureStore: inner, FailAfter: -1}
}

func (s *FailingStore) write() error {
	s.Writes++
	if s.FailAfter >= 0 && s.Writes > s.FailAfter {
		return ErrInjected
	}
	return nil
}

// Arm resets the write counter and fails every write after n.
func (s *FailingStore) Arm(n int) {
	s.Writes = 0
	s.FailAfter = n
}

// Disarm lets every write through again.
func (s *FailingStore) Disarm() { s.FailAfter = -1 }

func (s *FailingStore) Insert(ctx context.Context, row *tree_type.Row) error {
	if err := s.write(); err != nil {
		return err
	}
	return s.StructureStore.Insert(ctx, row)
}

func (s *FailingStore) SetParent(ctx context.Context, id int64, parentID *int64) error {
	if err := s.write(); err != nil {
		return err
	}
	return s.StructureStore.SetParent(ctx, id, parentID)
}

func (s *FailingStore) DeleteIDs(ctx context.Context, ids []int64) error {
	if err := s.write(); err != nil {
		return err
	}
	return s.StructureStore.DeleteIDs(ctx, ids)
}

func (s *FailingStore) Truncate(ctx context.Context) error {
	if err := s.write(); err != nil {
		return err
	}
	return s.StructureStore.Truncate(ctx)
}

func (s *FailingStore) ShiftRight(ctx context.Context, from, delta int64, exclude []int64) error {
	if err := s.write(); err != nil {
		return err
	}
	return s.StructureStore.ShiftRight(ctx, from, delta, exclude)
}

func (s *FailingStore) ShiftLeft(ctx context.Context, after, delta int64, exclude []int64) error {
	if err := s.write(); err != nil {
		return err
	}
	return s.StructureStore.ShiftLeft(ctx, after, delta, exclude)
}

func (s *FailingStore) Offset(ctx context.Context, ids []int64, delta int64) error {
	if err := s.write(); err != nil {
		return err
	}
	return s.StructureStore.Offset(ctx, ids, delta)
}

func (s *FailingStore) DeleteRange(ctx context.Context, lft, rgt int64) error {
	if err := s.write(); err != nil {
		return err
	}
	return s.StructureStore.DeleteRange(ctx, lft, rgt)
}

// FailingData wraps a payload store and fails StoreDataForNode while armed.
type FailingData struct {
	x_tree.DataStore
	Armed bool
}

func NewFailingData(inner x_tree.DataStore) *FailingData {
	return &FailingData{DataStore: inner}
}

func (s *FailingData) StoreDataForNode(ctx context.Context, node *x_tree.Node) error {
	if s.Armed {
		return ErrInjected
	}
	return s.DataStore.StoreDataForNode(ctx, node)
}
