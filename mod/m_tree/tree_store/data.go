// file:arbor/mod/m_tree/tree_store/data.go
package tree_store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rskv-p/arbor/mod/m_tree/tree_type"
	"github.com/rskv-p/arbor/pkg/x_db"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

//---------------------
// Data Store
//---------------------

// DataStore keeps node payloads as JSON in one gorm table.
type DataStore struct {
	db    *gorm.DB
	table string
}

var _ x_tree.DataStore = (*DataStore)(nil)

// NewDataStore binds a store to table.
func NewDataStore(db *gorm.DB, table string) *DataStore {
	return &DataStore{db: db, table: table}
}

func (s *DataStore) Table() string { return s.table }

// Migrate creates or updates the table.
func (s *DataStore) Migrate(ctx context.Context) error {
	return s.q(ctx).AutoMigrate(&tree_type.DataRow{})
}

func (s *DataStore) q(ctx context.Context) *gorm.DB {
	return x_db.Conn(ctx, s.db).Table(s.table)
}

//---------------------
// Fetch
//---------------------

// FetchDataForNode loads the payload into node. Unsaved nodes get an empty payload.
func (s *DataStore) FetchDataForNode(ctx context.Context, node *x_tree.Node) error {
	if node.ID() == x_tree.NoID {
		node.InjectData(x_tree.Data{})
		return nil
	}
	var rows []tree_type.DataRow
	if err := s.q(ctx).Where("node_id = ?", int64(node.ID())).Limit(1).Find(&rows).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: node %d", x_tree.ErrDataMissing, node.ID())
	}
	node.InjectData(rows[0].Payload)
	return nil
}

// FetchDataForNodes loads every not yet fetched payload of list in one query.
func (s *DataStore) FetchDataForNodes(ctx context.Context, list *x_tree.NodeList) error {
	var ids []int64
	for _, n := range list.Nodes() {
		if n.DataFetched() {
			continue
		}
		if n.ID() == x_tree.NoID {
			n.InjectData(x_tree.Data{})
			continue
		}
		ids = append(ids, int64(n.ID()))
	}
	if len(ids) == 0 {
		return nil
	}

	var rows []tree_type.DataRow
	if err := s.q(ctx).Where("node_id IN ?", ids).Find(&rows).Error; err != nil {
		return err
	}
	byID := make(map[int64]map[string]any, len(rows))
	for _, r := range rows {
		byID[r.NodeID] = r.Payload
	}
	for _, id := range ids {
		payload, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: node %d", x_tree.ErrDataMissing, id)
		}
		list.Get(x_tree.NodeID(id)).InjectData(payload)
	}
	return nil
}

//---------------------
// Store
//---------------------

// StoreDataForNode upserts the payload and marks node stored. The node is
// left holding the payload as a later fetch returns it.
func (s *DataStore) StoreDataForNode(ctx context.Context, node *x_tree.Node) error {
	if node.ID() == x_tree.NoID {
		return fmt.Errorf("%w: cannot store data for an unsaved node", x_tree.ErrInvalidNodeID)
	}
	data, err := node.Data(ctx)
	if err != nil {
		return err
	}
	payload, err := tree_type.NormalizePayload(data)
	if err != nil {
		return fmt.Errorf("%w: %v", x_tree.ErrInvalidArgument, err)
	}
	row := tree_type.DataRow{NodeID: int64(node.ID()), Payload: payload}
	err = s.q(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "node_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload"}),
	}).Create(&row).Error
	if err != nil {
		return err
	}
	node.InjectData(payload)
	return nil
}

//---------------------
// Delete
//---------------------

func (s *DataStore) DeleteDataForNode(ctx context.Context, node *x_tree.Node) error {
	return s.deleteIDs(ctx, []int64{int64(node.ID())})
}

func (s *DataStore) DeleteDataForNodes(ctx context.Context, list *x_tree.NodeList) error {
	ids := make([]int64, 0, list.Len())
	for _, id := range list.IDs() {
		ids = append(ids, int64(id))
	}
	return s.deleteIDs(ctx, ids)
}

func (s *DataStore) DeleteDataForAllNodes(ctx context.Context) error {
	return s.q(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&tree_type.DataRow{}).Error
}

func (s *DataStore) deleteIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.q(ctx).Where("node_id IN ?", ids).Delete(&tree_type.DataRow{}).Error
}
