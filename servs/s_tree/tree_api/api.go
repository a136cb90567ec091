// file:arbor/servs/s_tree/tree_api/api.go
package tree_api

import (
	"github.com/rskv-p/arbor/mod/m_tree"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

// NodeRequest carries a payload for POST /root, POST /nodes/{id}/children
// and PATCH /nodes/{id}.
type NodeRequest struct {
	Data x_tree.Data `json:"data" mapstructure:"data"`
}

// MoveRequest is the body of POST /nodes/{id}/move.
type MoveRequest struct {
	Parent int64 `json:"parent" mapstructure:"parent"`
}

// MoveResponse echoes a completed move.
type MoveResponse struct {
	ID     int64 `json:"id"`
	Parent int64 `json:"parent"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Backend string `json:"backend,omitempty"`
	Op      string `json:"op,omitempty"`
}

// NodeView is re-exported for clients.
type NodeView = m_tree.NodeView
