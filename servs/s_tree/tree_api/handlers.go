// file:arbor/servs/s_tree/tree_api/handlers.go
package tree_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/rskv-p/arbor/mod/m_tree"
	"github.com/rskv-p/arbor/mod/m_tree/tree_db"
	"github.com/rskv-p/arbor/pkg/x_log"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

type handlers struct {
	tree x_tree.Tree
}

//---------------------
// Reads
//---------------------

func (h *handlers) getRoot(w http.ResponseWriter, r *http.Request) {
	root, err := h.tree.GetRootNode(r.Context())
	if err == nil && root == nil {
		err = x_tree.ErrEmptyTree
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeNode(w, r, http.StatusOK, root)
}

func (h *handlers) getNode(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	n, err := h.tree.FetchNodeByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeNode(w, r, http.StatusOK, n)
}

func (h *handlers) children(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.tree.FetchChildren)
}

func (h *handlers) path(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.tree.FetchPath)
}

func (h *handlers) subtree(w http.ResponseWriter, r *http.Request) {
	switch order := r.URL.Query().Get("order"); order {
	case "", "dfs":
		h.list(w, r, h.tree.FetchSubtreeDepthFirst)
	case "bfs":
		h.list(w, r, h.tree.FetchSubtreeBreadthFirst)
	default:
		writeError(w, r, fmt.Errorf("%w: order must be dfs or bfs, got %q", x_tree.ErrInvalidArgument, order))
	}
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	st, ok, err := tree_db.StatsOf(r.Context(), h.tree)
	if err == nil && !ok {
		err = fmt.Errorf("%w: backend has no stats", x_tree.ErrInvalidArgument)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handlers) export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = m_tree.FormatJSON
	}
	root := x_tree.NoID
	if s := q.Get("root"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: root %q", x_tree.ErrInvalidArgument, s))
			return
		}
		root = x_tree.NodeID(n)
	}

	out, err := m_tree.Render(r.Context(), h.tree, format, root)
	if err != nil {
		writeError(w, r, err)
		return
	}
	switch format {
	case m_tree.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case m_tree.FormatDot:
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

//---------------------
// Writes
//---------------------

func (h *handlers) setRoot(w http.ResponseWriter, r *http.Request) {
	var req NodeRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := h.tree.CreateNode(x_tree.NoID, req.Data)
	if err == nil {
		err = h.tree.SetRootNode(r.Context(), n)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeNode(w, r, http.StatusCreated, n)
}

func (h *handlers) addChild(w http.ResponseWriter, r *http.Request) {
	parent, ok := nodeID(w, r)
	if !ok {
		return
	}
	var req NodeRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := h.tree.CreateNode(x_tree.NoID, req.Data)
	if err == nil {
		err = h.tree.AddChild(r.Context(), parent, n)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeNode(w, r, http.StatusCreated, n)
}

// patchNode merges the request fields into the stored payload.
func (h *handlers) patchNode(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	var req NodeRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	n, err := h.tree.FetchNodeByID(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := n.Data(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	merged := data.Clone()
	for k, v := range req.Data {
		merged[k] = v
	}
	if err := n.SetData(ctx, merged); err != nil {
		writeError(w, r, err)
		return
	}
	h.writeNode(w, r, http.StatusOK, n)
}

func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	var req MoveRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.tree.Move(r.Context(), id, x_tree.NodeID(req.Parent)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{ID: int64(id), Parent: req.Parent})
}

func (h *handlers) deleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	if err := h.tree.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//---------------------
// Helpers
//---------------------

func (h *handlers) list(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, id x_tree.NodeID) (*x_tree.NodeList, error)) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	list, err := fetch(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views, err := m_tree.ViewsOf(r.Context(), list)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handlers) writeNode(w http.ResponseWriter, r *http.Request, status int, n *x_tree.Node) {
	v, err := m_tree.ViewOf(r.Context(), n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, v)
}

func nodeID(w http.ResponseWriter, r *http.Request) (x_tree.NodeID, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: node id %q", x_tree.ErrInvalidArgument, raw))
		return x_tree.NoID, false
	}
	return x_tree.NodeID(n), true
}

// decode reads a JSON object and maps it onto out with weak typing, so
// "parent": "3" is accepted like "parent": 3.
func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	raw := map[string]any{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body: %v", x_tree.ErrInvalidArgument, err))
			return false
		}
	}
	if err := mapstructure.WeakDecode(raw, out); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", x_tree.ErrInvalidArgument, err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps tree errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, x_tree.ErrNodeNotFound), errors.Is(err, x_tree.ErrEmptyTree):
		return http.StatusNotFound
	case errors.Is(err, x_tree.ErrCycle):
		return http.StatusConflict
	case errors.Is(err, x_tree.ErrInvalidArgument),
		errors.Is(err, x_tree.ErrInvalidNodeID),
		errors.Is(err, x_tree.ErrPropertyNotFound),
		errors.Is(err, x_tree.ErrReadOnly):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	resp := ErrorResponse{Error: err.Error()}
	var be *x_tree.BackendError
	if errors.As(err, &be) {
		resp.Backend, resp.Op = be.Backend, be.Op
	}
	if status >= http.StatusInternalServerError {
		x_log.From(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, resp)
}
