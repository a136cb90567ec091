// file:arbor/servs/s_tree/tree_client/client.go

// Package tree_client talks to the tree HTTP API.
package tree_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rskv-p/arbor/mod/m_tree/tree_db"
	"github.com/rskv-p/arbor/pkg/x_tree"
	"github.com/rskv-p/arbor/servs/s_tree/tree_api"
)

// RESTClient calls a tree API server.
type RESTClient struct {
	BaseURL string       // e.g. http://localhost:8080
	Client  *http.Client // defaults to http.DefaultClient
}

func NewRESTClient(baseURL string) *RESTClient {
	return &RESTClient{BaseURL: baseURL, Client: http.DefaultClient}
}

// APIError is a non-2xx response. Is maps the status back to the tree
// sentinel errors so callers can use errors.Is as with a local tree.
type APIError struct {
	Status  int
	Message string
	Backend string
	Op      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tree api: %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusNotFound:
		return target == x_tree.ErrNodeNotFound
	case http.StatusConflict:
		return target == x_tree.ErrCycle
	case http.StatusBadRequest:
		return target == x_tree.ErrInvalidArgument
	}
	return false
}

//---------------------
// Nodes
//---------------------

func (c *RESTClient) Root(ctx context.Context) (*tree_api.NodeView, error) {
	return c.node(ctx, http.MethodGet, "/root", nil)
}

func (c *RESTClient) SetRoot(ctx context.Context, data x_tree.Data) (*tree_api.NodeView, error) {
	return c.node(ctx, http.MethodPost, "/root", tree_api.NodeRequest{Data: data})
}

func (c *RESTClient) Get(ctx context.Context, id int64) (*tree_api.NodeView, error) {
	return c.node(ctx, http.MethodGet, nodePath(id, ""), nil)
}

func (c *RESTClient) Add(ctx context.Context, parent int64, data x_tree.Data) (*tree_api.NodeView, error) {
	return c.node(ctx, http.MethodPost, nodePath(parent, "/children"), tree_api.NodeRequest{Data: data})
}

func (c *RESTClient) Update(ctx context.Context, id int64, data x_tree.Data) (*tree_api.NodeView, error) {
	return c.node(ctx, http.MethodPatch, nodePath(id, ""), tree_api.NodeRequest{Data: data})
}

func (c *RESTClient) Move(ctx context.Context, id, parent int64) error {
	return c.do(ctx, http.MethodPost, nodePath(id, "/move"), tree_api.MoveRequest{Parent: parent}, nil)
}

func (c *RESTClient) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, nodePath(id, ""), nil, nil)
}

//---------------------
// Lists
//---------------------

func (c *RESTClient) Children(ctx context.Context, id int64) ([]tree_api.NodeView, error) {
	return c.list(ctx, http.MethodGet, nodePath(id, "/children"), nil)
}

func (c *RESTClient) Path(ctx context.Context, id int64) ([]tree_api.NodeView, error) {
	return c.list(ctx, http.MethodGet, nodePath(id, "/path"), nil)
}

// Subtree lists the subtree of id in "dfs" or "bfs" order.
func (c *RESTClient) Subtree(ctx context.Context, id int64, order string) ([]tree_api.NodeView, error) {
	p := nodePath(id, "/subtree") + "?order=" + url.QueryEscape(order)
	return c.list(ctx, http.MethodGet, p, nil)
}

// Export returns the raw export body.
func (c *RESTClient) Export(ctx context.Context, format string, root int64) (string, error) {
	q := url.Values{"format": {format}}
	if root != 0 {
		q.Set("root", strconv.FormatInt(root, 10))
	}
	resp, err := c.send(ctx, http.MethodGet, "/export?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return string(b), err
}

func (c *RESTClient) Stats(ctx context.Context) (tree_db.Stats, error) {
	var st tree_db.Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &st)
	return st, err
}

//---------------------
// Transport
//---------------------

func (c *RESTClient) node(ctx context.Context, method, path string, body any) (*tree_api.NodeView, error) {
	var v tree_api.NodeView
	if err := c.do(ctx, method, path, body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *RESTClient) list(ctx context.Context, method, path string, body any) ([]tree_api.NodeView, error) {
	var out []tree_api.NodeView
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *RESTClient) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		var body tree_api.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &APIError{Status: resp.StatusCode, Message: body.Error, Backend: body.Backend, Op: body.Op}
	}
	return resp, nil
}

func nodePath(id int64, suffix string) string {
	return "/nodes/" + strconv.FormatInt(id, 10) + suffix
}
