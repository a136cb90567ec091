// file:arbor/pkg/x_tree/errors.go
package x_tree

import (
	"errors"
	"fmt"
)

//---------------------
// Sentinel Errors
//---------------------

var (
	ErrConfig            = errors.New("tree: invalid configuration")
	ErrNodeNotFound      = errors.New("tree: node not found")
	ErrInvalidNodeID     = errors.New("tree: invalid node id")
	ErrInvalidArgument   = errors.New("tree: invalid argument")
	ErrPropertyNotFound  = errors.New("tree: property not found")
	ErrReadOnly          = errors.New("tree: property is read-only")
	ErrCycle             = errors.New("tree: operation would create a cycle")
	ErrDataMissing       = errors.New("tree: data store is missing data for node")
	ErrEmptyTree         = errors.New("tree: tree has no root node")
	ErrExportUnsupported = errors.New("tree: text conversion not supported, use Export()")
)

//---------------------
// Backend Error
//---------------------

// BackendError reports a storage failure inside a backend operation.
// For transactional operations the store has already been rolled back
// when this error is returned.
type BackendError struct {
	Backend string // backend name, e.g. "nestedset"
	Op      string // failed operation, e.g. "AddChild"
	Err     error  // underlying storage error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s() failed: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// WrapBackend wraps err into a *BackendError. Logical tree errors
// (not found, cycle, invalid id) and errors that are already wrapped
// pass through unchanged.
func WrapBackend(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) || IsLogical(err) {
		return err
	}
	return &BackendError{Backend: backend, Op: op, Err: err}
}

// IsLogical reports whether err is a tree-level error rather than a storage failure.
func IsLogical(err error) bool {
	for _, target := range []error{
		ErrConfig, ErrNodeNotFound, ErrInvalidNodeID, ErrInvalidArgument,
		ErrPropertyNotFound, ErrReadOnly, ErrCycle, ErrEmptyTree,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// NotFound reports that id is unknown to a tree.
func NotFound(id NodeID) error {
	return fmt.Errorf("%w: the node with the id %d is unknown", ErrNodeNotFound, id)
}
