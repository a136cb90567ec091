// file:arbor/act/action.go

// Package act holds named actions: a registry of handlers keyed by
// "group.method", action values carrying positional inputs, and a line-based
// script runner.
package act

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rskv-p/arbor/pkg/x_log"
)

//---------------------
// Errors
//---------------------

var (
	ErrUnknownAction = errors.New("act: unknown action")
	ErrInvalidName   = errors.New("act: invalid action name")
	ErrMissingInput  = errors.New("act: missing input")
	ErrInvalidInput  = errors.New("act: invalid input")
)

//---------------------
// Types
//---------------------

// Handler runs one action.
type Handler func(a *Action) (any, error)

// Def describes a registered action.
type Def struct {
	Name  string
	Func  Handler
	Usage string // argument synopsis, e.g. "<parent> [key=value...]"
}

// Action is one invocation of a handler.
type Action struct {
	Name   string // full name, e.g. "tree.add"
	Group  string // "tree"
	Method string // "add"
	Inputs []any

	ctx    context.Context
	output any
}

// NewAction validates name and builds an action with args as inputs.
func NewAction(ctx context.Context, name string, args ...any) (*Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	fields := strings.Split(name, ".")
	if len(fields) < 2 || fields[0] == "" || fields[len(fields)-1] == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Action{
		Name:   name,
		Group:  fields[0],
		Method: fields[len(fields)-1],
		Inputs: args,
		ctx:    ctx,
	}, nil
}

func (a *Action) Context() context.Context {
	if a.ctx == nil {
		a.ctx = context.Background()
	}
	return a.ctx
}

// Output returns the result of the last run.
func (a *Action) Output() any { return a.output }

// Dispose clears inputs and output.
func (a *Action) Dispose() {
	a.Inputs = nil
	a.output = nil
}

func (a *Action) String() string {
	in, _ := json.Marshal(a.Inputs)
	return fmt.Sprintf("%s %s", a.Name, in)
}

//---------------------
// Registry
//---------------------

// Registry maps lower-case action names to handlers.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Def
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Def)}
}

// Default is the process-wide registry.
var Default = NewRegistry()

// Register adds or replaces a handler.
func (r *Registry) Register(name string, h Handler) {
	r.Add(Def{Name: name, Func: h})
}

// Add registers a definition.
func (r *Registry) Add(defs ...Def) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range defs {
		d.Name = strings.ToLower(d.Name)
		r.defs[d.Name] = d
	}
}

// Alias makes alias run the handler of name.
func (r *Registry) Alias(name, alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.defs[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	d.Name = strings.ToLower(alias)
	r.defs[d.Name] = d
	return nil
}

func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[strings.ToLower(name)]
	return ok
}

// Defs returns all definitions sorted by name.
func (r *Registry) Defs() []Def {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Exec builds the action and runs it.
func (r *Registry) Exec(ctx context.Context, name string, args ...any) (any, error) {
	a, err := NewAction(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	return r.Run(a)
}

// Run executes a with its registered handler. A panicking handler is
// turned into an error.
func (r *Registry) Run(a *Action) (out any, err error) {
	r.mu.RLock()
	d, ok := r.defs[a.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, a.Name)
	}

	began := time.Now()
	l := x_log.From(a.Context())
	defer func() {
		if rec := recover(); rec != nil {
			err = catch(rec)
		}
		if err != nil {
			l.Warn().Str("action", a.Name).Err(err).Dur("took", time.Since(began)).Msg("action failed")
			return
		}
		l.Debug().Str("action", a.Name).Dur("took", time.Since(began)).Msg("action done")
	}()

	out, err = d.Func(a)
	a.output = out
	return out, err
}

//---------------------
// Default registry shortcuts
//---------------------

func Register(name string, h Handler) { Default.Register(name, h) }

func Exec(ctx context.Context, name string, args ...any) (any, error) {
	return Default.Exec(ctx, name, args...)
}

func catch(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("act: handler panic: %w", err)
	}
	return fmt.Errorf("act: handler panic: %v", rec)
}
