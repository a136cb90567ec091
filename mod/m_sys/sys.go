// file:arbor/mod/m_sys/sys.go

// Package m_sys exposes process level system.* actions.
package m_sys

import (
	"context"
	"runtime"
	"time"

	"github.com/rskv-p/arbor/act"
	"github.com/rskv-p/arbor/mod"
)

//---------------------
// System Module
//---------------------

type Module struct {
	Service  string
	Registry *act.Registry // nil uses act.Default

	started time.Time
}

var _ mod.Module = (*Module)(nil)

func NewModule(service string, reg *act.Registry) *Module {
	return &Module{Service: service, Registry: reg}
}

func (m *Module) Name() string { return "m_sys" }

func (m *Module) Init(context.Context) error {
	m.started = time.Now()
	m.registry().Add(m.Actions()...)
	return nil
}

func (m *Module) Stop() error { return nil }

func (m *Module) registry() *act.Registry {
	if m.Registry == nil {
		return act.Default
	}
	return m.Registry
}

//---------------------
// Actions
//---------------------

func (m *Module) Actions() []act.Def {
	return []act.Def{
		{Name: "system.ping", Func: func(*act.Action) (any, error) {
			return map[string]any{"pong": true, "ts": time.Now().Format(time.RFC3339)}, nil
		}},
		{Name: "system.info", Func: m.info},
	}
}

// info lists the service name, uptime and every registered action.
func (m *Module) info(*act.Action) (any, error) {
	defs := m.registry().Defs()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return map[string]any{
		"name":    m.Service,
		"go":      runtime.Version(),
		"started": m.started.Format(time.RFC3339),
		"uptime":  time.Since(m.started).Round(time.Second).String(),
		"actions": names,
	}, nil
}
