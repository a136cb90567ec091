// file:arbor/mod/module.go

// Package mod defines the lifecycle shared by arbor modules.
package mod

import (
	"context"
	"fmt"

	"github.com/rskv-p/arbor/act"
)

//---------------------
// Module
//---------------------

// Module is a component that initializes against shared resources and
// contributes actions.
type Module interface {
	Name() string
	Init(ctx context.Context) error
	Stop() error
	Actions() []act.Def
}

//---------------------
// Lifecycle
//---------------------

// Start initializes modules in order. When one fails, the modules already
// started are stopped in reverse order.
func Start(ctx context.Context, mods ...Module) error {
	for i, m := range mods {
		if err := m.Init(ctx); err != nil {
			_ = Stop(mods[:i]...)
			return fmt.Errorf("init %s: %w", m.Name(), err)
		}
	}
	return nil
}

// Stop stops modules in reverse order and returns the first error.
func Stop(mods ...Module) error {
	var first error
	for i := len(mods) - 1; i >= 0; i-- {
		if err := mods[i].Stop(); err != nil && first == nil {
			first = fmt.Errorf("stop %s: %w", mods[i].Name(), err)
		}
	}
	return first
}
