// file:arbor/pkg/x_tree/visitor.go
package x_tree

import "context"

// Visitable is anything a Visitor can be dispatched to: trees and nodes.
type Visitable interface {
	Accept(ctx context.Context, v Visitor) error
}

// Visitor receives each visited element. Traversal order is owned by the
// visitable, not the visitor.
type Visitor interface {
	Visit(ctx context.Context, item Visitable) error
}

// VisitorFunc adapts a plain function to Visitor.
type VisitorFunc func(ctx context.Context, item Visitable) error

func (f VisitorFunc) Visit(ctx context.Context, item Visitable) error { return f(ctx, item) }
