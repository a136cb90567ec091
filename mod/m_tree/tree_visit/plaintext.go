// file:arbor/mod/m_tree/tree_visit/plaintext.go
package tree_visit

import (
	"context"
	"strings"

	"github.com/rskv-p/arbor/pkg/x_tree"
)

//---------------------
// Glyphs
//---------------------

// Glyphs are the four drawing symbols of a text tree.
type Glyphs struct {
	Pipe, Tee, Line, Corner string
}

var (
	ASCII = Glyphs{Pipe: "|", Tee: "+", Line: "-", Corner: "+"}
	UTF8  = Glyphs{Pipe: "│", Tee: "├", Line: "─", Corner: "└"}
)

//---------------------
// Plaintext
//---------------------

// Plaintext renders visited nodes as a box-drawing tree:
//
//	R
//	├─A
//	│ └─C
//	└─B
type Plaintext struct {
	Glyphs     Glyphs
	LabelField string

	edges
}

// NewPlaintext returns a renderer using glyphs and the "label" field.
func NewPlaintext(glyphs Glyphs) *Plaintext {
	return &Plaintext{Glyphs: glyphs, LabelField: DefaultLabelField}
}

func (p *Plaintext) Visit(ctx context.Context, item x_tree.Visitable) error {
	return p.add(ctx, item)
}

// String renders the root line, then every level below it.
func (p *Plaintext) String() string {
	if p.root == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(label(*p.root, p.field()))
	b.WriteByte('\n')
	p.render(&b, p.root.id, nil)
	return b.String()
}

// render writes the children of id. last[i] tells whether the ancestor at
// depth i was the last of its siblings, which decides between a pipe and
// blank indentation.
func (p *Plaintext) render(b *strings.Builder, id x_tree.NodeID, last []bool) {
	children := p.children[id]
	for i, child := range children {
		for _, done := range last {
			if done {
				b.WriteString("  ")
			} else {
				b.WriteString(p.Glyphs.Pipe + " ")
			}
		}
		isLast := i == len(children)-1
		if isLast {
			b.WriteString(p.Glyphs.Corner + p.Glyphs.Line)
		} else {
			b.WriteString(p.Glyphs.Tee + p.Glyphs.Line)
		}
		b.WriteString(label(child, p.field()))
		b.WriteByte('\n')
		p.render(b, child.id, append(last, isLast))
	}
}

func (p *Plaintext) field() string {
	if p.LabelField == "" {
		return DefaultLabelField
	}
	return p.LabelField
}
