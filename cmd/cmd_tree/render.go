// file:arbor/cmd/cmd_tree/render.go
package cmd_tree

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rskv-p/arbor/act"
	"github.com/rskv-p/arbor/mod/m_tree"
	"github.com/rskv-p/arbor/mod/m_tree/tree_db"
	"github.com/rskv-p/arbor/mod/m_tree/tree_visit"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

func heading(w io.Writer, text string) {
	fmt.Fprintln(w, headingStyle.Render(text))
}

//---------------------
// Results
//---------------------

// render prints an action result: text as is, nodes and stats as tables,
// anything else as indented JSON.
func render(w io.Writer, out any, asJSON bool) error {
	if asJSON {
		return writeJSON(w, out)
	}
	switch v := out.(type) {
	case string:
		fmt.Fprint(w, v)
		if !strings.HasSuffix(v, "\n") {
			fmt.Fprintln(w)
		}
	case m_tree.NodeView:
		nodeTable(w, []m_tree.NodeView{v})
	case *m_tree.NodeView:
		nodeTable(w, []m_tree.NodeView{*v})
	case []m_tree.NodeView:
		nodeTable(w, v)
	case tree_db.Stats:
		statsTable(w, v)
	default:
		return writeJSON(w, v)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	return tbl
}

func nodeTable(w io.Writer, views []m_tree.NodeView) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"ID", "Label", "Data"})
	for _, v := range views {
		tbl.AppendRow(table.Row{v.ID, label(v), extra(v)})
	}
	if len(views) != 1 {
		tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d nodes", len(views)), ""})
	}
	tbl.Render()
}

func label(v m_tree.NodeView) string {
	if l, ok := v.Data[tree_visit.DefaultLabelField]; ok {
		return fmt.Sprint(l)
	}
	return ""
}

// extra renders every payload field except the label as key=value pairs.
func extra(v m_tree.NodeView) string {
	keys := make([]string, 0, len(v.Data))
	for k := range v.Data {
		if k != tree_visit.DefaultLabelField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, v.Data[k])
	}
	return strings.Join(parts, " ")
}

func statsTable(w io.Writer, st tree_db.Stats) {
	heading(w, "Tree "+st.Backend)
	tbl := newTable(w)
	tbl.AppendRows([]table.Row{
		{"nodes", humanize.Comma(int64(st.Nodes))},
		{"leaves", humanize.Comma(int64(st.Leaves))},
		{"max depth", humanize.Comma(int64(st.MaxDepth))},
		{"root", st.RootID},
	})
	tbl.Render()
}

func actionTable(w io.Writer, defs []act.Def) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Action", "Usage"})
	for _, d := range defs {
		tbl.AppendRow(table.Row{d.Name, d.Usage})
	}
	tbl.Render()
}
