package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlsift/internal/index"
)

// renderTables writes a list of table names in the requested format.
func renderTables(w io.Writer, format string, tables []string) error {
	return renderList(w, format, "tables", tables)
}

// renderFiles writes a list of file paths in the requested format.
func renderFiles(w io.Writer, format string, files []string) error {
	return renderList(w, format, "files", files)
}

func renderList(w io.Writer, format, label string, items []string) error {
	switch format {
	case "json":
		return renderJSON(w, map[string]any{label: items})
	case "table":
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{strings.ToUpper(strings.TrimSuffix(label, "s"))})
		for _, item := range items {
			t.AppendRow(table.Row{item})
		}
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d %s)\n", len(items), label)
		return nil
	default:
		for _, item := range items {
			_, _ = fmt.Fprintln(w, item)
		}
		return nil
	}
}

// renderUsage writes table usage rows from the scan index.
func renderUsage(w io.Writer, format string, usages []index.TableUsage) error {
	switch format {
	case "json":
		return renderJSON(w, map[string]any{"tables": usages})
	case "table":
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"TABLE", "FILES"})
		for _, u := range usages {
			t.AppendRow(table.Row{u.Name, u.Files})
		}
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d tables)\n", len(usages))
		return nil
	default:
		for _, u := range usages {
			_, _ = fmt.Fprintf(w, "%s\t%d\n", u.Name, u.Files)
		}
		return nil
	}
}

func renderJSON(w io.Writer, body any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}
