package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlsift/internal/cli/config"
	"github.com/leapstack-labs/sqlsift/pkg/extract"
	"github.com/spf13/cobra"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	var report bool

	cmd := &cobra.Command{
		Use:   "extract [file...]",
		Short: "Extract source tables from SQL scripts",
		Long: `Extract the deduplicated, sorted source table names of one or more
SQL scripts. With no file arguments (or with "-"), SQL is read from
stdin.`,
		Example: `  # From a file
  sqlsift extract queries.sql

  # From stdin
  cat queries.sql | sqlsift extract

  # Several files, JSON output
  sqlsift extract -o json models/*.sql

  # Show every classified reference
  sqlsift extract --report queries.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, report)
		},
	}

	cmd.Flags().BoolVar(&report, "report", false, "Show classified references instead of just table names")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string, report bool) error {
	cfg := config.FromContext(cmd.Context())
	opts := extract.Options{DefaultDatabase: cfg.DefaultDatabase}

	scripts, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	merged := newTableSet()
	var refs []referenceOut
	statements := 0
	for _, script := range scripts {
		rep := extract.Extract(script.sql, opts)
		statements += rep.Statements
		for _, name := range rep.Tables {
			merged.add(name)
		}
		for _, ref := range rep.References {
			refs = append(refs, referenceOut{
				File:  script.name,
				Line:  ref.Pos.Line,
				Col:   ref.Pos.Column,
				Class: ref.Class.String(),
				Name:  ref.Name,
			})
		}
	}

	out := cmd.OutOrStdout()
	if report {
		return renderReport(out, cfg.OutputFormat, merged.sorted(), refs, statements)
	}
	return renderTables(out, cfg.OutputFormat, merged.sorted())
}

// namedScript pairs a script with where it came from, for diagnostics.
type namedScript struct {
	name string
	sql  string
}

// readInputs reads SQL from the argument files, or from stdin when no
// files are given (or "-" is passed).
func readInputs(stdin io.Reader, args []string) ([]namedScript, error) {
	if len(args) == 0 {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []namedScript{{name: "<stdin>", sql: string(content)}}, nil
	}

	scripts := make([]namedScript, 0, len(args))
	for _, arg := range args {
		if arg == "-" {
			content, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			scripts = append(scripts, namedScript{name: "<stdin>", sql: string(content)})
			continue
		}
		content, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		scripts = append(scripts, namedScript{name: arg, sql: string(content)})
	}
	return scripts, nil
}

// referenceOut is one classified reference in report output.
type referenceOut struct {
	File  string `json:"file"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
	Class string `json:"class"`
	Name  string `json:"name"`
}

func renderReport(w io.Writer, format string, tables []string, refs []referenceOut, statements int) error {
	if format == "json" {
		return renderJSON(w, map[string]any{
			"tables":     tables,
			"references": refs,
			"statements": statements,
		})
	}
	for _, ref := range refs {
		_, _ = fmt.Fprintf(w, "%s:%d:%d\t%s\t%s\n", ref.File, ref.Line, ref.Col, ref.Class, ref.Name)
	}
	_, _ = fmt.Fprintf(w, "\n%d statements, %d source tables\n", statements, len(tables))
	return nil
}

// tableSet merges table names across scripts, case-insensitively,
// keeping the first-seen casing. Mirrors the dedup the extractor applies
// within a single script.
type tableSet struct {
	names map[string]string
}

func newTableSet() *tableSet {
	return &tableSet{names: make(map[string]string)}
}

func (s *tableSet) add(name string) {
	key := strings.ToLower(name)
	if _, ok := s.names[key]; !ok {
		s.names[key] = name
	}
}

func (s *tableSet) sorted() []string {
	out := make([]string, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}
