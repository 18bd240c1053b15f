package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mvp-joe/beangraph/internal/storage"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [repoRoot]",
	Short: "Show the summary of the last index run",
	Long: `Status reads index.json from the output directory and prints what the last
'beangraph index' run recorded, without rescanning.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	repoRoot, cfg, err := resolveRepo(args)
	if err != nil {
		return err
	}
	return executeStatus(os.Stdout, cfg.OutputDir(repoRoot))
}

func executeStatus(w io.Writer, outDir string) error {
	m, err := storage.ReadManifest(outDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Index:     %s\n", outDir)
	fmt.Fprintf(w, "Schema:    %s\n", m.Schema)
	fmt.Fprintf(w, "Run:       %s\n", m.RunID)
	fmt.Fprintf(w, "Generated: %s\n", formatGeneratedAt(m.GeneratedAt))
	if m.Source != nil {
		dirty := ""
		if m.Source.Dirty {
			dirty = " (uncommitted changes)"
		}
		fmt.Fprintf(w, "Revision:  %s@%s%s\n", m.Source.Branch, m.Source.Commit, dirty)
	}
	fmt.Fprintf(w, "Warnings:  %s\n", formatNumber(m.Summary.ParseWarnings))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Modules (%d):\n", len(m.Summary.Modules))
	for _, ms := range m.Summary.Modules {
		fmt.Fprintf(w, "  %-24s types: %-8s injects: %-8s ejb: %s\n",
			ms.ID, formatNumber(ms.Types), formatNumber(ms.Injects), formatNumber(ms.EJB))
	}
	fmt.Fprintf(w, "  %-24s types: %-8s injects: %-8s ejb: %s\n", "total",
		formatNumber(m.Summary.TotalTypes), formatNumber(m.Summary.TotalInjects), formatNumber(m.Summary.TotalEJB))
	fmt.Fprintln(w)

	order := "dependency order"
	if m.ModuleDeps.Cyclic {
		order = "alphabetical, dependencies are cyclic"
	}
	fmt.Fprintf(w, "Build order (%s):\n  %s\n", order, strings.Join(m.ModuleDeps.Order, " → "))
	return nil
}

// formatGeneratedAt appends a relative age to an RFC 3339 timestamp.
func formatGeneratedAt(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	age := time.Since(t).Round(time.Second)
	return fmt.Sprintf("%s (%s ago)", ts, age)
}
