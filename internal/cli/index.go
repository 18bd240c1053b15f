package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mvp-joe/beangraph/internal/config"
	"github.com/mvp-joe/beangraph/internal/git"
	"github.com/mvp-joe/beangraph/internal/graph"
	"github.com/mvp-joe/beangraph/internal/scan"
	"github.com/mvp-joe/beangraph/internal/storage"
	"github.com/spf13/cobra"
)

var (
	indexModuleFlags moduleFlags
	indexOutDir      string
	indexWorkers     int
	indexGitignore   bool
	quietFlag        bool
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index [repoRoot]",
	Short: "Index a Gradle multi-module Java repository",
	Long: `Index scans every declared Gradle module of a repository and writes the
structural graph to the output directory (default <repoRoot>/.repo-ai):

  types.<module>.jsonl    one record per class or interface
  inject.<module>.jsonl   one record per injection point
  ejb.<module>.jsonl      one record per @Local/@Remote interface binding
  types.index.json        type id -> module
  ejb.index.json          bound interface id -> module
  index.json              run manifest and summary

Files that fail to parse are logged and counted as warnings; the rest of the
repository is still indexed.

Examples:
  # Index the current directory
  beangraph index

  # Index two modules of another checkout, main sources only
  beangraph index ../shop --modules core,web --include-tests=false

  # Write somewhere else, without progress bars
  beangraph index --out-dir /tmp/graph --quiet
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexModuleFlags.register(indexCmd)
	indexCmd.Flags().StringVar(&indexOutDir, "out-dir", "", "Output directory (default <repoRoot>/.repo-ai)")
	indexCmd.Flags().IntVar(&indexWorkers, "workers", 0, "Files parsed concurrently (default one per CPU)")
	indexCmd.Flags().BoolVar(&indexGitignore, "gitignore", false, "Skip directories matched by the root .gitignore")
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runIndex(cmd *cobra.Command, args []string) error {
	repoRoot, cfg, err := resolveRepo(args)
	if err != nil {
		return err
	}

	indexModuleFlags.apply(cmd, cfg)
	if cmd.Flags().Changed("out-dir") {
		cfg.Output.Dir = indexOutDir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Scan.Workers = indexWorkers
	}
	if cmd.Flags().Changed("gitignore") {
		cfg.Paths.RespectGitignore = indexGitignore
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signalContext(quietFlag)
	defer cancel()

	progress := NewCLIProgressReporter(quietFlag)
	manifest, err := executeIndex(ctx, repoRoot, cfg, progress)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("indexing cancelled")
		}
		return err
	}

	if !quietFlag {
		printSummary(os.Stdout, manifest, cfg.OutputDir(repoRoot))
	}
	return nil
}

// executeIndex runs locate, scan, assemble and write for one repository.
func executeIndex(ctx context.Context, repoRoot string, cfg *config.Config, progress graph.GraphProgressReporter) (*storage.Manifest, error) {
	layout, err := loadLayout(repoRoot, cfg)
	if err != nil {
		return nil, err
	}

	locator, err := newLocator(layout, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create source locator: %w", err)
	}

	discovery, err := scan.NewFileDiscovery(cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}

	scanner, err := scan.New(repoRoot,
		scan.WithDiscovery(discovery),
		scan.WithWorkers(cfg.Scan.Workers),
		scan.WithProgress(progress),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	g, err := graph.NewBuilder(locator, scanner, graph.WithProgress(progress)).Build(ctx)
	if err != nil {
		return nil, err
	}

	writer, err := storage.NewWriter(cfg.OutputDir(repoRoot),
		storage.WithSource(git.Describe(git.NewOperations(), repoRoot)))
	if err != nil {
		return nil, err
	}
	manifest, err := writer.Write(g)
	if err != nil {
		return nil, fmt.Errorf("failed to write graph: %w", err)
	}
	return manifest, nil
}

func printSummary(w io.Writer, m *storage.Manifest, outDir string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "✓ Indexing complete: %s modules → %s\n", formatNumber(len(m.Modules)), outDir)
	fmt.Fprintf(w, "  Types:       %s\n", formatNumber(m.Summary.TotalTypes))
	fmt.Fprintf(w, "  Injections:  %s\n", formatNumber(m.Summary.TotalInjects))
	fmt.Fprintf(w, "  EJB ifaces:  %s\n", formatNumber(m.Summary.TotalEJB))
	fmt.Fprintf(w, "  Warnings:    %s\n", formatNumber(m.Summary.ParseWarnings))
}
