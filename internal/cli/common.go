package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mvp-joe/beangraph/internal/config"
	"github.com/mvp-joe/beangraph/internal/modules"
	"github.com/spf13/cobra"
)

// moduleFlags are shared by commands that select modules.
type moduleFlags struct {
	includeTests bool
	modules      []string
	moduleFile   string
}

func (f *moduleFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.includeTests, "include-tests", true, "Also scan src/<set>/java roots other than main")
	cmd.Flags().StringSliceVar(&f.modules, "modules", nil, "Comma-separated allow-list of module ids")
	cmd.Flags().StringVar(&f.moduleFile, "module-file", "", "File listing module ids to add to the allow-list")
}

// apply overrides config values with the flags the user actually set.
func (f *moduleFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("include-tests") {
		cfg.Scan.IncludeTests = f.includeTests
	}
	if cmd.Flags().Changed("modules") {
		cfg.Modules.Include = f.modules
	}
	if cmd.Flags().Changed("module-file") {
		cfg.Modules.File = f.moduleFile
	}
}

// resolveRepo returns the absolute repository root from the optional
// positional argument, defaulting to the working directory, and loads its
// configuration.
func resolveRepo(args []string) (string, *config.Config, error) {
	repoRoot := "."
	if len(args) > 0 {
		repoRoot = args[0]
	}

	abs, err := filepath.Abs(repoRoot)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open repository root: %w", err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("repository root %s is not a directory", abs)
	}

	cfg, err := config.LoadConfigFromDir(abs)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return abs, cfg, nil
}

// loadLayout reads the module layout and applies the allow-list from config
// and the module file.
func loadLayout(repoRoot string, cfg *config.Config) (*modules.Layout, error) {
	layout, err := modules.LoadLayout(repoRoot, cfg.Modules.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to load module layout: %w", err)
	}
	if len(layout.ModuleIDs()) == 0 {
		log.Printf("Warning: no modules declared in %s\n", repoRoot)
	}

	allow := append([]string(nil), cfg.Modules.Include...)
	if path := cfg.ModuleFile(repoRoot); path != "" {
		ids, err := modules.LoadModuleFile(path)
		if err != nil {
			return nil, err
		}
		allow = append(allow, ids...)
	}

	return layout.Filter(allow), nil
}

// newLocator builds a source locator from config.
func newLocator(layout *modules.Layout, cfg *config.Config) (*modules.Locator, error) {
	return modules.NewLocator(layout,
		modules.WithTests(cfg.Scan.IncludeTests),
		modules.WithSkipDirs(cfg.Paths.SkipDirs),
		modules.WithGitIgnore(cfg.Paths.RespectGitignore),
	)
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext(quiet bool) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			if !quiet {
				fmt.Println("\nInterrupted! Cancelling indexing...")
			}
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// formatNumber formats a number with thousand separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
