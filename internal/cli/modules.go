package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mvp-joe/beangraph/internal/config"
	"github.com/spf13/cobra"
)

var (
	modulesFlags moduleFlags
	whichFile    string
)

// modulesCmd represents the modules command
var modulesCmd = &cobra.Command{
	Use:   "modules [repoRoot]",
	Short: "List declared modules and their Java source roots",
	Long: `Modules reads settings.gradle, applies the configured allow-list and
excludes, and prints each module with the source roots that would be scanned.

With --which, prints the module a file belongs to instead.

Examples:
  beangraph modules
  beangraph modules --include-tests=false
  beangraph modules --which core/src/main/java/com/acme/Foo.java
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
	modulesFlags.register(modulesCmd)
	modulesCmd.Flags().StringVar(&whichFile, "which", "", "Print the module owning this file")
}

func runModules(cmd *cobra.Command, args []string) error {
	repoRoot, cfg, err := resolveRepo(args)
	if err != nil {
		return err
	}
	modulesFlags.apply(cmd, cfg)

	if whichFile != "" {
		return executeWhich(os.Stdout, repoRoot, cfg, whichFile)
	}

	ctx, cancel := signalContext(true)
	defer cancel()
	return executeModules(ctx, os.Stdout, repoRoot, cfg)
}

func executeModules(ctx context.Context, w io.Writer, repoRoot string, cfg *config.Config) error {
	layout, err := loadLayout(repoRoot, cfg)
	if err != nil {
		return err
	}
	locator, err := newLocator(layout, cfg)
	if err != nil {
		return fmt.Errorf("failed to create source locator: %w", err)
	}
	set, err := locator.Locate(ctx)
	if err != nil {
		return fmt.Errorf("failed to locate sources: %w", err)
	}

	ids := set.Modules()
	fmt.Fprintf(w, "Modules (%d):\n", len(ids))
	for _, id := range ids {
		dir, _ := layout.Dir(id)
		fmt.Fprintf(w, "  %s  %s\n", id, relTo(repoRoot, dir))
		for _, root := range set.Roots[id] {
			fmt.Fprintf(w, "    %s\n", relTo(repoRoot, root))
		}
	}
	return nil
}

// executeWhich prints the module owning file. Relative paths resolve against
// the working directory, like any other CLI path argument.
func executeWhich(w io.Writer, repoRoot string, cfg *config.Config, file string) error {
	layout, err := loadLayout(repoRoot, cfg)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", file, err)
	}
	fmt.Fprintln(w, layout.ModuleOf(abs))
	return nil
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
