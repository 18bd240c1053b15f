package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var cleanQuietFlag bool

// errUnsafeClean guards against removing the repository itself.
var errUnsafeClean = errors.New("refusing to remove output directory")

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean [repoRoot]",
	Short: "Remove the index output directory",
	Long: `Clean removes the output directory written by 'beangraph index'
(default <repoRoot>/.repo-ai). The configuration in .beangraph/ is preserved.

Examples:
  beangraph clean
  beangraph clean --quiet
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVarP(&cleanQuietFlag, "quiet", "q", false, "Suppress output messages")
}

func runClean(cmd *cobra.Command, args []string) error {
	repoRoot, cfg, err := resolveRepo(args)
	if err != nil {
		return err
	}
	return executeClean(repoRoot, cfg.OutputDir(repoRoot), cleanQuietFlag)
}

func executeClean(repoRoot, outDir string, quiet bool) error {
	outDir = filepath.Clean(outDir)
	if rel, err := filepath.Rel(outDir, repoRoot); err == nil && !filepath.IsAbs(rel) && !startsWithParent(rel) {
		// outDir is the repository root or one of its ancestors
		return fmt.Errorf("%w: %s contains the repository", errUnsafeClean, outDir)
	}

	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		if !quiet {
			fmt.Println("No index found for this repository")
		}
		return nil
	}

	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("failed to remove output directory: %w", err)
	}

	if !quiet {
		fmt.Printf("✓ Removed %s\n", outDir)
	}
	return nil
}

func startsWithParent(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}
