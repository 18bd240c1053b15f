package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mvp-joe/beangraph/internal/modules"
	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	exitFailure = 1
	exitIO      = 2
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "beangraph",
	Short: "Beangraph - structural graph of a multi-module Java EE codebase",
	Long: `Beangraph scans the Java sources of a Gradle multi-module repository and
writes a deterministic per-module graph of types, injection points and EJB
interface bindings as JSONL files.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps I/O failures to 2 and everything else to 1.
func exitCode(err error) int {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	switch {
	case errors.As(err, &pathErr),
		errors.As(err, &linkErr),
		errors.Is(err, modules.ErrModuleFileNotFound):
		return exitIO
	}
	return exitFailure
}
