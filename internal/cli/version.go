package cli

import (
	"fmt"

	"github.com/mvp-joe/beangraph/internal/storage"
	"github.com/spf13/cobra"
)

var (
	// Version information - typically set via ldflags at build time
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Beangraph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Beangraph %s\n", Version)
		fmt.Printf("Output schema: %s\n", storage.SchemaVersion)
		fmt.Printf("Git commit: %s\n", GitCommit)
		fmt.Printf("Build date: %s\n", BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
