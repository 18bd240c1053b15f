package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet     bool
	scanBar   *progressbar.ProgressBar
	startTime time.Time
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnLocateComplete(modules, roots int) {
	if c.quiet {
		return
	}
	log.Printf("Found %d source roots in %d modules\n", roots, modules)
}

func (c *CLIProgressReporter) OnScanStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.scanBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Scanning sources"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileScanned(path string) {
	if c.quiet {
		return
	}
	if c.scanBar != nil {
		c.scanBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnScanComplete(files, warnings int, duration time.Duration) {
	if c.quiet {
		return
	}
	if c.scanBar != nil {
		c.scanBar.Finish()
		c.scanBar = nil
	}
	log.Printf("Scanned %s files in %.1fs (%d warnings)\n", formatNumber(files), duration.Seconds(), warnings)
}

func (c *CLIProgressReporter) OnGraphBuildingComplete(types, injections, bindings int, duration time.Duration) {
	if c.quiet {
		return
	}
	log.Printf("Assembled %s types, %s injections, %s bindings in %dms\n",
		formatNumber(types), formatNumber(injections), formatNumber(bindings), duration.Milliseconds())
}
