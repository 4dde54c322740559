package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/lkoehl/jsmanifest/internal/generator"
)

// CLIProgressReporter implements progress reporting with a progress
// bar on stderr.
type CLIProgressReporter struct {
	quiet   bool
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(fileCount int) {
	if c.quiet {
		return
	}
	log.Printf("Processing %d source files\n", fileCount)
}

func (c *CLIProgressReporter) OnFileProcessingStart(totalFiles int) {
	if c.quiet {
		return
	}

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Extracting symbols"),
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

func (c *CLIProgressReporter) OnFileProcessed(path string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(summary *generator.Summary) {
	if c.quiet {
		return
	}

	fmt.Printf("✓ Manifest written to %s\n", summary.OutputPath)
	fmt.Printf("  Files:        %d\n", summary.TotalFiles)
	fmt.Printf("  Symbols:      %d\n", summary.TotalSymbols)
	fmt.Printf("  Dependencies: %d\n", summary.TotalDependencies)
	fmt.Printf("  Elapsed:      %.1fs\n", summary.Duration.Seconds())
}
