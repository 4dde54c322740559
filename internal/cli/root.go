// Package cli wires the manifest pipeline to the command line.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lkoehl/jsmanifest/internal/config"
	"github.com/lkoehl/jsmanifest/internal/errs"
	"github.com/lkoehl/jsmanifest/internal/generator"
	"github.com/lkoehl/jsmanifest/internal/trace"
	"github.com/lkoehl/jsmanifest/internal/watcher"
)

var (
	outFlag        string
	compressFlag   bool
	fullFormatFlag bool
	internFlag     bool
	watchFlag      bool
	quietFlag      bool
	verboseFlag    bool
)

// rootCmd generates the project manifest for the given source
// directory.
var rootCmd = &cobra.Command{
	Use:   "jsmanifest <source-dir>",
	Short: "Generate a compact symbol manifest for a JavaScript/TypeScript codebase",
	Long: `jsmanifest scans a JavaScript/TypeScript source tree, extracts the
declared symbols (functions, classes, constants, re-exports) and
module dependencies (imports and require calls) of every file, and
writes an aggregated project manifest as JSON.

By default the manifest is simplified for LLM consumption: source
locations, statistics and provenance metadata are dropped. Use
--full-format to keep everything.

Examples:
  # Scan ./src and write project.manifest.json
  jsmanifest ./src

  # Full manifest, gzip-compressed, custom output path
  jsmanifest ./src --full-format --compress -o manifest.json

  # String-interned output for maximum deduplication
  jsmanifest ./src --intern

  # Regenerate on every source change
  jsmanifest ./src --watch
`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errs.Input("expected exactly one source directory argument, got %d", len(args))
		}
		return nil
	},
	RunE:          runGenerate,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&outFlag, "out", "o", "", fmt.Sprintf("output path (default %q)", config.DefaultOutputFile))
	rootCmd.Flags().BoolVarP(&compressFlag, "compress", "c", false, "gzip-compress the manifest (appends .gz)")
	rootCmd.Flags().BoolVarP(&fullFormatFlag, "full-format", "f", false, "disable LLM optimization, keep locations and stats")
	rootCmd.Flags().BoolVar(&internFlag, "intern", false, "replace repeated strings with stringTable references")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "watch for file changes and regenerate")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress bars and non-error output")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable trace output on stderr")

	// Unrecognized flags are user-input errors and get usage text.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errs.Input("%v", err)
	})
}

// Execute runs the root command. Every error class exits with code 1;
// input errors additionally reprint usage.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errs.IsKind(err, errs.KindInput) {
			fmt.Fprintln(os.Stderr)
			fmt.Fprint(os.Stderr, rootCmd.UsageString())
		}
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling...")
		cancel()
	}()

	rootDir, err := filepath.Abs(args[0])
	if err != nil {
		return errs.FileSystem(args[0], err)
	}
	if info, statErr := os.Stat(rootDir); statErr != nil {
		return errs.FileSystem(rootDir, statErr)
	} else if !info.IsDir() {
		return errs.Input("%s is not a directory", args[0])
	}

	cfg, err := config.LoadFromDir(rootDir)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	tracer := trace.Nop()
	if verboseFlag {
		tracer = trace.NewLogTracer(os.Stderr)
	}

	gen := generator.New(cfg, rootDir, NewCLIProgressReporter(quietFlag), tracer)

	if _, err := gen.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("generation cancelled")
		}
		return err
	}

	if !watchFlag {
		return nil
	}
	return runWatch(ctx, cfg, rootDir, gen)
}

// runWatch blocks regenerating the manifest on source changes until
// the context is cancelled. A failed regeneration is reported and
// watching continues; the previous manifest stays on disk.
func runWatch(ctx context.Context, cfg *config.Config, rootDir string, gen *generator.Generator) error {
	w, err := watcher.New(rootDir, cfg.SourceExtensions())
	if err != nil {
		return err
	}

	if !quietFlag {
		log.Println("Watching for changes (Ctrl+C to stop)...")
	}

	err = w.Run(ctx, func() {
		if _, runErr := gen.Run(ctx); runErr != nil && ctx.Err() == nil {
			log.Printf("Regeneration failed: %v", runErr)
		}
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// applyFlagOverrides lets explicitly set flags win over config file
// and environment values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("out") {
		cfg.Output.File = outFlag
	}
	if cmd.Flags().Changed("compress") {
		cfg.Output.Compress = compressFlag
	}
	if cmd.Flags().Changed("full-format") {
		cfg.Output.FullFormat = fullFormatFlag
	}
	if cmd.Flags().Changed("intern") {
		cfg.Output.Intern = internFlag
	}
}
