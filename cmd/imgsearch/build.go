package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/imgsearch/store"
)

func newBuildCmd(g *globalFlags) *cobra.Command {
	var (
		workers  int
		patterns []string
	)

	cmd := &cobra.Command{
		Use:   "build <dir>",
		Short: "Index every image under a directory and save the feature database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if len(patterns) > 0 {
				cfg.Patterns = patterns
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			eng, err := newEngine(ctx, cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Indexing %s...\n", root)

			report, err := eng.BuildDatabaseFromDir(ctx, root)
			if report != nil {
				printReport(out, report)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "  Saved:   %s\n", eng.DatabaseName())
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "parallel decode workers (default GOMAXPROCS)")
	cmd.Flags().StringSliceVar(&patterns, "pattern", nil, "doublestar pattern for image files (repeatable)")

	return cmd
}

func printReport(w io.Writer, r *store.BuildReport) {
	fmt.Fprintf(w, "\nDone in %s\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Images:  %d total, %d indexed, %d skipped\n", r.Total, r.Succeeded(), len(r.Failures))
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  skipped %s: %v\n", f.ID, f.Err)
	}
	if r.Canceled {
		fmt.Fprintln(w, "  Build canceled; nothing was saved")
	}
}
