package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hupe1980/imgsearch"
)

func newSearchCmd(g *globalFlags) *cobra.Command {
	var (
		top    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search <image>",
		Short: "Rank the indexed images by similarity to a query image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			eng, err := newEngine(ctx, cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.Load(ctx); err != nil {
				if errors.Is(err, imgsearch.ErrNotFound) {
					return fmt.Errorf("no feature database %q, run imgsearch build first: %w", cfg.Database, err)
				}
				return err
			}

			results, err := eng.SearchFile(ctx, args[0], imgsearch.WithTopK(top))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := gojson.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCORE\tIMAGE")
			for _, r := range results {
				fmt.Fprintf(tw, "%.4f\t%s\n", r.Score, r.ID)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&top, "top", "k", 10, "number of results (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}
