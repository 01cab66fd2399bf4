package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/imgsearch"
	"github.com/hupe1980/imgsearch/codec"
	"github.com/hupe1980/imgsearch/config"
	"github.com/hupe1980/imgsearch/feature"
)

type globalFlags struct {
	config   string
	database string
	root     string
	logLevel string
	expiry   time.Duration
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:           "imgsearch",
		Short:         "Content-based image search by colour histogram",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&g.config, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&g.database, "db", "", "feature database name (default features.json)")
	cmd.PersistentFlags().StringVar(&g.root, "storage-root", "", "directory for local storage")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error")
	cmd.PersistentFlags().DurationVar(&g.expiry, "expiry", 0, "search cache expiry window (default 10m)")

	cmd.AddCommand(
		newBuildCmd(&g),
		newSearchCmd(&g),
		newWatchCmd(&g),
	)

	return cmd
}

// loadConfig reads the config file, if any, and applies flag overrides.
func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if g.config != "" {
		var err error
		if cfg, err = config.Load(g.config); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = g.database
	}
	if flags.Changed("storage-root") {
		cfg.Storage.Kind = config.StorageLocal
		cfg.Storage.Root = g.root
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("expiry") {
		cfg.ExpiryWindow = config.Duration(g.expiry)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newEngine(ctx context.Context, cfg *config.Config) (*imgsearch.Engine, error) {
	bs, err := openBlobStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", cfg.Codec)
	}

	ext, err := feature.NewColorHistogram(cfg.Bins)
	if err != nil {
		return nil, err
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	opts := []imgsearch.Option{
		imgsearch.WithBlobStore(bs),
		imgsearch.WithDatabaseName(cfg.Database),
		imgsearch.WithCodec(c),
		imgsearch.WithExpiryWindow(cfg.Window()),
		imgsearch.WithWorkers(cfg.Workers),
		imgsearch.WithIOLimit(cfg.IOLimit),
		imgsearch.WithMaxPixels(cfg.MaxPixels),
		imgsearch.WithExtractor(ext),
		imgsearch.WithLogger(imgsearch.NewTextLogger(level)),
	}
	if len(cfg.Patterns) > 0 {
		opts = append(opts, imgsearch.WithPatterns(cfg.Patterns...))
	}

	return imgsearch.New(opts...)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
