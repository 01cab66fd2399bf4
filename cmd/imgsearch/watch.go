package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hupe1980/imgsearch"
	"github.com/hupe1980/imgsearch/imageio"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Build the feature database and rebuild it whenever images change",
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

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			eng, err := newEngine(ctx, cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			w := &rebuilder{
				eng:   eng,
				src:   eng.DirSource(root),
				delay: delay,
				out:   cmd.OutOrStdout(),
			}
			return w.run(ctx)
		},
	}

	cmd.Flags().DurationVar(&delay, "debounce", 2*time.Second, "quiet period before rebuilding")

	return cmd
}

// rebuilder rebuilds the database after image files under src stop changing
// for delay.
type rebuilder struct {
	eng   *imgsearch.Engine
	src   *imageio.DirSource
	delay time.Duration
	out   io.Writer

	// built, if set, is called after every rebuild attempt.
	built func(err error)
}

func (r *rebuilder) run(ctx context.Context) error {
	if err := r.src.Validate(); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addTree(w, r.src.Root()); err != nil {
		return err
	}

	r.rebuild(ctx)

	timer := time.NewTimer(r.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				// New subdirectories are not watched automatically.
				_ = addTree(w, ev.Name)
			}
			if r.relevant(ev) {
				timer.Reset(r.delay)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(r.out, "watch error: %v\n", err)

		case <-timer.C:
			r.rebuild(ctx)
		}
	}
}

func (r *rebuilder) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	rel, err := filepath.Rel(r.src.Root(), ev.Name)
	if err != nil {
		return false
	}
	return r.src.Match(filepath.ToSlash(rel))
}

func (r *rebuilder) rebuild(ctx context.Context) {
	report, err := r.eng.BuildDatabase(ctx, r.src)
	if report != nil {
		printReport(r.out, report)
	}
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(r.out, "rebuild failed: %v\n", err)
	}
	if r.built != nil {
		r.built(err)
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // vanished or unreadable entries are skipped
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
