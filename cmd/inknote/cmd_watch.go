package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		dir   string
		scale float64
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep PNG thumbnails of the notes up to date",
		Long: `Watches the data directory and renders a PNG thumbnail of each
note document when it is saved, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale <= 0 {
				return fmt.Errorf("invalid scale %g", scale)
			}
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return err
			}
			if err := os.MkdirAll(a.cfg.DataDir, 0o750); err != nil {
				return err
			}
			e := a.exporter()
			e.scale = scale
			w := thumbnailer{dataDir: a.cfg.DataDir, outDir: dir, exporter: e, logger: a.logger}
			return w.run(cmd.Context(), nil)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "thumbnails", "output directory")
	cmd.Flags().Float64Var(&scale, "scale", 0.25, "thumbnail scale")
	return cmd
}

// thumbnailer renders `<id>.png` in outDir for each
// `<id>.svg` written in dataDir.
type thumbnailer struct {
	dataDir, outDir string
	exporter        exporter
	logger          *slog.Logger
}

// noteID returns the id of a note document, or false
// for other files, including the temporary files of a save.
func noteID(path string) (string, bool) {
	base := filepath.Base(path)
	id, ok := strings.CutSuffix(base, ".svg")
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func (t thumbnailer) render(path string) {
	id, ok := noteID(path)
	if !ok {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil { // removed in between
		t.logger.Debug("skipping document", slog.String("path", path), slog.Any("error", err))
		return
	}
	out := filepath.Join(t.outDir, id+".png")
	if err := t.exporter.renderFile(out, string(data), formatPNG); err != nil {
		t.logger.Error("rendering thumbnail", slog.String("note", id), slog.Any("error", err))
		return
	}
	t.logger.Info("thumbnail updated", slog.String("note", id), slog.String("path", out))
}

// run watches until ctx is done. `ready`, if not nil, is
// closed once the watcher is set up.
func (t thumbnailer) run(ctx context.Context, ready chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(t.dataDir); err != nil {
		return fmt.Errorf("watching %s: %w", t.dataDir, err)
	}
	t.logger.Info("watching notes", slog.String("dir", t.dataDir), slog.String("thumbnails", t.outDir))
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// a save renames a temporary file over the document
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				t.render(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			t.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}
