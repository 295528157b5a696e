package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/benoitkugler/inknote/notes"
	"github.com/benoitkugler/inknote/svgnote"
	"github.com/benoitkugler/inknote/svgpdf"
	"github.com/benoitkugler/inknote/svgraster"
)

const (
	formatPNG = "png"
	formatPDF = "pdf"
)

func checkFormat(format string) error {
	if format != formatPNG && format != formatPDF {
		return fmt.Errorf("unsupported format %q (use png or pdf)", format)
	}
	return nil
}

// exporter renders documents with the configured codec and line width
type exporter struct {
	codec     svgnote.Codec
	width     float64 // used for never saved notes
	height    float64
	lineWidth float64
	scale     float64 // png only
}

func (a *app) exporter() exporter {
	return exporter{
		codec:     a.cfg.Codec(),
		width:     a.cfg.Canvas.Width,
		height:    a.cfg.Canvas.Height,
		lineWidth: a.cfg.Render.LineWidth,
		scale:     1,
	}
}

// render writes the document `text` in the given format.
// An empty text renders a blank page.
func (e exporter) render(w io.Writer, text string, format string) error {
	doc := svgnote.Note{Width: e.width, Height: e.height}
	if text != "" {
		var err error
		if doc, err = e.codec.DecodeString(text); err != nil {
			return err
		}
		if doc.Width <= 0 || doc.Height <= 0 {
			doc.Width, doc.Height = e.width, e.height
		}
	}
	switch format {
	case formatPDF:
		opts := svgpdf.DefaultOptions()
		opts.LineWidth = e.lineWidth
		return svgpdf.Export(w, doc.Strokes, doc.Width, doc.Height, opts)
	default:
		opts := svgraster.DefaultOptions()
		opts.LineWidth = e.lineWidth
		opts.Scale = e.scale
		width, height := int(math.Ceil(doc.Width*e.scale)), int(math.Ceil(doc.Height*e.scale))
		return svgraster.WritePNG(w, doc.Strokes, width, height, opts)
	}
}

// renderFile writes the document to `path`, through a temporary file
// so that readers never see a partial image.
func (e exporter) renderFile(path, text, format string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after the rename

	if err := e.render(tmp, text, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func exportNote(ctx context.Context, store *notes.Store, e exporter, id, format, path string) error {
	text, _, err := store.LoadStrokes(ctx, id)
	if err != nil {
		return err
	}
	if err := e.renderFile(path, text, format); err != nil {
		return fmt.Errorf("exporting note %s: %w", id, err)
	}
	return nil
}

func (a *app) exportCmd() *cobra.Command {
	var (
		format string
		output string
		all    bool
		dir    string
		jobs   int
	)
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a note, or all of them, as PNG or PDF",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			e := a.exporter()
			return a.withStore(cmd.Context(), func(store *notes.Store) error {
				if !all {
					id := args[0]
					if output == "" {
						output = id + "." + format
					}
					if err := exportNote(cmd.Context(), store, e, id, format, output); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), output)
					return nil
				}
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return err
				}
				return a.exportAll(cmd.Context(), store, e, format, dir, jobs, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatPNG, "output format: png or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <id>.<format>)")
	cmd.Flags().BoolVar(&all, "all", false, "export every note")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory, with --all")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of parallel exports, with --all")
	cmd.MarkFlagsMutuallyExclusive("all", "output")
	return cmd
}

// exportAll exports every note in `dir`, `jobs` at a time.
// Every note is tried, and the errors are joined.
func (a *app) exportAll(ctx context.Context, store *notes.Store, e exporter, format, dir string, jobs int, out io.Writer) error {
	list, err := store.List(ctx)
	if err != nil {
		return err
	}
	if jobs < 1 {
		jobs = 1
	}

	errs := make([]error, len(list))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, note := range list {
		i, note := i, note
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, note.ID+"."+format)
			if err := exportNote(gCtx, store, e, note.ID, format, path); err != nil {
				a.logger.Error("export failed", slog.String("note", note.ID), slog.Any("error", err))
				errs[i] = err
				return nil
			}
			a.logger.Debug("note exported", slog.String("note", note.ID), slog.String("path", path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d notes exported to %s\n", len(list), dir)
	return nil
}
