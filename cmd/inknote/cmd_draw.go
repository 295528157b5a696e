package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/inknote/canvas"
	"github.com/benoitkugler/inknote/notes"
	"github.com/benoitkugler/inknote/svgpath"
)

func (a *app) drawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw [id] [script.yaml]",
		Short: "Replay a pointer event script on a note, then save it",
		Long: `Loads the note, replays the events of the script (down, move, up,
erase, draw, clear) and saves the committed strokes.
Use "-" to read the script from the standard input.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, scriptPath := args[0], args[1]

			in := cmd.InOrStdin()
			if scriptPath != "-" {
				f, err := os.Open(scriptPath)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			sc, err := parseScript(in)
			if err != nil {
				return fmt.Errorf("%s: %w", scriptPath, err)
			}

			return a.withStore(cmd.Context(), func(store *notes.Store) error {
				if _, err := store.Get(cmd.Context(), id); err != nil {
					return err
				}
				c := canvas.New(store, a.cfg.CanvasOptions(a.logger))
				if err := c.Load(cmd.Context(), id); err != nil {
					return err
				}
				ignored := sc.replay(c)
				if ignored != 0 {
					a.logger.Warn("events ignored", slog.Int("count", ignored))
				}
				if err := c.Save(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d strokes\n", len(c.Strokes()))
				return nil
			})
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print the strokes of a note and the problems found in its document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(store *notes.Store) error {
				ctx := cmd.Context()
				note, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				text, found, err := store.LoadStrokes(ctx, note.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %q\n", note.ID, note.Name)
				if !found {
					fmt.Fprintln(out, "never saved")
					return nil
				}
				doc, err := a.cfg.Codec().DecodeString(text)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "size %gx%g, %d strokes\n", doc.Width, doc.Height, len(doc.Strokes))
				for i, st := range doc.Strokes {
					b := svgpath.FromPoints(st.Points).Bounds()
					fmt.Fprintf(out, "  #%d: %d points, length %.1f, bounds (%g,%g)-(%g,%g)\n", i, len(st.Points), st.Length(),
						svgpath.ToFloat(b.Min.X), svgpath.ToFloat(b.Min.Y), svgpath.ToFloat(b.Max.X), svgpath.ToFloat(b.Max.Y))
				}
				for _, d := range doc.Diagnostics {
					fmt.Fprintf(out, "warning: %s\n", d)
				}
				return nil
			})
		},
	}
}
