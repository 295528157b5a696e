package canvas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Storage persists the documents of the notes.
type Storage interface {
	// LoadStrokes returns the document saved for `noteID`.
	// `found` is false if nothing was saved yet.
	LoadStrokes(ctx context.Context, noteID string) (text string, found bool, err error)
	// SaveStrokes replaces the document of `noteID`. It must
	// either fully succeed or leave the previous document untouched.
	SaveStrokes(ctx context.Context, noteID string, text string) error
}

// ErrIOFailure wraps storage errors returned by Save and Load.
var ErrIOFailure = errors.New("canvas: i/o failure")

var errNoStorage = errors.New("no storage configured")

// Save encodes the committed strokes and hands them to the storage.
// The stroke in progress, if any, is not saved.
// Save and Load never run concurrently.
func (c *Canvas) Save(ctx context.Context, noteID string) error {
	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	if c.storage == nil {
		return fmt.Errorf("%w: %w", ErrIOFailure, errNoStorage)
	}
	strokes := c.Strokes() // snapshot
	text := c.opts.Codec.EncodeString(strokes, c.opts.Width, c.opts.Height)
	if err := c.storage.SaveStrokes(ctx, noteID, text); err != nil {
		c.logger.Error("saving note", slog.String("note", noteID), slog.Any("error", err))
		return fmt.Errorf("%w: saving note %s: %w", ErrIOFailure, noteID, err)
	}
	c.logger.Info("note saved", slog.String("note", noteID), slog.Int("strokes", len(strokes)))
	return nil
}

// Load replaces the strokes by the ones saved for `noteID`.
// A note never saved loads as an empty canvas.
// On failure, the canvas is left untouched: storage errors wrap
// ErrIOFailure and invalid documents svgnote.ErrDecode.
// Path diagnostics are logged and do not fail the loading.
func (c *Canvas) Load(ctx context.Context, noteID string) error {
	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	if c.storage == nil {
		return fmt.Errorf("%w: %w", ErrIOFailure, errNoStorage)
	}
	text, found, err := c.storage.LoadStrokes(ctx, noteID)
	if err != nil {
		c.logger.Error("loading note", slog.String("note", noteID), slog.Any("error", err))
		return fmt.Errorf("%w: loading note %s: %w", ErrIOFailure, noteID, err)
	}
	if !found {
		c.logger.Warn("note file not found, starting empty", slog.String("note", noteID))
		c.replace(nil)
		return nil
	}

	note, err := c.opts.Codec.DecodeString(text)
	if err != nil {
		c.logger.Error("decoding note", slog.String("note", noteID), slog.Any("error", err))
		return fmt.Errorf("loading note %s: %w", noteID, err)
	}
	for _, diag := range note.Diagnostics {
		c.logger.Warn("invalid path data", slog.String("note", noteID), slog.String("diagnostic", diag.String()))
	}
	c.replace(note.Strokes)
	c.logger.Info("note loaded", slog.String("note", noteID), slog.Int("strokes", len(note.Strokes)))
	return nil
}
