// Package canvas binds the strokes of a note to the pointer events of
// the host UI, and to the storage of the note.
//
// Pointer events and rendering queries may come from a UI goroutine
// while Save and Load run on another one: all methods are safe for
// concurrent use.
package canvas

import (
	"log/slog"
	"sync"

	"github.com/benoitkugler/inknote/eraser"
	"github.com/benoitkugler/inknote/stroke"
	"github.com/benoitkugler/inknote/svgnote"
)

// Options configures a Canvas.
type Options struct {
	// Width and Height are written in the saved document.
	Width, Height float64

	Eraser eraser.Eraser
	Codec  svgnote.Codec

	// Logger is used for ignored events and persistence.
	// If nil, uses slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns a portrait 1080x1920 canvas, with a large eraser.
func DefaultOptions() Options {
	return Options{
		Width:  1080,
		Height: 1920,
		Eraser: eraser.Eraser{Radius: 100, Step: stroke.DefaultStep},
		Codec:  svgnote.DefaultCodec,
	}
}

// Canvas is the drawing state of one note.
type Canvas struct {
	opts    Options
	storage Storage
	logger  *slog.Logger

	mu            sync.Mutex // guards the fields below
	store         stroke.Store
	eraseMode     bool
	cursor        stroke.Point
	cursorVisible bool
	version       uint64
	dirty         bool
	onChange      func()

	ioMu sync.Mutex // serializes Save and Load
}

// New returns an empty canvas, in draw mode.
// `storage` may be nil if the canvas is never saved or loaded.
func New(storage Storage, opts Options) *Canvas {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := &Canvas{opts: opts, storage: storage, logger: opts.Logger}
	c.store.OnChange = c.changed
	return c
}

// changed must be called with mu held
func (c *Canvas) changed() {
	c.version++
	c.dirty = true
}

// unlock releases mu and calls the change callback,
// outside of the lock, if the state has changed.
func (c *Canvas) unlock() {
	notify := c.dirty && c.onChange != nil
	cb := c.onChange
	c.dirty = false
	c.mu.Unlock()
	if notify {
		cb()
	}
}

// OnChange registers a callback invoked after every visible
// change (strokes or eraser cursor), meaning the canvas
// needs to be drawn again. It is not called with the canvas locked,
// so that it may query the canvas.
func (c *Canvas) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Version is incremented by every visible change.
func (c *Canvas) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// PointerDown starts a stroke in draw mode, or shows
// the eraser at `p` in erase mode.
// It returns stroke.ErrInvalidState, without other effect, if a
// stroke is already in progress.
func (c *Canvas) PointerDown(p stroke.Point) error {
	c.mu.Lock()
	defer c.unlock()

	if c.eraseMode {
		c.cursor, c.cursorVisible = p, true
		c.changed()
		return nil
	}
	if err := c.store.Begin(p); err != nil {
		c.logger.Warn("pointer down ignored", slog.Any("point", p), slog.Any("error", err))
		return err
	}
	return nil
}

// PointerMove extends the stroke in progress in draw mode.
// In erase mode, it moves the eraser to `p` and cuts the committed strokes
// under it.
func (c *Canvas) PointerMove(p stroke.Point) error {
	c.mu.Lock()
	defer c.unlock()

	if !c.eraseMode {
		c.store.Extend(p)
		return nil
	}

	c.cursor, c.cursorVisible = p, true
	c.changed()
	before := c.store.Strokes()
	after := c.opts.Eraser.Apply(before, p)
	if !sameStrokes(before, after) {
		c.store.Replace(after)
	}
	return nil
}

// PointerUp commits the stroke in progress in draw mode,
// or hides the eraser in erase mode.
func (c *Canvas) PointerUp() error {
	c.mu.Lock()
	defer c.unlock()

	if c.eraseMode {
		c.cursorVisible = false
		c.changed()
		return nil
	}
	c.store.Commit()
	return nil
}

// sameStrokes returns true if erasing had no effect
func sameStrokes(before, after []stroke.Stroke) bool {
	if len(before) != len(after) {
		return false
	}
	for i := range before {
		if len(before[i].Points) != len(after[i].Points) {
			return false
		}
		for j, p := range before[i].Points {
			if after[i].Points[j] != p {
				return false
			}
		}
	}
	return true
}

// SetEraseMode switches between drawing and erasing.
// Switching discards the stroke in progress and hides the eraser.
func (c *Canvas) SetEraseMode(erase bool) {
	c.mu.Lock()
	defer c.unlock()
	c.setEraseMode(erase)
}

func (c *Canvas) setEraseMode(erase bool) {
	if c.eraseMode == erase {
		return
	}
	c.eraseMode = erase
	c.store.Discard()
	c.cursorVisible = false
	c.changed()
	c.logger.Debug("eraser mode toggled", slog.Bool("erasing", erase))
}

// ToggleEraseMode switches the mode and returns true
// if the canvas is now erasing.
func (c *Canvas) ToggleEraseMode() bool {
	c.mu.Lock()
	defer c.unlock()
	c.setEraseMode(!c.eraseMode)
	return c.eraseMode
}

// Erasing returns true in erase mode.
func (c *Canvas) Erasing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eraseMode
}

// Clear removes every stroke.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.unlock()
	c.store.Clear()
}

// Strokes returns a copy of the committed strokes.
func (c *Canvas) Strokes() []stroke.Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Strokes()
}

// CurrentStrokes returns the strokes to display: the committed
// ones followed by the stroke in progress, if any.
func (c *Canvas) CurrentStrokes() []stroke.Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.store.Strokes()
	if st, ok := c.store.InProgress(); ok {
		out = append(out, st)
	}
	return out
}

// Eraser returns the position and radius of the eraser cursor,
// and whether it should be displayed.
func (c *Canvas) Eraser() (stroke.Point, float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor, c.opts.Eraser.Radius, c.eraseMode && c.cursorVisible
}

// replace swaps the committed strokes for the loaded ones,
// discarding the stroke in progress.
func (c *Canvas) replace(strokes []stroke.Stroke) {
	c.mu.Lock()
	defer c.unlock()
	c.store.Clear()
	c.store.Replace(strokes)
}
