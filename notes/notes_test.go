package notes

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/inknote/canvas"
	"github.com/benoitkugler/inknote/stroke"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{
		Dir:      t.TempDir(),
		InMemory: true,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// deterministic and strictly increasing update times
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

var _ canvas.Storage = (*Store)(nil)

func TestIndexRoundTrip(t *testing.T) {
	ix, err := OpenIndex(IndexConfig{InMemory: true})
	require.NoError(t, err)
	defer ix.Close()

	note := Note{ID: "a", Name: "groceries", Path: "a.svg", Updated: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	require.NoError(t, ix.Put(note))

	got, err := ix.Get("a")
	require.NoError(t, err)
	assert.Equal(t, note.Name, got.Name)
	assert.Equal(t, note.Path, got.Path)
	assert.True(t, note.Updated.Equal(got.Updated))

	_, err = ix.Get("b")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, ix.Delete("a"))
	_, err = ix.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, ix.Delete("a"), "deleting twice is fine")
}

func TestIndexPersistent(t *testing.T) {
	dir := t.TempDir()
	ix, err := OpenIndex(IndexConfig{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, ix.Put(Note{ID: "x", Name: "kept", Path: "x.svg", Updated: time.Now()}))
	require.NoError(t, ix.Close())

	ix, err = OpenIndex(IndexConfig{Path: dir})
	require.NoError(t, err)
	defer ix.Close()
	got, err := ix.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Name)

	_, err = OpenIndex(IndexConfig{})
	assert.Error(t, err, "a path is required")
}

func TestStoreCreateListRename(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.Create(ctx, "first")
	require.NoError(t, err)
	second, err := s.Create(ctx, "second")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "most recent first")

	renamed, err := s.Rename(ctx, first.ID, "renamed")
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Name)

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "renamed", list[0].Name)

	_, err = s.Rename(ctx, "not-a-uuid", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	note, err := s.Create(ctx, "drawing")
	require.NoError(t, err)

	_, found, err := s.LoadStrokes(ctx, note.ID)
	require.NoError(t, err)
	assert.False(t, found, "never saved")

	require.NoError(t, s.SaveStrokes(ctx, note.ID, "<svg/>"))
	require.NoError(t, s.SaveStrokes(ctx, note.ID, "<svg></svg>"))
	text, found, err := s.LoadStrokes(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "<svg></svg>", text)

	// no temporary file is left
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestStoreSaveFailureKeepsDocument(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	ctx := context.Background()
	s := openTestStore(t)
	note, err := s.Create(ctx, "drawing")
	require.NoError(t, err)
	require.NoError(t, s.SaveStrokes(ctx, note.ID, "v1"))

	require.NoError(t, os.Chmod(s.Dir(), 0o500))
	defer os.Chmod(s.Dir(), 0o750)

	err = s.SaveStrokes(ctx, note.ID, "v2")
	assert.ErrorIs(t, err, ErrIOFailure)

	data, err := os.ReadFile(filepath.Join(s.Dir(), note.Path))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	note, err := s.Create(ctx, "drawing")
	require.NoError(t, err)
	require.NoError(t, s.SaveStrokes(ctx, note.ID, "<svg/>"))

	require.NoError(t, s.Delete(ctx, note.ID))
	_, err = os.Stat(s.DocumentPath(note))
	assert.True(t, os.IsNotExist(err))
	_, err = s.Get(ctx, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStoreCanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Create(ctx, "late")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCanvasWithStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	note, err := s.Create(ctx, "drawing")
	require.NoError(t, err)

	opts := canvas.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	c := canvas.New(s, opts)
	require.NoError(t, c.PointerDown(stroke.Pt(10, 10)))
	require.NoError(t, c.PointerMove(stroke.Pt(20, 10)))
	require.NoError(t, c.PointerUp())
	require.NoError(t, c.Save(ctx, note.ID))

	other := canvas.New(s, opts)
	require.NoError(t, other.Load(ctx, note.ID))
	require.Len(t, other.Strokes(), 1)
	assert.Equal(t, stroke.Pt(20, 10), other.Strokes()[0].End())
}
