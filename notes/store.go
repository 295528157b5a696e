package notes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store keeps the notes of a data directory:
// `<dir>/index` holds the database, and `<dir>/<id>.svg` the documents.
// It implements canvas.Storage.
type Store struct {
	dir    string
	index  *Index
	logger *slog.Logger
	now    func() time.Time
}

// Config configures a Store.
type Config struct {
	// Dir is the data directory, created if needed.
	Dir string
	// InMemory keeps the index in memory, for tests.
	// Documents are still written in Dir.
	InMemory bool
	// Logger is used for store operations and BadgerDB logs.
	// If nil, uses slog.Default().
	Logger *slog.Logger
}

// Open opens the store in `cfg.Dir`.
func Open(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create data directory %s: %w", ErrIOFailure, cfg.Dir, err)
	}
	index, err := OpenIndex(IndexConfig{
		Path:       filepath.Join(cfg.Dir, "index"),
		InMemory:   cfg.InMemory,
		SyncWrites: !cfg.InMemory,
		Logger:     cfg.Logger.With(slog.String("component", "badger")),
	})
	if err != nil {
		return nil, err
	}
	return &Store{dir: cfg.Dir, index: index, logger: cfg.Logger, now: time.Now}, nil
}

// Close closes the index.
func (s *Store) Close() error { return s.index.Close() }

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// DocumentPath returns the absolute path of the document of `note`.
func (s *Store) DocumentPath(note Note) string { return filepath.Join(s.dir, note.Path) }

// checkID rejects IDs which are not UUIDs, so that
// IDs are always safe file names.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return nil
}

// Create registers a new empty note.
func (s *Store) Create(ctx context.Context, name string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	id := uuid.NewString()
	note := Note{ID: id, Name: name, Path: id + ".svg", Updated: s.now()}
	if err := s.index.Put(note); err != nil {
		return Note{}, err
	}
	s.logger.Info("note created", slog.String("note", id), slog.String("name", name))
	return note, nil
}

// Get returns the note `id`.
func (s *Store) Get(ctx context.Context, id string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	if err := checkID(id); err != nil {
		return Note{}, err
	}
	return s.index.Get(id)
}

// List returns the notes, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.index.List()
}

// Rename changes the name of the note `id`.
func (s *Store) Rename(ctx context.Context, id, name string) (Note, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}
	note.Name = name
	note.Updated = s.now()
	if err := s.index.Put(note); err != nil {
		return Note{}, err
	}
	return note, nil
}

// Delete removes the note `id` and its document.
func (s *Store) Delete(ctx context.Context, id string) error {
	note, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := os.Remove(s.DocumentPath(note)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: deleting note %s: %w", ErrIOFailure, id, err)
	}
	if err := s.index.Delete(id); err != nil {
		return err
	}
	s.logger.Info("note deleted", slog.String("note", id))
	return nil
}

// LoadStrokes returns the document of the note `id`.
// `found` is false if the note has never been saved.
func (s *Store) LoadStrokes(ctx context.Context, id string) (string, bool, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(s.DocumentPath(note))
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no document for note", slog.String("note", id))
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("%w: reading note %s: %w", ErrIOFailure, id, err)
	}
	return string(data), true, nil
}

// SaveStrokes replaces the document of the note `id`.
// The document is written to a temporary file, which is then
// renamed: on failure, the previous document is left untouched.
func (s *Store) SaveStrokes(ctx context.Context, id, text string) error {
	note, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.DocumentPath(note), []byte(text)); err != nil {
		return fmt.Errorf("%w: saving note %s: %w", ErrIOFailure, id, err)
	}
	note.Updated = s.now()
	return s.index.Put(note)
}

// writeFileAtomic writes `data` in a temporary file of the same
// directory, syncs it and renames it to `path`.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(0o640); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	// persist the rename itself; not supported everywhere
	if d, errDir := os.Open(dir); errDir == nil {
		_ = d.Sync()
		d.Close()
	}
	return nil
}
