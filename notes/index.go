// Package notes stores the notes: an index of their names in a
// BadgerDB database, and their content as SVG files in a data directory.
package notes

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

var (
	// ErrNotFound is returned for unknown note IDs.
	ErrNotFound = errors.New("notes: note not found")
	// ErrIOFailure wraps the errors of the database and the file system.
	ErrIOFailure = errors.New("notes: i/o failure")
)

// Note is an entry of the index.
type Note struct {
	ID      string
	Name    string
	Path    string // the SVG document, relative to the data directory
	Updated time.Time
}

// IndexConfig configures the BadgerDB database of an Index.
type IndexConfig struct {
	// Path is the directory for the database files.
	// Ignored when InMemory is true.
	Path string

	// InMemory disables disk persistence, for tests.
	InMemory bool

	// SyncWrites enables synchronous writes.
	SyncWrites bool

	// Logger receives BadgerDB internal logs.
	// If nil, they are discarded.
	Logger *slog.Logger
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Index maps note IDs to their names.
// Each note uses three keys, `<id>_name`, `<id>_svg` and `<id>_updated`,
// always written in the same transaction.
// It is safe for concurrent use.
type Index struct {
	db *badger.DB
}

const (
	suffixName    = "_name"
	suffixSVG     = "_svg"
	suffixUpdated = "_updated"
)

// OpenIndex opens (or creates) the database.
func OpenIndex(cfg IndexConfig) (*Index, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("notes: path is required for a persistent index")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("%w: create index directory %s: %w", ErrIOFailure, cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open index: %w", ErrIOFailure, err)
	}
	return &Index{db: db}, nil
}

// Close closes the database.
func (ix *Index) Close() error { return ix.db.Close() }

// Put adds or replaces the entry of `note.ID`.
func (ix *Index) Put(note Note) error {
	err := ix.db.Update(func(txn *badger.Txn) error {
		for suffix, value := range map[string]string{
			suffixName:    note.Name,
			suffixSVG:     note.Path,
			suffixUpdated: note.Updated.UTC().Format(time.RFC3339Nano),
		} {
			if err := txn.Set([]byte(note.ID+suffix), []byte(value)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: saving note %s: %w", ErrIOFailure, note.ID, err)
	}
	return nil
}

func readString(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return "", err
	}
	v, err := item.ValueCopy(nil)
	return string(v), err
}

// Get returns the entry of `id`, or ErrNotFound.
func (ix *Index) Get(id string) (Note, error) {
	note := Note{ID: id}
	err := ix.db.View(func(txn *badger.Txn) error {
		var err error
		if note.Name, err = readString(txn, id+suffixName); err != nil {
			return err
		}
		if note.Path, err = readString(txn, id+suffixSVG); err != nil {
			return err
		}
		updated, err := readString(txn, id+suffixUpdated)
		if err != nil {
			return err
		}
		note.Updated, _ = time.Parse(time.RFC3339Nano, updated)
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	} else if err != nil {
		return Note{}, fmt.Errorf("%w: reading note %s: %w", ErrIOFailure, id, err)
	}
	return note, nil
}

// List returns all the entries, most recently updated first.
func (ix *Index) List() ([]Note, error) {
	byID := map[string]*Note{}
	entry := func(id string) *Note {
		n := byID[id]
		if n == nil {
			n = &Note{ID: id}
			byID[id] = n
		}
		return n
	}
	err := ix.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			cut := strings.LastIndexByte(key, '_')
			if cut == -1 {
				continue
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			id, suffix := key[:cut], key[cut:]
			switch suffix {
			case suffixName:
				entry(id).Name = string(value)
			case suffixSVG:
				entry(id).Path = string(value)
			case suffixUpdated:
				entry(id).Updated, _ = time.Parse(time.RFC3339Nano, string(value))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing notes: %w", ErrIOFailure, err)
	}

	out := make([]Note, 0, len(byID))
	for _, n := range byID {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Updated.Equal(out[j].Updated) {
			return out[i].Updated.After(out[j].Updated)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes the entry of `id`. Deleting an unknown
// note is not an error.
func (ix *Index) Delete(id string) error {
	err := ix.db.Update(func(txn *badger.Txn) error {
		for _, suffix := range [...]string{suffixName, suffixSVG, suffixUpdated} {
			if err := txn.Delete([]byte(id + suffix)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: deleting note %s: %w", ErrIOFailure, id, err)
	}
	return nil
}
