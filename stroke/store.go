package stroke

import "errors"

// ErrInvalidState is returned when the stroke lifecycle is misused,
// such as beginning a stroke while another one is in progress.
var ErrInvalidState = errors.New("stroke: invalid state")

// Store owns the ordered committed strokes (creation order is z-order)
// and at most one stroke being drawn.
// It performs no I/O and no locking: it must be mutated by a single owner,
// one event at a time.
type Store struct {
	committed  []Stroke
	inProgress []Point
	drawing    bool
	version    uint64

	// OnChange, if not nil, is called after every mutation,
	// to signal that the strokes need to be drawn again.
	OnChange func()
}

func (s *Store) changed() {
	s.version++
	if s.OnChange != nil {
		s.OnChange()
	}
}

// Version is incremented by every mutation.
func (s *Store) Version() uint64 { return s.version }

// Drawing returns true between a Begin and the matching Commit, Discard or Clear.
func (s *Store) Drawing() bool { return s.drawing }

// Begin starts a new stroke at p.
// It fails with ErrInvalidState, leaving the current stroke untouched,
// if a stroke is already in progress.
func (s *Store) Begin(p Point) error {
	if s.drawing {
		return ErrInvalidState
	}
	s.drawing = true
	s.inProgress = append(s.inProgress[:0], p)
	s.changed()
	return nil
}

// Extend appends p to the stroke in progress. Without
// stroke in progress, it does nothing: pointer events
// may arrive out of order at boundaries.
func (s *Store) Extend(p Point) {
	if !s.drawing {
		return
	}
	s.inProgress = append(s.inProgress, p)
	s.changed()
}

// Commit moves the stroke in progress to the committed strokes.
// An empty stroke is silently discarded.
func (s *Store) Commit() {
	if !s.drawing {
		return
	}
	if len(s.inProgress) > 0 {
		s.committed = append(s.committed, New(s.inProgress...))
	}
	s.resetInProgress()
	s.changed()
}

// Discard drops the stroke in progress, if any.
func (s *Store) Discard() {
	if !s.drawing {
		return
	}
	s.resetInProgress()
	s.changed()
}

func (s *Store) resetInProgress() {
	s.drawing = false
	s.inProgress = s.inProgress[:0]
}

// Clear removes every stroke, committed or in progress.
func (s *Store) Clear() {
	s.committed = nil
	s.resetInProgress()
	s.changed()
}

// Replace swaps the committed strokes for a copy of `strokes`, in one step.
// Empty strokes are dropped. The stroke in progress is kept.
func (s *Store) Replace(strokes []Stroke) {
	committed := make([]Stroke, 0, len(strokes))
	for _, st := range strokes {
		if st.Empty() {
			continue
		}
		committed = append(committed, st.Clone())
	}
	s.committed = committed
	s.changed()
}

// Len returns the number of committed strokes.
func (s *Store) Len() int { return len(s.committed) }

// Strokes returns a copy of the committed strokes.
func (s *Store) Strokes() []Stroke { return CloneAll(s.committed) }

// InProgress returns a copy of the stroke being drawn.
func (s *Store) InProgress() (Stroke, bool) {
	if !s.drawing {
		return Stroke{}, false
	}
	return New(s.inProgress...), true
}
