package stroke

import (
	"errors"
	"reflect"
	"testing"
)

func TestStoreLifecycle(t *testing.T) {
	var (
		s       Store
		changes int
	)
	s.OnChange = func() { changes++ }

	s.Extend(Pt(1, 1)) // ignored, nothing in progress
	if s.Drawing() || changes != 0 {
		t.Fatal("Extend without stroke should be a no-op")
	}

	if err := s.Begin(Pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	s.Extend(Pt(1, 0))
	s.Extend(Pt(2, 0))
	cur, ok := s.InProgress()
	if !ok || len(cur.Points) != 3 {
		t.Fatalf("unexpected stroke in progress %v", cur)
	}
	s.Commit()
	if s.Drawing() {
		t.Error("Commit should end the stroke")
	}
	if s.Len() != 1 {
		t.Fatalf("expected one committed stroke, got %d", s.Len())
	}
	exp := []Point{Pt(0, 0), Pt(1, 0), Pt(2, 0)}
	if got := s.Strokes()[0].Points; !reflect.DeepEqual(got, exp) {
		t.Errorf("expected %v, got %v", exp, got)
	}
	if changes != 4 {
		t.Errorf("expected 4 change notifications, got %d", changes)
	}
	if s.Version() != 4 {
		t.Errorf("expected version 4, got %d", s.Version())
	}
}

func TestStoreBeginTwice(t *testing.T) {
	var s Store
	if err := s.Begin(Pt(1, 2)); err != nil {
		t.Fatal(err)
	}
	s.Extend(Pt(3, 4))
	if err := s.Begin(Pt(9, 9)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	cur, _ := s.InProgress()
	if exp := []Point{Pt(1, 2), Pt(3, 4)}; !reflect.DeepEqual(cur.Points, exp) {
		t.Errorf("stroke in progress modified: %v", cur.Points)
	}
}

func TestStoreCommitCopiesPoints(t *testing.T) {
	var s Store
	_ = s.Begin(Pt(0, 0))
	s.Extend(Pt(1, 1))
	s.Commit()

	// the next stroke reuses the in progress buffer
	_ = s.Begin(Pt(5, 5))
	s.Extend(Pt(6, 6))
	if got := s.Strokes()[0].Points; !reflect.DeepEqual(got, []Point{Pt(0, 0), Pt(1, 1)}) {
		t.Errorf("committed stroke aliased by the stroke in progress: %v", got)
	}

	out := s.Strokes()
	out[0].Points[0] = Pt(100, 100)
	if s.Strokes()[0].Points[0] != Pt(0, 0) {
		t.Error("Strokes should return a copy")
	}
}

func TestStoreClearAndReplace(t *testing.T) {
	var s Store
	_ = s.Begin(Pt(0, 0))
	s.Commit()
	_ = s.Begin(Pt(1, 1))
	s.Clear()
	if s.Len() != 0 || s.Drawing() {
		t.Fatal("Clear should remove everything")
	}

	s.Replace([]Stroke{New(Pt(0, 0), Pt(1, 1)), {}, New(Pt(2, 2))})
	if s.Len() != 2 {
		t.Errorf("empty strokes should be dropped, got %d strokes", s.Len())
	}

	// committing right after Clear is a no-op
	s.Commit()
	if s.Len() != 2 {
		t.Errorf("unexpected commit")
	}
}

func TestStoreDiscard(t *testing.T) {
	var s Store
	_ = s.Begin(Pt(0, 0))
	s.Extend(Pt(1, 0))
	s.Discard()
	if s.Drawing() || s.Len() != 0 {
		t.Error("Discard should drop the stroke in progress")
	}
	if err := s.Begin(Pt(0, 0)); err != nil {
		t.Errorf("Begin after Discard: %v", err)
	}
}
