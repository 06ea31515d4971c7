package boardset

import (
	"bytes"
	"testing"

	"github.com/mame/dobutsu/internal/board"
)

func TestSetInsertContains(t *testing.T) {
	s := NewSet()
	b := board.Init()
	if s.Contains(b) {
		t.Fatal("empty set contains a board")
	}
	s.Insert(b)
	if !s.Contains(b) {
		t.Fatal("set does not contain inserted board")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSetInsertIsIdempotent(t *testing.T) {
	s := NewSet()
	b := board.Init()
	s.Insert(b)
	s.Insert(b)
	if s.Len() != 1 {
		t.Errorf("Len() = %d after inserting the same board twice, want 1", s.Len())
	}
}

func TestSetDelete(t *testing.T) {
	s := NewSet()
	b := board.Init()
	s.Insert(b)
	s.Delete(b)
	if s.Contains(b) {
		t.Error("set still contains board after Delete")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after delete, want 0", s.Len())
	}
}

func TestSetSurvivesResize(t *testing.T) {
	s := NewSet()
	const n = 5000
	var b board.Board
	boards := make([]board.Board, 0, n)
	for i := 0; i < n; i++ {
		b += 7 // arbitrary distinct encodings; doesn't need to be a legal position for this hash-table test
		boards = append(boards, b)
		s.Insert(b)
	}
	if s.Len() != n {
		t.Fatalf("Len() = %d, want %d", s.Len(), n)
	}
	for _, bb := range boards {
		if !s.Contains(bb) {
			t.Errorf("set lost board %x across resize", uint64(bb))
		}
	}
}

func TestSetResizeCompactsAfterDeletes(t *testing.T) {
	s := NewSet()
	const n = 2000
	var b board.Board
	boards := make([]board.Board, 0, n)
	for i := 0; i < n; i++ {
		b += 7
		boards = append(boards, b)
		s.Insert(b)
	}
	for _, bb := range boards[:n-10] {
		s.Delete(bb)
	}
	s.Resize(s.Len())
	if s.Len() != 10 {
		t.Fatalf("Len() = %d after resize, want 10", s.Len())
	}
	for _, bb := range boards[n-10:] {
		if !s.Contains(bb) {
			t.Errorf("set lost board %x across Resize", uint64(bb))
		}
	}
}

func TestSetEachVisitsEveryMember(t *testing.T) {
	s := NewSet()
	want := map[board.Board]bool{}
	var b board.Board
	for i := 0; i < 200; i++ {
		b += 11
		s.Insert(b)
		want[b] = true
	}
	got := map[board.Board]bool{}
	s.Each(func(b board.Board) { got[b] = true })
	if len(got) != len(want) {
		t.Fatalf("Each visited %d boards, want %d", len(got), len(want))
	}
	for b := range want {
		if !got[b] {
			t.Errorf("Each did not visit %x", uint64(b))
		}
	}
}

func TestSetSnapshotRoundTrip(t *testing.T) {
	s := NewSet()
	var b board.Board
	for i := 0; i < 50; i++ {
		b += 13
		s.Insert(b)
	}
	var buf bytes.Buffer
	if err := s.Snapshot(&buf); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	loaded, err := LoadSnapshot(&buf)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Len() != s.Len() {
		t.Fatalf("loaded.Len() = %d, want %d", loaded.Len(), s.Len())
	}
	s.Each(func(b board.Board) {
		if !loaded.Contains(b) {
			t.Errorf("loaded set missing %x", uint64(b))
		}
	})
}

func TestMapPutGet(t *testing.T) {
	m := NewMap()
	b := board.Init()
	m.Put(b, 42)
	v, ok := m.Get(b)
	if !ok || v != 42 {
		t.Errorf("Get = (%d, %v), want (42, true)", v, ok)
	}
}

func TestMapGetMissingReturnsFalse(t *testing.T) {
	m := NewMap()
	v, ok := m.Get(board.Init())
	if ok || v != 0 {
		t.Errorf("Get on empty map = (%d, %v), want (0, false)", v, ok)
	}
}

func TestMapAtDefaultsToZero(t *testing.T) {
	m := NewMap()
	b := board.Init()
	p := m.At(b)
	if *p != 0 {
		t.Errorf("At() on fresh key = %d, want 0", *p)
	}
	*p = 7
	v, ok := m.Get(b)
	if !ok || v != 7 {
		t.Errorf("Get after At-mutation = (%d, %v), want (7, true)", v, ok)
	}
}

func TestMapOverwrite(t *testing.T) {
	m := NewMap()
	b := board.Init()
	m.Put(b, 1)
	m.Put(b, 2)
	if m.Len() != 1 {
		t.Errorf("Len() = %d after overwriting one key, want 1", m.Len())
	}
	v, _ := m.Get(b)
	if v != 2 {
		t.Errorf("Get = %d, want 2", v)
	}
}

func TestMapDeleteThenReinsert(t *testing.T) {
	m := NewMap()
	b := board.Init()
	m.Put(b, 5)
	m.Delete(b)
	if _, ok := m.Get(b); ok {
		t.Fatal("Get found a value after Delete")
	}
	m.Put(b, 9)
	v, ok := m.Get(b)
	if !ok || v != 9 {
		t.Errorf("Get after delete+reinsert = (%d, %v), want (9, true)", v, ok)
	}
}

func TestMapSurvivesResizeWithTombstones(t *testing.T) {
	m := NewMap()
	const n = 3000
	var b board.Board
	boards := make([]board.Board, 0, n)
	for i := 0; i < n; i++ {
		b += 17
		boards = append(boards, b)
		m.Put(b, int32(i))
		if i%3 == 0 {
			m.Delete(b)
		}
	}
	for i, bb := range boards {
		v, ok := m.Get(bb)
		if i%3 == 0 {
			if ok {
				t.Errorf("board %x should have been deleted, got value %d", uint64(bb), v)
			}
			continue
		}
		if !ok || v != int32(i) {
			t.Errorf("Get(%x) = (%d, %v), want (%d, true)", uint64(bb), v, ok, i)
		}
	}
}
