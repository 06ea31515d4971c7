package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/mame/dobutsu/internal/board"
	"github.com/mame/dobutsu/internal/boardset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "db")
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMetaRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if has, err := s.HasCheckpoint(); err != nil {
		t.Fatalf("HasCheckpoint: %v", err)
	} else if has {
		t.Errorf("HasCheckpoint = true on a fresh store")
	}

	want := Meta{Depth: 7, FixedCount: 12345}
	if err := s.SaveMeta(want); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}

	if has, err := s.HasCheckpoint(); err != nil {
		t.Fatalf("HasCheckpoint: %v", err)
	} else if !has {
		t.Errorf("HasCheckpoint = false after SaveMeta")
	}

	got, ok, err := s.LoadMeta()
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if !ok {
		t.Fatalf("LoadMeta ok = false")
	}
	if got != want {
		t.Errorf("LoadMeta = %+v, want %+v", got, want)
	}
}

func TestUnfixedRoundTrip(t *testing.T) {
	s := openTestStore(t)

	set := boardset.NewSet()
	boards := []board.Board{1, 2, 3, 0xdead, 0xbeef}
	for _, b := range boards {
		set.Insert(b)
	}

	if err := s.SaveUnfixed(set); err != nil {
		t.Fatalf("SaveUnfixed: %v", err)
	}

	loaded, err := s.LoadUnfixed()
	if err != nil {
		t.Fatalf("LoadUnfixed: %v", err)
	}
	if loaded.Len() != len(boards) {
		t.Fatalf("LoadUnfixed: got %d boards, want %d", loaded.Len(), len(boards))
	}
	for _, b := range boards {
		if !loaded.Contains(b) {
			t.Errorf("LoadUnfixed: missing board %v", b)
		}
	}
}

func TestSaveUnfixedOverwritesPriorContents(t *testing.T) {
	s := openTestStore(t)

	first := boardset.NewSet()
	first.Insert(board.Board(1))
	first.Insert(board.Board(2))
	if err := s.SaveUnfixed(first); err != nil {
		t.Fatalf("SaveUnfixed: %v", err)
	}

	second := boardset.NewSet()
	second.Insert(board.Board(3))
	if err := s.SaveUnfixed(second); err != nil {
		t.Fatalf("SaveUnfixed: %v", err)
	}

	loaded, err := s.LoadUnfixed()
	if err != nil {
		t.Fatalf("LoadUnfixed: %v", err)
	}
	if loaded.Len() != 1 || !loaded.Contains(board.Board(3)) {
		t.Errorf("LoadUnfixed after overwrite = %d boards, want exactly {3}", loaded.Len())
	}
}

func TestFixedAndFrontierAreIndependent(t *testing.T) {
	s := openTestStore(t)

	fixed := boardset.NewSet()
	fixed.Insert(board.Board(10))
	frontier := boardset.NewSet()
	frontier.Insert(board.Board(20))
	frontier.Insert(board.Board(21))

	if err := s.SaveFixed(fixed); err != nil {
		t.Fatalf("SaveFixed: %v", err)
	}
	if err := s.SaveFrontier(frontier); err != nil {
		t.Fatalf("SaveFrontier: %v", err)
	}

	gotFixed, err := s.LoadFixed()
	if err != nil {
		t.Fatalf("LoadFixed: %v", err)
	}
	gotFrontier, err := s.LoadFrontier()
	if err != nil {
		t.Fatalf("LoadFrontier: %v", err)
	}

	if gotFixed.Len() != 1 || !gotFixed.Contains(board.Board(10)) {
		t.Errorf("LoadFixed = %d boards, want exactly {10}", gotFixed.Len())
	}
	if gotFrontier.Len() != 2 {
		t.Errorf("LoadFrontier = %d boards, want 2", gotFrontier.Len())
	}
}

func TestRemoveAllClearsCheckpoint(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveMeta(Meta{Depth: 1}); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	if err := s.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open after RemoveAll: %v", err)
	}
	defer reopened.Close()
	if has, err := reopened.HasCheckpoint(); err != nil {
		t.Fatalf("HasCheckpoint: %v", err)
	} else if has {
		t.Errorf("HasCheckpoint = true after RemoveAll")
	}
}
