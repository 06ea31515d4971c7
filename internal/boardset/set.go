package boardset

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mame/dobutsu/internal/board"
)

// Set is an open-addressed hash set of board encodings. The zero value
// is an empty, ready-to-use set.
type Set struct {
	c core
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Len reports the number of boards in s.
func (s *Set) Len() int { return s.c.Len() }

// Clear empties s.
func (s *Set) Clear() { s.c.Clear(noValues{}) }

// Contains reports whether b is a member of s.
func (s *Set) Contains(b board.Board) bool {
	return s.c.contains(uint64(b))
}

// Insert adds b to s. Inserting a board already present is a no-op.
func (s *Set) Insert(b board.Board) {
	s.c.insert(uint64(b), noValues{})
}

// Delete removes b from s, if present.
func (s *Set) Delete(b board.Board) {
	s.c.delete(uint64(b))
}

// Resize grows or compacts s's backing arrays to house hint entries.
// Delete only tombstones slots, so callers that drain a set over many
// iterations should call Resize periodically to shrink it back down,
// mirroring the original's resize(len) compaction calls.
func (s *Set) Resize(hint int) {
	s.c.resize(hint, noValues{})
}

// Each calls f once for every board in s, in slot order (not insertion
// order).
func (s *Set) Each(f func(board.Board)) {
	s.c.each(func(key uint64, _ int) {
		f(board.Board(key))
	})
}

// Snapshot writes every board in s to w, one per line, using the same
// 15-hex-digit encoding the stage record format uses. It lets
// internal/checkpoint serialize a Set without depending on this
// package's internal slot layout.
func (s *Set) Snapshot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var err error
	s.c.each(func(key uint64, _ int) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(bw, "%015x\n", key)
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// LoadSnapshot reads boards previously written by Snapshot from r and
// inserts each into s.
func LoadSnapshot(r io.Reader) (*Set, error) {
	s := NewSet()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		var key uint64
		if _, err := fmt.Sscanf(line, "%x", &key); err != nil {
			return nil, fmt.Errorf("boardset: malformed snapshot line %q: %w", line, err)
		}
		s.Insert(board.Board(key))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
