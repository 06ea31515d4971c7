package boardset

import "github.com/mame/dobutsu/internal/board"

// Map is an open-addressed hash map from board encodings to int32
// values (this pipeline only ever stores small depth counters, never
// full words, so int32 is plenty and keeps the table compact). The
// zero value is an empty, ready-to-use map.
type Map struct {
	c  core
	vs int32Values
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{}
}

// Len reports the number of entries in m.
func (m *Map) Len() int { return m.c.Len() }

// Clear empties m.
func (m *Map) Clear() { m.c.Clear(&m.vs) }

// Contains reports whether b has an entry in m.
func (m *Map) Contains(b board.Board) bool {
	return m.c.contains(uint64(b))
}

// Get returns the value stored for b and whether b was present. A
// missing key reports (0, false).
func (m *Map) Get(b board.Board) (int32, bool) {
	i := m.c.get(uint64(b))
	if i == len(m.c.keys) {
		return 0, false
	}
	return m.vs.vals[i], true
}

// Put stores v for key b, inserting b if it was absent.
func (m *Map) Put(b board.Board, v int32) {
	i := m.c.insert(uint64(b), &m.vs)
	m.vs.vals[i] = v
}

// At inserts b with a default value of 0 if absent, and returns a
// pointer to its value slot so the caller can read or mutate it in
// place, mirroring a mutable index-style access.
func (m *Map) At(b board.Board) *int32 {
	i := m.c.insert(uint64(b), &m.vs)
	return &m.vs.vals[i]
}

// Delete removes b from m, if present.
func (m *Map) Delete(b board.Board) {
	m.c.delete(uint64(b))
}

// Resize grows or compacts m's backing arrays to house hint entries,
// the same compaction hook Set exposes.
func (m *Map) Resize(hint int) {
	m.c.resize(hint, &m.vs)
}

// Each calls f once for every entry in m, in slot order (not insertion
// order).
func (m *Map) Each(f func(board.Board, int32)) {
	m.c.each(func(key uint64, slot int) {
		f(board.Board(key), m.vs.vals[slot])
	})
}
