// Package checkpoint persists Stage 2's retrograde-analysis progress to
// an embedded BadgerDB database, grounded on the teacher's
// internal/storage package (the same DefaultOptions-plus-transaction
// shape, repurposed from user preferences/stats to board sets). A
// killed Stage 2 run can resume from the last checkpoint instead of
// redoing a multi-hour sweep over the full reachable state space.
package checkpoint

import (
	"encoding/binary"
	"encoding/json"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/mame/dobutsu/internal/board"
	"github.com/mame/dobutsu/internal/boardset"
)

const (
	keyMeta        = "meta"
	prefixUnfixed  = "u:"
	prefixFixed    = "f:"
	prefixFrontier = "p:"
)

// Meta is the small piece of progress state saved alongside the
// fixed/unfixed/frontier board sets: the retrograde depth Stage 2 had
// reached, and how many boards were fixed at that point (a redundant
// cross-check against the resumed fixed set's own size, not load-bearing
// on its own).
type Meta struct {
	Depth      int32 `json:"depth"`
	FixedCount int   `json:"fixed_count"`
}

// Store wraps a Badger database dedicated to one Stage 2 run's
// checkpoint.
type Store struct {
	dir string
	db  *badger.DB
}

// Open opens (creating if necessary) the checkpoint database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RemoveAll closes the store and deletes its on-disk directory,
// called on clean completion so a finished run doesn't leave a stale
// checkpoint behind for the next invocation to mistakenly resume from.
func (s *Store) RemoveAll() error {
	if err := s.Close(); err != nil {
		return err
	}
	return os.RemoveAll(s.dir)
}

// HasCheckpoint reports whether a prior run left resumable state.
func (s *Store) HasCheckpoint() (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyMeta))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// SaveMeta writes the current progress marker.
func (s *Store) SaveMeta(m Meta) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyMeta), data)
	})
}

// LoadMeta reads the progress marker. ok is false if none was saved.
func (s *Store) LoadMeta() (m Meta, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyMeta))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
	})
	return m, ok, err
}

func setKey(prefix string, b board.Board) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(b))
	return key
}

// saveSet overwrites every entry under prefix with the current
// contents of set, using a single write batch for throughput across
// what may be tens of millions of boards.
func (s *Store) saveSet(prefix string, set *boardset.Set) error {
	if err := s.db.DropPrefix([]byte(prefix)); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	var setErr error
	set.Each(func(b board.Board) {
		if setErr != nil {
			return
		}
		setErr = wb.Set(setKey(prefix, b), nil)
	})
	if setErr != nil {
		return setErr
	}
	return wb.Flush()
}

// loadSet rebuilds a Set from the entries checkpointed under prefix.
func (s *Store) loadSet(prefix string) (*boardset.Set, error) {
	set := boardset.NewSet()
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			key := it.Item().KeyCopy(nil)
			raw := binary.BigEndian.Uint64(key[len(p):])
			set.Insert(board.Board(raw))
		}
		return nil
	})
	return set, err
}

// SaveUnfixed overwrites the checkpointed unfixed set.
func (s *Store) SaveUnfixed(set *boardset.Set) error { return s.saveSet(prefixUnfixed, set) }

// LoadUnfixed rebuilds the unfixed set from its checkpointed entries.
func (s *Store) LoadUnfixed() (*boardset.Set, error) { return s.loadSet(prefixUnfixed) }

// SaveFixed overwrites the checkpointed fixed set.
func (s *Store) SaveFixed(set *boardset.Set) error { return s.saveSet(prefixFixed, set) }

// LoadFixed rebuilds the fixed set from its checkpointed entries.
func (s *Store) LoadFixed() (*boardset.Set, error) { return s.loadSet(prefixFixed) }

// SaveFrontier overwrites the checkpointed depth-N-1 frontier (the
// boards due to be promoted on the next iteration).
func (s *Store) SaveFrontier(set *boardset.Set) error { return s.saveSet(prefixFrontier, set) }

// LoadFrontier rebuilds the frontier set from its checkpointed entries.
func (s *Store) LoadFrontier() (*boardset.Set, error) { return s.loadSet(prefixFrontier) }
