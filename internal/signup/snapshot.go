package signup

import (
	"fmt"
	"maps"
)

// Snapshot is a serialisable copy of a Store, used to move a mounted form
// between processes.
type Snapshot struct {
	Entries   map[Field]Entry  `json:"entries"`
	Revisions map[Field]uint64 `json:"revisions"`
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Entries:   maps.Clone(s.entries),
		Revisions: maps.Clone(s.revs),
	}
}

// Restore builds a Store from snap. Every field must be present with a value
// of the right type; messages are taken as stored.
func Restore(snap Snapshot, opts ...Option) (*Store, error) {
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}
	s := NewStore(opts...)
	for _, f := range fields {
		s.entries[f] = snap.Entries[f]
		if rev, ok := snap.Revisions[f]; ok {
			s.revs[f] = rev
		}
	}
	return s, nil
}

// Rebase moves the store onto target without losing concurrent edits: a
// field is replaced only while it still holds the entry it had in seen.
// Revisions stay local and OnChange is not called.
func (s *Store) Rebase(seen, target Snapshot) error {
	if err := checkSnapshot(target); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fields {
		if s.entries[f] == seen.Entries[f] {
			s.entries[f] = target.Entries[f]
		}
	}
	return nil
}

func checkSnapshot(snap Snapshot) error {
	for _, f := range fields {
		e, ok := snap.Entries[f]
		if !ok {
			return fmt.Errorf("%w: missing field %q", ErrInvalidSnapshot, f)
		}
		var r Record
		if err := r.set(f, e.Value); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	}
	for f := range snap.Entries {
		if !f.Valid() {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidSnapshot, f)
		}
	}
	return nil
}
