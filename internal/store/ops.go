package store

import (
	"path/filepath"

	"github.com/iamNilotpal/tinkv/internal/keydir"
	"github.com/iamNilotpal/tinkv/internal/record"
	"github.com/iamNilotpal/tinkv/internal/segment"
	"github.com/iamNilotpal/tinkv/internal/stats"
	"github.com/iamNilotpal/tinkv/pkg/errors"
	"github.com/iamNilotpal/tinkv/pkg/seginfo"
)

// Get looks up key in the keydir and, on a hit, reads and verifies the
// referenced record. A missing keydir entry is a normal empty result, not
// an error; a checksum mismatch or a reference to a segment the store has
// no handle for is reported as corruption, since both indicate the keydir
// and the on-disk state have diverged.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, errStoreClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ptr, ok := s.keydir.Get(key)
	if !ok {
		return nil, false, nil
	}

	df, ok := s.dataFiles[ptr.SegmentID]
	if !ok {
		return nil, false, errors.NewStorageError(nil, errors.ErrorCodeSegmentCorrupted, "keydir references a segment that is not open").
			WithSegmentID(ptr.SegmentID).WithOffset(ptr.Offset).WithKey(key)
	}

	r, err := df.Read(ptr.Offset)
	if err != nil {
		return nil, false, err
	}
	if !r.VerifyChecksum() {
		return nil, false, errors.NewCorruptionError(ptr.SegmentID, ptr.Offset, key, nil)
	}
	if record.IsTombstone(r.Value) {
		return nil, false, nil
	}

	return r.Value, true, nil
}

// Set rejects oversized keys and values, rotates the active segment if it
// has grown past the configured threshold, appends the record, and
// updates the keydir — bumping stale counters for whatever entry this
// write displaces.
func (s *Store) Set(key, value []byte) error {
	if s.closed.Load() {
		return errStoreClosed
	}
	if uint64(len(key)) > s.options.MaxKeySize {
		return errors.NewKeySizeLimitError(key, uint64(len(key)), s.options.MaxKeySize)
	}
	if uint64(len(value)) > s.options.MaxValueSize {
		return errors.NewValueSizeLimitError(key, uint64(len(value)), s.options.MaxValueSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rotateIfNeeded(); err != nil {
		return err
	}

	active := s.dataFiles[s.activeID]
	offset, size, err := active.Append(key, value)
	if err != nil {
		return err
	}
	if s.options.Sync {
		if err := active.Sync(); err != nil {
			return err
		}
	}

	if prior, ok := s.keydir.Get(key); ok {
		s.stats.AddStale(1, prior.Size)
	}
	s.keydir.Set(key, keydir.Pointer{SegmentID: s.activeID, Offset: offset, Size: size})
	s.stats.SetActiveEntries(uint64(s.keydir.Len()))
	s.stats.AddDataFileBytes(size)

	return nil
}

// Remove appends a tombstone record for key, drops its keydir entry, and
// bumps stale counters by the removed entry's size plus the tombstone's
// own size, since the tombstone itself becomes reclaimable at the next
// compaction.
func (s *Store) Remove(key []byte) error {
	if s.closed.Load() {
		return errStoreClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prior, ok := s.keydir.Get(key)
	if !ok {
		return errors.NewKeyNotFoundError(key)
	}

	if err := s.rotateIfNeeded(); err != nil {
		return err
	}

	active := s.dataFiles[s.activeID]
	_, tombstoneSize, err := active.Append(key, record.Tombstone)
	if err != nil {
		return err
	}
	if s.options.Sync {
		if err := active.Sync(); err != nil {
			return err
		}
	}

	s.keydir.Remove(key)
	s.stats.AddStale(1, prior.Size+tombstoneSize)
	s.stats.SetActiveEntries(uint64(s.keydir.Len()))
	s.stats.AddDataFileBytes(tombstoneSize)

	return nil
}

// Keys returns every live key in lexicographic order.
func (s *Store) Keys() [][]byte {
	return s.keydir.Keys()
}

// Len returns the number of live keys.
func (s *Store) Len() int {
	return s.keydir.Len()
}

// Contains reports whether key currently has a live entry.
func (s *Store) Contains(key []byte) bool {
	return s.keydir.Contains(key)
}

// Stats returns a point-in-time snapshot of the store's size and
// staleness counters.
func (s *Store) Stats() stats.Snapshot {
	return s.stats.Snapshot()
}

// Sync flushes and fsyncs the active data file.
func (s *Store) Sync() error {
	if s.closed.Load() {
		return errStoreClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.dataFiles[s.activeID]
	return active.Sync()
}

// rotateIfNeeded seals the active file and opens a fresh one when the
// active file's size has crossed MaxDataFileSize. Called right before
// each write so a rotation never splits a record across two files.
// Caller must hold s.mu.
func (s *Store) rotateIfNeeded() error {
	active := s.dataFiles[s.activeID]
	if active.Size() < s.options.MaxDataFileSize {
		return nil
	}

	if err := active.Seal(); err != nil {
		return err
	}

	newID := s.activeID + 1
	path := filepath.Join(s.options.DataDir, seginfo.DataFileName(newID))
	newActive, err := segment.OpenDataFile(path, true)
	if err != nil {
		return err
	}

	s.dataFiles[newID] = newActive
	s.activeID = newID
	s.stats.SetDataFiles(uint64(len(s.dataFiles)))

	return nil
}
