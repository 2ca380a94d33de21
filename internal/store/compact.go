package store

import (
	"os"
	"path/filepath"

	"github.com/iamNilotpal/tinkv/internal/keydir"
	"github.com/iamNilotpal/tinkv/internal/segment"
	"github.com/iamNilotpal/tinkv/pkg/errors"
	"github.com/iamNilotpal/tinkv/pkg/seginfo"
)

// Compact rewrites every live record into a single fresh segment and
// discards everything older, reclaiming the space tombstones and
// overwrites left behind. It never runs implicitly; callers (the server,
// the CLI, a cron-style caller) decide when the stale ratio justifies the
// cost.
func (s *Store) Compact() error {
	if s.closed.Load() {
		return errStoreClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	compactID := s.activeID + 1
	newActiveID := compactID + 1

	newActivePath := filepath.Join(s.options.DataDir, seginfo.DataFileName(newActiveID))
	newActive, err := segment.OpenDataFile(newActivePath, true)
	if err != nil {
		return err
	}

	targetPath := filepath.Join(s.options.DataDir, seginfo.DataFileName(compactID))
	target, err := segment.OpenDataFile(targetPath, true)
	if err != nil {
		newActive.Close()
		return err
	}
	hint := segment.NewHintFile(s.options.DataDir, compactID)

	oldSegments := make(map[uint64]*segment.DataFile, len(s.dataFiles))
	for id, df := range s.dataFiles {
		oldSegments[id] = df
	}

	var walkErr error
	s.keydir.ForEach(func(key []byte, ptr keydir.Pointer) bool {
		src, ok := oldSegments[ptr.SegmentID]
		if !ok {
			walkErr = errors.NewStorageError(nil, errors.ErrorCodeSegmentCorrupted, "compaction source segment not open").
				WithSegmentID(ptr.SegmentID).WithKey(key)
			return false
		}

		newOffset, err := target.Copy(src, ptr.Offset, ptr.Size)
		if err != nil {
			walkErr = err
			return false
		}

		s.keydir.Set(key, keydir.Pointer{SegmentID: compactID, Offset: newOffset, Size: ptr.Size})

		if err := hint.Append(key, newOffset, ptr.Size); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	if walkErr != nil {
		target.Close()
		newActive.Close()
		return walkErr
	}

	if err := target.Sync(); err != nil {
		return err
	}
	if err := hint.Finalize(); err != nil {
		return err
	}

	for id, df := range oldSegments {
		if err := df.Close(); err != nil {
			s.log.Warnw("Failed to close old segment during compaction", "segmentID", id, "error", err)
		}
		dataPath := filepath.Join(s.options.DataDir, seginfo.DataFileName(id))
		_ = os.Remove(dataPath)
		hintPath := filepath.Join(s.options.DataDir, seginfo.HintFileName(id))
		_ = os.Remove(hintPath)
	}

	if err := target.Seal(); err != nil {
		return err
	}

	s.dataFiles = map[uint64]*segment.DataFile{
		compactID:   target,
		newActiveID: newActive,
	}
	s.activeID = newActiveID

	s.stats.ResetAfterCompaction(uint64(s.keydir.Len()), uint64(len(s.dataFiles)), target.Size())

	s.log.Infow(
		"Compaction complete",
		"compactionTargetID", compactID,
		"newActiveID", newActiveID,
		"liveKeys", s.keydir.Len(),
	)

	return nil
}
