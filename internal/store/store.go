// Package store implements the Store orchestrator: the single type that
// ties the keydir, the segment files, and the stats counters together into
// a durable, crash-recoverable key-value engine.
//
// Store needs direct, simultaneous access to many segment files at once —
// for compaction, and for Get against old segments — rather than exactly
// one active segment, so the coordinator, the index, and the segment
// lifecycle all live together in this one package instead of three
// separately-owned ones.
package store

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iamNilotpal/tinkv/internal/keydir"
	"github.com/iamNilotpal/tinkv/internal/record"
	"github.com/iamNilotpal/tinkv/internal/segment"
	"github.com/iamNilotpal/tinkv/internal/stats"
	"github.com/iamNilotpal/tinkv/pkg/errors"
	"github.com/iamNilotpal/tinkv/pkg/filesys"
	"github.com/iamNilotpal/tinkv/pkg/options"
	"github.com/iamNilotpal/tinkv/pkg/seginfo"
)

// Store is the durable key-value engine: one active, writable data file
// plus zero or more sealed, read-only data files, an in-memory keydir
// pointing at the latest record for every live key, and the stats that
// drive compaction decisions.
type Store struct {
	options *options.Options
	log     *zap.SugaredLogger

	mu        sync.Mutex
	keydir    *keydir.Keydir
	stats     *stats.Stats
	dataFiles map[uint64]*segment.DataFile // every open data file, sealed and active, keyed by id.
	activeID  uint64

	lock   *dirLock
	closed atomic.Bool
}

// Config bundles the parameters Open needs.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Open creates the data directory if absent, discovers and opens every
// sealed data file already there, rebuilds the keydir from them, and
// allocates a fresh active data file to receive new writes.
func Open(config *Config) (*Store, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewConfigurationValidationError("config", "Options and Logger are required")
	}

	opts := config.Options
	log := config.Logger

	if err := filesys.CreateDir(opts.DataDir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, opts.DataDir)
	}

	lock, err := acquireDirLock(opts.DataDir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to acquire store directory lock").
			WithPath(opts.DataDir)
	}

	kd, err := keydir.New(&keydir.Config{Logger: log})
	if err != nil {
		lock.release()
		return nil, err
	}

	st := &Store{
		options:   opts,
		log:       log,
		keydir:    kd,
		stats:     stats.New(),
		dataFiles: make(map[uint64]*segment.DataFile),
		lock:      lock,
	}

	dataFilePaths, err := seginfo.ListDataFiles(opts.DataDir)
	if err != nil {
		st.teardown()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to list data files").
			WithPath(opts.DataDir)
	}

	var totalBytes uint64
	var maxID uint64
	sealedIDs := make([]uint64, 0, len(dataFilePaths))

	for _, path := range dataFilePaths {
		df, err := segment.OpenDataFile(path, false)
		if err != nil {
			st.teardown()
			return nil, err
		}
		st.dataFiles[df.ID] = df
		sealedIDs = append(sealedIDs, df.ID)
		totalBytes += df.Size()
		if df.ID > maxID {
			maxID = df.ID
		}
	}
	sort.Slice(sealedIDs, func(i, j int) bool { return sealedIDs[i] < sealedIDs[j] })

	log.Infow("Recovering keydir from sealed data files", "dataDir", opts.DataDir, "segments", len(sealedIDs))
	if err := st.recover(sealedIDs); err != nil {
		st.teardown()
		return nil, err
	}

	activeID := maxID + 1
	activePath := filepath.Join(opts.DataDir, seginfo.DataFileName(activeID))
	active, err := segment.OpenDataFile(activePath, true)
	if err != nil {
		st.teardown()
		return nil, err
	}
	st.dataFiles[activeID] = active
	st.activeID = activeID

	st.stats.SetDataFiles(uint64(len(st.dataFiles)))
	st.stats.AddDataFileBytes(totalBytes)
	st.stats.SetActiveEntries(uint64(st.keydir.Len()))

	log.Infow(
		"Store opened successfully",
		"dataDir", opts.DataDir,
		"activeSegmentID", activeID,
		"liveKeys", st.keydir.Len(),
		"dataFiles", len(st.dataFiles),
	)

	return st, nil
}

// recover rebuilds the keydir by processing sealed segments in ascending
// id order: later files naturally supersede earlier ones without needing
// per-record timestamps.
func (s *Store) recover(sealedIDs []uint64) error {
	for _, id := range sealedIDs {
		hintPath := filepath.Join(s.options.DataDir, seginfo.HintFileName(id))
		if exists, _ := filesys.Exists(hintPath); exists {
			if err := s.recoverFromHint(id, hintPath); err != nil {
				return err
			}
			continue
		}
		if err := s.recoverFromDataFile(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) recoverFromHint(id uint64, hintPath string) error {
	return segment.IterateHintFile(hintPath, func(h *record.Hint) bool {
		s.keydir.Set(h.Key, keydir.Pointer{SegmentID: id, Offset: h.Offset, Size: h.Size})
		return true
	})
}

func (s *Store) recoverFromDataFile(id uint64) error {
	df := s.dataFiles[id]

	var corruptErr error
	err := df.Iterate(func(offset uint64, r *record.Record) bool {
		if !r.VerifyChecksum() {
			corruptErr = errors.NewCorruptionError(id, offset, r.Key, nil)
			return false
		}

		if record.IsTombstone(r.Value) {
			size := r.Size()
			if prior, ok := s.keydir.Remove(r.Key); ok {
				s.stats.AddStale(1, prior.Size+size)
			} else {
				s.stats.AddStale(1, size)
			}
			return true
		}

		s.keydir.Set(r.Key, keydir.Pointer{SegmentID: id, Offset: offset, Size: r.Size()})
		return true
	})
	if err != nil {
		return err
	}
	return corruptErr
}

// teardown releases partially-acquired resources when Open fails partway
// through.
func (s *Store) teardown() {
	for _, df := range s.dataFiles {
		_ = df.Close()
	}
	if s.keydir != nil {
		_ = s.keydir.Close()
	}
	if s.lock != nil {
		_ = s.lock.release()
	}
}

var errStoreClosed = fmt.Errorf("operation failed: cannot access closed store")

// Close flushes and syncs the active file, then releases every resource
// Open acquired. Close is idempotent: a second call is a no-op returning
// nil rather than operating on already-released state.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Infow("Closing store", "dataDir", s.options.DataDir)

	var errs []error
	for _, df := range s.dataFiles {
		if err := df.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.keydir.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.lock.release(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.NewStorageError(multierr.Combine(errs...), errors.ErrorCodeIO, "failed to close store cleanly").
			WithPath(s.options.DataDir)
	}

	s.log.Infow("Store closed successfully")
	return nil
}
