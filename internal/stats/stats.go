// Package stats tracks the five counters the store uses to decide when
// compaction is worthwhile and to answer the RESP server's INFO command.
package stats

import "sync/atomic"

// Snapshot is a point-in-time copy of every counter, safe to hand to a
// caller without holding any lock.
type Snapshot struct {
	SizeOfStaleEntries  uint64
	TotalStaleEntries   uint64
	TotalActiveEntries  uint64
	TotalDataFiles      uint64
	SizeOfAllDataFiles  uint64
}

// Stats holds the five counters as independent atomics rather than behind
// a single mutex. Every counter is updated from within the store's
// single-writer critical section already, so the atomics exist to make
// concurrent Stats() reads from other goroutines (the RESP server's INFO
// handler, for instance) safe without contending with writers.
type Stats struct {
	sizeOfStaleEntries atomic.Uint64
	totalStaleEntries  atomic.Uint64
	totalActiveEntries atomic.Uint64
	totalDataFiles     atomic.Uint64
	sizeOfAllDataFiles atomic.Uint64
}

// New returns a zeroed Stats.
func New() *Stats {
	return &Stats{}
}

// Snapshot returns the current value of every counter.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		SizeOfStaleEntries: s.sizeOfStaleEntries.Load(),
		TotalStaleEntries:  s.totalStaleEntries.Load(),
		TotalActiveEntries: s.totalActiveEntries.Load(),
		TotalDataFiles:     s.totalDataFiles.Load(),
		SizeOfAllDataFiles: s.sizeOfAllDataFiles.Load(),
	}
}

// AddStale accounts for bytes and an entry count becoming stale, as
// happens on both an overwrite and a remove.
func (s *Stats) AddStale(entries, bytes uint64) {
	s.totalStaleEntries.Add(entries)
	s.sizeOfStaleEntries.Add(bytes)
}

// SetActiveEntries sets total_active_entries to n. Callers keep this equal
// to the keydir's live key count after every public operation returns.
func (s *Stats) SetActiveEntries(n uint64) {
	s.totalActiveEntries.Store(n)
}

// AddDataFileBytes accounts for bytes appended to a data file.
func (s *Stats) AddDataFileBytes(bytes uint64) {
	s.sizeOfAllDataFiles.Add(bytes)
}

// SetDataFiles sets total_data_files, the number of data files currently
// tracked by the store.
func (s *Stats) SetDataFiles(n uint64) {
	s.totalDataFiles.Store(n)
}

// ResetAfterCompaction zeroes the stale counters and sets the remaining
// counters to their post-compaction values. dataFileCount is the
// compaction target plus the fresh active file compaction allocates
// ahead of it; compactionTargetSize is that target's size alone — the
// new active file starts empty and contributes nothing yet.
func (s *Stats) ResetAfterCompaction(activeEntries, dataFileCount, compactionTargetSize uint64) {
	s.totalStaleEntries.Store(0)
	s.sizeOfStaleEntries.Store(0)
	s.totalActiveEntries.Store(activeEntries)
	s.totalDataFiles.Store(dataFileCount)
	s.sizeOfAllDataFiles.Store(compactionTargetSize)
}
