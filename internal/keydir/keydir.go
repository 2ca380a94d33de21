// Package keydir provides the in-memory index mapping every live key to the
// location of its most recent record on disk. This is the core Bitcask
// optimization: a single in-memory hash lookup turns Get into exactly one
// disk seek, with no secondary index and no scan.
//
// The keydir trades memory for disk I/O. Every key in the store, plus a
// fixed amount of metadata per key, stays resident for the life of the
// process; values never do. This bounds the store's key space to what
// fits in RAM in exchange for O(1) lookups regardless of how much data
// has been written.
package keydir

import (
	stdErrors "errors"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/iamNilotpal/tinkv/pkg/errors"
)

var ErrKeydirClosed = stdErrors.New("operation failed: cannot access closed keydir")

// Pointer is the location of one live record: which segment holds it,
// where it begins, and how many bytes it occupies. It is deliberately the
// entire per-key memory cost the store pays — no key copy, no timestamp —
// since the map key already holds the key bytes and recency is determined
// by write order, not by anything stored here.
type Pointer struct {
	SegmentID uint64
	Offset    uint64
	Size      uint64
}

// Config encapsulates the configuration parameters required to initialize
// a Keydir.
type Config struct {
	Logger *zap.SugaredLogger
}

// Keydir is the in-memory index mapping keys to their on-disk Pointer.
type Keydir struct {
	log     *zap.SugaredLogger
	entries map[string]Pointer
	mu      sync.RWMutex
	closed  atomic.Bool
}

// New creates an empty Keydir ready for Load or direct use.
func New(config *Config) (*Keydir, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "keydir configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Keydir{
		log:     config.Logger,
		entries: make(map[string]Pointer, 1024),
	}, nil
}

// Set records or overwrites the pointer for key. It never reports the
// previous pointer; callers that need to account for the entry they are
// replacing (e.g. to bump stale-byte counters) must Get before Set.
func (k *Keydir) Set(key []byte, ptr Pointer) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.entries[string(key)] = ptr
}

// Get returns the pointer for key and whether it was present.
func (k *Keydir) Get(key []byte) (Pointer, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	ptr, ok := k.entries[string(key)]
	return ptr, ok
}

// Remove deletes key's entry and returns the pointer it held, or reports
// ok=false if the key was absent.
func (k *Keydir) Remove(key []byte) (Pointer, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ptr, ok := k.entries[string(key)]
	if ok {
		delete(k.entries, string(key))
	}
	return ptr, ok
}

// Contains reports whether key has a live entry.
func (k *Keydir) Contains(key []byte) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.entries[string(key)]
	return ok
}

// Len returns the number of live keys.
func (k *Keydir) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.entries)
}

// Keys returns every live key in lexicographic byte order. The underlying
// map gives no ordering guarantee of its own, so this sorts on every call
// rather than maintaining a parallel ordered structure: no balanced-tree or
// skip-list implementation appears anywhere in the example pack, and Keys
// is not on TinKV's hot path the way Get and Set are.
func (k *Keydir) Keys() [][]byte {
	k.mu.RLock()
	defer k.mu.RUnlock()

	keys := make([]string, 0, len(k.entries))
	for key := range k.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([][]byte, len(keys))
	for i, key := range keys {
		out[i] = []byte(key)
	}
	return out
}

// ForEach calls fn once per live entry in lexicographic key order, stopping
// early if fn returns false. Used by compaction. It walks a snapshot of
// every key and pointer taken under the read lock, so fn may call Set on
// this Keydir without deadlocking.
func (k *Keydir) ForEach(fn func(key []byte, ptr Pointer) bool) {
	k.mu.RLock()
	keys := make([]string, 0, len(k.entries))
	for key := range k.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	snapshot := make(map[string]Pointer, len(k.entries))
	for _, key := range keys {
		snapshot[key] = k.entries[key]
	}
	k.mu.RUnlock()

	for _, key := range keys {
		if !fn([]byte(key), snapshot[key]) {
			return
		}
	}
}

// Close releases the keydir's backing map. The Keydir must not be used
// afterward.
func (k *Keydir) Close() error {
	if !k.closed.CompareAndSwap(false, true) {
		return ErrKeydirClosed
	}

	k.log.Infow("Closing keydir")

	k.mu.Lock()
	defer k.mu.Unlock()

	clear(k.entries)
	k.entries = nil

	k.log.Infow("Keydir closed successfully")
	return nil
}
