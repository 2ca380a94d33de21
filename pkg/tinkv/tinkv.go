// Package tinkv is the public, embeddable entry point to the store: the
// stable boundary external programs import instead of reaching into
// internal/store directly.
package tinkv

import (
	"github.com/iamNilotpal/tinkv/internal/stats"
	"github.com/iamNilotpal/tinkv/internal/store"
	"github.com/iamNilotpal/tinkv/pkg/logger"
	"github.com/iamNilotpal/tinkv/pkg/options"
)

// DB is an open TinKV store. The zero value is not usable; construct one
// with Open.
type DB struct {
	store *store.Store
}

// Open creates the data directory if needed, recovers the keydir from
// whatever segments already exist there, and returns a DB ready for
// Get/Set/Remove. service names the logger the store and its components
// log through.
func Open(service string, opts ...options.OptionFunc) (*DB, error) {
	o := options.Apply(opts...)
	log := logger.New(service)

	s, err := store.Open(&store.Config{Options: o, Logger: log})
	if err != nil {
		return nil, err
	}
	return &DB{store: s}, nil
}

// Get returns the value for key, or ok=false if no live entry exists.
func (db *DB) Get(key []byte) (value []byte, ok bool, err error) {
	return db.store.Get(key)
}

// Set stores value under key, overwriting any previous value.
func (db *DB) Set(key, value []byte) error {
	return db.store.Set(key, value)
}

// Remove deletes key. It fails with a key-not-found error if key has no
// live entry.
func (db *DB) Remove(key []byte) error {
	return db.store.Remove(key)
}

// Keys returns every live key in lexicographic order.
func (db *DB) Keys() [][]byte {
	return db.store.Keys()
}

// Len returns the number of live keys.
func (db *DB) Len() int {
	return db.store.Len()
}

// Contains reports whether key currently has a live entry.
func (db *DB) Contains(key []byte) bool {
	return db.store.Contains(key)
}

// Compact rewrites every live record into a fresh segment and discards
// everything superseded. It is never triggered automatically; callers
// decide when the stale ratio justifies the cost.
func (db *DB) Compact() error {
	return db.store.Compact()
}

// Stats returns a snapshot of the store's size and staleness counters.
func (db *DB) Stats() stats.Snapshot {
	return db.store.Stats()
}

// Sync flushes and fsyncs the active data file.
func (db *DB) Sync() error {
	return db.store.Sync()
}

// Close releases every resource Open acquired. Close is idempotent.
func (db *DB) Close() error {
	return db.store.Close()
}
