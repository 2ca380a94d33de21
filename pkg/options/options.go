// Package options provides data structures and functions for configuring
// a TinKV store: the data directory, per-write size limits, and the sync
// mode, using the functional-options pattern so callers only specify what
// they want to override from the defaults.
package options

import "strings"

// Options configures a Store.
type Options struct {
	// DataDir is the base path where data and hint files are stored.
	//
	// Default: "/var/lib/tinkv"
	DataDir string `json:"dataDir"`

	// MaxDataFileSize is the byte threshold at which the active data file
	// is sealed and a new one created before the next write.
	//
	// Default: 1 GiB
	MaxDataFileSize uint64 `json:"maxDataFileSize"`

	// MaxKeySize is the byte limit on a single key; writes with larger
	// keys are rejected.
	//
	// Default: 64
	MaxKeySize uint64 `json:"maxKeySize"`

	// MaxValueSize is the byte limit on a single value; writes with
	// larger values are rejected.
	//
	// Default: 65536
	MaxValueSize uint64 `json:"maxValueSize"`

	// Sync, if true, fsyncs the active data file after every successful
	// write. This trades write latency for the durability guarantee that
	// a successful Set or Remove has survived a crash.
	//
	// Default: false
	Sync bool `json:"sync"`
}

// OptionFunc modifies a Store's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies every built-in default.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		defaults := NewDefaultOptions()
		*o = defaults
	}
}

// WithDataDir sets the base directory for data and hint files.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithMaxDataFileSize sets the byte threshold that triggers segment
// rotation.
func WithMaxDataFileSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinDataFileSize && size <= MaxAllowedDataFileSize {
			o.MaxDataFileSize = size
		}
	}
}

// WithMaxKeySize sets the byte limit on keys.
func WithMaxKeySize(size uint64) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.MaxKeySize = size
		}
	}
}

// WithMaxValueSize sets the byte limit on values.
func WithMaxValueSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.MaxValueSize = size
		}
	}
}

// WithSync enables or disables fsync-on-write.
func WithSync(sync bool) OptionFunc {
	return func(o *Options) {
		o.Sync = sync
	}
}

// Apply builds an Options from the built-in defaults overridden by fns, in
// order.
func Apply(fns ...OptionFunc) *Options {
	defaults := NewDefaultOptions()
	o := &defaults
	for _, fn := range fns {
		fn(o)
	}
	return o
}
