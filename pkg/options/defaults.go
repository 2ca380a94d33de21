package options

const (
	// DefaultDataDir is the base directory TinKV stores its data and hint
	// files in when no other directory is specified.
	DefaultDataDir = "/var/lib/tinkv"

	// MinDataFileSize is the smallest MaxDataFileSize WithMaxDataFileSize
	// will accept (1 MiB); smaller thresholds would rotate segments on
	// nearly every write.
	MinDataFileSize uint64 = 1 * 1024 * 1024

	// MaxAllowedDataFileSize is the largest MaxDataFileSize
	// WithMaxDataFileSize will accept (4 GiB).
	MaxAllowedDataFileSize uint64 = 4 * 1024 * 1024 * 1024

	// DefaultMaxDataFileSize is the byte threshold at which the active
	// data file is sealed and a new one created (1 GiB).
	DefaultMaxDataFileSize uint64 = 1 * 1024 * 1024 * 1024

	// DefaultMaxKeySize is the default byte limit on a single key.
	DefaultMaxKeySize uint64 = 64

	// DefaultMaxValueSize is the default byte limit on a single value.
	DefaultMaxValueSize uint64 = 65536

	// DefaultSync is the default fsync-on-write behavior.
	DefaultSync = false
)

// NewDefaultOptions returns the built-in default configuration.
func NewDefaultOptions() Options {
	return Options{
		DataDir:         DefaultDataDir,
		MaxDataFileSize: DefaultMaxDataFileSize,
		MaxKeySize:      DefaultMaxKeySize,
		MaxValueSize:    DefaultMaxValueSize,
		Sync:            DefaultSync,
	}
}
