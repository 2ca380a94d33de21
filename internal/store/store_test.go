package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/tinkv/internal/store"
	"github.com/iamNilotpal/tinkv/pkg/errors"
	"github.com/iamNilotpal/tinkv/pkg/options"
)

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	log, err := zap.NewDevelopment()
	require.NoError(t, err)
	return log.Sugar()
}

func openStore(t *testing.T, dir string, opts ...options.OptionFunc) *store.Store {
	t.Helper()
	o := options.Apply(append([]options.OptionFunc{
		options.WithDataDir(dir),
		options.WithMaxDataFileSize(options.MinDataFileSize),
	}, opts...)...)

	s, err := store.Open(&store.Config{Options: o, Logger: testLogger(t)})
	require.NoError(t, err)
	return s
}

// S1 — Basic put/get.
func TestBasicPutGet(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	require.NoError(t, s.Set([]byte("version"), []byte("1.0")))
	require.NoError(t, s.Set([]byte("name"), []byte("tinkv")))

	v, ok, err := s.Get([]byte("version"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1.0", string(v))

	v, ok, err = s.Get([]byte("name"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tinkv", string(v))

	require.Equal(t, 2, s.Len())
	require.NoError(t, s.Close())

	s2 := openStore(t, dir)
	defer s2.Close()

	v, ok, err = s2.Get([]byte("version"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1.0", string(v))
	require.Equal(t, 2, s2.Len())
}

// S2 — Overwrite.
func TestOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	require.NoError(t, s.Set([]byte("version"), []byte("1.0")))
	require.NoError(t, s.Set([]byte("version"), []byte("2.0")))

	v, ok, err := s.Get([]byte("version"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2.0", string(v))
	require.NoError(t, s.Close())

	s2 := openStore(t, dir)
	defer s2.Close()

	v, ok, err = s2.Get([]byte("version"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2.0", string(v))
}

// S3 — Remove.
func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	defer s.Close()

	require.NoError(t, s.Set([]byte("version"), []byte("1.0")))
	require.NoError(t, s.Remove([]byte("version")))

	_, ok, err := s.Get([]byte("version"))
	require.NoError(t, err)
	require.False(t, ok)

	err = s.Remove([]byte("version"))
	require.True(t, errors.IsKeyNotFound(err))
}

// S4 — Compaction reclaims space.
func TestCompactionReclaimsSpace(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	defer s.Close()

	const keys = 50
	for it := 0; it < 5; it++ {
		for id := 0; id < keys; id++ {
			key := []byte(keyFor(id))
			val := []byte(valFor(it))
			require.NoError(t, s.Set(key, val))
		}

		snap := s.Stats()
		if snap.TotalStaleEntries > 10 {
			require.NoError(t, s.Compact())
			snap = s.Stats()
			require.Zero(t, snap.TotalStaleEntries)
			require.Zero(t, snap.SizeOfStaleEntries)
			require.EqualValues(t, keys, snap.TotalActiveEntries)
		}

		for id := 0; id < keys; id++ {
			v, ok, err := s.Get([]byte(keyFor(id)))
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, valFor(it), string(v))
		}
	}

	require.Equal(t, keys, s.Len())
	require.NoError(t, s.Close())

	s2 := openStore(t, dir)
	defer s2.Close()
	require.Equal(t, keys, s2.Len())
}

func keyFor(id int) string { return "key_" + itoa(id) }
func valFor(it int) string { return "value_" + itoa(it) }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// S5 — Oversized inputs rejected.
func TestOversizedInputsRejected(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir, options.WithMaxKeySize(4))
	defer s.Close()

	err := s.Set([]byte("abcde"), []byte("x"))
	require.Error(t, err)

	kve, ok := errors.AsKVError(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrorCodeSizeLimit, kve.Code())

	require.Equal(t, 0, s.Len())
}

// S6 — Corruption detected.
func TestCorruptionDetectedOnReopen(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	require.NoError(t, s.Set([]byte("k"), []byte("v")))
	require.NoError(t, s.Close())

	dataFiles, err := filepath.Glob(filepath.Join(dir, "*.tinkv.data"))
	require.NoError(t, err)
	require.Len(t, dataFiles, 1)

	corruptByteInValueRegion(t, dataFiles[0])

	o := options.Apply(options.WithDataDir(dir), options.WithMaxDataFileSize(options.MinDataFileSize))
	_, err = store.Open(&store.Config{Options: o, Logger: testLogger(t)})
	require.Error(t, err)

	se, ok := errors.AsStorageError(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrorCodeSegmentCorrupted, se.Code())
	require.Equal(t, []byte("k"), se.Key())
}

// corruptByteInValueRegion flips the last value byte of the file's final
// record, the byte just before its 4-byte trailing checksum; for a single
// ("k","v") record that is the "v" itself, so the stored checksum no
// longer matches the value, which is what VerifyChecksum catches.
func corruptByteInValueRegion(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	data[len(data)-5] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))
}
