package segment_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/tinkv/internal/record"
	"github.com/iamNilotpal/tinkv/internal/segment"
	"github.com/iamNilotpal/tinkv/pkg/seginfo"
)

func TestDataFileAppendAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, seginfo.DataFileName(1))

	df, err := segment.OpenDataFile(path, true)
	require.NoError(t, err)
	require.EqualValues(t, 1, df.ID)

	off1, n1, err := df.Append([]byte("k1"), []byte("v1"))
	require.NoError(t, err)
	require.Zero(t, off1)
	require.EqualValues(t, record.EncodedSize([]byte("k1"), []byte("v1")), n1)

	off2, _, err := df.Append([]byte("k2"), []byte("v2"))
	require.NoError(t, err)
	require.Equal(t, n1, off2)

	r, err := df.Read(off1)
	require.NoError(t, err)
	require.Equal(t, []byte("k1"), r.Key)
	require.Equal(t, []byte("v1"), r.Value)
	require.True(t, r.VerifyChecksum())

	require.NoError(t, df.Close())
}

func TestDataFileAppendFailsWhenSealed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, seginfo.DataFileName(1))

	df, err := segment.OpenDataFile(path, true)
	require.NoError(t, err)
	_, _, err = df.Append([]byte("k"), []byte("v"))
	require.NoError(t, err)
	require.NoError(t, df.Close())

	sealed, err := segment.OpenDataFile(path, false)
	require.NoError(t, err)
	_, _, err = sealed.Append([]byte("k2"), []byte("v2"))
	require.Error(t, err)
}

func TestDataFileIterate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, seginfo.DataFileName(3))

	df, err := segment.OpenDataFile(path, true)
	require.NoError(t, err)

	want := map[string]string{"a": "1", "b": "2", "c": "3"}
	for k, v := range want {
		_, _, err := df.Append([]byte(k), []byte(v))
		require.NoError(t, err)
	}
	require.NoError(t, df.Sync())

	got := map[string]string{}
	err = df.Iterate(func(offset uint64, r *record.Record) bool {
		got[string(r.Key)] = string(r.Value)
		return true
	})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDataFileCopyPreservesBytes(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, seginfo.DataFileName(1))
	dstPath := filepath.Join(dir, seginfo.DataFileName(2))

	src, err := segment.OpenDataFile(srcPath, true)
	require.NoError(t, err)
	off, size, err := src.Append([]byte("key"), []byte("value"))
	require.NoError(t, err)

	dst, err := segment.OpenDataFile(dstPath, true)
	require.NoError(t, err)

	newOff, err := dst.Copy(src, off, size)
	require.NoError(t, err)
	require.Zero(t, newOff)

	r, err := dst.Read(newOff)
	require.NoError(t, err)
	require.Equal(t, []byte("key"), r.Key)
	require.Equal(t, []byte("value"), r.Value)
	require.True(t, r.VerifyChecksum())
}

func TestEmptyWritableDataFileUnlinkedOnClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, seginfo.DataFileName(1))

	df, err := segment.OpenDataFile(path, true)
	require.NoError(t, err)
	require.NoError(t, df.Close())

	_, err = segment.OpenDataFile(path, false)
	require.Error(t, err)
}

func TestHintFileSkipsFinalizeWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	h := segment.NewHintFile(dir, 1)
	require.NoError(t, h.Finalize())

	err := segment.IterateHintFile(filepath.Join(dir, seginfo.HintFileName(1)), func(*record.Hint) bool { return true })
	require.Error(t, err)
}

func TestHintFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	h := segment.NewHintFile(dir, 1)
	require.NoError(t, h.Append([]byte("k1"), 0, 10))
	require.NoError(t, h.Append([]byte("k2"), 10, 20))
	require.NoError(t, h.Finalize())

	var got []*record.Hint
	err := segment.IterateHintFile(filepath.Join(dir, seginfo.HintFileName(1)), func(h *record.Hint) bool {
		got = append(got, h)
		return true
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, []byte("k1"), got[0].Key)
	require.EqualValues(t, 10, got[1].Offset)
}
