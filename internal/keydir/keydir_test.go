package keydir_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/tinkv/internal/keydir"
)

func newTestKeydir(t *testing.T) *keydir.Keydir {
	t.Helper()
	kd, err := keydir.New(&keydir.Config{Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return kd
}

func TestKeydirSetGetRemove(t *testing.T) {
	kd := newTestKeydir(t)

	_, ok := kd.Get([]byte("a"))
	require.False(t, ok)

	kd.Set([]byte("a"), keydir.Pointer{SegmentID: 1, Offset: 10, Size: 20})
	ptr, ok := kd.Get([]byte("a"))
	require.True(t, ok)
	require.Equal(t, keydir.Pointer{SegmentID: 1, Offset: 10, Size: 20}, ptr)
	require.True(t, kd.Contains([]byte("a")))
	require.Equal(t, 1, kd.Len())

	removed, ok := kd.Remove([]byte("a"))
	require.True(t, ok)
	require.Equal(t, ptr, removed)
	require.False(t, kd.Contains([]byte("a")))
	require.Equal(t, 0, kd.Len())

	_, ok = kd.Remove([]byte("a"))
	require.False(t, ok)
}

func TestKeydirKeysAreLexicographicallyOrdered(t *testing.T) {
	kd := newTestKeydir(t)

	for _, k := range []string{"banana", "apple", "cherry"} {
		kd.Set([]byte(k), keydir.Pointer{SegmentID: 1})
	}

	got := kd.Keys()
	require.Len(t, got, 3)
	require.Equal(t, "apple", string(got[0]))
	require.Equal(t, "banana", string(got[1]))
	require.Equal(t, "cherry", string(got[2]))
}

func TestKeydirForEachVisitsInOrderAndRespectsStop(t *testing.T) {
	kd := newTestKeydir(t)
	for _, k := range []string{"b", "a", "c"} {
		kd.Set([]byte(k), keydir.Pointer{SegmentID: 1})
	}

	var visited []string
	kd.ForEach(func(key []byte, _ keydir.Pointer) bool {
		visited = append(visited, string(key))
		return string(key) != "b"
	})

	require.Equal(t, []string{"a", "b"}, visited)
}

func TestKeydirCloseIsIdempotentFailure(t *testing.T) {
	kd := newTestKeydir(t)
	require.NoError(t, kd.Close())
	require.ErrorIs(t, kd.Close(), keydir.ErrKeydirClosed)
}
