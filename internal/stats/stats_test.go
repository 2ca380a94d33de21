package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/tinkv/internal/stats"
)

func TestStatsAccumulateAndReset(t *testing.T) {
	s := stats.New()

	s.AddDataFileBytes(100)
	s.SetDataFiles(1)
	s.SetActiveEntries(5)
	s.AddStale(2, 40)

	snap := s.Snapshot()
	require.EqualValues(t, 100, snap.SizeOfAllDataFiles)
	require.EqualValues(t, 1, snap.TotalDataFiles)
	require.EqualValues(t, 5, snap.TotalActiveEntries)
	require.EqualValues(t, 2, snap.TotalStaleEntries)
	require.EqualValues(t, 40, snap.SizeOfStaleEntries)

	s.ResetAfterCompaction(5, 2, 60)
	snap = s.Snapshot()
	require.Zero(t, snap.TotalStaleEntries)
	require.Zero(t, snap.SizeOfStaleEntries)
	require.EqualValues(t, 5, snap.TotalActiveEntries)
	require.EqualValues(t, 2, snap.TotalDataFiles)
	require.EqualValues(t, 60, snap.SizeOfAllDataFiles)
}
