package rebalance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rebalance/types"
)

func TestResolveStateCounts(t *testing.T) {
	t.Run("numeric and remainder", func(t *testing.T) {
		counts := ResolveStateCounts(types.MasterSlaveModel(), 5, 3)

		require.Equal(t, []types.StateCountEntry{
			{State: "MASTER", Count: 1},
			{State: "SLAVE", Count: 2},
		}, counts.Entries())
		require.Equal(t, 3, counts.TotalReplicas())
	})

	t.Run("all-live-nodes specifier", func(t *testing.T) {
		counts := ResolveStateCounts(types.LeaderStandbyModel(), 4, 5)

		leader, ok := counts.Get("LEADER")
		require.True(t, ok)
		require.Equal(t, 1, leader)

		standby, ok := counts.Get("STANDBY")
		require.True(t, ok)
		require.Equal(t, 4, standby)
	})

	t.Run("remainder only", func(t *testing.T) {
		counts := ResolveStateCounts(types.OnlineOfflineModel(), 3, 2)

		online, ok := counts.Get("ONLINE")
		require.True(t, ok)
		require.Equal(t, 2, online)
	})

	t.Run("invalid specifier omits the state", func(t *testing.T) {
		def := &types.StateModelDefinition{
			Name: "Broken",
			States: []types.StateSpec{
				{Name: "MASTER", Count: "1"},
				{Name: "WEIRD", Count: "lots"},
				{Name: "SLAVE", Count: "R"},
			},
		}

		counts := ResolveStateCounts(def, 3, 3)

		require.False(t, counts.Contains("WEIRD"))
		require.Equal(t, []types.StateCountEntry{
			{State: "MASTER", Count: 1},
			{State: "SLAVE", Count: 2},
		}, counts.Entries())
	})

	t.Run("non-positive specifier omits the state", func(t *testing.T) {
		def := &types.StateModelDefinition{
			Name: "Zeroed",
			States: []types.StateSpec{
				{Name: "MASTER", Count: "0"},
				{Name: "SLAVE", Count: "2"},
			},
		}

		counts := ResolveStateCounts(def, 3, 2)

		require.False(t, counts.Contains("MASTER"))
		require.Equal(t, 2, counts.TotalReplicas())
	})

	t.Run("priority order is preserved with remainder first", func(t *testing.T) {
		def := &types.StateModelDefinition{
			Name: "RemainderFirst",
			States: []types.StateSpec{
				{Name: "PRIMARY", Count: "R"},
				{Name: "BACKUP", Count: "1"},
			},
		}

		counts := ResolveStateCounts(def, 3, 3)

		// BACKUP resolves in the first pass, PRIMARY in the second, but the
		// deferred state keeps its priority slot ahead of BACKUP.
		require.Equal(t, []types.StateCountEntry{
			{State: "PRIMARY", Count: 2},
			{State: "BACKUP", Count: 1},
		}, counts.Entries())
	})
}
