package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rebalance/types"
)

func TestStatic(t *testing.T) {
	t.Run("returns the configured snapshot", func(t *testing.T) {
		src := NewStatic(&types.ClusterSnapshot{
			LiveInstances: []string{"n0", "n1"},
			Instances:     []string{"n0", "n1", "n2"},
			StateModelDefs: map[string]*types.StateModelDefinition{
				"MasterSlave": types.MasterSlaveModel(),
			},
		})

		snapshot, err := src.FetchSnapshot(context.Background())

		require.NoError(t, err)
		require.Equal(t, []string{"n0", "n1"}, snapshot.LiveInstances)
		require.Equal(t, []string{"n0", "n1", "n2"}, snapshot.Instances)
		_, ok := snapshot.StateModelDef("MasterSlave")
		require.True(t, ok)
	})

	t.Run("returned snapshot is a copy", func(t *testing.T) {
		src := NewStatic(&types.ClusterSnapshot{
			LiveInstances: []string{"n0"},
			Instances:     []string{"n0"},
		})

		snapshot, err := src.FetchSnapshot(context.Background())
		require.NoError(t, err)

		snapshot.LiveInstances[0] = "mutated"

		again, err := src.FetchSnapshot(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"n0"}, again.LiveInstances)
	})

	t.Run("update replaces the picture", func(t *testing.T) {
		src := NewStatic(&types.ClusterSnapshot{
			LiveInstances: []string{"n0"},
			Instances:     []string{"n0"},
		})

		src.Update(&types.ClusterSnapshot{
			LiveInstances: []string{"n0", "n1"},
			Instances:     []string{"n0", "n1"},
		})

		snapshot, err := src.FetchSnapshot(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"n0", "n1"}, snapshot.LiveInstances)
	})
}
