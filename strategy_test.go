package rebalance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rebalance/internal/logger"
	"github.com/arloliu/rebalance/types"
)

func testIdealState(resource string, partitions []string, replicas int) *types.IdealState {
	idealState := types.NewIdealState(resource)
	idealState.SetReplicas(replicas)
	idealState.SetNumPartitions(len(partitions))
	idealState.SetStateModelDefRef("MasterSlave")
	for _, partition := range partitions {
		idealState.Record.SetListField(partition, []string{})
	}

	return idealState
}

func testSnapshot(live, all []string) *types.ClusterSnapshot {
	return &types.ClusterSnapshot{
		LiveInstances: live,
		Instances:     all,
		StateModelDefs: map[string]*types.StateModelDefinition{
			"MasterSlave":   types.MasterSlaveModel(),
			"OnlineOffline": types.OnlineOfflineModel(),
		},
	}
}

func TestAutoRebalanceStrategy_ComputeNewIdealState(t *testing.T) {
	strategy := NewAutoRebalanceStrategy(WithLogger(logger.NewNop()))

	t.Run("produces AUTO mode ideal state with list fields only", func(t *testing.T) {
		partitions := []string{"res_0", "res_1", "res_2"}
		current := testIdealState("res", partitions, 3)
		nodes := []string{"n0", "n1", "n2"}

		next, err := strategy.ComputeNewIdealState("res", current,
			types.NewCurrentStateOutput(), testSnapshot(nodes, nodes))

		require.NoError(t, err)
		require.Equal(t, types.ModeAuto, next.RebalanceMode())
		require.Empty(t, next.Record.MapFields)
		require.Len(t, next.Record.ListFields, 3)
		for _, partition := range partitions {
			require.Len(t, next.Record.GetListField(partition), 3)
		}
	})

	t.Run("inherits simple fields from the current ideal state", func(t *testing.T) {
		partitions := []string{"res_0"}
		current := testIdealState("res", partitions, 1)
		current.Record.SetSimpleField("CUSTOM_FIELD", "kept")
		nodes := []string{"n0"}

		next, err := strategy.ComputeNewIdealState("res", current,
			types.NewCurrentStateOutput(), testSnapshot(nodes, nodes))

		require.NoError(t, err)
		require.Equal(t, "kept", next.Record.GetSimpleField("CUSTOM_FIELD"))
		require.Equal(t, 1, next.Replicas())
		require.Equal(t, "MasterSlave", next.StateModelDefRef())
	})

	t.Run("pending transitions count toward the mapping", func(t *testing.T) {
		// res_0 has no current state yet but a pending transition to ONLINE
		// on its preferred node n0. The merge must see it so the replica is
		// not treated as an orphan.
		partitions := []string{"res_0"}
		current := testIdealState("res", partitions, 1)
		current.SetStateModelDefRef("OnlineOffline")
		nodes := []string{"n0", "n1"}

		stateOutput := types.NewCurrentStateOutput()
		stateOutput.SetPendingState("res", "res_0", "n0", "ONLINE")

		next, err := strategy.ComputeNewIdealState("res", current,
			stateOutput, testSnapshot(nodes, nodes))

		require.NoError(t, err)
		require.Equal(t, []string{"n0"}, next.Record.GetListField("res_0"))
	})

	t.Run("states outside the count map are filtered", func(t *testing.T) {
		partitions := []string{"res_0"}
		current := testIdealState("res", partitions, 1)
		nodes := []string{"n0", "n1"}

		stateOutput := types.NewCurrentStateOutput()
		stateOutput.SetCurrentState("res", "res_0", "n1", "ERROR")

		next, err := strategy.ComputeNewIdealState("res", current,
			stateOutput, testSnapshot(nodes, nodes))

		require.NoError(t, err)
		require.Len(t, next.Record.GetListField("res_0"), 1)
	})

	t.Run("missing state model skips the rebalance", func(t *testing.T) {
		current := testIdealState("res", []string{"res_0"}, 1)
		current.SetStateModelDefRef("NoSuchModel")
		nodes := []string{"n0"}

		_, err := strategy.ComputeNewIdealState("res", current,
			types.NewCurrentStateOutput(), testSnapshot(nodes, nodes))

		require.ErrorIs(t, err, ErrStateModelNotFound)
	})

	t.Run("nil ideal state is rejected", func(t *testing.T) {
		_, err := strategy.ComputeNewIdealState("res", nil,
			types.NewCurrentStateOutput(), testSnapshot(nil, nil))

		require.ErrorIs(t, err, ErrInvalidIdealState)
	})

	t.Run("nil snapshot is rejected", func(t *testing.T) {
		current := testIdealState("res", []string{"res_0"}, 1)

		_, err := strategy.ComputeNewIdealState("res", current,
			types.NewCurrentStateOutput(), nil)

		require.ErrorIs(t, err, ErrSnapshotRequired)
	})

	t.Run("empty live set yields empty list fields", func(t *testing.T) {
		partitions := []string{"res_0", "res_1"}
		current := testIdealState("res", partitions, 3)

		next, err := strategy.ComputeNewIdealState("res", current,
			types.NewCurrentStateOutput(), testSnapshot(nil, []string{"n0", "n1"}))

		require.NoError(t, err)
		require.Empty(t, next.Record.ListFields)
	})

	t.Run("deterministic across repeated invocations", func(t *testing.T) {
		partitions := []string{"res_0", "res_1", "res_2", "res_3"}
		current := testIdealState("res", partitions, 2)
		live := []string{"n0", "n1"}
		all := []string{"n0", "n1", "n2"}

		stateOutput := types.NewCurrentStateOutput()
		stateOutput.SetCurrentState("res", "res_0", "n0", "MASTER")
		stateOutput.SetCurrentState("res", "res_0", "n1", "SLAVE")
		stateOutput.SetCurrentState("res", "res_2", "n1", "MASTER")

		first, err := strategy.ComputeNewIdealState("res", current, stateOutput, testSnapshot(live, all))
		require.NoError(t, err)

		for range 3 {
			again, err := strategy.ComputeNewIdealState("res", current, stateOutput, testSnapshot(live, all))
			require.NoError(t, err)
			require.Equal(t, first.Record, again.Record)
		}
	})
}

func TestCurrentMappingMerge(t *testing.T) {
	counts := masterSlaveCounts(1)

	stateOutput := types.NewCurrentStateOutput()
	stateOutput.SetCurrentState("res", "p0", "n0", "MASTER")
	stateOutput.SetCurrentState("res", "p0", "n1", "SLAVE")
	stateOutput.SetPendingState("res", "p0", "n1", "MASTER")
	stateOutput.SetCurrentState("res", "p1", "n0", "DROPPED")

	mapping := currentMapping(stateOutput, "res", []string{"p0", "p1"}, counts)

	require.Equal(t, map[string]map[string]string{
		"p0": {"n0": "MASTER", "n1": "MASTER"},
	}, mapping)
}
