package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrentStateOutput(t *testing.T) {
	t.Run("records current and pending states separately", func(t *testing.T) {
		output := NewCurrentStateOutput()
		output.SetCurrentState("res", "p0", "n0", "MASTER")
		output.SetCurrentState("res", "p0", "n1", "SLAVE")
		output.SetPendingState("res", "p0", "n1", "MASTER")

		require.Equal(t, map[string]string{"n0": "MASTER", "n1": "SLAVE"},
			output.CurrentStateMap("res", "p0"))
		require.Equal(t, map[string]string{"n1": "MASTER"},
			output.PendingStateMap("res", "p0"))
	})

	t.Run("unknown resource or partition yields nil", func(t *testing.T) {
		output := NewCurrentStateOutput()

		require.Nil(t, output.CurrentStateMap("res", "p0"))
		require.Nil(t, output.PendingStateMap("res", "p0"))

		output.SetCurrentState("res", "p0", "n0", "MASTER")
		require.Nil(t, output.CurrentStateMap("res", "p1"))
		require.Nil(t, output.CurrentStateMap("other", "p0"))
	})
}

func TestClusterSnapshot_StateModelDef(t *testing.T) {
	snapshot := &ClusterSnapshot{
		StateModelDefs: map[string]*StateModelDefinition{
			"MasterSlave": MasterSlaveModel(),
		},
	}

	def, ok := snapshot.StateModelDef("MasterSlave")
	require.True(t, ok)
	require.Equal(t, "MasterSlave", def.Name)

	_, ok = snapshot.StateModelDef("Nope")
	require.False(t, ok)
}
