package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdealState(t *testing.T) {
	t.Run("scalar accessors round trip", func(t *testing.T) {
		idealState := NewIdealState("res")
		idealState.SetReplicas(3)
		idealState.SetNumPartitions(8)
		idealState.SetStateModelDefRef("MasterSlave")
		idealState.SetMaxPartitionsPerInstance(16)
		idealState.SetRebalanceMode(ModeAuto)

		require.Equal(t, "res", idealState.ResourceName())
		require.Equal(t, 3, idealState.Replicas())
		require.Equal(t, 8, idealState.NumPartitions())
		require.Equal(t, "MasterSlave", idealState.StateModelDefRef())
		require.Equal(t, 16, idealState.MaxPartitionsPerInstance())
		require.Equal(t, ModeAuto, idealState.RebalanceMode())
	})

	t.Run("unset numeric fields default to zero", func(t *testing.T) {
		idealState := NewIdealState("res")

		require.Equal(t, 0, idealState.Replicas())
		require.Equal(t, 0, idealState.MaxPartitionsPerInstance())
	})

	t.Run("partition set is the sorted union of list and map keys", func(t *testing.T) {
		idealState := NewIdealState("res")
		idealState.Record.SetListField("res_2", []string{"n0"})
		idealState.Record.SetListField("res_0", nil)
		idealState.Record.SetMapField("res_1", map[string]string{"n0": "MASTER"})
		idealState.Record.SetMapField("res_2", map[string]string{"n0": "MASTER"})

		require.Equal(t, []string{"res_0", "res_1", "res_2"}, idealState.PartitionSet())
	})

	t.Run("config decodes weakly typed simple fields", func(t *testing.T) {
		idealState := NewIdealState("res")
		idealState.SetReplicas(3)
		idealState.SetNumPartitions(8)
		idealState.SetStateModelDefRef("MasterSlave")
		idealState.SetRebalanceMode(ModeAuto)

		cfg, err := idealState.Config()

		require.NoError(t, err)
		require.Equal(t, IdealStateConfig{
			NumPartitions:    8,
			Replicas:         3,
			StateModelDefRef: "MasterSlave",
			RebalanceMode:    string(ModeAuto),
		}, cfg)
	})

	t.Run("config rejects malformed numeric fields", func(t *testing.T) {
		idealState := NewIdealState("res")
		idealState.Record.SetSimpleField("REPLICAS", "many")

		_, err := idealState.Config()
		require.Error(t, err)
	})
}
