// Package rebalance provides a deterministic partition-placement algorithm
// for cluster controllers, plus the driver that turns cluster snapshots into
// new ideal states.
//
// Given the current assignment, the set of live nodes, and a state model
// describing how many replicas of each role a partition needs, the algorithm
// computes a fresh mapping of replicas to nodes that keeps load even, keeps
// replicas where they already are when possible, never puts two replicas of
// one partition on the same node, and honors per-node capacity caps. All
// tie-breaking is deterministic, so independent controllers computing the
// same input converge on the same output.
//
// # Quick Start
//
//	idealState := types.NewIdealState("orders")
//	idealState.SetReplicas(3)
//	idealState.SetStateModelDefRef("MasterSlave")
//	idealState.Record.SetListField("orders_0", nil)
//	idealState.Record.SetListField("orders_1", nil)
//
//	snapshot := &types.ClusterSnapshot{
//	    LiveInstances:  []string{"node-0", "node-1", "node-2"},
//	    Instances:      []string{"node-0", "node-1", "node-2"},
//	    StateModelDefs: map[string]*types.StateModelDefinition{
//	        "MasterSlave": types.MasterSlaveModel(),
//	    },
//	}
//
//	strategy := rebalance.NewAutoRebalanceStrategy()
//	next, err := strategy.ComputeNewIdealState("orders", idealState,
//	    types.NewCurrentStateOutput(), snapshot)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Direct Algorithm Use
//
// Hosts that already hold resolved inputs can skip the driver:
//
//	counts := rebalance.ResolveStateCounts(types.MasterSlaveModel(), 3, 3)
//	algo := rebalance.NewAlgorithm("orders", partitions, counts,
//	    rebalance.WithMaxPartitionsPerNode(8),
//	)
//	record := algo.ComputePartitionAssignment(liveNodes, allNodes, currentMapping)
//
// The record's list fields give the ordered node list per partition (one
// entry per replica slot); the map fields give node -> state per partition.
//
// # Extension Points
//
// The preferred-location scheme is pluggable via placement.Scheme; supply one
// with WithPlacementScheme. Logging and metrics plug in through WithLogger
// and WithMetrics. Cluster snapshots come from any types.SnapshotSource; the
// source package ships an in-memory one and a NATS JetStream KV one.
package rebalance
