package rebalance

import (
	"fmt"
	"time"

	"github.com/arloliu/rebalance/types"
)

// AutoRebalanceStrategy turns cluster snapshots into new ideal states.
//
// The strategy is the driver around Algorithm: it resolves the resource's
// state model into concrete state counts, merges current and pending states
// into the algorithm's current-mapping input, runs the computation, and wraps
// the output back into an ideal state record.
//
// A strategy is safe for concurrent use; each ComputeNewIdealState call
// builds its own Algorithm.
type AutoRebalanceStrategy struct {
	opts    options
	manager any
}

// NewAutoRebalanceStrategy creates a strategy driver.
//
// Parameters:
//   - opts: Optional configuration (WithPlacementScheme, WithLogger, WithMetrics)
//
// Returns:
//   - *AutoRebalanceStrategy: Configured strategy
//
// Example:
//
//	strategy := rebalance.NewAutoRebalanceStrategy(
//	    rebalance.WithLogger(myLogger),
//	    rebalance.WithMetrics(metrics.NewPrometheus(nil, "controller")),
//	)
//	newIdealState, err := strategy.ComputeNewIdealState("orders", cur, stateOutput, snapshot)
func NewAutoRebalanceStrategy(opts ...Option) *AutoRebalanceStrategy {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &AutoRebalanceStrategy{opts: o}
}

// Init stores an opaque cluster handle that is passed to the placement
// scheme's Init hook before each computation. The default scheme ignores it.
func (s *AutoRebalanceStrategy) Init(manager any) {
	s.manager = manager
}

// ComputeNewIdealState computes the next ideal state of one resource.
//
// The returned ideal state inherits the current ideal state's simple fields,
// sets the rebalance mode to AUTO, and replaces the list fields with the
// algorithm's output. Map fields are not copied: in AUTO mode the ideal state
// carries per-replica node lists only, and states are recomputed downstream.
//
// Parameters:
//   - resourceName: Resource to rebalance
//   - currentIdealState: Current ideal state (partition set, replica count,
//     state model reference, per-node cap)
//   - currentStateOutput: Observed current and pending replica states
//   - cluster: Cluster snapshot (live instances in stable order, all
//     instances, state model definitions)
//
// Returns:
//   - *types.IdealState: New ideal state in AUTO mode
//   - error: ErrInvalidIdealState, ErrSnapshotRequired, or
//     ErrStateModelNotFound when the rebalance must be skipped
func (s *AutoRebalanceStrategy) ComputeNewIdealState(
	resourceName string,
	currentIdealState *types.IdealState,
	currentStateOutput *types.CurrentStateOutput,
	cluster *types.ClusterSnapshot,
) (*types.IdealState, error) {
	start := time.Now()

	if currentIdealState == nil {
		return nil, fmt.Errorf("%w: no current ideal state for resource %s", ErrInvalidIdealState, resourceName)
	}
	if cluster == nil {
		return nil, fmt.Errorf("%w: resource %s", ErrSnapshotRequired, resourceName)
	}

	partitions := currentIdealState.PartitionSet()
	stateModelName := currentIdealState.StateModelDefRef()
	stateModelDef, ok := cluster.StateModelDef(stateModelName)
	if !ok {
		s.opts.metrics.RecordRebalance(resourceName, time.Since(start).Seconds(), false)
		return nil, fmt.Errorf("%w: %q for resource %s", ErrStateModelNotFound, stateModelName, resourceName)
	}

	replicas := currentIdealState.Replicas()
	liveNodes := cluster.LiveInstances
	allNodes := cluster.Instances
	maxPerNode := currentIdealState.MaxPartitionsPerInstance()

	stateCounts := ResolveStateCounts(stateModelDef, len(liveNodes), replicas)
	currentMapping := currentMapping(currentStateOutput, resourceName, partitions, stateCounts)

	s.opts.logger.Debug("computing new ideal state",
		"resource", resourceName,
		"partitions", len(partitions),
		"replicas", replicas,
		"liveNodes", liveNodes,
		"allNodes", allNodes,
		"maxPerNode", maxPerNode,
	)

	s.opts.scheme.Init(s.manager)
	algo := NewAlgorithm(resourceName, partitions, stateCounts,
		WithPlacementScheme(s.opts.scheme),
		WithLogger(s.opts.logger),
		WithMetrics(s.opts.metrics),
		WithMaxPartitionsPerNode(maxPerNode),
	)
	newMapping := algo.ComputePartitionAssignment(liveNodes, allNodes, currentMapping)

	newIdealState := types.NewIdealState(resourceName)
	newIdealState.Record.SetSimpleFields(currentIdealState.Record.SimpleFields)
	newIdealState.SetRebalanceMode(types.ModeAuto)
	newIdealState.Record.SetListFields(newMapping.ListFields)

	s.opts.metrics.RecordRebalance(resourceName, time.Since(start).Seconds(), true)
	s.opts.metrics.RecordPartitionCount(resourceName, len(partitions))

	return newIdealState, nil
}

// currentMapping merges current states and pending transitions into the
// algorithm's partition -> node -> state input, keeping only states that the
// resolved state counts know about. Pending transitions win over current
// states for the same (partition, node) pair.
func currentMapping(
	currentStateOutput *types.CurrentStateOutput,
	resourceName string,
	partitions []string,
	stateCounts *types.StateCount,
) map[string]map[string]string {
	mapping := make(map[string]map[string]string, len(partitions))
	if currentStateOutput == nil {
		return mapping
	}

	for _, partition := range partitions {
		merged := make(map[string]string)
		for node, state := range currentStateOutput.CurrentStateMap(resourceName, partition) {
			if stateCounts.Contains(state) {
				merged[node] = state
			}
		}
		for node, state := range currentStateOutput.PendingStateMap(resourceName, partition) {
			if stateCounts.Contains(state) {
				merged[node] = state
			}
		}
		if len(merged) > 0 {
			mapping[partition] = merged
		}
	}

	return mapping
}
