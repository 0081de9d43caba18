package rebalance

import (
	"slices"
	"sort"

	"github.com/arloliu/rebalance/internal/hash"
	"github.com/arloliu/rebalance/placement"
	"github.com/arloliu/rebalance/types"
)

// Algorithm computes a full partition assignment for one resource.
//
// An Algorithm is configured once with the resource's partition list, its
// resolved state counts, and options, then invoked with the cluster view.
// Each ComputePartitionAssignment call is an independent computation: all
// working state is rebuilt from the inputs, nothing persists between calls,
// and concurrent calls on separate Algorithm values are safe.
//
// The computation balances several goals at once: even load across live
// nodes, stability (replicas stay where they are when legal), anti-affinity
// (no node holds two replicas of one partition), per-node capacity caps, and
// deterministic tie-breaking so independent controllers converge on the same
// output for the same input.
type Algorithm struct {
	resource   string
	partitions []string
	states     *types.StateCount
	maxPerNode int
	scheme     placement.Scheme
	logger     types.Logger
	metrics    types.RebalanceMetrics

	nodeMap   map[string]*node
	liveNodes []*node
	stateMap  map[int]string

	preferred            map[replica]*node
	existingPreferred    *replicaAssignment
	existingNonPreferred *replicaAssignment
	orphaned             []replica
}

// NewAlgorithm creates an algorithm for one resource.
//
// Parameters:
//   - resource: Resource name; becomes the output record id
//   - partitions: Ordered partition list (order fixes iteration and ties)
//   - states: Resolved state counts in priority order
//   - opts: Optional configuration (WithPlacementScheme, WithLogger,
//     WithMetrics, WithMaxPartitionsPerNode)
//
// Returns:
//   - *Algorithm: Configured algorithm
//
// Example:
//
//	counts := rebalance.ResolveStateCounts(types.MasterSlaveModel(), 3, 3)
//	algo := rebalance.NewAlgorithm("orders", partitions, counts)
//	record := algo.ComputePartitionAssignment(liveNodes, allNodes, currentMapping)
func NewAlgorithm(resource string, partitions []string, states *types.StateCount, opts ...Option) *Algorithm {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Algorithm{
		resource:   resource,
		partitions: partitions,
		states:     states,
		maxPerNode: o.maxPerNode,
		scheme:     o.scheme,
		logger:     o.logger,
		metrics:    o.metrics,
	}
}

// ComputePartitionAssignment maps every replica of every partition to a live
// node, or leaves it unassigned when no node can legally take it.
//
// The computation proceeds in fixed stages: build the node set with per-node
// capacities, compute the preferred plan over all nodes (ignoring liveness),
// classify current assignments into preferred / non-preferred / orphaned,
// then run three transformation passes (promote non-preferred replicas to
// their preferred node, place orphans, drain overfull nodes) and emit the
// result.
//
// Failure modes are soft: unplaceable replicas are omitted from the output
// and undrainable nodes keep their excess, both logged as warnings. The
// returned record is always well-formed.
//
// Parameters:
//   - liveNodes: Live node ids in caller-defined stable order
//   - allNodes: All node ids, live and non-live (superset of liveNodes)
//   - currentMapping: partition -> node -> state snapshot of the current
//     assignment; node ids must be a subset of allNodes
//
// Returns:
//   - *types.Record: Map fields carry node -> state per partition, list
//     fields carry the ordered node list per replica slot
func (a *Algorithm) ComputePartitionAssignment(
	liveNodes []string,
	allNodes []string,
	currentMapping map[string]map[string]string,
) *types.Record {
	numReplicas := a.states.TotalReplicas()
	record := types.NewRecord(a.resource)
	if len(liveNodes) == 0 {
		a.logger.Warn("no live nodes, returning empty assignment", "resource", a.resource)
		return record
	}

	distRemainder := (numReplicas * len(a.partitions)) % len(liveNodes)
	distFloor := (numReplicas * len(a.partitions)) / len(liveNodes)

	a.nodeMap = make(map[string]*node, len(allNodes))
	a.liveNodes = make([]*node, 0, len(liveNodes))

	for _, id := range allNodes {
		a.nodeMap[id] = newNode(id)
	}
	for _, id := range liveNodes {
		n, ok := a.nodeMap[id]
		if !ok {
			// liveNodes must be a subset of allNodes; tolerate by registering
			n = newNode(id)
			a.nodeMap[id] = n
		}
		targetSize := distFloor
		if a.maxPerNode > 0 && targetSize > a.maxPerNode {
			targetSize = a.maxPerNode
		}
		if distRemainder > 0 && (a.maxPerNode <= 0 || targetSize < a.maxPerNode) {
			targetSize++
			distRemainder--
		}
		n.isAlive = true
		n.capacity = targetSize
		a.liveNodes = append(a.liveNodes, n)
	}

	// compute states for all replica ids
	a.stateMap = a.generateStateMap()

	// compute the preferred mapping if all nodes were up
	a.preferred = a.computePreferredPlacement(allNodes, numReplicas)

	// from current mapping derive the ones in preferred location;
	// this also updates the nodes with their current fill status
	a.existingPreferred = a.computeExistingPreferredPlacement(currentMapping, numReplicas)

	// from current mapping derive the ones not in preferred location
	a.existingNonPreferred = a.computeExistingNonPreferredPlacement(currentMapping, numReplicas)

	// replicas assigned to no node at all
	a.orphaned = a.computeOrphaned()
	if len(a.orphaned) > 0 {
		a.logger.Debug("orphaned replicas before placement",
			"resource", a.resource, "orphans", replicaStrings(a.orphaned))
	}

	a.moveNonPreferredReplicasToPreferred()

	a.assignOrphans()

	a.moveExcessReplicas()

	a.prepareResult(record, numReplicas)

	return record
}

// moveNonPreferredReplicasToPreferred moves replicas to their preferred node
// when the donor holds more than its share and the preferred node has room.
func (a *Algorithm) moveNonPreferredReplicasToPreferred() {
	replicas, donors := a.existingNonPreferred.entries()
	for i, r := range replicas {
		donor := donors[i]
		receiver := a.preferred[r]
		if donor.currentlyAssigned > donor.capacity &&
			receiver.currentlyAssigned < receiver.capacity && receiver.canAdd(r) {
			donor.currentlyAssigned--
			receiver.currentlyAssigned++
			donor.removeNonPreferred(r)
			receiver.preferred = append(receiver.preferred, r)
			a.existingNonPreferred.delete(r)
		}
	}
}

// assignOrphans slots unassigned replicas onto live nodes, scanning
// circularly from a hash-derived start index to keep load even.
func (a *Algorithm) assignOrphans() {
	remaining := a.orphaned[:0]
	for _, r := range a.orphaned {
		placed := false
		startIndex := hash.String31(r.canonical()) % len(a.liveNodes)
		for i := startIndex; i < startIndex+len(a.liveNodes); i++ {
			receiver := a.liveNodes[i%len(a.liveNodes)]
			if receiver.currentlyAssigned < receiver.capacity && receiver.canAdd(r) {
				receiver.currentlyAssigned++
				receiver.nonPreferred = append(receiver.nonPreferred, r)
				placed = true

				break
			}
		}
		if !placed {
			remaining = append(remaining, r)
		}
	}
	a.orphaned = remaining

	if len(a.orphaned) > 0 {
		a.logger.Warn("could not assign nodes to replicas",
			"resource", a.resource, "orphans", replicaStrings(a.orphaned))
	}
	a.metrics.RecordOrphanedReplicas(a.resource, len(a.orphaned))
}

// moveExcessReplicas hands replicas from overfull nodes to any node that can
// legally accept them.
func (a *Algorithm) moveExcessReplicas() {
	excess := 0
	for _, donor := range a.liveNodes {
		if donor.currentlyAssigned <= donor.capacity {
			continue
		}
		slices.SortFunc(donor.nonPreferred, replica.compare)
		for _, r := range append([]replica(nil), donor.nonPreferred...) {
			startIndex := hash.String31(r.canonical()) % len(a.liveNodes)
			for i := startIndex; i < startIndex+len(a.liveNodes); i++ {
				receiver := a.liveNodes[i%len(a.liveNodes)]
				if receiver.canAdd(r) {
					receiver.currentlyAssigned++
					receiver.nonPreferred = append(receiver.nonPreferred, r)
					donor.currentlyAssigned--
					donor.removeNonPreferred(r)

					break
				}
			}
			if donor.currentlyAssigned <= donor.capacity {
				break
			}
		}
		if donor.currentlyAssigned > donor.capacity {
			a.logger.Warn("could not take replicas out of node",
				"resource", a.resource, "node", donor.id,
				"assigned", donor.currentlyAssigned, "capacity", donor.capacity)
			excess += donor.currentlyAssigned - donor.capacity
		}
	}
	a.metrics.RecordExcessReplicas(a.resource, excess)
}

// prepareResult fills the record with the final placement.
//
// The map fields key each partition to a node -> state pair. The list fields
// key each partition to all nodes serving it, one entry per replica slot in
// replica-index order, which lets callers detect anti-affinity violations.
func (a *Algorithm) prepareResult(record *types.Record, numReplicas int) {
	for _, partition := range a.partitions {
		record.SetMapField(partition, make(map[string]string))
		record.SetListField(partition, []string{})
	}
	for _, n := range a.liveNodes {
		for _, r := range n.preferred {
			record.GetMapField(r.partition)[n.id] = a.stateMap[r.index]
		}
		for _, r := range n.nonPreferred {
			record.GetMapField(r.partition)[n.id] = a.stateMap[r.index]
		}
	}

	for replicaID := 0; replicaID < numReplicas; replicaID++ {
		for _, n := range a.liveNodes {
			for _, r := range n.preferred {
				if r.index == replicaID {
					record.SetListField(r.partition, append(record.GetListField(r.partition), n.id))
				}
			}
			for _, r := range n.nonPreferred {
				if r.index == replicaID {
					record.SetListField(r.partition, append(record.GetListField(r.partition), n.id))
				}
			}
		}
	}
}

// computeExistingNonPreferredPlacement derives the subset of the current
// mapping where replicas sit away from their preferred node.
//
// Replicas are interchangeable within a partition: each occurrence claims the
// first unclaimed replica index whose preferred node differs from the current
// node, which may differ from the index the node previously served.
func (a *Algorithm) computeExistingNonPreferredPlacement(
	currentMapping map[string]map[string]string, numReplicas int,
) *replicaAssignment {
	assignment := newReplicaAssignment()
	a.forEachCurrentAssignment(currentMapping, func(partition string, n *node) {
		if n.hasPreferredPartition(partition) {
			return
		}
		for replicaID := 0; replicaID < numReplicas; replicaID++ {
			r := replica{partition: partition, index: replicaID}
			if a.preferred[r] != n &&
				!a.existingPreferred.contains(r) && !assignment.contains(r) {
				assignment.put(r, n)
				n.nonPreferred = append(n.nonPreferred, r)

				break
			}
		}
	})

	return assignment
}

// computeExistingPreferredPlacement derives the replicas already on their
// preferred node, incrementing each node's fill count once per occurrence in
// the current mapping.
func (a *Algorithm) computeExistingPreferredPlacement(
	currentMapping map[string]map[string]string, numReplicas int,
) *replicaAssignment {
	assignment := newReplicaAssignment()
	a.forEachCurrentAssignment(currentMapping, func(partition string, n *node) {
		n.currentlyAssigned++
		if n.hasPreferredPartition(partition) {
			return
		}
		for replicaID := 0; replicaID < numReplicas; replicaID++ {
			r := replica{partition: partition, index: replicaID}
			if a.preferred[r] == n && !assignment.contains(r) {
				assignment.put(r, n)
				n.preferred = append(n.preferred, r)

				break
			}
		}
	})

	return assignment
}

// forEachCurrentAssignment visits every (partition, node) occurrence of the
// current mapping in a fixed order: partitions in the resource's partition
// list order, node ids sorted. The fixed order makes classification, and
// therefore the whole computation, deterministic.
func (a *Algorithm) forEachCurrentAssignment(
	currentMapping map[string]map[string]string, visit func(partition string, n *node),
) {
	for _, partition := range a.partitions {
		nodeStateMap, ok := currentMapping[partition]
		if !ok {
			continue
		}
		nodeIDs := make([]string, 0, len(nodeStateMap))
		for nodeID := range nodeStateMap {
			nodeIDs = append(nodeIDs, nodeID)
		}
		sort.Strings(nodeIDs)

		for _, nodeID := range nodeIDs {
			n, ok := a.nodeMap[nodeID]
			if !ok {
				a.logger.Warn("current mapping references unknown node",
					"resource", a.resource, "partition", partition, "node", nodeID)

				continue
			}
			visit(partition, n)
		}
	}
}

// computeOrphaned returns the replicas present in no current assignment, in
// canonical replica order.
func (a *Algorithm) computeOrphaned() []replica {
	orphans := make([]replica, 0)
	for r := range a.preferred {
		if !a.existingPreferred.contains(r) && !a.existingNonPreferred.contains(r) {
			orphans = append(orphans, r)
		}
	}
	slices.SortFunc(orphans, replica.compare)

	return orphans
}

// computePreferredPlacement asks the placement scheme for every replica's
// preferred node over the full node set, live or not.
func (a *Algorithm) computePreferredPlacement(allNodes []string, numReplicas int) map[replica]*node {
	preferred := make(map[replica]*node, len(a.partitions)*numReplicas)
	for partitionID, partition := range a.partitions {
		for replicaID := 0; replicaID < numReplicas; replicaID++ {
			nodeID := a.scheme.GetLocation(partitionID, replicaID, len(a.partitions), numReplicas, allNodes)
			preferred[replica{partition: partition, index: replicaID}] = a.nodeMap[nodeID]
		}
	}

	return preferred
}

// generateStateMap maps each replica index to its state by walking the state
// counts in priority order.
func (a *Algorithm) generateStateMap() map[int]string {
	stateMap := make(map[int]string, a.states.TotalReplicas())
	replicaID := 0
	for _, e := range a.states.Entries() {
		for i := 0; i < e.Count; i++ {
			stateMap[replicaID] = e.State
			replicaID++
		}
	}

	return stateMap
}

func replicaStrings(replicas []replica) []string {
	out := make([]string, len(replicas))
	for i, r := range replicas {
		out[i] = r.canonical()
	}

	return out
}
