package types

import "context"

// ClusterSnapshot is a read-only picture of the cluster taken by a
// SnapshotSource and consumed by the rebalance driver.
//
// The driver treats every field as immutable. LiveInstances order is
// caller-defined and controls the stability of capacity distribution, so a
// source must return it in a stable order across calls.
type ClusterSnapshot struct {
	// LiveInstances lists the instances currently alive, in a stable order.
	LiveInstances []string

	// Instances lists every known instance, live or not. It must be a
	// superset of LiveInstances.
	Instances []string

	// StateModelDefs maps state-model name to its definition.
	StateModelDefs map[string]*StateModelDefinition
}

// StateModelDef returns the named state model definition and whether it is
// present in the snapshot.
func (s *ClusterSnapshot) StateModelDef(name string) (*StateModelDefinition, bool) {
	def, ok := s.StateModelDefs[name]
	return def, ok
}

// SnapshotSource supplies cluster snapshots to the rebalance driver.
//
// Implementations must return snapshots that the caller can treat as
// immutable: a source must not retain or mutate a returned snapshot.
type SnapshotSource interface {
	// FetchSnapshot returns the current cluster picture.
	//
	// Parameters:
	//   - ctx: Context for cancellation and deadline
	//
	// Returns:
	//   - *ClusterSnapshot: Current snapshot
	//   - error: Fetch failure (the driver skips the rebalance round)
	FetchSnapshot(ctx context.Context) (*ClusterSnapshot, error)
}

// CurrentStateOutput captures the observed replica states of resources:
// the current states plus any pending transitions, per (resource, partition,
// instance).
//
// It is a plain snapshot value built by the caller; the driver only reads it.
type CurrentStateOutput struct {
	currentStates map[string]map[string]map[string]string
	pendingStates map[string]map[string]map[string]string
}

// NewCurrentStateOutput creates an empty state output.
func NewCurrentStateOutput() *CurrentStateOutput {
	return &CurrentStateOutput{
		currentStates: make(map[string]map[string]map[string]string),
		pendingStates: make(map[string]map[string]map[string]string),
	}
}

// SetCurrentState records the observed state of one partition replica on an
// instance.
func (o *CurrentStateOutput) SetCurrentState(resource, partition, instance, state string) {
	setState(o.currentStates, resource, partition, instance, state)
}

// SetPendingState records a pending state transition of one partition replica
// on an instance.
func (o *CurrentStateOutput) SetPendingState(resource, partition, instance, state string) {
	setState(o.pendingStates, resource, partition, instance, state)
}

// CurrentStateMap returns the instance -> state map of current states for one
// partition. The returned map is nil if nothing was recorded; callers must
// not mutate it.
func (o *CurrentStateOutput) CurrentStateMap(resource, partition string) map[string]string {
	return o.currentStates[resource][partition]
}

// PendingStateMap returns the instance -> state map of pending transitions
// for one partition. The returned map is nil if nothing was recorded; callers
// must not mutate it.
func (o *CurrentStateOutput) PendingStateMap(resource, partition string) map[string]string {
	return o.pendingStates[resource][partition]
}

func setState(m map[string]map[string]map[string]string, resource, partition, instance, state string) {
	byPartition, ok := m[resource]
	if !ok {
		byPartition = make(map[string]map[string]string)
		m[resource] = byPartition
	}
	byInstance, ok := byPartition[partition]
	if !ok {
		byInstance = make(map[string]string)
		byPartition[partition] = byInstance
	}
	byInstance[instance] = state
}
