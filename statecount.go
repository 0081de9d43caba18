package rebalance

import (
	"strconv"

	"github.com/arloliu/rebalance/types"
)

// ResolveStateCounts resolves a state-model definition into a concrete
// ordered state -> count mapping.
//
// The definition's states are walked in priority order. A count specifier of
// "N" resolves to liveNodeCount; "R" is deferred and later receives
// totalReplicas minus the sum of all numeric counts (at most one state may
// use "R"; only the first is honored). Numeric specifiers are recorded when
// positive. Invalid or non-positive specifiers omit the state.
//
// Parameters:
//   - def: State model definition with priority-ordered states
//   - liveNodeCount: Number of currently live nodes (resolves "N")
//   - totalReplicas: Total replicas per partition (basis for "R")
//
// Returns:
//   - *types.StateCount: Resolved counts preserving priority order
func ResolveStateCounts(def *types.StateModelDefinition, liveNodeCount, totalReplicas int) *types.StateCount {
	counts := types.NewStateCount()

	remainder := totalReplicas
	hasRemainder := false
	for _, state := range def.StatesPriorityList() {
		spec := def.NumInstancesPerState(state)
		switch spec {
		case types.CountAllLiveNodes:
			counts.Set(state, liveNodeCount)
		case types.CountRemainder:
			// reserve the state's priority slot; its count is filled in once
			// the counts for all other states are known
			if !hasRemainder {
				counts.Set(state, 0)
				hasRemainder = true
			}
			continue
		default:
			n, err := strconv.Atoi(spec)
			if err != nil || n <= 0 {
				continue
			}
			counts.Set(state, n)
			remainder -= n
		}
	}

	for _, state := range def.StatesPriorityList() {
		if def.NumInstancesPerState(state) == types.CountRemainder {
			counts.Set(state, remainder)
			// should have at most one state using R
			break
		}
	}

	return counts
}
