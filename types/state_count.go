package types

// StateCount is an ordered mapping from state name to the number of replicas
// required in that state.
//
// Ordering carries priority: higher-priority states come first, and the
// iteration order of Entries is part of the contract. Replica indices are
// assigned by walking the entries in order, so the first Count(s0) indices of
// each partition take state s0, the next Count(s1) take s1, and so on.
//
// StateCount is a plain single-computation value and is not safe for
// concurrent mutation.
type StateCount struct {
	entries []StateCountEntry
	index   map[string]int
}

// StateCountEntry is one state with its required replica count.
type StateCountEntry struct {
	State string
	Count int
}

// NewStateCount creates an empty state-count mapping.
func NewStateCount() *StateCount {
	return &StateCount{
		index: make(map[string]int),
	}
}

// Set appends the state with the given count, or updates the count in place
// if the state is already present. Appending preserves priority order.
func (sc *StateCount) Set(state string, count int) {
	if i, ok := sc.index[state]; ok {
		sc.entries[i].Count = count
		return
	}
	sc.index[state] = len(sc.entries)
	sc.entries = append(sc.entries, StateCountEntry{State: state, Count: count})
}

// Get returns the count for a state and whether the state is present.
func (sc *StateCount) Get(state string) (int, bool) {
	i, ok := sc.index[state]
	if !ok {
		return 0, false
	}

	return sc.entries[i].Count, true
}

// Contains reports whether the state is present.
func (sc *StateCount) Contains(state string) bool {
	_, ok := sc.index[state]
	return ok
}

// Entries returns the states in priority order.
//
// The returned slice is the internal backing array; callers must not mutate it.
func (sc *StateCount) Entries() []StateCountEntry {
	return sc.entries
}

// Len returns the number of states.
func (sc *StateCount) Len() int {
	return len(sc.entries)
}

// TotalReplicas returns the sum of all per-state counts, which equals the
// number of replica slots per partition.
func (sc *StateCount) TotalReplicas() int {
	total := 0
	for _, e := range sc.entries {
		total += e.Count
	}

	return total
}

// StateForReplica returns the state assigned to the given replica index by
// walking the entries in priority order, and whether the index is within the
// total replica range.
func (sc *StateCount) StateForReplica(replicaIndex int) (string, bool) {
	if replicaIndex < 0 {
		return "", false
	}
	offset := 0
	for _, e := range sc.entries {
		if replicaIndex < offset+e.Count {
			return e.State, true
		}
		offset += e.Count
	}

	return "", false
}
