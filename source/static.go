package source

import (
	"context"
	"sync"

	"github.com/arloliu/rebalance/types"
)

// Static implements a snapshot source with a fixed cluster picture.
type Static struct {
	mu       sync.RWMutex
	snapshot *types.ClusterSnapshot
}

var _ types.SnapshotSource = (*Static)(nil)

// NewStatic creates a new static snapshot source.
//
// The source returns the same cluster picture until Update is called.
// Useful for testing and for hosts that manage cluster membership themselves.
//
// Parameters:
//   - snapshot: Fixed cluster snapshot
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic(&types.ClusterSnapshot{
//	    LiveInstances:  []string{"node-0", "node-1"},
//	    Instances:      []string{"node-0", "node-1", "node-2"},
//	    StateModelDefs: map[string]*types.StateModelDefinition{
//	        "MasterSlave": types.MasterSlaveModel(),
//	    },
//	})
func NewStatic(snapshot *types.ClusterSnapshot) *Static {
	return &Static{snapshot: snapshot}
}

// FetchSnapshot returns a copy of the configured cluster picture.
//
// Returns:
//   - *types.ClusterSnapshot: Copied snapshot (instance lists and the
//     definition map are copied so callers cannot race with Update)
//   - error: Always nil (never fails)
func (s *Static) FetchSnapshot(_ context.Context) (*types.ClusterSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs := make(map[string]*types.StateModelDefinition, len(s.snapshot.StateModelDefs))
	for name, def := range s.snapshot.StateModelDefs {
		defs[name] = def
	}

	return &types.ClusterSnapshot{
		LiveInstances:  append([]string(nil), s.snapshot.LiveInstances...),
		Instances:      append([]string(nil), s.snapshot.Instances...),
		StateModelDefs: defs,
	}, nil
}

// Update replaces the cluster picture.
//
// This allows the static source to simulate topology changes, which is
// useful for testing node loss and addition scenarios.
//
// Parameters:
//   - snapshot: New cluster snapshot
func (s *Static) Update(snapshot *types.ClusterSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
}
