package rebalance

import "github.com/arloliu/rebalance/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces via type aliases. Internal packages depend on the types
// subpackage directly, which keeps them free of import cycles, while users
// get the convenient rebalance.Record, rebalance.Logger, etc.
type (
	Record               = types.Record
	IdealState           = types.IdealState
	IdealStateConfig     = types.IdealStateConfig
	StateCount           = types.StateCount
	StateCountEntry      = types.StateCountEntry
	StateModelDefinition = types.StateModelDefinition
	StateSpec            = types.StateSpec
	ClusterSnapshot      = types.ClusterSnapshot
	CurrentStateOutput   = types.CurrentStateOutput
)

// Re-export interfaces from the types subpackage for convenience.
type (
	SnapshotSource   = types.SnapshotSource
	Logger           = types.Logger
	RebalanceMetrics = types.RebalanceMetrics
)

// Re-export rebalance mode constants from the types subpackage.
const (
	ModeAuto       = types.ModeAuto
	ModeSemiAuto   = types.ModeSemiAuto
	ModeCustomized = types.ModeCustomized
)
