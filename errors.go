package rebalance

import "errors"

// Sentinel errors returned by the strategy driver. The algorithm itself never
// fails; its degraded outcomes are logged and reflected in metrics.
var (
	// ErrStateModelNotFound is returned when the cluster snapshot has no
	// definition for the ideal state's state model reference.
	ErrStateModelNotFound = errors.New("state model definition not found")

	// ErrInvalidIdealState is returned when the current ideal state is nil.
	// The ideal state's simple fields are not validated.
	ErrInvalidIdealState = errors.New("invalid ideal state")

	// ErrSnapshotRequired is returned when the cluster snapshot is nil.
	ErrSnapshotRequired = errors.New("cluster snapshot is required")
)
