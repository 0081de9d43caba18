// Package metrics provides RebalanceMetrics implementations.
package metrics

import "github.com/arloliu/rebalance/types"

// NopMetrics is a RebalanceMetrics implementation that discards everything.
//
// It is the default collector and also serves as the embedded base for
// partial implementations.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements RebalanceMetrics.
var _ types.RebalanceMetrics = (*NopMetrics)(nil)

// NewNop creates a metrics collector that performs no operations.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordRebalance discards the observation.
func (n *NopMetrics) RecordRebalance(_ string, _ float64, _ bool) {}

// RecordPartitionCount discards the observation.
func (n *NopMetrics) RecordPartitionCount(_ string, _ int) {}

// RecordOrphanedReplicas discards the observation.
func (n *NopMetrics) RecordOrphanedReplicas(_ string, _ int) {}

// RecordExcessReplicas discards the observation.
func (n *NopMetrics) RecordExcessReplicas(_ string, _ int) {}
