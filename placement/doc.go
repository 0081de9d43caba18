// Package placement defines the pluggable preferred-location scheme used by
// the rebalance algorithm.
//
// A Scheme maps each (partition, replica) slot to the node that would serve
// it if every node were alive. The algorithm computes this preferred plan over
// all known nodes and uses it as the stability target: replicas already at
// their preferred location stay put, and displaced replicas migrate toward it
// when capacity allows.
//
// The Default scheme spreads replicas of the same partition across distinct
// nodes in all three size regimes (more nodes than partitions, equal, fewer).
// Custom schemes only need to be pure and deterministic in their arguments
// and return a node id from the provided list.
package placement
