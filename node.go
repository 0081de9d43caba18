package rebalance

import (
	"strconv"
	"strings"
)

// replica identifies one copy of a partition: the pair (partition, index).
//
// Identity, ordering and hashing all derive from the canonical string
// "partition|index". Ordering is therefore lexicographic on that string; a
// partition name containing '|' could interleave with another partition's
// replicas in sorted order, so partition names should avoid '|'.
type replica struct {
	partition string
	index     int
}

// canonical returns the "partition|index" form used for ordering and hashing.
func (r replica) canonical() string {
	return r.partition + "|" + strconv.Itoa(r.index)
}

// compare orders replicas by their canonical string.
func (r replica) compare(other replica) int {
	return strings.Compare(r.canonical(), other.canonical())
}

func (r replica) String() string {
	return r.canonical()
}

// node is the per-computation working record of one cluster instance.
//
// capacity is the node's fixed target for the round; only currentlyAssigned
// changes while the passes run.
type node struct {
	id                string
	isAlive           bool
	capacity          int
	currentlyAssigned int
	preferred         []replica
	nonPreferred      []replica
}

func newNode(id string) *node {
	return &node{id: id}
}

// canAdd reports whether the replica can legally be added to this node: the
// node is alive, under capacity, and does not already hold a replica of the
// same partition.
func (n *node) canAdd(r replica) bool {
	if !n.isAlive {
		return false
	}
	if n.currentlyAssigned >= n.capacity {
		return false
	}

	return !n.hasPartition(r.partition)
}

// hasPartition reports whether any replica of the partition is assigned to
// this node, preferred or not.
func (n *node) hasPartition(partition string) bool {
	for _, r := range n.preferred {
		if r.partition == partition {
			return true
		}
	}
	for _, r := range n.nonPreferred {
		if r.partition == partition {
			return true
		}
	}

	return false
}

// hasPreferredPartition reports whether the node already holds a replica of
// the partition in its preferred list.
func (n *node) hasPreferredPartition(partition string) bool {
	for _, r := range n.preferred {
		if r.partition == partition {
			return true
		}
	}

	return false
}

// removeNonPreferred removes the replica from the nonPreferred list,
// preserving order.
func (n *node) removeNonPreferred(r replica) {
	for i, cur := range n.nonPreferred {
		if cur == r {
			n.nonPreferred = append(n.nonPreferred[:i], n.nonPreferred[i+1:]...)
			return
		}
	}
}

// replicaAssignment is an ordered map from replica to node, iterated in
// canonical replica order.
//
// The keys slice is kept sorted on insert so iteration is deterministic, the
// behavior the passes rely on.
type replicaAssignment struct {
	keys  []replica
	nodes map[replica]*node
}

func newReplicaAssignment() *replicaAssignment {
	return &replicaAssignment{nodes: make(map[replica]*node)}
}

func (ra *replicaAssignment) put(r replica, n *node) {
	if _, ok := ra.nodes[r]; !ok {
		idx, _ := ra.search(r)
		ra.keys = append(ra.keys, replica{})
		copy(ra.keys[idx+1:], ra.keys[idx:])
		ra.keys[idx] = r
	}
	ra.nodes[r] = n
}

func (ra *replicaAssignment) contains(r replica) bool {
	_, ok := ra.nodes[r]
	return ok
}

func (ra *replicaAssignment) delete(r replica) {
	if _, ok := ra.nodes[r]; !ok {
		return
	}
	delete(ra.nodes, r)
	idx, found := ra.search(r)
	if found {
		ra.keys = append(ra.keys[:idx], ra.keys[idx+1:]...)
	}
}

// entries returns the (replica, node) pairs in canonical replica order. The
// returned slices are snapshots, safe to iterate while mutating the map.
func (ra *replicaAssignment) entries() ([]replica, []*node) {
	keys := append([]replica(nil), ra.keys...)
	nodes := make([]*node, len(keys))
	for i, r := range keys {
		nodes[i] = ra.nodes[r]
	}

	return keys, nodes
}

func (ra *replicaAssignment) len() int {
	return len(ra.keys)
}

// search locates r in the sorted keys slice via binary search.
func (ra *replicaAssignment) search(r replica) (int, bool) {
	lo, hi := 0, len(ra.keys)
	for lo < hi {
		mid := (lo + hi) / 2
		c := ra.keys[mid].compare(r)
		switch {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			return mid, true
		}
	}

	return lo, false
}
