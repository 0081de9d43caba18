// Package hash provides stable string hashing for placement decisions.
package hash

import "github.com/zeebo/xxh3"

// String31 hashes s to a non-negative int using XXH3 masked to 31 bits.
//
// The result is deterministic across processes and platforms, which makes it
// suitable for deriving stable scan start indices from replica identifiers.
//
// Parameters:
//   - s: String to hash
//
// Returns:
//   - int: Hash value in [0, 2^31)
func String31(s string) int {
	return int(xxh3.HashString(s) & 0x7FFFFFFF)
}
