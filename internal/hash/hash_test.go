package hash

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString31(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		for _, s := range []string{"", "p0|0", "p0|1", "partition-with-long-name|12"} {
			require.Equal(t, String31(s), String31(s))
		}
	})

	t.Run("is non-negative", func(t *testing.T) {
		for i := range 1000 {
			h := String31(fmt.Sprintf("p%d|%d", i, i%3))
			require.GreaterOrEqual(t, h, 0)
			require.Less(t, h, 1<<31)
		}
	})

	t.Run("distributes start indices", func(t *testing.T) {
		// With 1000 replicas over 10 buckets, every bucket should be hit.
		buckets := make(map[int]int)
		for i := range 1000 {
			buckets[String31(fmt.Sprintf("p%d|0", i))%10]++
		}
		require.Len(t, buckets, 10)
	})
}
