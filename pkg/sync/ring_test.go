package sync

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_Consistency(t *testing.T) {
	r := newRing(64, 200)

	for i := 0; i < 256; i++ {
		key := []byte(fmt.Sprintf("key%d", i))
		stripe := r.shard(key)
		assert.GreaterOrEqual(t, stripe, 0)
		assert.Less(t, stripe, 64)

		for j := 0; j < 256; j++ {
			assert.Equal(t, stripe, r.shard(key))
		}
	}
}

func TestRing_Distribution(t *testing.T) {
	stripes := 5
	iterations := 500000
	marginOfError := 0.1
	expectedFrequency := iterations / stripes

	r := newRing(uint(stripes), 200)

	hits := make(map[int]int)
	for i := 0; i < iterations; i++ {
		key := []byte(fmt.Sprintf("key%d", i))
		hits[r.shard(key)]++
	}

	assert.Equal(t, stripes, len(hits))
	for _, hitCount := range hits {
		assert.True(t, math.Abs(float64(hitCount-expectedFrequency)) <= marginOfError*float64(expectedFrequency))
	}
}
