package sync

import (
	"encoding/binary"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring mapping an arbitrary key space onto a
// fixed set of stripe indices. Each stripe is replicated around the ring
// so keys spread evenly regardless of stripe count.
type ring struct {
	hashRing *treemap.Map

	// minStripe caches the first entry on the ring for wraparound.
	// treemap.Map.Min() is O(log n) per call.
	minStripe int
}

func newRing(stripes, replicationFactor uint) *ring {
	hashRing := treemap.NewWith(utils.Int64Comparator)

	for stripe := 0; stripe < int(stripes); stripe++ {
		stripeHash, _ := murmur3.Sum128([]byte(fmt.Sprintf("stripe%d", stripe)))
		stripeHashBytes := make([]byte, 8)
		binary.LittleEndian.PutUint64(stripeHashBytes, stripeHash)

		for replica := 0; replica < int(replicationFactor); replica++ {
			replicaBytes := make([]byte, 4)
			binary.LittleEndian.PutUint32(replicaBytes, uint32(replica))

			hasher := murmur3.New128()
			hasher.Write(stripeHashBytes)
			hasher.Write(replicaBytes)
			hash, _ := hasher.Sum128()

			hashRing.Put(int64(hash), stripe)
		}
	}

	_, minStripe := hashRing.Min()

	return &ring{
		hashRing:  hashRing,
		minStripe: minStripe.(int),
	}
}

// shard consistently hashes the key to a stripe index.
func (r *ring) shard(key []byte) int {
	hasher := murmur3.New128()
	hasher.Write(key)
	raw, _ := hasher.Sum128()

	if _, stripe := r.hashRing.Ceiling(int64(raw)); stripe != nil {
		return stripe.(int)
	}
	return r.minStripe
}
