package sync

import (
	base "sync"
)

const (
	hashEntriesPerLock = 200
)

// StripedLock is a partitioned locking mechanism that consistently maps a
// key space to a fixed set of locks. This provides concurrent access to
// disjoint keys while bounding the total memory footprint: all keys that
// hash to the same stripe contend on one lock.
type StripedLock struct {
	locks    []base.RWMutex
	hashRing *ring
}

// NewStripedLock returns a new StripedLock with a static number of stripes.
func NewStripedLock(stripes uint) *StripedLock {
	return &StripedLock{
		locks:    make([]base.RWMutex, stripes),
		hashRing: newRing(stripes, hashEntriesPerLock),
	}
}

// Get gets the lock for a key. The same key always maps to the same lock.
func (l *StripedLock) Get(key []byte) *base.RWMutex {
	return &l.locks[l.hashRing.shard(key)]
}
