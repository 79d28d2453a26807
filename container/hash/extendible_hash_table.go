// this code is adapted from BusTub's container/hash/extendible_hash_table.cpp
// (Carnegie Mellon University Database Group), via the linear-probing
// hash table style of https://github.com/ryogrid/SamehadaDB
// there is license and copyright notice in licenses/bustub dir

// Package hash implements an in-memory, concurrent extendible hash table:
// directory doubling with local bucket splitting, the classic dynamic
// hashing scheme. It has no notion of disk pages (the buffer pool
// instantiates it over (types.PageID, buffer.FrameID) to serve as its page
// table).
package hash

import (
	"encoding/binary"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sasha-s/go-deadlock"
	"github.com/spaolacci/murmur3"
)

// HashFunc computes a stable 64-bit hash for a key of type K.
type HashFunc[K comparable] func(key K) uint64

// entry is one key-value pair held by a bucket.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// bucket is an unordered, capacity-bounded collection of entries tagged
// with the number of hash bits it discriminates on.
type bucket[K comparable, V any] struct {
	localDepth int
	entries    []entry[K, V]
	capacity   int
}

func newBucket[K comparable, V any](capacity, localDepth int) *bucket[K, V] {
	return &bucket[K, V]{localDepth: localDepth, capacity: capacity}
}

func (b *bucket[K, V]) isFull() bool {
	return len(b.entries) >= b.capacity
}

func (b *bucket[K, V]) find(key K) (V, bool) {
	for _, e := range b.entries {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// insertOrOverwrite overwrites key's value if key is present, otherwise
// appends a new entry. It does not check capacity: callers must check
// isFull first when the key is not already present.
func (b *bucket[K, V]) insertOrOverwrite(key K, value V) {
	for i := range b.entries {
		if b.entries[i].key == key {
			b.entries[i].value = value
			return
		}
	}
	b.entries = append(b.entries, entry[K, V]{key: key, value: value})
}

func (b *bucket[K, V]) remove(key K) bool {
	for i, e := range b.entries {
		if e.key == key {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// ExtendibleHashTable is a concurrent mapping from K to V, sized by a
// per-bucket capacity and grown by directory doubling and local bucket
// splitting. A single mutex guards every public operation; internal
// helpers assume the caller already holds it.
type ExtendibleHashTable[K comparable, V any] struct {
	mu          deadlock.Mutex
	hashFn      HashFunc[K]
	bucketSize  int
	globalDepth int
	numBuckets  int
	directory   []*bucket[K, V]
}

// New returns an ExtendibleHashTable with one empty bucket at global
// depth 0. bucketSize must be positive.
func New[K comparable, V any](bucketSize int, hashFn HashFunc[K]) *ExtendibleHashTable[K, V] {
	if bucketSize <= 0 {
		panic("hash: bucketSize must be positive")
	}
	h := &ExtendibleHashTable[K, V]{
		hashFn:      hashFn,
		bucketSize:  bucketSize,
		globalDepth: 0,
		numBuckets:  1,
	}
	h.directory = []*bucket[K, V]{newBucket[K, V](bucketSize, 0)}
	return h
}

// Uint32KeyHash hashes a 32-bit integer key via murmur3 over its
// little-endian bytes, matching the hashing scheme the corpus's linear-probing
// hash table uses for page ids.
func Uint32KeyHash[K ~int32 | ~uint32](key K) uint64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(key))
	return uint64(murmur3.Sum32(buf[:]))
}

func (h *ExtendibleHashTable[K, V]) indexOf(key K) int {
	mask := (1 << h.globalDepth) - 1
	return int(h.hashFn(key)) & mask
}

// Find returns key's current value, if present.
func (h *ExtendibleHashTable[K, V]) Find(key K) (V, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.directory[h.indexOf(key)]
	return b.find(key)
}

// Remove deletes key and reports whether it was present.
func (h *ExtendibleHashTable[K, V]) Remove(key K) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.directory[h.indexOf(key)]
	return b.remove(key)
}

// GetGlobalDepth returns the current directory depth.
func (h *ExtendibleHashTable[K, V]) GetGlobalDepth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.globalDepth
}

// GetLocalDepth returns the local depth of the bucket referenced by
// directory slot dirIndex.
func (h *ExtendibleHashTable[K, V]) GetLocalDepth(dirIndex int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.directory[dirIndex].localDepth
}

// GetNumBuckets returns the number of distinct bucket objects.
func (h *ExtendibleHashTable[K, V]) GetNumBuckets() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.numBuckets
}

// DebugDistinctBucketCount recomputes the number of distinct bucket
// objects reachable from the directory, independent of the numBuckets
// counter maintained during splits. Used by tests to check the counter
// never drifts.
func (h *ExtendibleHashTable[K, V]) DebugDistinctBucketCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	seen := mapset.NewThreadUnsafeSet[*bucket[K, V]]()
	for _, b := range h.directory {
		seen.Add(b)
	}
	return seen.Cardinality()
}

// Insert adds key/value, overwriting any existing value for key. Splits
// buckets and doubles the directory as many times as necessary to admit
// the new entry.
func (h *ExtendibleHashTable[K, V]) Insert(key K, value V) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for {
		idx := h.indexOf(key)
		target := h.directory[idx]

		if _, present := target.find(key); present || !target.isFull() {
			target.insertOrOverwrite(key, value)
			return
		}

		h.split(target)
	}
}

// split grows the directory (if the target bucket's local depth has
// caught up to the global depth) and then divides target's entries
// between two fresh buckets at depth+1, redirecting every directory slot
// that used to point at target. Caller must hold h.mu.
func (h *ExtendibleHashTable[K, V]) split(target *bucket[K, V]) {
	if target.localDepth == h.globalDepth {
		capacity := len(h.directory)
		h.directory = append(h.directory, h.directory...)
		for i := 0; i < capacity; i++ {
			h.directory[i+capacity] = h.directory[i]
		}
		h.globalDepth++
	}

	splitBit := 1 << target.localDepth
	newDepth := target.localDepth + 1
	zeroBucket := newBucket[K, V](h.bucketSize, newDepth)
	oneBucket := newBucket[K, V](h.bucketSize, newDepth)

	for _, e := range target.entries {
		if int(h.hashFn(e.key))&splitBit != 0 {
			oneBucket.entries = append(oneBucket.entries, e)
		} else {
			zeroBucket.entries = append(zeroBucket.entries, e)
		}
	}
	h.numBuckets++

	for i := range h.directory {
		if h.directory[i] == target {
			if i&splitBit != 0 {
				h.directory[i] = oneBucket
			} else {
				h.directory[i] = zeroBucket
			}
		}
	}
}
