// this code is adapted from BusTub's src/buffer/lru_k_replacer.cpp
// (Carnegie Mellon University Database Group); its predecessor in this
// corpus is https://github.com/ryogrid/SamehadaDB's clock_replacer.go,
// which this replaces (LRU-K is the only replacement policy supported).
// there is license and copyright notice in licenses/bustub dir

package buffer

import "github.com/sasha-s/go-deadlock"

// FrameID is the type for a frame's stable index into the buffer pool.
type FrameID uint32

// lruKNode tracks one frame's access history and evictable flag.
type lruKNode struct {
	history   []uint64 // oldest first, capped at k entries
	evictable bool
}

// LRUKReplacer selects a victim frame among those marked evictable by
// backward K-distance: the age of the K-th most recent access, or +Inf if
// fewer than K accesses have been recorded. Ties go to the frame with the
// smallest first-recorded timestamp still in its history.
type LRUKReplacer struct {
	mu               deadlock.Mutex
	nodes            map[FrameID]*lruKNode
	k                int
	currentTimestamp uint64
	evictableCount   int
}

// NewLRUKReplacer returns a replacer tracking up to numFrames frames with
// backward k-distance. k must be positive.
func NewLRUKReplacer(numFrames uint32, k int) *LRUKReplacer {
	if k <= 0 {
		panic("buffer: replacer k must be positive")
	}
	return &LRUKReplacer{
		nodes: make(map[FrameID]*lruKNode, numFrames),
		k:     k,
	}
}

// RecordAccess appends the current logical timestamp to frameID's history,
// truncating to the most recent k entries. A frame with no prior history
// starts non-evictable.
func (r *LRUKReplacer) RecordAccess(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.currentTimestamp++
	node, ok := r.nodes[frameID]
	if !ok {
		node = &lruKNode{}
		r.nodes[frameID] = node
	}
	node.history = append(node.history, r.currentTimestamp)
	if len(node.history) > r.k {
		node.history = node.history[len(node.history)-r.k:]
	}
}

// SetEvictable toggles frameID's evictable flag, adjusting Size()
// accordingly. A no-op if the frame has never been recorded.
func (r *LRUKReplacer) SetEvictable(frameID FrameID, evictable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[frameID]
	if !ok {
		return
	}
	if node.evictable && !evictable {
		r.evictableCount--
	} else if !node.evictable && evictable {
		r.evictableCount++
	}
	node.evictable = evictable
}

// Evict removes and returns the evictable frame with the greatest backward
// K-distance, or (0, false) if no frame is currently evictable.
func (r *LRUKReplacer) Evict() (FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		victim         FrameID
		found          bool
		victimIsInf    bool
		victimDistance uint64
		victimEarliest uint64
	)

	for id, node := range r.nodes {
		if !node.evictable {
			continue
		}

		isInf := len(node.history) < r.k
		var distance uint64
		if !isInf {
			distance = r.currentTimestamp - node.history[0]
		}
		earliest := node.history[0]

		better := !found
		if found {
			switch {
			case isInf && !victimIsInf:
				better = true
			case isInf != victimIsInf:
				better = false
			case isInf: // both +Inf: earlier first-access wins
				better = earliest < victimEarliest
			case distance > victimDistance:
				better = true
			case distance == victimDistance:
				better = earliest < victimEarliest
			}
		}

		if better {
			found = true
			victim = id
			victimIsInf = isInf
			victimDistance = distance
			victimEarliest = earliest
		}
	}

	if !found {
		return 0, false
	}

	delete(r.nodes, victim)
	r.evictableCount--
	return victim, true
}

// Remove forcibly drops frameID's history and evictable flag. A no-op if
// the frame has no history; panics if the frame is present but not
// evictable, since removing a still-pinned frame is a programmer error.
func (r *LRUKReplacer) Remove(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[frameID]
	if !ok {
		return
	}
	if !node.evictable {
		panic("buffer: Remove called on a non-evictable frame")
	}
	delete(r.nodes, frameID)
	r.evictableCount--
}

// Size returns the number of frames currently marked evictable.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictableCount
}
