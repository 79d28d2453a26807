package buffer

import (
	"testing"

	"github.com/ryogrid/pagepool/internal/testutil"
)

func TestReplacerEvictsInfiniteDistanceFirst(t *testing.T) {
	r := NewLRUKReplacer(8, 2)

	// frame 1: two accesses (finite k-distance once k reached)
	r.RecordAccess(1)
	r.RecordAccess(1)
	// frame 2: only one access (infinite k-distance)
	r.RecordAccess(2)

	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	victim, ok := r.Evict()
	testutil.Assert(t, ok, "expected a victim")
	testutil.Equals(t, FrameID(2), victim)
}

func TestReplacerTieBreaksByEarliestTimestampAmongInfinite(t *testing.T) {
	r := NewLRUKReplacer(8, 3)

	r.RecordAccess(1) // earliest
	r.RecordAccess(2)
	r.RecordAccess(3)

	r.SetEvictable(1, true)
	r.SetEvictable(2, true)
	r.SetEvictable(3, true)

	victim, ok := r.Evict()
	testutil.Assert(t, ok, "expected a victim")
	testutil.Equals(t, FrameID(1), victim)
}

func TestReplacerPicksLargestBackwardKDistance(t *testing.T) {
	r := NewLRUKReplacer(8, 2)

	// frame 1: accessed at t=1, t=2 -> k-distance = current - 1
	r.RecordAccess(1)
	r.RecordAccess(1)
	// frame 2: accessed at t=3, t=4 -> more recent, smaller k-distance
	r.RecordAccess(2)
	r.RecordAccess(2)

	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	victim, ok := r.Evict()
	testutil.Assert(t, ok, "expected a victim")
	testutil.Equals(t, FrameID(1), victim)
}

func TestReplacerSkipsNonEvictable(t *testing.T) {
	r := NewLRUKReplacer(8, 2)

	r.RecordAccess(1)
	r.RecordAccess(1)
	r.SetEvictable(1, false)

	_, ok := r.Evict()
	testutil.Assert(t, !ok, "expected no victim when the only tracked frame is pinned")
}

func TestReplacerSetEvictableTogglesSize(t *testing.T) {
	r := NewLRUKReplacer(8, 2)

	r.RecordAccess(1)
	testutil.Equals(t, 0, r.Size())

	r.SetEvictable(1, true)
	testutil.Equals(t, 1, r.Size())

	r.SetEvictable(1, true) // idempotent
	testutil.Equals(t, 1, r.Size())

	r.SetEvictable(1, false)
	testutil.Equals(t, 0, r.Size())
}

func TestReplacerSetEvictableUnknownFrameIsNoop(t *testing.T) {
	r := NewLRUKReplacer(8, 2)
	r.SetEvictable(99, true)
	testutil.Equals(t, 0, r.Size())
}

func TestReplacerRemove(t *testing.T) {
	r := NewLRUKReplacer(8, 2)

	r.RecordAccess(1)
	r.SetEvictable(1, true)
	testutil.Equals(t, 1, r.Size())

	r.Remove(1)
	testutil.Equals(t, 0, r.Size())

	// removing an untracked frame is a no-op, not a panic
	r.Remove(42)
}

func TestReplacerRemoveNonEvictablePanics(t *testing.T) {
	r := NewLRUKReplacer(8, 2)
	r.RecordAccess(1)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Remove on a non-evictable frame to panic")
		}
	}()
	r.Remove(1)
}

func TestReplacerHistoryCapsAtK(t *testing.T) {
	r := NewLRUKReplacer(8, 2)

	r.RecordAccess(1)
	r.RecordAccess(1)
	r.RecordAccess(1) // history should now hold only the last 2 timestamps
	r.SetEvictable(1, true)

	node := r.nodes[1]
	testutil.Equals(t, 2, len(node.history))
}
