package hash

import (
	"testing"

	"github.com/ryogrid/pagepool/internal/testutil"
)

func intHash(key int32) uint64 {
	return Uint32KeyHash(key)
}

func TestInsertAndFind(t *testing.T) {
	h := New[int32, string](2, intHash)

	h.Insert(0, "a")
	h.Insert(1, "b")
	h.Insert(2, "c")

	v, ok := h.Find(0)
	testutil.Assert(t, ok, "expected key 0 present")
	testutil.Equals(t, "a", v)

	v, ok = h.Find(1)
	testutil.Assert(t, ok, "expected key 1 present")
	testutil.Equals(t, "b", v)

	v, ok = h.Find(2)
	testutil.Assert(t, ok, "expected key 2 present")
	testutil.Equals(t, "c", v)

	testutil.Assert(t, h.GetNumBuckets() >= 2, "expected at least 2 buckets after growth")
	testutil.Equals(t, h.GetNumBuckets(), h.DebugDistinctBucketCount())
}

func TestOverwriteDoesNotGrowBucketCount(t *testing.T) {
	h := New[int32, int](4, intHash)
	h.Insert(5, 100)
	before := h.GetNumBuckets()

	h.Insert(5, 200)

	v, ok := h.Find(5)
	testutil.Assert(t, ok, "expected key 5 present")
	testutil.Equals(t, 200, v)
	testutil.Equals(t, before, h.GetNumBuckets())
}

func TestRemove(t *testing.T) {
	h := New[int32, int](2, intHash)
	h.Insert(1, 10)
	h.Insert(2, 20)

	testutil.Assert(t, h.Remove(1), "expected Remove(1) to report present")
	_, ok := h.Find(1)
	testutil.Assert(t, !ok, "expected key 1 gone after Remove")

	testutil.Assert(t, !h.Remove(99), "expected Remove(99) to report absent")
}

func TestDirectoryLengthIsPowerOfTwo(t *testing.T) {
	h := New[int32, int](1, intHash)
	for i := int32(0); i < 64; i++ {
		h.Insert(i, int(i))
	}

	length := 1 << h.GetGlobalDepth()
	testutil.Equals(t, length, len(h.directory))

	for i, b := range h.directory {
		testutil.Assert(t, b.localDepth <= h.globalDepth,
			"slot %d: local depth %d exceeds global depth %d", i, b.localDepth, h.globalDepth)
	}
}

func TestSplitPreservesLowBitAgreement(t *testing.T) {
	h := New[int32, int](1, intHash)
	for i := int32(0); i < 32; i++ {
		h.Insert(i, int(i))
	}

	seen := map[*bucket[int32, int]]int{}
	for i, b := range h.directory {
		if firstSlot, ok := seen[b]; ok {
			mask := (1 << b.localDepth) - 1
			testutil.Equals(t, firstSlot&mask, i&mask)
		} else {
			seen[b] = i
		}
	}

	for i, b := range h.directory {
		for _, e := range b.entries {
			mask := (1 << b.localDepth) - 1
			testutil.Equals(t, i&mask, int(h.hashFn(e.key))&mask)
		}
	}
}
