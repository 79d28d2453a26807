// this code is adapted from BusTub's src/buffer/buffer_pool_manager_instance.cpp
// (Carnegie Mellon University Database Group) and from
// https://github.com/ryogrid/SamehadaDB's storage/buffer/buffer_pool_manager.go
// there is license and copyright notice in licenses/bustub dir

// Package buffer implements the buffer pool manager: a fixed array of
// frames caching disk pages, backed by an extendible hash index (page id
// -> frame id) and an LRU-K replacer for victim selection.
package buffer

import (
	"github.com/ncw/directio"
	"github.com/sasha-s/go-deadlock"

	"github.com/ryogrid/pagepool/common"
	"github.com/ryogrid/pagepool/container/hash"
	"github.com/ryogrid/pagepool/recovery"
	"github.com/ryogrid/pagepool/storage/disk"
	"github.com/ryogrid/pagepool/storage/page"
	"github.com/ryogrid/pagepool/types"
)

// BufferPoolManager owns pool_size frames and serves NewPage/FetchPage/
// UnpinPage/FlushPage/DeletePage under a single latch, consulting the page
// table (an extendible hash index) to resolve identity and the replacer
// to choose eviction victims.
type BufferPoolManager struct {
	mu          deadlock.Mutex
	diskManager disk.DiskManager
	logManager  *recovery.LogManager // held only; never invoked
	pages       []*page.Page         // index is FrameID
	pageTable   *hash.ExtendibleHashTable[types.PageID, FrameID]
	replacer    *LRUKReplacer
	freeList    []FrameID
	nextPageID  types.PageID
}

// NewBufferPoolManager returns an empty buffer pool with cfg.PoolSize
// frames, all initially free.
func NewBufferPoolManager(cfg common.Config, diskManager disk.DiskManager, logManager *recovery.LogManager) *BufferPoolManager {
	if cfg.PoolSize == 0 {
		panic("buffer: pool size must be positive")
	}

	pages := make([]*page.Page, cfg.PoolSize)
	freeList := make([]FrameID, cfg.PoolSize)
	for i := uint32(0); i < cfg.PoolSize; i++ {
		freeList[i] = FrameID(i)
	}

	return &BufferPoolManager{
		diskManager: diskManager,
		logManager:  logManager,
		pages:       pages,
		pageTable:   hash.New[types.PageID, FrameID](cfg.BucketSize, hash.Uint32KeyHash[types.PageID]),
		replacer:    NewLRUKReplacer(cfg.PoolSize, cfg.ReplacerK),
		freeList:    freeList,
	}
}

// victim returns a frame id to use for a fresh page: the head of the free
// list if one is available, otherwise whatever the replacer evicts. The
// first bool reports whether the frame came from the free list (so the
// caller knows whether it needs to write back/evict the frame's current
// occupant); the second reports whether any frame was found at all.
func (b *BufferPoolManager) victim() (FrameID, bool, bool) {
	if len(b.freeList) > 0 {
		frameID := b.freeList[0]
		b.freeList = b.freeList[1:]
		return frameID, true, true
	}
	frameID, ok := b.replacer.Evict()
	if !ok {
		return 0, false, false
	}
	return frameID, false, true
}

// evictCurrentOccupant writes back frameID's current page if dirty and
// removes it from the page table. Caller must hold b.mu.
func (b *BufferPoolManager) evictCurrentOccupant(frameID FrameID) {
	current := b.pages[frameID]
	if current == nil {
		return
	}
	if current.IsDirty() {
		if err := b.diskManager.WritePage(current.GetPageId(), current.Data()[:]); err != nil {
			common.Logger.Errorw("write-back on evict failed", "pageId", current.GetPageId(), "err", err)
		}
	}
	b.pageTable.Remove(current.GetPageId())
}

// NewPage allocates a fresh page id, claims a frame for it (from the free
// list or by eviction), and returns the pinned page. Returns nil if the
// pool is exhausted (no free frame and nothing evictable).
func (b *BufferPoolManager) NewPage() *page.Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, fromFreeList, ok := b.victim()
	if !ok {
		common.Logger.Warnw("buffer pool exhausted on NewPage")
		common.DumpGoroutineStacks("BufferPoolManager::NewPage")
		return nil
	}
	if !fromFreeList {
		b.evictCurrentOccupant(frameID)
	}

	pageID := b.diskManager.AllocatePage()
	pg := page.NewEmpty(pageID)

	b.pageTable.Insert(pageID, frameID)
	b.pages[frameID] = pg
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)

	return pg
}

// FetchPage returns the requested page, pinned. A page already resident
// in the pool has its pin count incremented; otherwise a frame is claimed
// and the page is read from disk. Returns nil if the page can't be read
// or the pool is exhausted.
func (b *BufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frameID, ok := b.pageTable.Find(pageID); ok {
		pg := b.pages[frameID]
		pg.IncPinCount()
		b.replacer.RecordAccess(frameID)
		b.replacer.SetEvictable(frameID, false)
		return pg
	}

	frameID, fromFreeList, ok := b.victim()
	if !ok {
		common.Logger.Warnw("buffer pool exhausted on FetchPage", "pageId", pageID)
		common.DumpGoroutineStacks("BufferPoolManager::FetchPage")
		return nil
	}
	if !fromFreeList {
		b.evictCurrentOccupant(frameID)
	}

	scratch := directio.AlignedBlock(common.PageSize)
	if err := b.diskManager.ReadPage(pageID, scratch); err != nil {
		common.Logger.Errorw("disk read failed", "pageId", pageID, "err", err)
		b.freeList = append(b.freeList, frameID)
		return nil
	}
	var data [common.PageSize]byte
	copy(data[:], scratch)

	pg := page.New(pageID, &data)
	b.pageTable.Insert(pageID, frameID)
	b.pages[frameID] = pg
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)

	return pg
}

// UnpinPage decrements pageId's pin count and OR-folds isDirty into the
// frame's dirty flag. When the pin count reaches zero the frame becomes
// evictable. Returns false if the page isn't cached or is already
// unpinned (pin count 0).
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	if pg.PinCount() <= 0 {
		return false
	}

	pg.DecPinCount()
	if isDirty {
		pg.SetIsDirty(true)
	}
	if pg.PinCount() == 0 {
		b.replacer.SetEvictable(frameID, true)
	}
	return true
}

// flushPage is FlushPage's body without the latch. Caller must hold b.mu.
func (b *BufferPoolManager) flushPage(pageID types.PageID) bool {
	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	if err := b.diskManager.WritePage(pageID, pg.Data()[:]); err != nil {
		common.Logger.Errorw("flush failed", "pageId", pageID, "err", err)
		return false
	}
	pg.SetIsDirty(false)
	return true
}

// FlushPage unconditionally writes pageId's bytes to disk and clears its
// dirty flag. Returns false if the page isn't cached. Panics if pageID is
// invalid, that's a programmer error, not a runtime condition.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	common.Assert(pageID.IsValid(), "FlushPage called with an invalid page id")

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.flushPage(pageID)
}

// FlushAllPages flushes every cached page to disk under a single
// acquisition of the pool latch.
func (b *BufferPoolManager) FlushAllPages() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, pg := range b.pages {
		if pg != nil {
			b.flushPage(pg.GetPageId())
		}
	}
}

// FlushAllDirtyPages flushes only the pages currently marked dirty, under
// a single acquisition of the pool latch, stopping and returning false at
// the first failure.
func (b *BufferPoolManager) FlushAllDirtyPages() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, pg := range b.pages {
		if pg != nil && pg.IsDirty() {
			if !b.flushPage(pg.GetPageId()) {
				return false
			}
		}
	}
	return true
}

// DeletePage removes pageId from the pool and asks the disk manager to
// deallocate it. Returns false, without deallocating anything, if the
// page is currently pinned; the caller must unpin first and retry.
// If the page isn't cached, its id is deallocated and true is returned;
// no in-memory state changes.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		b.diskManager.DeallocatePage(pageID)
		return true
	}

	pg := b.pages[frameID]
	if pg.PinCount() > 0 {
		return false
	}

	b.diskManager.DeallocatePage(pageID)

	if pg.IsDirty() {
		if err := b.diskManager.WritePage(pageID, pg.Data()[:]); err != nil {
			common.Logger.Errorw("write-back on delete failed", "pageId", pageID, "err", err)
		}
	}

	b.replacer.Remove(frameID)
	b.pageTable.Remove(pageID)
	b.pages[frameID] = nil
	b.freeList = append(b.freeList, frameID)

	return true
}

// GetPoolSize returns the number of frames the pool was constructed with.
func (b *BufferPoolManager) GetPoolSize() int {
	return len(b.pages)
}
