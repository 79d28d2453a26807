// this code is adapted from https://github.com/brunocalza/go-bustub, via
// https://github.com/ryogrid/SamehadaDB
// there is license and copyright notice in licenses/go-bustub dir

// Package page defines the buffer pool's frame contents: the fixed-size
// byte buffer plus the metadata (page id, pin count, dirty flag) the pool,
// the hash index, and the replacer all reason about.
package page

import (
	"sync/atomic"

	"github.com/ryogrid/pagepool/common"
	"github.com/ryogrid/pagepool/types"
)

const SizePageHeader = 8
const OffsetPageStart = 0
const OffsetLSN = 4

// Page is one array element of the buffer pool: it holds one page's bytes
// while that page is cached, plus the book-keeping the pool needs to pin,
// dirty, and evict it. A Page's position in the pool's frame array is its
// frame id; Page itself never stores that index.
type Page struct {
	id       types.PageID
	pinCount int32
	isDirty  bool
	data     *[common.PageSize]byte
	rwlatch  common.ReaderWriterLatch
}

// New wraps freshly read disk bytes into a pinned Page.
func New(id types.PageID, data *[common.PageSize]byte) *Page {
	return &Page{id: id, pinCount: 1, isDirty: false, data: data, rwlatch: common.NewRWLatch()}
}

// NewEmpty allocates a pinned, zero-filled Page for a brand new page id.
func NewEmpty(id types.PageID) *Page {
	return &Page{id: id, pinCount: 1, isDirty: false, data: &[common.PageSize]byte{}, rwlatch: common.NewRWLatch()}
}

// Reset clears the page's bytes and re-tags it with a fresh id, pinned
// once and clean. The buffer pool does not call it: it builds a new Page
// (New or NewEmpty) whenever a frame takes a different page id.
func (p *Page) Reset(id types.PageID) {
	*p.data = [common.PageSize]byte{}
	p.id = id
	atomic.StoreInt32(&p.pinCount, 1)
	p.isDirty = false
}

// IncPinCount increments the pin count.
func (p *Page) IncPinCount() {
	atomic.AddInt32(&p.pinCount, 1)
}

// DecPinCount decrements the pin count.
func (p *Page) DecPinCount() {
	atomic.AddInt32(&p.pinCount, -1)
}

// PinCount returns the current pin count.
func (p *Page) PinCount() int32 {
	return atomic.LoadInt32(&p.pinCount)
}

// GetPageId returns the page's identifier.
func (p *Page) GetPageId() types.PageID {
	return p.id
}

// Data returns the page's backing byte array.
func (p *Page) Data() *[common.PageSize]byte {
	return p.data
}

// GetData is an alias for Data, kept for callers that prefer the
// getter-style name.
func (p *Page) GetData() *[common.PageSize]byte {
	return p.data
}

// SetIsDirty sets the dirty bit.
func (p *Page) SetIsDirty(isDirty bool) {
	p.isDirty = isDirty
}

// IsDirty reports the dirty bit.
func (p *Page) IsDirty() bool {
	return p.isDirty
}

// Copy copies data into the page's bytes at offset.
func (p *Page) Copy(offset uint32, data []byte) {
	copy(p.data[offset:], data)
}

// GetLSN returns the page's log sequence number.
func (p *Page) GetLSN() types.LSN {
	return types.NewLSNFromBytes(p.data[OffsetLSN : OffsetLSN+types.SizeOfLSN])
}

// SetLSN sets the page's log sequence number.
func (p *Page) SetLSN(lsn types.LSN) {
	copy(p.data[OffsetLSN:OffsetLSN+types.SizeOfLSN], lsn.Serialize())
}

// WLatch acquires the page's write latch, serializing byte-level access to
// Data() across goroutines that hold this same pinned page's handle.
func (p *Page) WLatch() { p.rwlatch.WLock() }

// WUnlatch releases the page's write latch.
func (p *Page) WUnlatch() { p.rwlatch.WUnlock() }

// RLatch acquires the page's read latch.
func (p *Page) RLatch() { p.rwlatch.RLock() }

// RUnlatch releases the page's read latch.
func (p *Page) RUnlatch() { p.rwlatch.RUnlock() }
