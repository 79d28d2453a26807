// this code is adapted from https://github.com/brunocalza/go-bustub, via
// https://github.com/ryogrid/SamehadaDB
// there is license and copyright notice in licenses/go-bustub dir

// Package disk is the buffer pool's external collaborator: byte-level page
// I/O and page id allocation. Everything about how bytes reach a physical
// medium (or don't) lives behind this interface; the core never opens a
// file itself.
package disk

import "github.com/ryogrid/pagepool/types"

// DiskManager takes care of the allocation of page ids and the reading and
// writing of page-sized byte buffers to and from a backing store.
type DiskManager interface {
	ReadPage(types.PageID, []byte) error
	WritePage(types.PageID, []byte) error
	AllocatePage() types.PageID
	DeallocatePage(types.PageID)
	GetNumWrites() uint64
	Size() int64
	ShutDown()
	RemoveDBFile()
}
