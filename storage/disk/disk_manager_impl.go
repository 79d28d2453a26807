// this code is adapted from https://github.com/brunocalza/go-bustub, via
// https://github.com/ryogrid/SamehadaDB
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/ryogrid/pagepool/common"
	"github.com/ryogrid/pagepool/types"
)

// DiskManagerImpl is the DiskManager backed by a real OS file.
type DiskManagerImpl struct {
	db          *os.File
	fileName    string
	nextPageID  types.PageID
	numWrites   uint64
	size        int64
	dbFileMutex sync.Mutex
}

// NewDiskManagerImpl opens (creating if needed) dbFilename and returns a
// DiskManager over it.
func NewDiskManagerImpl(dbFilename string) DiskManager {
	file, err := os.OpenFile(dbFilename, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		common.Logger.Fatalw("can't open db file", "file", dbFilename, "err", err)
		return nil
	}

	fileInfo, err := file.Stat()
	if err != nil {
		common.Logger.Fatalw("file info error", "file", dbFilename, "err", err)
		return nil
	}

	fileSize := fileInfo.Size()
	nPages := fileSize / common.PageSize

	nextPageID := types.PageID(0)
	if nPages > 0 {
		nextPageID = types.PageID(nPages)
	}

	return &DiskManagerImpl{db: file, fileName: dbFilename, nextPageID: nextPageID, size: fileSize}
}

// ShutDown closes the underlying database file.
func (d *DiskManagerImpl) ShutDown() {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	if err := d.db.Close(); err != nil {
		common.Logger.Errorw("close of db file failed", "err", err)
	}
}

// WritePage writes pageData to pageId's offset in the database file.
func (d *DiskManagerImpl) WritePage(pageID types.PageID, pageData []byte) error {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	offset := int64(pageID) * int64(common.PageSize)
	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		common.Logger.Errorw("disk write seek failed", "pageId", pageID, "err", err)
		return err
	}

	written, err := d.db.Write(pageData)
	if err != nil {
		common.Logger.Errorw("disk write failed", "pageId", pageID, "err", err)
		return err
	}
	if written != common.PageSize {
		return errors.New("bytes written not equal to page size")
	}

	if offset+int64(written) > d.size {
		d.size = offset + int64(written)
	}
	d.numWrites++

	return d.db.Sync()
}

// ReadPage reads pageId's bytes into pageData, zero-filling any short read.
func (d *DiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	offset := int64(pageID) * int64(common.PageSize)

	fileInfo, err := d.db.Stat()
	if err != nil {
		return errors.New("file info error")
	}
	if offset > fileInfo.Size() {
		return errors.New("I/O error: read past end of file")
	}

	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	n, err := d.db.Read(pageData)
	if err != nil && err != io.EOF {
		return errors.New("I/O error while reading")
	}
	for i := n; i < len(pageData); i++ {
		pageData[i] = 0
	}
	return nil
}

// AllocatePage returns the next monotonically increasing page id.
func (d *DiskManagerImpl) AllocatePage() types.PageID {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	ret := d.nextPageID
	d.nextPageID++
	return ret
}

// DeallocatePage is a no-op placeholder: reclaiming disk space for a
// deallocated page id would need a free-space map, which is out of scope
// for this core.
func (d *DiskManagerImpl) DeallocatePage(types.PageID) {}

// GetNumWrites returns the number of successful WritePage calls.
func (d *DiskManagerImpl) GetNumWrites() uint64 {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	return d.numWrites
}

// Size returns the size in bytes of the database file.
func (d *DiskManagerImpl) Size() int64 {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	return d.size
}

// RemoveDBFile removes the database file. Only valid after ShutDown.
func (d *DiskManagerImpl) RemoveDBFile() {
	if err := os.Remove(d.fileName); err != nil {
		common.Logger.Errorw("db file remove failed", "file", d.fileName, "err", err)
	}
}
