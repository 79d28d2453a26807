// this code is adapted from https://github.com/ryogrid/sametree
// (lib/storage/disk/virtual_disk_manager_impl.go), which is itself derived
// from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/sametree dir

package disk

import (
	"errors"
	"sync"

	"github.com/dsnet/golib/memfile"
	"github.com/ryogrid/pagepool/common"
	"github.com/ryogrid/pagepool/types"
)

// virtualDiskManager is a DiskManager backed by an in-memory memfile.File
// instead of a real OS file. Used by the buffer pool tests so the
// buffer pool's behavior can be exercised without touching the
// filesystem.
type virtualDiskManager struct {
	db          *memfile.File
	nextPageID  types.PageID
	numWrites   uint64
	size        int64
	dbFileMutex sync.Mutex
}

// NewDiskManagerTest returns a DiskManager instance for testing purposes.
func NewDiskManagerTest() DiskManager {
	return &virtualDiskManager{db: memfile.New(make([]byte, 0))}
}

func (d *virtualDiskManager) ShutDown() {}

func (d *virtualDiskManager) WritePage(pageID types.PageID, pageData []byte) error {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	offset := int64(pageID) * int64(common.PageSize)
	written, err := d.db.WriteAt(pageData, offset)
	if err != nil {
		return err
	}
	if offset+int64(written) > d.size {
		d.size = offset + int64(written)
	}
	d.numWrites++
	return nil
}

func (d *virtualDiskManager) ReadPage(pageID types.PageID, pageData []byte) error {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	offset := int64(pageID) * int64(common.PageSize)
	if offset >= d.size {
		return errors.New("I/O error: read past end of file")
	}

	_, err := d.db.ReadAt(pageData, offset)
	return err
}

func (d *virtualDiskManager) AllocatePage() types.PageID {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	ret := d.nextPageID
	d.nextPageID++
	return ret
}

func (d *virtualDiskManager) DeallocatePage(types.PageID) {}

func (d *virtualDiskManager) GetNumWrites() uint64 {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	return d.numWrites
}

func (d *virtualDiskManager) Size() int64 {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	return d.size
}

func (d *virtualDiskManager) RemoveDBFile() {}
