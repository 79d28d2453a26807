// this code is adapted from https://github.com/ryogrid/SamehadaDB
// there is license and copyright notice in licenses/samehadaDB dir

package common

// InvalidLSN marks a log sequence number that does not refer to any record.
const InvalidLSN = -1

// PageSize is the size of a page/frame in bytes.
const PageSize = 4096

// LogBufferSizeBase is the number of page-sized units backing the log manager's
// double buffer.
const LogBufferSizeBase = 128

// LogBufferSize is the size in bytes of one of the log manager's two buffers.
const LogBufferSize = (LogBufferSizeBase + 1) * PageSize

// Config bundles the construction-time parameters assigned to the buffer
// pool: pool size, LRU-K's K, and the extendible hash index's bucket
// capacity. All three must be positive.
type Config struct {
	PoolSize   uint32
	ReplacerK  int
	BucketSize int
}
