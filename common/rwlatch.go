// this code is adapted from https://github.com/pzhzqt/goostub, via
// https://github.com/ryogrid/SamehadaDB
// there is license and copyright notice in licenses/goostub dir

package common

import "sync"

// ReaderWriterLatch guards a single frame's byte buffer for concurrent
// readers and writers, independent of whatever pool-wide latch protects
// the frame's metadata.
type ReaderWriterLatch interface {
	WLock()
	WUnlock()
	RLock()
	RUnlock()
}

type readerWriterLatch struct {
	mutex sync.RWMutex
}

// NewRWLatch returns a ReaderWriterLatch backed by sync.RWMutex.
func NewRWLatch() ReaderWriterLatch {
	return &readerWriterLatch{}
}

func (l *readerWriterLatch) WLock()   { l.mutex.Lock() }
func (l *readerWriterLatch) WUnlock() { l.mutex.Unlock() }
func (l *readerWriterLatch) RLock()   { l.mutex.RLock() }
func (l *readerWriterLatch) RUnlock() { l.mutex.RUnlock() }
