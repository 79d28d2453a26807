// this code is adapted from https://github.com/ryogrid/SamehadaDB
// (lib/recovery/log_manager.go), trimmed of the tuple-bound WAL record
// kinds tied to the table heap / transaction subsystems, which are out of
// scope for this core.
// there is license and copyright notice in licenses/samehadaDB dir

// Package recovery holds the log manager the buffer pool is constructed
// with. The buffer pool keeps only an opaque reference to it: durability
// and crash recovery are out of scope for the core, and no buffer pool
// operation invokes the log manager beyond holding it.
package recovery

import (
	"sync"

	"github.com/ryogrid/pagepool/common"
	"github.com/ryogrid/pagepool/types"
)

// LogRecord is a single opaque entry appended to the log buffer.
type LogRecord struct {
	LSN     types.LSN
	Payload []byte
}

// LogManager owns a double buffer of pending log bytes. It is never
// invoked by the buffer pool in this core; it exists as a real, testable
// collaborator that a durability layer built on top of this core would
// drive.
type LogManager struct {
	mu            sync.Mutex
	nextLSN       types.LSN
	persistentLSN types.LSN
	logBuffer     []byte
	flushBuffer   []byte
	offset        uint32
	enableLogging bool
}

// NewLogManager returns a LogManager with logging enabled.
func NewLogManager() *LogManager {
	return &LogManager{
		nextLSN:       0,
		persistentLSN: types.LSN(common.InvalidLSN),
		logBuffer:     make([]byte, common.LogBufferSize),
		flushBuffer:   make([]byte, common.LogBufferSize),
		enableLogging: true,
	}
}

// EnableLogging turns log appends back on after a DisableLogging call.
func (lm *LogManager) EnableLogging() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.enableLogging = true
}

// DisableLogging suppresses AppendLogRecord and Flush, for callers doing
// a bulk load that doesn't need to be logged.
func (lm *LogManager) DisableLogging() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.enableLogging = false
}

// IsLoggingEnabled reports whether AppendLogRecord and Flush are active.
func (lm *LogManager) IsLoggingEnabled() bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.enableLogging
}

// GetNextLSN returns the next log sequence number to be assigned.
func (lm *LogManager) GetNextLSN() types.LSN {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.nextLSN
}

// GetPersistentLSN returns the highest LSN known to be durable.
func (lm *LogManager) GetPersistentLSN() types.LSN {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.persistentLSN
}

// AppendLogRecord copies record's payload into the log buffer, assigning
// it the next LSN, and returns that LSN. Swaps to the flush buffer and
// resets the offset if the record does not fit. A no-op returning
// InvalidLSN while logging is disabled.
func (lm *LogManager) AppendLogRecord(record *LogRecord) types.LSN {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if !lm.enableLogging {
		return types.LSN(common.InvalidLSN)
	}

	if int(lm.offset)+len(record.Payload) > len(lm.logBuffer) {
		lm.logBuffer, lm.flushBuffer = lm.flushBuffer, lm.logBuffer
		lm.offset = 0
	}

	record.LSN = lm.nextLSN
	lm.nextLSN++
	lm.offset += uint32(copy(lm.logBuffer[lm.offset:], record.Payload))
	return record.LSN
}

// Flush advances the persistent LSN to the last assigned LSN and resets
// the buffer offset. A no-op while logging is disabled. This core's
// DiskManager exposes no log file, so a durability layer built on this
// core would extend Flush to write logBuffer out before advancing
// persistentLSN.
func (lm *LogManager) Flush() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if !lm.enableLogging {
		return
	}
	lm.persistentLSN = lm.nextLSN - 1
	lm.offset = 0
}
