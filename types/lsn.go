// this code is from https://github.com/brunocalza/go-bustub, via
// https://github.com/ryogrid/SamehadaDB
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"bytes"
	"encoding/binary"
)

// LSN is a log sequence number: an opaque, monotonically increasing
// identifier minted by the log manager. The core holds LSNs on pages but
// never interprets them.
type LSN int32

const SizeOfLSN = 4

// Serialize casts lsn to its little-endian byte encoding.
func (lsn LSN) Serialize() []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, lsn)
	return buf.Bytes()
}

// NewLSNFromBytes decodes an LSN from its little-endian byte encoding.
func NewLSNFromBytes(data []byte) (ret LSN) {
	_ = binary.Read(bytes.NewReader(data), binary.LittleEndian, &ret)
	return ret
}
