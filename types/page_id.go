// this code is adapted from https://github.com/brunocalza/go-bustub, via
// https://github.com/ryogrid/SamehadaDB
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"bytes"
	"encoding/binary"
)

// PageID identifies a page. It is allocated monotonically by the buffer
// pool through the disk manager and is stable for the page's lifetime.
type PageID int32

// InvalidPageID is the distinguished SENTINEL value meaning "no page".
const InvalidPageID = PageID(-1)

// IsValid reports whether id refers to an actual page.
func (id PageID) IsValid() bool {
	return id != InvalidPageID
}

// Serialize returns the little-endian byte encoding of id.
func (id PageID) Serialize() []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, id)
	return buf.Bytes()
}

// NewPageIDFromBytes decodes a PageID from its little-endian byte encoding.
func NewPageIDFromBytes(data []byte) (ret PageID) {
	_ = binary.Read(bytes.NewReader(data), binary.LittleEndian, &ret)
	return ret
}
