package chunkhash

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strconv"
)

// Chunk describes a single hashed chunk of a stream.
type Chunk struct {
	// Index is a zero-based position of a chunk in the stream.
	Index int64
	// Size is a number of bytes actually read into a chunk.
	Size int64
	// Hash is a digest of the whole chunk buffer.
	Hash []byte
}

// String returns chunk in the "index/size/hex" form.
func (c Chunk) String() string {
	buf := make([]byte, 0, 42+hex.EncodedLen(len(c.Hash)))
	buf = strconv.AppendInt(buf, c.Index, 10)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, c.Size, 10)
	buf = append(buf, '/')
	buf = hex.AppendEncode(buf, c.Hash)

	return string(buf)
}

// Equal returns true iff both chunks have the same index, size and hash.
func (c Chunk) Equal(other Chunk) bool {
	return c.Index == other.Index &&
		c.Size == other.Size &&
		bytes.Equal(c.Hash, other.Hash)
}

var (
	// ErrInvalidArgument is returned when an iterator can't be constructed
	// from the provided parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownHasher is returned when no hasher is registered under a name.
	ErrUnknownHasher = errors.New("unknown hasher")
)

const (
	KiB = 1024
	MiB = 1024 * 1024
)
