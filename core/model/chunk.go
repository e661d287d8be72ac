package model

import (
	"github.com/google/uuid"
	"github.com/pyropy/chunkmaster/lib/checksum"
)

// ChunkID is an opaque random 128-bit token. IDs carry no ordering; uniqueness
// is assumed from the size of the space and never checked.
type ChunkID = uuid.UUID

func NewChunkID() ChunkID {
	return uuid.New()
}

// Chunk is one contiguous slice of a source file. It is never mutated after
// NewChunk returns.
type Chunk struct {
	ID       ChunkID
	Index    int      // position within the source file
	FilePath FilePath // file the chunk was cut from
	Data     []byte
	Checksum uint32
}

func NewChunk(id ChunkID, index int, filePath FilePath, data []byte) Chunk {
	return Chunk{
		ID:       id,
		Index:    index,
		FilePath: filePath,
		Data:     data,
		Checksum: checksum.Sum(data),
	}
}

func (c Chunk) Size() int {
	return len(c.Data)
}
