package master

import (
	"sort"
	"sync"

	"github.com/pyropy/chunkmaster/core/model"
)

// FileChunkIndex maps a file name to the IDs of its chunks in the order they
// were cut from the file. Each ingestion of a name replaces the sequence left
// by the previous one; within an ingestion the sequence is append only.
type FileChunkIndex struct {
	mu    sync.RWMutex
	files map[model.FilePath][]model.ChunkID
}

func NewFileChunkIndex() *FileChunkIndex {
	return &FileChunkIndex{
		files: map[model.FilePath][]model.ChunkID{},
	}
}

// Record appends chunkID to the sequence of fileName, creating it if needed.
func (i *FileChunkIndex) Record(fileName model.FilePath, chunkID model.ChunkID) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.files[fileName] = append(i.files[fileName], chunkID)
}

// Reset drops the sequence recorded for fileName so a new ingestion starts
// from an empty entry.
func (i *FileChunkIndex) Reset(fileName model.FilePath) {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.files, fileName)
}

// Lookup returns a copy of the chunk sequence for fileName. A file that never
// had a chunk recorded, including an empty file, is reported as absent.
func (i *FileChunkIndex) Lookup(fileName model.FilePath) ([]model.ChunkID, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	chunks, exists := i.files[fileName]
	if !exists {
		return nil, false
	}

	return append([]model.ChunkID(nil), chunks...), true
}

// Files returns every indexed file sorted by name.
func (i *FileChunkIndex) Files() []model.FileMetadata {
	i.mu.RLock()
	files := make([]model.FileMetadata, 0, len(i.files))
	for path, chunks := range i.files {
		files = append(files, model.NewFileMetadata(path, append([]model.ChunkID(nil), chunks...)))
	}
	i.mu.RUnlock()

	sort.Slice(files, func(a, b int) bool {
		return files[a].Path < files[b].Path
	})

	return files
}
