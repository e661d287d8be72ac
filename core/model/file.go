package model

type FilePath = string

type FileMetadata struct {
	Path   FilePath
	Chunks []ChunkID
}

func NewFileMetadata(path FilePath, chunks []ChunkID) FileMetadata {
	return FileMetadata{
		Path:   path,
		Chunks: chunks,
	}
}
