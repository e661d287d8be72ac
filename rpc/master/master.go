package master

import (
	"time"

	"github.com/google/uuid"
)

const ServiceName = "MasterAPI"

type Master interface {
	// RegisterChunkServer ...
	RegisterChunkServer(args *RegisterArgs, reply *RegisterReply) error
	// DeregisterChunkServer ...
	DeregisterChunkServer(args *DeregisterArgs, reply *DeregisterReply) error
	// LookupFile ...
	LookupFile(args *LookupFileArgs, reply *LookupFileReply) error
	// ListFiles ...
	ListFiles(args *ListFilesArgs, reply *ListFilesReply) error
	// ListChunkServers ...
	ListChunkServers(args *ListChunkServersArgs, reply *ListChunkServersReply) error
}

type RegisterArgs struct {
	Address string
}

type RegisterReply struct {
	ID uuid.UUID
}

type DeregisterArgs struct {
	Address string
}

type DeregisterReply struct {
	Found bool
}

type LookupFileArgs struct {
	Path string
}

type LookupFileReply struct {
	Found  bool
	Chunks []uuid.UUID
}

type ListFilesArgs struct {
	// Prefix limits the reply to file names starting with it; empty lists all.
	Prefix string
}

type File struct {
	Path   string
	Chunks []uuid.UUID
}

type ListFilesReply struct {
	Files []File
}

type ListChunkServersArgs struct {
	// Limit caps the number of chunkservers returned; 0 means no limit.
	Limit int
}

type ChunkServer struct {
	ID           uuid.UUID
	Address      string
	RegisteredAt time.Time
}

type ListChunkServersReply struct {
	ChunkServers []ChunkServer
}
