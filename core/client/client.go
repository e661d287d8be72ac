package client

import (
	"net/rpc"

	"github.com/google/uuid"
	"github.com/pyropy/chunkmaster/core/model"
	"github.com/pyropy/chunkmaster/lib/logger"
	"github.com/pyropy/chunkmaster/rpc/master"
)

var log, _ = logger.New("client")

// Client talks to a master over its chunkserver listener.
type Client struct {
	RpcClient *rpc.Client
}

func NewClient(masterAddr string) (*Client, error) {
	rpcClient, err := rpc.DialHTTP("tcp", masterAddr)
	if err != nil {
		return nil, err
	}

	return &Client{
		RpcClient: rpcClient,
	}, nil
}

func (c *Client) Close() error {
	return c.RpcClient.Close()
}

func method(name string) string {
	return master.ServiceName + "." + name
}

// RegisterChunkServer announces a chunkserver listening on addr and returns its ID.
func (c *Client) RegisterChunkServer(addr string) (uuid.UUID, error) {
	var reply master.RegisterReply
	args := &master.RegisterArgs{Address: addr}

	err := c.RpcClient.Call(method("RegisterChunkServer"), args, &reply)
	if err != nil {
		return uuid.Nil, err
	}

	log.Infow("register", "address", addr, "id", reply.ID)
	return reply.ID, nil
}

func (c *Client) DeregisterChunkServer(addr string) (bool, error) {
	var reply master.DeregisterReply
	err := c.RpcClient.Call(method("DeregisterChunkServer"), &master.DeregisterArgs{Address: addr}, &reply)
	if err != nil {
		return false, err
	}

	return reply.Found, nil
}

// LookupFile returns the ordered chunk IDs of path, or false if the master never recorded it.
func (c *Client) LookupFile(path string) ([]model.ChunkID, bool, error) {
	var reply master.LookupFileReply
	err := c.RpcClient.Call(method("LookupFile"), &master.LookupFileArgs{Path: path}, &reply)
	if err != nil {
		return nil, false, err
	}

	return reply.Chunks, reply.Found, nil
}

// ListFiles returns every indexed file whose name starts with prefix.
func (c *Client) ListFiles(prefix string) ([]model.FileMetadata, error) {
	var reply master.ListFilesReply
	err := c.RpcClient.Call(method("ListFiles"), &master.ListFilesArgs{Prefix: prefix}, &reply)
	if err != nil {
		return nil, err
	}

	files := make([]model.FileMetadata, 0, len(reply.Files))
	for _, f := range reply.Files {
		files = append(files, model.NewFileMetadata(f.Path, f.Chunks))
	}

	return files, nil
}
