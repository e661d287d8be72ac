package main

import (
	"context"
	"crypto/rand"
	"net/rpc"
	"os"
	"path/filepath"
	"testing"

	core "github.com/pyropy/chunkmaster/core/master"
	rpcMaster "github.com/pyropy/chunkmaster/rpc/master"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func startMaster(t *testing.T) (*core.Master, *rpc.Client) {
	cfg := &core.Config{}
	cfg.Chunk.Size = "128B"
	cfg.Stream.Capacity = 2

	m, err := core.NewMaster(cfg, core.NewStagingSink(), core.WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)

	server, err := NewRPCServer(NewMasterAPI(m))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	addr, err := m.Listen(ctx, "127.0.0.1:0", server)
	require.NoError(t, err)

	client, err := rpc.DialHTTP("tcp", addr.String())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return m, client
}

func TestAPIRegisterChunkServer(t *testing.T) {
	_, client := startMaster(t)

	var first, again rpcMaster.RegisterReply
	require.NoError(t, client.Call("MasterAPI.RegisterChunkServer", &rpcMaster.RegisterArgs{Address: "127.0.0.1:7001"}, &first))
	require.NoError(t, client.Call("MasterAPI.RegisterChunkServer", &rpcMaster.RegisterArgs{Address: "127.0.0.1:7001"}, &again))
	assert.Equal(t, first.ID, again.ID)

	var list rpcMaster.ListChunkServersReply
	require.NoError(t, client.Call("MasterAPI.ListChunkServers", &rpcMaster.ListChunkServersArgs{}, &list))
	require.Len(t, list.ChunkServers, 1)
	assert.Equal(t, first.ID, list.ChunkServers[0].ID)

	var dereg rpcMaster.DeregisterReply
	require.NoError(t, client.Call("MasterAPI.DeregisterChunkServer", &rpcMaster.DeregisterArgs{Address: "127.0.0.1:7001"}, &dereg))
	assert.True(t, dereg.Found)

	list = rpcMaster.ListChunkServersReply{}
	require.NoError(t, client.Call("MasterAPI.ListChunkServers", &rpcMaster.ListChunkServersArgs{}, &list))
	assert.Empty(t, list.ChunkServers)
}

func TestAPILookupFile(t *testing.T) {
	m, client := startMaster(t)

	data := make([]byte, 300)
	_, err := rand.Read(data)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "image.iso")
	require.NoError(t, os.WriteFile(path, data, 0644))
	require.NoError(t, m.Run(context.Background(), path))

	var reply rpcMaster.LookupFileReply
	require.NoError(t, client.Call("MasterAPI.LookupFile", &rpcMaster.LookupFileArgs{Path: "image.iso"}, &reply))
	require.True(t, reply.Found)

	want, _ := m.Lookup("image.iso")
	assert.Equal(t, want, reply.Chunks)
	assert.Len(t, reply.Chunks, 3)

	var missing rpcMaster.LookupFileReply
	require.NoError(t, client.Call("MasterAPI.LookupFile", &rpcMaster.LookupFileArgs{Path: "other.iso"}, &missing))
	assert.False(t, missing.Found)
	assert.Empty(t, missing.Chunks)

	var files rpcMaster.ListFilesReply
	require.NoError(t, client.Call("MasterAPI.ListFiles", &rpcMaster.ListFilesArgs{}, &files))
	require.Len(t, files.Files, 1)
	assert.Equal(t, "image.iso", files.Files[0].Path)
	assert.Equal(t, want, files.Files[0].Chunks)
}

func TestAPIListFilters(t *testing.T) {
	m, client := startMaster(t)

	for _, name := range []string{"a.bin", "b.bin"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte("payload"), 0644))
		require.NoError(t, m.Run(context.Background(), path))
	}

	var files rpcMaster.ListFilesReply
	require.NoError(t, client.Call("MasterAPI.ListFiles", &rpcMaster.ListFilesArgs{Prefix: "b"}, &files))
	require.Len(t, files.Files, 1)
	assert.Equal(t, "b.bin", files.Files[0].Path)

	for _, addr := range []string{"127.0.0.1:7001", "127.0.0.1:7002"} {
		var reply rpcMaster.RegisterReply
		require.NoError(t, client.Call("MasterAPI.RegisterChunkServer", &rpcMaster.RegisterArgs{Address: addr}, &reply))
	}

	var list rpcMaster.ListChunkServersReply
	require.NoError(t, client.Call("MasterAPI.ListChunkServers", &rpcMaster.ListChunkServersArgs{Limit: 1}, &list))
	assert.Len(t, list.ChunkServers, 1)
}
