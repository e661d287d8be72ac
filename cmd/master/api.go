package main

import (
	"net/rpc"
	"strings"

	core "github.com/pyropy/chunkmaster/core/master"
	rpcMaster "github.com/pyropy/chunkmaster/rpc/master"
)

var _ rpcMaster.Master = (*API)(nil)

type API struct {
	server *core.Master
}

func NewMasterAPI(master *core.Master) *API {
	return &API{
		server: master,
	}
}

// NewRPCServer returns a net/rpc server exposing api under rpcMaster.ServiceName.
// It can be passed straight to Master.Listen as the HTTP handler.
func NewRPCServer(api *API) (*rpc.Server, error) {
	server := rpc.NewServer()
	if err := server.RegisterName(rpcMaster.ServiceName, api); err != nil {
		return nil, err
	}

	return server, nil
}

func (a *API) RegisterChunkServer(args *rpcMaster.RegisterArgs, reply *rpcMaster.RegisterReply) error {
	log.Infow("rpc", "event", "RegisterChunkServer", "args", args)
	chunkServer := a.server.RegisterNewChunkServer(args.Address)
	reply.ID = chunkServer.ID

	log.Infow("rpc", "status", "registered chunk server", "id", chunkServer.ID, "address", chunkServer.Address)

	return nil
}

func (a *API) DeregisterChunkServer(args *rpcMaster.DeregisterArgs, reply *rpcMaster.DeregisterReply) error {
	log.Infow("rpc", "event", "DeregisterChunkServer", "args", args)
	reply.Found = a.server.MarkInactive(args.Address)
	return nil
}

func (a *API) LookupFile(args *rpcMaster.LookupFileArgs, reply *rpcMaster.LookupFileReply) error {
	log.Infow("rpc", "event", "LookupFile", "args", args)
	chunks, found := a.server.Lookup(args.Path)

	reply.Found = found
	reply.Chunks = chunks
	return nil
}

func (a *API) ListFiles(args *rpcMaster.ListFilesArgs, reply *rpcMaster.ListFilesReply) error {
	log.Infow("rpc", "event", "ListFiles", "args", args)
	for _, f := range a.server.Files() {
		if !strings.HasPrefix(f.Path, args.Prefix) {
			continue
		}
		reply.Files = append(reply.Files, rpcMaster.File{
			Path:   f.Path,
			Chunks: f.Chunks,
		})
	}

	return nil
}

func (a *API) ListChunkServers(args *rpcMaster.ListChunkServersArgs, reply *rpcMaster.ListChunkServersReply) error {
	log.Infow("rpc", "event", "ListChunkServers", "args", args)
	chunkServers := a.server.GetAllActiveChunkServers()
	if args.Limit > 0 && args.Limit < len(chunkServers) {
		chunkServers = chunkServers[:args.Limit]
	}

	for _, cs := range chunkServers {
		reply.ChunkServers = append(reply.ChunkServers, rpcMaster.ChunkServer{
			ID:           cs.ID,
			Address:      cs.Address,
			RegisteredAt: cs.RegisteredAt,
		})
	}

	return nil
}
