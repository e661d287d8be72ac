package master

import (
	"context"
	"fmt"
	"io"
	"sync"

	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/pyropy/chunkmaster/core/model"
)

// StdoutSink reports each chunk by writing its ID on its own line.
type StdoutSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStdoutSink(w io.Writer) *StdoutSink {
	return &StdoutSink{w: w}
}

func (s *StdoutSink) Place(_ context.Context, chunk model.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintln(s.w, chunk.ID)
	return err
}

// StagingSink keeps chunk payloads in an in-memory datastore keyed by chunk ID.
// It stands in for a chunkserver when none is attached.
type StagingSink struct {
	store ds.Datastore
}

func NewStagingSink() *StagingSink {
	return &StagingSink{
		store: dssync.MutexWrap(ds.NewMapDatastore()),
	}
}

func chunkKey(id model.ChunkID) ds.Key {
	return ds.NewKey("chunks").ChildString(id.String())
}

func (s *StagingSink) Place(ctx context.Context, chunk model.Chunk) error {
	return s.store.Put(ctx, chunkKey(chunk.ID), chunk.Data)
}

// Get returns the staged payload of a chunk, or ds.ErrNotFound.
func (s *StagingSink) Get(ctx context.Context, id model.ChunkID) ([]byte, error) {
	return s.store.Get(ctx, chunkKey(id))
}

func (s *StagingSink) Has(ctx context.Context, id model.ChunkID) (bool, error) {
	return s.store.Has(ctx, chunkKey(id))
}

// MultiSink places every chunk on each sink in turn and stops at the first error.
type MultiSink []Sink

func (m MultiSink) Place(ctx context.Context, chunk model.Chunk) error {
	for _, s := range m {
		if err := s.Place(ctx, chunk); err != nil {
			return err
		}
	}

	return nil
}
