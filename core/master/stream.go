package master

import (
	"context"
	"sync"

	"github.com/pyropy/chunkmaster/core/model"
)

// ChunkStream is the bounded FIFO between the splitter and the dispatcher.
// A full buffer blocks the producer until the consumer drains it, abandons the
// stream or the context ends.
type ChunkStream struct {
	chunks chan model.Chunk
	done   chan struct{}

	closeOnce   sync.Once
	abandonOnce sync.Once
}

func NewChunkStream(capacity int) *ChunkStream {
	return &ChunkStream{
		chunks: make(chan model.Chunk, capacity),
		done:   make(chan struct{}),
	}
}

// Send hands chunk to the consumer. Only the producer may call Send.
func (s *ChunkStream) Send(ctx context.Context, chunk model.Chunk) error {
	// an abandoned stream must fail even if there is room in the buffer
	select {
	case <-s.done:
		return ErrChannelClosed
	default:
	}

	select {
	case s.chunks <- chunk:
		return nil
	case <-s.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the end of production. Buffered chunks remain readable.
func (s *ChunkStream) Close() {
	s.closeOnce.Do(func() {
		close(s.chunks)
	})
}

func (s *ChunkStream) Chunks() <-chan model.Chunk {
	return s.chunks
}

// Abandon is called by the consumer when it stops reading before the producer is done.
func (s *ChunkStream) Abandon() {
	s.abandonOnce.Do(func() {
		close(s.done)
	})
}
