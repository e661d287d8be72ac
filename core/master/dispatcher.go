package master

import (
	"context"
	"fmt"

	"github.com/pyropy/chunkmaster/core/model"
	"go.uber.org/zap"
)

// Sink receives chunks from the dispatcher. Placing chunks on chunkservers
// is a Sink.
type Sink interface {
	Place(ctx context.Context, chunk model.Chunk) error
}

// Dispatcher drains a ChunkStream into a Sink in production order.
type Dispatcher struct {
	sink Sink
	log  *zap.SugaredLogger
}

func NewDispatcher(sink Sink, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		sink: sink,
		log:  log,
	}
}

// Drain consumes stream until the producer closes it. If the sink fails or ctx
// ends first the stream is abandoned so the producer stops.
func (d *Dispatcher) Drain(ctx context.Context, stream *ChunkStream) error {
	placed := 0

	for {
		select {
		case <-ctx.Done():
			stream.Abandon()
			return ctx.Err()
		case chunk, ok := <-stream.Chunks():
			if !ok {
				d.log.Infow("dispatch", "status", "drained", "chunks", placed)
				return nil
			}

			if err := d.sink.Place(ctx, chunk); err != nil {
				stream.Abandon()
				d.log.Errorw("dispatch", "status", "place failed", "chunkID", chunk.ID, "error", err)
				return fmt.Errorf("place chunk %s: %w", chunk.ID, err)
			}

			placed++
		}
	}
}
