package master

import (
	"context"
	"testing"
	"time"

	"github.com/pyropy/chunkmaster/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkStreamFIFO(t *testing.T) {
	ctx := context.Background()
	stream := NewChunkStream(8)

	var want []model.ChunkID
	for i := 0; i < 8; i++ {
		c := model.NewChunk(model.NewChunkID(), i, "f", []byte{byte(i)})
		want = append(want, c.ID)
		require.NoError(t, stream.Send(ctx, c))
	}
	stream.Close()
	stream.Close()

	var got []model.ChunkID
	for _, c := range collect(stream) {
		got = append(got, c.ID)
	}
	assert.Equal(t, want, got)
}

func TestChunkStreamBlocksWhenFull(t *testing.T) {
	ctx := context.Background()
	stream := NewChunkStream(1)
	require.NoError(t, stream.Send(ctx, model.NewChunk(model.NewChunkID(), 0, "f", nil)))

	sent := make(chan error, 1)
	go func() {
		sent <- stream.Send(ctx, model.NewChunk(model.NewChunkID(), 1, "f", nil))
	}()

	select {
	case <-sent:
		t.Fatal("send on a full stream should block")
	case <-time.After(50 * time.Millisecond):
	}

	<-stream.Chunks()
	require.NoError(t, <-sent)
}

func TestChunkStreamAbandonReleasesProducer(t *testing.T) {
	ctx := context.Background()
	stream := NewChunkStream(0)

	sent := make(chan error, 1)
	go func() {
		sent <- stream.Send(ctx, model.NewChunk(model.NewChunkID(), 0, "f", nil))
	}()

	stream.Abandon()
	stream.Abandon()
	assert.ErrorIs(t, <-sent, ErrChannelClosed)

	// even with buffer space left an abandoned stream refuses chunks
	buffered := NewChunkStream(4)
	buffered.Abandon()
	assert.ErrorIs(t, buffered.Send(ctx, model.NewChunk(model.NewChunkID(), 0, "f", nil)), ErrChannelClosed)
}

func TestChunkStreamSendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream := NewChunkStream(0)
	cancel()

	err := stream.Send(ctx, model.NewChunk(model.NewChunkID(), 0, "f", nil))
	assert.ErrorIs(t, err, context.Canceled)
}
