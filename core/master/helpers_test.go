package master

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pyropy/chunkmaster/core/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testLogger(t *testing.T) *zap.SugaredLogger {
	return zaptest.NewLogger(t).Sugar()
}

// writeTestFile creates a file of size random bytes and returns its path and content.
func writeTestFile(t *testing.T, name string, size int) (string, []byte) {
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))

	return path, data
}

func testConfig(chunkSize string, capacity int) *Config {
	cfg := &Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Chunk.Size = chunkSize
	cfg.Stream.Capacity = capacity
	return cfg
}

// recordingSink keeps every placed chunk in arrival order.
type recordingSink struct {
	mu     sync.Mutex
	chunks []model.Chunk
}

func (r *recordingSink) Place(_ context.Context, chunk model.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chunks = append(r.chunks, chunk)
	return nil
}

func (r *recordingSink) ids() []model.ChunkID {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]model.ChunkID, 0, len(r.chunks))
	for _, c := range r.chunks {
		ids = append(ids, c.ID)
	}

	return ids
}

func (r *recordingSink) bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []byte
	for _, c := range r.chunks {
		out = append(out, c.Data...)
	}

	return out
}

// collect drains a stream into a slice.
func collect(stream *ChunkStream) []model.Chunk {
	var chunks []model.Chunk
	for c := range stream.Chunks() {
		chunks = append(chunks, c)
	}

	return chunks
}
