package master

import (
	"os"
	"testing"

	"github.com/pyropy/chunkmaster/core/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDefaults(t *testing.T) {
	for _, k := range []string{"MASTER_SERVER_HOST", "MASTER_SERVER_PORT", "MASTER_CHUNK_SIZE", "MASTER_STREAM_CAPACITY", "MASTER_SOURCE_PATH"} {
		unsetenv(t, k)
	}

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6000", cfg.Addr())
	assert.Equal(t, constants.STREAM_CAPACITY, cfg.Stream.Capacity)
	assert.Empty(t, cfg.Source.Path)

	size, err := cfg.ChunkSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, constants.CHUNK_SIZE_BYTES, size)
}

func TestGetConfigFromEnv(t *testing.T) {
	t.Setenv("MASTER_SERVER_HOST", "0.0.0.0")
	t.Setenv("MASTER_SERVER_PORT", "7000")
	t.Setenv("MASTER_CHUNK_SIZE", "1 KiB")
	t.Setenv("MASTER_STREAM_CAPACITY", "8")
	t.Setenv("MASTER_SOURCE_PATH", "/data/image.iso")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:7000", cfg.Addr())
	assert.Equal(t, 8, cfg.Stream.Capacity)
	assert.Equal(t, "/data/image.iso", cfg.Source.Path)

	size, err := cfg.ChunkSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, 1024, size)
}

func TestGetConfigInvalidPort(t *testing.T) {
	t.Setenv("MASTER_SERVER_PORT", "not-a-port")

	_, err := GetConfig()
	assert.Error(t, err)
}

// unsetenv removes k for the duration of the test.
func unsetenv(t *testing.T, k string) {
	if v, ok := os.LookupEnv(k); ok {
		t.Setenv(k, v)
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestChunkSizeBytesEmptyUsesDefault(t *testing.T) {
	cfg := &Config{}

	size, err := cfg.ChunkSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, constants.CHUNK_SIZE_BYTES, size)
}
