package master

import (
	"fmt"
	"net"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/kelseyhightower/envconfig"
	"github.com/pyropy/chunkmaster/core/constants"
)

const envPrefix = "MASTER"

// Config is read from MASTER_* environment variables, e.g. MASTER_SERVER_PORT
// or MASTER_CHUNK_SIZE=64MiB.
type Config struct {
	Server struct {
		Host string `default:"127.0.0.1"`
		Port int    `default:"6000"`
	}
	Chunk struct {
		Size string `default:"64MiB"`
	}
	Stream struct {
		Capacity int `default:"2"`
	}
	Source struct {
		Path string
	}
}

func GetConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process(envPrefix, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ChunkSizeBytes parses the human readable chunk size ("64MiB", "1 KB", "4096").
func (c *Config) ChunkSizeBytes() (int, error) {
	if c.Chunk.Size == "" {
		return constants.CHUNK_SIZE_BYTES, nil
	}

	size, err := humanize.ParseBytes(c.Chunk.Size)
	if err != nil {
		return 0, fmt.Errorf("invalid chunk size %q: %w", c.Chunk.Size, err)
	}

	if size == 0 || size > uint64(maxInt) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChunkSize, c.Chunk.Size)
	}

	return int(size), nil
}

const maxInt = int(^uint(0) >> 1)
