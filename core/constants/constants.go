package constants

import "time"

const (
	// CHUNK_SIZE_BYTES is the fixed upper bound of a single chunk payload.
	CHUNK_SIZE_BYTES = 64 * 1024 * 1024

	DEFAULT_LISTEN_HOST = "127.0.0.1"
	DEFAULT_LISTEN_PORT = 6000

	// STREAM_CAPACITY is how many chunks may sit between the splitter and the dispatcher.
	STREAM_CAPACITY = 2

	READ_HEADER_TIMEOUT = 10 * time.Second
)
