package master

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrSourceNotFound         = errors.New("source file not found")
	ErrSourcePermissionDenied = errors.New("source file permission denied")
	ErrSourceOpen             = errors.New("failed to open source file")
	ErrSourceRead             = errors.New("failed to read source file")
	ErrChannelClosed          = errors.New("chunk stream closed by consumer")
	ErrIngestionInProgress    = errors.New("ingestion already in progress")
	ErrInvalidChunkSize       = errors.New("chunk size must be positive")
	ErrInvalidStreamCapacity  = errors.New("stream capacity must not be negative")
)

// openError classifies a failed open of the source file.
func openError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrSourceNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrSourcePermissionDenied, path, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrSourceOpen, path, err)
	}
}

func readError(path string, offset int64, err error) error {
	return fmt.Errorf("%w: %s at offset %d: %w", ErrSourceRead, path, offset, err)
}
