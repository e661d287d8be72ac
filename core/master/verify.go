package master

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrVerifyMismatch = errors.New("staged chunks do not match source file")

// VerifyStaged checks that the chunks staged for sourcePath, taken in index
// order, add up to the source file byte for byte.
func VerifyStaged(ctx context.Context, index *FileChunkIndex, staging *StagingSink, sourcePath string) error {
	f, err := os.Open(sourcePath)
	if err != nil {
		return openError(sourcePath, err)
	}
	defer f.Close()

	fileName := filepath.Base(sourcePath)
	chunkIDs, _ := index.Lookup(fileName)

	var offset int64
	for _, id := range chunkIDs {
		data, err := staging.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("chunk %s of %s: %w", id, fileName, err)
		}

		want := make([]byte, len(data))
		if _, err := io.ReadFull(f, want); err != nil {
			return fmt.Errorf("%w: source shorter than chunks at offset %d", ErrVerifyMismatch, offset)
		}

		if !bytes.Equal(want, data) {
			return fmt.Errorf("%w: chunk %s at offset %d", ErrVerifyMismatch, id, offset)
		}

		offset += int64(len(data))
	}

	n, err := f.Read(make([]byte, 1))
	if n > 0 {
		return fmt.Errorf("%w: source longer than chunks (%d bytes staged)", ErrVerifyMismatch, offset)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return readError(sourcePath, offset, err)
	}

	return nil
}
