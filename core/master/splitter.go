package master

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pyropy/chunkmaster/core/model"
	"go.uber.org/zap"
)

// Splitter cuts a source file into fixed size chunks.
type Splitter struct {
	chunkSize int
	log       *zap.SugaredLogger
}

func NewSplitter(chunkSize int, log *zap.SugaredLogger) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}

	return &Splitter{
		chunkSize: chunkSize,
		log:       log,
	}, nil
}

// Split reads sourcePath sequentially, records every chunk in index under the
// file's base name and then sends it on stream. Once the source is open any
// sequence already recorded under that name is replaced. The stream is closed
// when Split returns. Chunks recorded before an error are left in the index.
func (s *Splitter) Split(ctx context.Context, sourcePath string, index *FileChunkIndex, stream *ChunkStream) error {
	defer stream.Close()

	f, err := os.Open(sourcePath)
	if err != nil {
		return openError(sourcePath, err)
	}
	defer f.Close()

	fileName := filepath.Base(sourcePath)
	index.Reset(fileName)
	var offset int64

	for chunkIndex := 0; ; chunkIndex++ {
		if err := ctx.Err(); err != nil {
			s.log.Warnw("split", "status", "cancelled", "file", fileName, "chunks", chunkIndex)
			return err
		}

		buf := make([]byte, s.chunkSize)
		n, err := io.ReadFull(f, buf)
		if n == 0 && errors.Is(err, io.EOF) {
			break
		}

		lastChunk := errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !lastChunk {
			return readError(sourcePath, offset, err)
		}

		data := buf
		if n < len(buf) {
			// release the full size buffer behind a short tail
			data = make([]byte, n)
			copy(data, buf[:n])
		}

		chunk := model.NewChunk(model.NewChunkID(), chunkIndex, fileName, data)

		// recorded before it becomes visible downstream
		index.Record(fileName, chunk.ID)

		if err := stream.Send(ctx, chunk); err != nil {
			return err
		}

		s.log.Debugw("split", "file", fileName, "chunkID", chunk.ID, "index", chunkIndex, "size", n)
		offset += int64(n)

		if lastChunk {
			break
		}
	}

	s.log.Infow("split", "status", "done", "file", fileName, "bytes", humanize.IBytes(uint64(offset)))
	return nil
}
