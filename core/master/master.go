package master

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/pyropy/chunkmaster/core/constants"
	"github.com/pyropy/chunkmaster/lib/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var log, _ = logger.New("master")

// Master owns the file chunk index and the chunkserver registry, and runs one
// ingestion at a time: a splitter producing chunks and a dispatcher draining
// them concurrently.
type Master struct {
	*FileChunkIndex
	*ChunkServerMetadataStore

	splitter       *Splitter
	dispatcher     *Dispatcher
	streamCapacity int
	log            *zap.SugaredLogger

	mu    sync.Mutex
	state IngestionState
}

type Option func(*Master)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Master) {
		m.log = l
	}
}

func NewMaster(cfg *Config, sink Sink, opts ...Option) (*Master, error) {
	chunkSize, err := cfg.ChunkSizeBytes()
	if err != nil {
		return nil, err
	}

	if cfg.Stream.Capacity < 0 {
		return nil, ErrInvalidStreamCapacity
	}

	m := &Master{
		FileChunkIndex:           NewFileChunkIndex(),
		ChunkServerMetadataStore: NewChunkServerMetadataStore(),
		streamCapacity:           cfg.Stream.Capacity,
		log:                      log,
		state:                    StateIdle,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.splitter, err = NewSplitter(chunkSize, m.log)
	if err != nil {
		return nil, err
	}
	m.dispatcher = NewDispatcher(sink, m.log)

	return m, nil
}

func (m *Master) Index() *FileChunkIndex {
	return m.FileChunkIndex
}

func (m *Master) State() IngestionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

func (m *Master) setState(s IngestionState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Debugw("ingest", "from", m.state.String(), "to", s.String())
	m.state = s
}

func (m *Master) begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.running() {
		return false
	}

	m.state = StateSplitting
	return true
}

// Run ingests sourcePath. The splitter and the dispatcher run concurrently and
// the first error from either aborts both. A failed Run leaves the chunks it
// already recorded in the index; callers should treat them as suspect.
func (m *Master) Run(ctx context.Context, sourcePath string) error {
	if !m.begin() {
		return ErrIngestionInProgress
	}

	m.log.Infow("ingest", "status", "started", "source", sourcePath)

	stream := NewChunkStream(m.streamCapacity)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := m.splitter.Split(gctx, sourcePath, m.FileChunkIndex, stream); err != nil {
			// the dispatcher only abandons the stream when it fails, and reports its own error
			if errors.Is(err, ErrChannelClosed) {
				return nil
			}
			return err
		}

		m.setState(StateDraining)
		return nil
	})

	g.Go(func() error {
		return m.dispatcher.Drain(gctx, stream)
	})

	if err := g.Wait(); err != nil {
		m.setState(StateFailed)
		m.log.Errorw("ingest", "status", "failed", "source", sourcePath, "error", err)
		return err
	}

	m.setState(StateDone)
	m.log.Infow("ingest", "status", "done", "source", sourcePath)
	return nil
}

// Listen binds addr for chunkserver connections and serves handler until ctx
// ends. Serving runs on its own goroutine and never blocks ingestion.
func (m *Master) Listen(ctx context.Context, addr string, handler http.Handler) (net.Addr, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		m.log.Errorw("startup", "error", "net listen failed", "address", addr)
		return nil, err
	}

	srv := newHTTPServer(handler)

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	go func() {
		m.log.Infow("startup", "status", "master listener started", "address", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Errorw("listener", "status", "serve failed", "error", err)
		}
		m.log.Infow("shutdown", "status", "master listener stopped", "address", l.Addr().String())
	}()

	return l.Addr(), nil
}

func newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: constants.READ_HEADER_TIMEOUT,
	}
}
