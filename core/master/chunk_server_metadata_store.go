package master

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pyropy/chunkmaster/lib/cmap"
)

type ChunkServerMetadata struct {
	ID           uuid.UUID
	Address      string
	Active       bool
	RegisteredAt time.Time
}

// ChunkServerMetadataStore tracks chunkservers that registered over the
// master's listener. Registration is idempotent per address.
type ChunkServerMetadataStore struct {
	// mu serialises read-modify-write updates of a single entry
	mu           sync.Mutex
	ChunkServers *cmap.Map[string, ChunkServerMetadata]
}

func NewChunkServerMetadataStore() *ChunkServerMetadataStore {
	return &ChunkServerMetadataStore{
		ChunkServers: cmap.NewMap[string, ChunkServerMetadata](),
	}
}

// RegisterNewChunkServer returns the entry for addr, creating it if needed. A
// chunkserver that comes back after MarkInactive keeps its ID and is active again.
func (m *ChunkServerMetadataStore) RegisterNewChunkServer(addr string) *ChunkServerMetadata {
	m.mu.Lock()
	defer m.mu.Unlock()

	chunkServerMetadata := ChunkServerMetadata{ID: uuid.New(), Address: addr, Active: true, RegisteredAt: time.Now()}
	registered, stored := m.ChunkServers.SetIfAbsent(addr, chunkServerMetadata)
	if !stored && !registered.Active {
		registered.Active = true
		m.ChunkServers.Set(addr, registered)
	}

	return &registered
}

func (m *ChunkServerMetadataStore) GetChunkServerMetadata(chunkServerID uuid.UUID) *ChunkServerMetadata {
	var found *ChunkServerMetadata
	m.ChunkServers.Range(func(_ string, cs ChunkServerMetadata) bool {
		if cs.ID == chunkServerID {
			found = &cs
			return false
		}

		return true
	})

	return found
}

func (m *ChunkServerMetadataStore) GetAllActiveChunkServers() []ChunkServerMetadata {
	chunkServerList := make([]ChunkServerMetadata, 0)
	m.ChunkServers.Range(func(_ string, cs ChunkServerMetadata) bool {
		if !cs.Active {
			return true
		}

		chunkServerList = append(chunkServerList, cs)
		return true
	})

	sort.Slice(chunkServerList, func(a, b int) bool {
		return chunkServerList[a].RegisteredAt.Before(chunkServerList[b].RegisteredAt)
	})

	return chunkServerList
}

// MarkInactive flags the chunkserver at addr as gone. It reports false for unknown addresses.
func (m *ChunkServerMetadataStore) MarkInactive(addr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	chunkServer, exists := m.ChunkServers.Get(addr)
	if !exists {
		return false
	}

	chunkServer.Active = false
	m.ChunkServers.Set(addr, *chunkServer)

	return true
}
