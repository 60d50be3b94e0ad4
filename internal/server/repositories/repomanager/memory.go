package repomanager

import (
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/fragments"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/headers"
)

// MemoryRepositoryManager holds everything in process memory. Data is lost
// on restart.
type MemoryRepositoryManager struct {
	headers   *headers.MemoryRepository
	fragments *fragments.MemoryRepository
}

var _ RepositoryManager = (*MemoryRepositoryManager)(nil)

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		headers:   headers.NewMemoryRepository(),
		fragments: fragments.NewMemoryRepository(documentLimits[BackendMemory]),
	}
}

func (m *MemoryRepositoryManager) Headers() headers.Repository     { return m.headers }
func (m *MemoryRepositoryManager) Fragments() fragments.Repository { return m.fragments }
func (m *MemoryRepositoryManager) MaxDocumentSize() int64          { return documentLimits[BackendMemory] }
func (m *MemoryRepositoryManager) Close() error                    { return nil }
