package headers

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
)

// MemoryRepository keeps headers in a map. Stored values are copies, so
// callers cannot mutate records after the fact.
type MemoryRepository struct {
	mu      sync.RWMutex
	headers map[string]models.Header
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{headers: make(map[string]models.Header)}
}

func (r *MemoryRepository) Create(ctx context.Context, h *models.Header) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.headers[h.ID]; ok {
		return common.ErrorIdentifierTaken
	}
	r.headers[h.ID] = *h
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Header, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.headers[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &h, nil
}

func (r *MemoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.headers[id]
	return ok, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.headers[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.headers, id)
	return nil
}
