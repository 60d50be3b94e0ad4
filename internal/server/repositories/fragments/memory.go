package fragments

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/blobhost/internal/server/models"
)

// MemoryRepository keeps fragments in process. A positive limit rejects
// fragments whose data plus models.FragmentOverhead would exceed it.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]map[int][]byte
	limit int64
}

func NewMemoryRepository(limit int64) *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]map[int][]byte), limit: limit}
}

// InsertMany validates every fragment before storing any of them.
func (r *MemoryRepository) InsertMany(ctx context.Context, fs []*models.Fragment) error {
	if r.limit > 0 {
		for _, f := range fs {
			if int64(len(f.Data))+models.FragmentOverhead > r.limit {
				return fmt.Errorf("%w: fragment %d of %q is %d bytes", ErrDocumentTooLarge, f.Index, f.ParentID, len(f.Data))
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range fs {
		m, ok := r.byID[f.ParentID]
		if !ok {
			m = make(map[int][]byte)
			r.byID[f.ParentID] = m
		}
		m[f.Index] = bytes.Clone(f.Data)
	}
	return nil
}

func (r *MemoryRepository) ListByParent(ctx context.Context, parentID string) ([]*models.Fragment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m := r.byID[parentID]
	res := make([]*models.Fragment, 0, len(m))
	for idx, data := range m {
		res = append(res, &models.Fragment{ParentID: parentID, Index: idx, Data: bytes.Clone(data)})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Index < res[j].Index })
	return res, nil
}

func (r *MemoryRepository) DeleteByParent(ctx context.Context, parentID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.byID[parentID]))
	delete(r.byID, parentID)
	return n, nil
}
