// Package fragments stores the ordered byte slices of each object.
//
// Fragments of one parent are independent documents. ListByParent returns
// them sorted by Index and never validates completeness; the blob service
// decides whether a set is usable.
package fragments

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/blobhost/internal/server/models"
)

// ErrDocumentTooLarge is returned by backends that enforce their document
// ceiling on write.
var ErrDocumentTooLarge = errors.New("fragment exceeds document size limit")

type Repository interface {
	InsertMany(ctx context.Context, fs []*models.Fragment) error
	ListByParent(ctx context.Context, parentID string) ([]*models.Fragment, error)
	DeleteByParent(ctx context.Context, parentID string) (int64, error)
}
