// Package headers stores object headers, one document per public id.
//
// Every backend enforces id uniqueness itself: Create returns
// common.ErrorIdentifierTaken when a header with the same id exists.
package headers

import (
	"context"

	"github.com/dmitrijs2005/blobhost/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, h *models.Header) error
	Get(ctx context.Context, id string) (*models.Header, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
