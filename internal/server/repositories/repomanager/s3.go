package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blobhost/internal/objstore"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/fragments"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/headers"
)

// S3Options configures OpenS3.
type S3Options struct {
	objstore.Options
	Bucket string
	// Concurrency bounds parallel fragment transfers.
	Concurrency int
}

// S3RepositoryManager stores headers and fragments as objects in one bucket.
type S3RepositoryManager struct {
	api         objstore.API
	bucket      string
	concurrency int
}

var _ RepositoryManager = (*S3RepositoryManager)(nil)

func NewS3RepositoryManager(api objstore.API, bucket string, concurrency int) *S3RepositoryManager {
	return &S3RepositoryManager{api: api, bucket: bucket, concurrency: concurrency}
}

func OpenS3(ctx context.Context, opts S3Options) (*S3RepositoryManager, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket required")
	}
	client, err := objstore.NewClient(ctx, opts.Options)
	if err != nil {
		return nil, fmt.Errorf("s3: %w", err)
	}
	return NewS3RepositoryManager(client, opts.Bucket, opts.Concurrency), nil
}

func (m *S3RepositoryManager) Headers() headers.Repository {
	return headers.NewS3Repository(m.api, m.bucket)
}

func (m *S3RepositoryManager) Fragments() fragments.Repository {
	return fragments.NewS3Repository(m.api, m.bucket, m.concurrency)
}

func (m *S3RepositoryManager) MaxDocumentSize() int64 {
	return documentLimits[BackendS3]
}

func (m *S3RepositoryManager) Close() error { return nil }
