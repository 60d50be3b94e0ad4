package repomanager

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/objstore/objstoretest"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/fragments"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLimit(t *testing.T) {
	n, err := DocumentLimit(BackendMemory)
	require.NoError(t, err)
	assert.Equal(t, int64(16<<20), n)

	_, err = DocumentLimit("mongo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"mongo"`)

	assert.Equal(t, []string{"bolt", "memory", "postgres", "redis", "s3"}, Backends())
}

func TestOpen_Memory(t *testing.T) {
	m, err := Open(context.Background(), Settings{Backend: BackendMemory})
	require.NoError(t, err)
	defer m.Close()

	_, transactional := m.(Transactor)
	assert.False(t, transactional)
	assert.Equal(t, int64(16<<20), m.MaxDocumentSize())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Settings{Backend: "floppy"})
	require.Error(t, err)
}

func TestOpen_Redis(t *testing.T) {
	s := miniredis.RunT(t)

	m, err := Open(context.Background(), Settings{
		Backend: BackendRedis,
		Redis:   RedisOptions{Addr: s.Addr(), Prefix: "t:"},
	})
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Headers().Create(context.Background(), &models.Header{ID: "abc"}))
	assert.True(t, s.Exists("t:header:abc"))
}

func TestOpen_RedisUnreachable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := Open(context.Background(), Settings{Backend: BackendRedis, Redis: RedisOptions{Addr: addr}})
	require.Error(t, err)
}

func TestOpen_S3RequiresBucket(t *testing.T) {
	_, err := Open(context.Background(), Settings{Backend: BackendS3})
	require.Error(t, err)
}

func TestS3Manager_UsesSharedBucket(t *testing.T) {
	fake := objstoretest.New()
	m := NewS3RepositoryManager(fake, "blobs", 2)

	require.NoError(t, m.Headers().Create(context.Background(), &models.Header{ID: "abc"}))
	require.NoError(t, m.Fragments().InsertMany(context.Background(), []*models.Fragment{{ParentID: "abc", Data: []byte("x")}}))
	assert.Equal(t, []string{"fragments/abc/00000000", "headers/abc"}, fake.Keys())
	assert.Equal(t, int64(5<<30), m.MaxDocumentSize())
}

func TestBoltManager_OpenCreatesDirAndBuckets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "blobhost.db")

	m, err := Open(context.Background(), Settings{Backend: BackendBolt, BoltPath: path})
	require.NoError(t, err)
	require.NoError(t, m.Headers().Create(context.Background(), &models.Header{ID: "abc"}))
	require.NoError(t, m.Close())

	// Reopen: data survives, buckets are not recreated.
	m, err = Open(context.Background(), Settings{Backend: BackendBolt, BoltPath: path})
	require.NoError(t, err)
	defer m.Close()

	ok, err := m.Headers().Exists(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBoltManager_WithTxIsAtomic(t *testing.T) {
	m, err := OpenBolt(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	defer m.Close()

	ctx := context.Background()
	err = m.WithTx(ctx, func(ctx context.Context, h headers.Repository, f fragments.Repository) error {
		if err := h.Create(ctx, &models.Header{ID: "abc"}); err != nil {
			return err
		}
		if err := f.InsertMany(ctx, []*models.Fragment{{ParentID: "abc", Data: []byte("x")}}); err != nil {
			return err
		}
		return errors.New("fragment phase failed")
	})
	require.EqualError(t, err, "fragment phase failed")

	_, err = m.Headers().Get(ctx, "abc")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	fs, err := m.Fragments().ListByParent(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, fs)
}
