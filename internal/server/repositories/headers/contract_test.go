package headers

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/dbx"
	"github.com/dmitrijs2005/blobhost/internal/objstore/objstoretest"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func sampleHeader(id string) *models.Header {
	return &models.Header{
		ID:             id,
		DeleteKey:      "0123456789abcdefghijABCDEFGHIJkl",
		ContentType:    "image/png",
		FileExtension:  "png",
		ContentLength:  40,
		TotalFragments: 3,
		UploadedAt:     1700000000000,
	}
}

func newBoltRepo(t *testing.T) *BoltRepository {
	t.Helper()
	db, err := bbolt.Open(filepath.Join(t.TempDir(), "headers.db"), 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(BucketName)
		return err
	}))
	return NewBoltRepository(dbx.Bolt{DB: db})
}

func newRedisRepo(t *testing.T) *RedisRepository {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client, "blobhost:")
}

func backends(t *testing.T) map[string]func(t *testing.T) Repository {
	return map[string]func(t *testing.T) Repository{
		"memory": func(t *testing.T) Repository { return NewMemoryRepository() },
		"redis":  func(t *testing.T) Repository { return newRedisRepo(t) },
		"bolt":   func(t *testing.T) Repository { return newBoltRepo(t) },
		"s3":     func(t *testing.T) Repository { return NewS3Repository(objstoretest.New(), "blobs") },
	}
}

func TestRepository_Contract(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := mk(t)

			ok, err := repo.Exists(ctx, "abc123")
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = repo.Get(ctx, "abc123")
			assert.ErrorIs(t, err, common.ErrorNotFound)

			want := sampleHeader("abc123")
			require.NoError(t, repo.Create(ctx, want))

			ok, err = repo.Exists(ctx, "abc123")
			require.NoError(t, err)
			assert.True(t, ok)

			got, err := repo.Get(ctx, "abc123")
			require.NoError(t, err)
			assert.Equal(t, want, got)

			other := sampleHeader("abc123")
			other.DeleteKey = "different"
			assert.ErrorIs(t, repo.Create(ctx, other), common.ErrorIdentifierTaken)

			got, err = repo.Get(ctx, "abc123")
			require.NoError(t, err)
			assert.Equal(t, want.DeleteKey, got.DeleteKey, "losing writer must not overwrite")

			require.NoError(t, repo.Delete(ctx, "abc123"))
			assert.ErrorIs(t, repo.Delete(ctx, "abc123"), common.ErrorNotFound)

			_, err = repo.Get(ctx, "abc123")
			assert.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestRepository_ConcurrentCreateSingleWinner(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := mk(t)

			const writers = 8
			var wg sync.WaitGroup
			errs := make([]error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = repo.Create(context.Background(), sampleHeader("race"))
				}(i)
			}
			wg.Wait()

			wins := 0
			for _, err := range errs {
				switch {
				case err == nil:
					wins++
				case errors.Is(err, common.ErrorIdentifierTaken):
				default:
					t.Fatalf("unexpected error: %v", err)
				}
			}
			assert.Equal(t, 1, wins)
		})
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	h := sampleHeader("copy")
	require.NoError(t, repo.Create(context.Background(), h))

	h.DeleteKey = "mutated"
	got, err := repo.Get(context.Background(), "copy")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", got.DeleteKey)
}

func TestRedisRepository_KeyLayout(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	repo := NewRedisRepository(client, "bh:")
	require.NoError(t, repo.Create(context.Background(), sampleHeader("xyz")))

	assert.True(t, s.Exists("bh:header:xyz"))
	raw, err := s.Get("bh:header:xyz")
	require.NoError(t, err)
	assert.Contains(t, raw, `"_id":"xyz"`)
}

func TestS3Repository_KeyLayoutAndErrors(t *testing.T) {
	fake := objstoretest.New()
	repo := NewS3Repository(fake, "blobs")
	require.NoError(t, repo.Create(context.Background(), sampleHeader("xyz")))
	assert.Equal(t, []string{"headers/xyz"}, fake.Keys())

	fake.FailOn = func(op, key string) error { return errors.New("503 slow down") }
	_, err := repo.Exists(context.Background(), "xyz")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, err.Error(), "s3 error")
}

func TestBoltRepository_InsideEnclosingTx(t *testing.T) {
	db, err := bbolt.Open(filepath.Join(t.TempDir(), "tx.db"), 0o600, nil)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(BucketName)
		return err
	}))

	err = db.Update(func(tx *bbolt.Tx) error {
		repo := NewBoltRepository(dbx.Bolt{DB: db, Tx: tx})
		if err := repo.Create(context.Background(), sampleHeader("rolled")); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	ok, err := NewBoltRepository(dbx.Bolt{DB: db}).Exists(context.Background(), "rolled")
	require.NoError(t, err)
	assert.False(t, ok)
}
