package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blobhost/internal/server/repositories/fragments"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/headers"
	"github.com/redis/go-redis/v9"
)

// RedisOptions configures OpenRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "blobhost:".
	Prefix string
}

// RedisRepositoryManager keeps headers and fragments in one Redis database.
// It is not transactional across the two.
type RedisRepositoryManager struct {
	client *redis.Client
	prefix string
}

var _ RepositoryManager = (*RedisRepositoryManager)(nil)

func NewRedisRepositoryManager(client *redis.Client, prefix string) *RedisRepositoryManager {
	return &RedisRepositoryManager{client: client, prefix: prefix}
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisRepositoryManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewRedisRepositoryManager(client, opts.Prefix), nil
}

func (m *RedisRepositoryManager) Headers() headers.Repository {
	return headers.NewRedisRepository(m.client, m.prefix)
}

func (m *RedisRepositoryManager) Fragments() fragments.Repository {
	return fragments.NewRedisRepository(m.client, m.prefix)
}

func (m *RedisRepositoryManager) MaxDocumentSize() int64 {
	return documentLimits[BackendRedis]
}

func (m *RedisRepositoryManager) Close() error {
	return m.client.Close()
}
