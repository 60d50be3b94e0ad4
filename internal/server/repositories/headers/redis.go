package headers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// RedisRepository stores each header as a JSON string under
// "<prefix>header:<id>". SET NX provides the uniqueness guarantee.
type RedisRepository struct {
	client redis.Cmdable
	prefix string
}

func NewRedisRepository(client redis.Cmdable, prefix string) *RedisRepository {
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(id string) string {
	return r.prefix + "header:" + id
}

func (r *RedisRepository) Create(ctx context.Context, h *models.Header) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(h.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if !ok {
		return common.ErrorIdentifierTaken
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*models.Header, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	h := &models.Header{}
	if err := json.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("decode header %q: %w", id, err)
	}
	return h, nil
}

func (r *RedisRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
