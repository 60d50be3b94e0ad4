package fragments

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/blobhost/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// RedisRepository stores all fragments of a parent as fields of the hash
// "<prefix>fragments:<id>", field name = decimal index.
type RedisRepository struct {
	client redis.Cmdable
	prefix string
}

func NewRedisRepository(client redis.Cmdable, prefix string) *RedisRepository {
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(parentID string) string {
	return r.prefix + "fragments:" + parentID
}

// InsertMany issues one HSET per parent inside a MULTI/EXEC pipeline.
func (r *RedisRepository) InsertMany(ctx context.Context, fs []*models.Fragment) error {
	if len(fs) == 0 {
		return nil
	}

	byParent := make(map[string][]any)
	for _, f := range fs {
		byParent[f.ParentID] = append(byParent[f.ParentID], strconv.Itoa(f.Index), f.Data)
	}

	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for parentID, values := range byParent {
			p.HSet(ctx, r.key(parentID), values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) ListByParent(ctx context.Context, parentID string) ([]*models.Fragment, error) {
	fields, err := r.client.HGetAll(ctx, r.key(parentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	res := make([]*models.Fragment, 0, len(fields))
	for field, value := range fields {
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("redis error: bad fragment field %q for %q: %w", field, parentID, err)
		}
		res = append(res, &models.Fragment{ParentID: parentID, Index: idx, Data: []byte(value)})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Index < res[j].Index })
	return res, nil
}

func (r *RedisRepository) DeleteByParent(ctx context.Context, parentID string) (int64, error) {
	var hlen *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		hlen = p.HLen(ctx, r.key(parentID))
		p.Del(ctx, r.key(parentID))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	return hlen.Val(), nil
}
