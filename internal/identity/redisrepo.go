package identity

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const redisTableKey = "steamids"

// redisRepo keeps the whole table in one hash so Load/Save stay wholesale,
// matching the file backend's semantics.
type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepository(redisURL string) (Repository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &redisRepo{rdb: redis.NewClient(opts)}, nil
}

func (r *redisRepo) Load(ctx context.Context) (map[string]string, error) {
	records, err := r.rdb.HGetAll(ctx, redisTableKey).Result()
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *redisRepo) Save(ctx context.Context, records map[string]string) error {
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, redisTableKey)
	if len(records) > 0 {
		flat := make([]any, 0, len(records)*2)
		for k, v := range records {
			flat = append(flat, k, v)
		}
		pipe.HSet(ctx, redisTableKey, flat...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisRepo) Close() error {
	return r.rdb.Close()
}
