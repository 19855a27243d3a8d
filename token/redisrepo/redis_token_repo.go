package redisrepo

import (
	"context"
	"encoding/json"

	"github.com/ledgerlink/xeroauth/internal/config"
	"github.com/ledgerlink/xeroauth/token"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var _ token.Repo = (*RedisTokenRepo)(nil)

// RedisTokenRepo stores the serialized token record under the fixed
// cache key. Records never expire from Redis; replacement happens on
// every successful refresh and deletion is an operational concern.
type RedisTokenRepo struct {
	client redis.Cmdable
}

func New(cfg config.CacheConfig) *RedisTokenRepo {
	return &RedisTokenRepo{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		}),
	}
}

// NewWithClient wires an existing Redis client (e.g. a shared pool).
func NewWithClient(client redis.Cmdable) *RedisTokenRepo {
	return &RedisTokenRepo{client: client}
}

func (r *RedisTokenRepo) Save(ctx context.Context, record *token.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "[RedisTokenRepo Save] marshal token record")
	}
	if err := r.client.Set(ctx, token.CacheKey, payload, 0).Err(); err != nil {
		return errors.Wrap(err, "[RedisTokenRepo Save] set token record")
	}
	return nil
}

func (r *RedisTokenRepo) Load(ctx context.Context) (*token.Record, error) {
	payload, err := r.client.Get(ctx, token.CacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RedisTokenRepo Load] get token record")
	}
	return decodeRecord(payload), nil
}

// decodeRecord fails open: a payload that does not parse is treated the
// same as a missing key, so a corrupted cache entry forces
// re-authentication rather than a crash loop.
func decodeRecord(payload []byte) *token.Record {
	var record token.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		log.Warn().Err(err).Msg("discarding unparseable cached token record")
		return nil
	}
	return &record
}
