package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	PRODUCT_CACHE_PREFIX  = "products:"
	SETTINGS_CACHE_PREFIX = "settings:"
	CACHE_TTL_SHORT       = 5 * time.Minute
	CACHE_TTL_MEDIUM      = 30 * time.Minute
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("insufficient role")
	ErrConflict  = errors.New("record already exists")
)

// Store bundles the database handle with the read-through cache. One Store
// serves every aggregate; the per-aggregate methods live in their own files.
type Store struct {
	db    *gorm.DB
	redis *redis.Client
}

func New(db *gorm.DB, redisClient *redis.Client) *Store {
	return &Store{
		db:    db,
		redis: redisClient,
	}
}

// cacheGet fills dest from Redis, reporting whether the key was present and
// readable. Cache failures never fail a request; they fall through to the
// database.
func (s *Store) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.redis == nil {
		return false
	}
	raw, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (s *Store) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, key, raw, ttl).Err()
}

func (s *Store) cacheDel(ctx context.Context, keys ...string) {
	if s.redis == nil || len(keys) == 0 {
		return
	}
	_ = s.redis.Del(ctx, keys...).Err()
}

func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// normalizeMoney canonicalizes an amount string to two decimal places.
// Unparseable input becomes "0.00" rather than poisoning downstream sums.
func normalizeMoney(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
