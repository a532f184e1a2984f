package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Akki1725/socially/internal/models"
)

const profileKeyPrefix = "user:profile:"

// CachedDirectory is a read-through Redis cache in front of another
// directory. Misses are not cached, so a user created after a failed lookup
// becomes visible immediately.
type CachedDirectory struct {
	next Directory
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedDirectory(next Directory, rdb *redis.Client, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{next: next, rdb: rdb, ttl: ttl}
}

func (d *CachedDirectory) Lookup(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := profileKeyPrefix + userID
	if b, err := d.rdb.Get(ctx, key).Bytes(); err == nil {
		var p models.UserProfile
		if json.Unmarshal(b, &p) == nil {
			return &p, nil
		}
	}
	p, err := d.next.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(p); err == nil {
		_ = d.rdb.Set(ctx, key, b, d.ttl).Err()
	}
	return p, nil
}
