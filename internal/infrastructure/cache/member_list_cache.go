package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
	"github.com/oksasatya/go-kitchensink/pkg/helpers"
)

const MemberListKey = "members:list:by-name"

// MemberListGenKey is bumped by every invalidation. A load only fills the
// cache when the generation it started from is still current.
const MemberListGenKey = "members:list:gen"

// setIfGenScript stores ARGV[2] under KEYS[1] for ARGV[3] ms unless KEYS[2]
// moved past ARGV[1] while the list was being loaded.
var setIfGenScript = redis.NewScript(`
local gen = redis.call("GET", KEYS[2])
if not gen then gen = "0" end
if gen ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// MemberListCache is a read-through cache of all members ordered by name.
// The registration flow invalidates it explicitly after every write.
type MemberListCache struct {
	Repo   repository.MemberRepository
	Redis  *redis.Client
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewMemberListCache(repo repository.MemberRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *MemberListCache {
	return &MemberListCache{Repo: repo, Redis: rdb, TTL: ttl, Logger: logger}
}

// Members returns the cached list, loading it from the repository on a miss.
// Redis failures degrade to a direct repository read.
func (c *MemberListCache) Members(ctx context.Context) ([]entity.Member, error) {
	gen := ""
	if c.Redis != nil {
		var cached []entity.Member
		hit, err := helpers.RedisGetJSON(ctx, c.Redis, MemberListKey, &cached)
		if err != nil {
			c.warn(err, "member list cache read failed")
		} else if hit {
			return cached, nil
		}
		if gen, err = c.generation(ctx); err != nil {
			c.warn(err, "member list generation read failed")
		}
	}

	members, err := c.Repo.FindAllSorted(ctx, repository.Sort{Field: repository.SortByName})
	if err != nil {
		return nil, err
	}
	if c.Redis != nil && gen != "" {
		if err := c.store(ctx, gen, members); err != nil {
			c.warn(err, "member list cache write failed")
		}
	}
	return members, nil
}

// Invalidate drops the cached list and moves the generation forward so that
// loads already in flight do not write their older list back.
func (c *MemberListCache) Invalidate(ctx context.Context) error {
	if c.Redis == nil {
		return nil
	}
	_, err := c.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, MemberListGenKey)
		p.Del(ctx, MemberListKey)
		return nil
	})
	return err
}

func (c *MemberListCache) generation(ctx context.Context) (string, error) {
	gen, err := c.Redis.Get(ctx, MemberListGenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

func (c *MemberListCache) store(ctx context.Context, gen string, members []entity.Member) error {
	b, err := json.Marshal(members)
	if err != nil {
		return err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return setIfGenScript.Run(ctx, c.Redis,
		[]string{MemberListKey, MemberListGenKey},
		gen, b, ttl.Milliseconds(),
	).Err()
}

func (c *MemberListCache) warn(err error, msg string) {
	if c.Logger != nil {
		c.Logger.WithError(err).WithField("key", MemberListKey).Warn(msg)
	}
}
