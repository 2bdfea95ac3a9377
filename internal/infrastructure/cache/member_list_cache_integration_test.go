//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
	"github.com/oksasatya/go-kitchensink/internal/infrastructure/cache"
	"github.com/oksasatya/go-kitchensink/internal/testutil"
	"github.com/oksasatya/go-kitchensink/internal/testutil/containers"
)

func TestMemberListCacheReadThrough(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	repo := testutil.NewMemoryMemberRepository(testutil.Member("Jane Doe", "jane@example.com"))
	c := cache.NewMemberListCache(repo, rc.Client, time.Minute, nil)

	first, err := c.Members(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	ttl, err := rc.Client.TTL(ctx, cache.MemberListKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// A write behind the cache's back stays invisible until invalidation.
	m := testutil.Member("John Smith", "john@example.com")
	require.NoError(t, repo.Save(ctx, &m))

	stale, err := c.Members(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	require.NoError(t, c.Invalidate(ctx))
	fresh, err := c.Members(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

// racingRepo runs beforeReturn once, after the list is read but before the
// cache gets to store it.
type racingRepo struct {
	*testutil.MemoryMemberRepository
	beforeReturn func()
}

func (r *racingRepo) FindAllSorted(ctx context.Context, sort repository.Sort) ([]entity.Member, error) {
	items, err := r.MemoryMemberRepository.FindAllSorted(ctx, sort)
	if r.beforeReturn != nil {
		hook := r.beforeReturn
		r.beforeReturn = nil
		hook()
	}
	return items, err
}

func TestMemberListCacheInvalidateDuringLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	repo := &racingRepo{MemoryMemberRepository: testutil.NewMemoryMemberRepository(testutil.Member("Jane Doe", "jane@example.com"))}
	c := cache.NewMemberListCache(repo, rc.Client, time.Minute, nil)

	repo.beforeReturn = func() {
		m := testutil.Member("John Smith", "john@example.com")
		require.NoError(t, repo.Save(ctx, &m))
		require.NoError(t, c.Invalidate(ctx))
	}

	loaded, err := c.Members(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	exists, err := rc.Client.Exists(ctx, cache.MemberListKey).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "a load that lost the race must not fill the cache")

	fresh, err := c.Members(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)

	exists, err = rc.Client.Exists(ctx, cache.MemberListKey).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, exists)
}
