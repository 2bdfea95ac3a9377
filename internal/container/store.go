package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-kitchensink/config"
	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
	mongoinfra "github.com/oksasatya/go-kitchensink/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-kitchensink/internal/infrastructure/postgres"
	"github.com/oksasatya/go-kitchensink/pkg/helpers"
)

// OpenMemberStore connects the member store selected by MONGODB_ENABLED,
// prepares its schema and registers it in the container. The returned
// func releases the connection.
func OpenMemberStore(ctx context.Context, c *config.Config, log *logrus.Logger) (repository.MemberRepository, func(), error) {
	if c.MongoEnabled {
		client, err := mongoinfra.NewClient(ctx, c.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		repo := mongoinfra.NewMemberRepository(client.Database(c.MongoDatabase), c.MongoCollection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ensure member indexes: %w", err)
		}
		SetMongo(client)
		SetMemberRepo(repo)
		log.WithFields(logrus.Fields{"backend": c.Backend(), "database": c.MongoDatabase}).Info("member store ready")
		return repo, closeFn, nil
	}

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:         c.PostgresDSN(),
		MaxConns:    c.DBMaxConns,
		MinConns:    c.DBMinConns,
		MaxConnLife: c.DBMaxConnLife,
		AppName:     c.AppName,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pginfra.RunMigrations(c.PostgresDSN(), c.MigrationsDir, log); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	repo := pginfra.NewMemberRepository(pool)
	SetPGPool(pool)
	SetMemberRepo(repo)
	log.WithFields(logrus.Fields{"backend": c.Backend(), "database": c.DBName}).Info("member store ready")
	return repo, pool.Close, nil
}

// OpenRedis connects Redis when REDIS_ADDR is set and registers the client.
// A connection failure is logged and leaves the cache and limiter disabled.
func OpenRedis(ctx context.Context, c *config.Config, log *logrus.Logger) func() {
	if c.RedisAddr == "" {
		return func() {}
	}
	rdb, err := helpers.NewRedisClient(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	if err != nil {
		log.WithError(err).Warn("redis unavailable; cache and rate limit disabled")
		return func() {}
	}
	SetRedis(rdb)
	return func() { _ = rdb.Close() }
}

// OpenSearch registers an Elasticsearch client when addresses are configured
// and a node answers.
func OpenSearch(ctx context.Context, c *config.Config, log *logrus.Logger) {
	addrs := c.ESAddrs()
	if len(addrs) == 0 {
		return
	}
	es, err := helpers.NewESClient(ctx, addrs, c.ElasticsearchUser, c.ElasticsearchPass)
	if err != nil {
		log.WithError(err).Warn("elasticsearch unavailable; search falls back to name lookup")
		return
	}
	SetES(es)
}
