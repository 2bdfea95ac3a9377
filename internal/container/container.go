package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/go-kitchensink/config"
	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
	"github.com/oksasatya/go-kitchensink/internal/infrastructure/metrics"
	"github.com/oksasatya/go-kitchensink/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	mongoClient *mongo.Client
	redisClient *redis.Client
	gcsClient   *storage.Client

	memberRepo repository.MemberRepository
	appMetrics *metrics.Metrics

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetMongo(c *mongo.Client)      { mongoClient = c }
func GetMongo() *mongo.Client       { return mongoClient }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetGCS(s *storage.Client)      { gcsClient = s }
func GetGCS() *storage.Client       { return gcsClient }
func SetMetrics(m *metrics.Metrics) { appMetrics = m }
func GetMetrics() *metrics.Metrics  { return appMetrics }

func SetMemberRepo(r repository.MemberRepository) { memberRepo = r }
func GetMemberRepo() repository.MemberRepository  { return memberRepo }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

