package container

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/application"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	esinfra "github.com/oksasatya/go-task-manager/internal/infrastructure/elasticsearch"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	rabbitinfra "github.com/oksasatya/go-task-manager/internal/infrastructure/rabbitmq"
	redisinfra "github.com/oksasatya/go-task-manager/internal/infrastructure/redis"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// Container holds the constructed components shared by the router, the server and tooling.
// Optional integrations stay nil when not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	RabbitPub *helpers.RabbitPublisher
	ES        *elasticsearch.Client

	JWT    *helpers.JWTManager
	Hasher *helpers.PasswordHasher

	Users repo.UserRepository
	Tasks repo.TaskRepository

	authSvc *application.AuthService
	taskSvc *application.TaskService
}

// New builds a container backed by the in-memory store, with no external integrations
func New(cfg *config.Config, logger *logrus.Logger) *Container {
	return &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Hasher: helpers.NewPasswordHasher(cfg.BcryptCost),
		Users:  memory.NewUserRepository(),
		Tasks:  memory.NewTaskRepository(),
	}
}

// Connect builds a container from configuration: the store selected by STORE_DRIVER plus
// whichever of Redis, RabbitMQ and Elasticsearch are configured. Only the store is mandatory;
// an unreachable optional integration is logged and left disabled.
func Connect(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := New(cfg, logger)

	if cfg.UsePostgres() {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		c.PGPool = pool
		c.Users = pginfra.NewUserRepository(pool)
		c.Tasks = pginfra.NewTaskRepository(pool)
	}
	logger.WithField("store", cfg.StoreDriver).Info("task store ready")

	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, stats cache disabled")
		} else {
			c.Redis = rdb
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQTaskQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, task events disabled")
		} else {
			c.RabbitPub = pub
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = helpers.EnsureIndex(ctx, es, cfg.ESTasksIndex, esinfra.TaskMapping)
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable, task mirror disabled")
		} else {
			c.ES = es
		}
	}
	return c, nil
}

// AuthService returns the shared auth service
func (c *Container) AuthService() *application.AuthService {
	if c.authSvc == nil {
		c.authSvc = application.NewAuthService(c.Users, c.Hasher, c.JWT, c.Logger)
	}
	return c.authSvc
}

// TaskService returns the shared task service wired to the configured integrations
func (c *Container) TaskService() *application.TaskService {
	if c.taskSvc != nil {
		return c.taskSvc
	}
	svc := application.NewTaskService(c.Tasks, c.Users, c.Logger)
	if c.Redis != nil {
		svc.Cache = redisinfra.NewStatsCache(c.Redis, c.Config.StatsCacheTTL, c.Logger)
	}
	if c.RabbitPub != nil {
		svc.Events = rabbitinfra.NewTaskEventPublisher(c.RabbitPub)
	}
	if c.ES != nil {
		svc.Indexer = esinfra.NewTaskIndexer(c.ES, c.Config.ESTasksIndex)
	}
	c.taskSvc = svc
	return svc
}

// Close releases every open connection
func (c *Container) Close() {
	if c.PGPool != nil {
		c.PGPool.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	c.RabbitPub.Close()
}
