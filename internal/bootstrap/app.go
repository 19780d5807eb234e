package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dropit/internal/cache"
	"dropit/internal/config"
	"dropit/internal/pkg/logger"
	"dropit/internal/platform/blob"
	mysqlClient "dropit/internal/platform/mysql"
	rabbitmqClient "dropit/internal/platform/rabbitmq"
	redisClient "dropit/internal/platform/redis"
	"dropit/internal/repository"
	"dropit/internal/storage"
	"dropit/internal/worker"
)

// App holds the process-wide dependencies. Redis, MySQL and RabbitMQ are
// optional and stay nil when not configured.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	KV      cache.Store
	Storage *storage.Adapter

	Redis         *redis.Client
	MySQL         *gorm.DB
	MQConn        *amqp.Connection
	Publisher     *rabbitmqClient.ArchivePublisher
	ArchiveRepo   *repository.ArchiveRepository
	ArchiveWorker *worker.ArchiveWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Logger:    log,
		StartedAt: time.Now(),
	}
	if err := app.init(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	memory := cache.NewMemoryStore()
	a.KV = memory
	if cfg.RedisEnabled() {
		redisURL, err := cfg.RedisURL()
		if err != nil {
			return err
		}
		redisCli, err := redisClient.New(ctx, redisURL)
		if err != nil {
			a.Logger.Warn("redis unavailable, using in-memory store", zap.Error(err))
		} else {
			a.Redis = redisCli
			a.KV = cache.NewFallbackStore(cache.NewRedisStore(redisCli), memory, a.Logger)
		}
	}

	var remote storage.Backend
	if cfg.BlobEnabled() {
		remote = storage.NewBlobBackend(blob.NewClient(cfg.Blob.BaseURL, cfg.Blob.Token))
	}
	a.Storage = storage.NewAdapter(remote, storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL), a.Logger)

	if cfg.MySQLEnabled() {
		mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return err
		}
		a.MySQL = mysqlDB
		a.ArchiveRepo = repository.NewArchiveRepository(mysqlDB)
		if err := a.ArchiveRepo.AutoMigrate(); err != nil {
			return err
		}
	}

	if cfg.RabbitMQEnabled() {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ArchiveQueue)
		if err != nil {
			return err
		}
		a.MQConn = mqConn
		a.Publisher, a.ArchiveWorker = newArchivePipeline(mqConn, a.ArchiveRepo, cfg.RabbitMQ.ArchiveQueue, a.Logger)
		if a.ArchiveWorker == nil {
			a.Logger.Warn("rabbitmq configured without mysql, message archive disabled")
		} else if err := a.ArchiveWorker.Start(ctx); err != nil {
			return fmt.Errorf("start archive worker failed: %w", err)
		}
	}

	a.Logger.Info("dependencies ready",
		zap.String("kv", a.KV.Name()),
		zap.String("storage", a.Storage.Mode()),
		zap.Bool("mysql", a.MySQL != nil),
		zap.Bool("rabbitmq", a.MQConn != nil),
	)
	return nil
}

// newArchivePipeline pairs the publisher with its consumer. Without an archive
// repository nothing would drain the queue, so neither side is built.
func newArchivePipeline(conn *amqp.Connection, repo *repository.ArchiveRepository, queue string, log *zap.Logger) (*rabbitmqClient.ArchivePublisher, *worker.ArchiveWorker) {
	if repo == nil {
		return nil, nil
	}
	return rabbitmqClient.NewArchivePublisher(conn, queue), worker.NewArchiveWorker(conn, repo, queue, log)
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ArchiveWorker != nil {
		a.ArchiveWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
