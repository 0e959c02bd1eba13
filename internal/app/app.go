package app

import (
	"context"
	"errors"

	"go-sirh/internal/config"
	"go-sirh/internal/messaging/kafka"
	"go-sirh/internal/middleware"
	"go-sirh/internal/shared/connection"
	"go-sirh/internal/shared/lock"
	"go-sirh/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Infra holds the connections shared by the api, worker and consumer processes.
type Infra struct {
	Store  store.Store
	Redis  *redis.Client
	Locker lock.Locker
	// Outbox is nil unless OUTBOX_ENABLED is set.
	Outbox kafka.OutboxRepository
}

// Cache returns the redis client as a Cmdable, nil when redis is not configured.
func (i *Infra) Cache() redis.Cmdable {
	if i.Redis == nil {
		return nil
	}
	return i.Redis
}

func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.Store != nil {
		errs = append(errs, i.Store.Close())
	}
	return errors.Join(errs...)
}

// OpenInfra opens the record store selected by STORE_DRIVER and, when configured, redis.
func OpenInfra(cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	infra := &Infra{}

	switch cfg.StoreDriver {
	case "", "memory":
		s, err := store.NewMemoryStore(cfg.StorePath, logger)
		if err != nil {
			return nil, err
		}
		infra.Store = s
		logger.Info("memory store opened", zap.String("path", cfg.StorePath))
	default:
		db, err := connection.ConnectGORMWithRetry(cfg, 5)
		if err != nil {
			return nil, err
		}
		s := store.NewGormStore(db, logger)
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, err
		}
		infra.Store = s
	}

	infra.Locker = lock.NewLocalLocker()
	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.Redis = rdb
		infra.Locker = lock.NewRedisLocker(rdb)
	}

	if cfg.OutboxEnabled {
		infra.Outbox = kafka.NewOutboxRepository(infra.Store)
	}
	return infra, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.HeaderRequestID, middleware.HeaderIdempotencyKey)
	c.ExposeHeaders = []string{middleware.HeaderRequestID}
	if cfg.IsProduction() || len(cfg.CORSAllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		c.AllowAllOrigins = true
	}
	return c
}

// BuildApp installs the global middleware and every module on router.
// The returned Infra must be closed by the caller.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	infra, err := OpenInfra(cfg, logger)
	if err != nil {
		return nil, err
	}

	router.Use(
		cors.New(corsConfig(cfg)),
		middleware.RequestID(),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		middleware.AuthMiddleware(middleware.AuthOptions{
			Secret:      cfg.JWTSecret,
			Required:    cfg.AuthRequired,
			DefaultRole: cfg.DefaultRole,
			Logger:      logger,
		}),
		middleware.ContextLogger(logger.Named("http")),
	)

	m, err := buildModules(ctx, cfg, infra, logger)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	m.register(router.Group("/api"), infra)
	return infra, nil
}
