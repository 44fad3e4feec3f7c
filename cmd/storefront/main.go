package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/yespstudio/storefront/modules/storefront"
	"github.com/yespstudio/storefront/pkg/dbpool"
	"github.com/yespstudio/storefront/pkg/directory"
	"github.com/yespstudio/storefront/pkg/httpserver"
	"github.com/yespstudio/storefront/pkg/logger"
	"github.com/yespstudio/storefront/pkg/tenant"
	"github.com/yespstudio/storefront/pkg/token"
)

type appConfig struct {
	// MainDBURI points at the control-plane database holding the store
	// directory.
	MainDBURI  string `env:"MAIN_DB_URI,required"`
	MainDBName string `env:"MAIN_DB_NAME" envDefault:"main"`

	// TenantBaseURI is the cluster tenant databases live on. The tenant
	// database name is appended per request.
	TenantBaseURI string `env:"MONGO_BASE_URI" envDefault:"mongodb://localhost:27017/"`

	// RedisURL switches the store directory cache from in-process
	// memory to Redis when set.
	RedisURL string `env:"REDIS_URL"`

	DirectoryCacheTTL time.Duration `env:"DIRECTORY_CACHE_TTL" envDefault:"5m"`

	Log   logger.Config
	HTTP  httpserver.Config
	Pool  dbpool.Config
	Token token.Config
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	log := logger.New(cfg.Log, os.Stdout, tenant.LoggerExtractor())
	slog.SetDefault(log)

	pool := dbpool.New(cfg.Pool, dbpool.WithLogger(log))
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pool.Shutdown(shutdownCtx); err != nil {
			log.Error("pool shutdown failed", slog.Any("error", err))
		}
	}()

	mainHandle, err := pool.Acquire(ctx, dbpool.ControlPlaneKey, cfg.MainDBURI, cfg.MainDBName)
	if err != nil {
		return fmt.Errorf("connect control plane: %w", err)
	}
	log.Info("control plane connected", slog.String("database", cfg.MainDBName))

	dirOpts := []directory.Option{
		directory.WithLogger(log),
		directory.WithCacheTTL(cfg.DirectoryCacheTTL),
	}
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		defer client.Close()
		dirOpts = append(dirOpts, directory.WithCache(directory.NewRedisCache(client)))
		log.Info("store directory cache on redis")
	} else {
		dirOpts = append(dirOpts, directory.WithCache(directory.NewMemoryCache(directory.DefaultCacheSize)))
	}
	dir := directory.New(mainHandle.DB(), dirOpts...)

	resolver := tenant.NewResolver(dir, pool, cfg.TenantBaseURI, tenant.WithResolverLogger(log))

	tokens, err := token.New(cfg.Token)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	handler := storefront.NewHandler(storefront.NewRegistry(), tokens, log)
	router := storefront.Router(handler, resolver, dir, log)

	log.Info("storefront starting", slog.String("addr", cfg.HTTP.Addr))
	return httpserver.Run(ctx, cfg.HTTP, router, log)
}
