package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/rtapi/gateway/internal/cache"
	"github.com/rtapi/gateway/internal/handler"
	"github.com/rtapi/gateway/internal/store"
	"github.com/rtapi/gateway/pkg/config"
	"github.com/rtapi/gateway/pkg/httpserver"
	"github.com/rtapi/gateway/pkg/jwt"
	"github.com/rtapi/gateway/pkg/logger"
	"github.com/rtapi/gateway/pkg/pg"
	"github.com/rtapi/gateway/pkg/principal"
	"github.com/rtapi/gateway/pkg/redis"
	"github.com/rtapi/gateway/pkg/requestid"
	"github.com/rtapi/gateway/pkg/storage"
	"github.com/rtapi/gateway/pkg/tenant"
)

// gatewayConfig holds the knobs that belong to the gateway itself rather
// than to any one subsystem.
type gatewayConfig struct {
	TenantHeader   string        `env:"TENANT_HEADER" envDefault:"X-Tenant"` // TenantHeader carries the tenant code on scoped requests.
	PublicPrefixes []string      `env:"PUBLIC_PREFIXES" envSeparator:","`    // PublicPrefixes override the built-in public path list.
	CacheBackend   string        `env:"TENANT_CACHE" envDefault:"memory"`    // CacheBackend is "memory", "redis" or "none".
	CacheTTL       time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`    // CacheTTL bounds how long directory lookups are reused.
}

func main() {
	var (
		appCfg     gatewayConfig
		logCfg     logger.Config
		pgCfg      pg.Config
		redisCfg   redis.Config
		jwtCfg     jwt.Config
		storageCfg storage.Config
		httpCfg    httpserver.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&jwtCfg)
	config.MustLoad(&storageCfg)
	config.MustLoad(&httpCfg)

	log := logger.NewFromConfig(logCfg, logger.WithContextExtractors(
		requestid.LoggerExtractor(),
		tenant.LoggerExtractor(),
		principal.LoggerExtractor(),
	))

	ctx := context.Background()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		fatal(log, "database connection failed", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		fatal(log, "migrations failed", err)
	}

	tokens, err := jwt.New(jwtCfg)
	if err != nil {
		fatal(log, "token service init failed", err)
	}

	presigner, err := storage.NewS3Presigner(ctx, storageCfg)
	if err != nil {
		fatal(log, "object storage init failed", err)
	}

	probes := []func(context.Context) error{pg.Healthcheck(pool)}

	var tenantCache tenant.Cache
	switch appCfg.CacheBackend {
	case "redis":
		config.MustLoad(&redisCfg)
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			fatal(log, "redis connection failed", err)
		}
		defer client.Close()
		tenantCache = cache.NewRedisTenantCache(client)
		probes = append(probes, redis.Healthcheck(client))
	case "none":
		tenantCache = tenant.NewNoOpCache()
	default:
		tenantCache = tenant.NewMemoryCache()
	}
	defer tenantCache.Close()

	gateOpts := []tenant.Option{
		tenant.WithHeader(appCfg.TenantHeader),
		tenant.WithCache(tenantCache),
		tenant.WithCacheTTL(appCfg.CacheTTL),
	}
	if len(appCfg.PublicPrefixes) > 0 {
		gateOpts = append(gateOpts, tenant.WithPublicPrefixes(appCfg.PublicPrefixes...))
	}

	router := handler.Router(handler.RouterOptions{
		Logger:      log,
		Tokens:      tokens,
		Directory:   store.NewTenantDirectory(pool),
		Members:     store.NewMembershipStore(pool),
		Auth:        handler.NewAuth(store.NewUserStore(pool), tokens, log),
		Storage:     handler.NewStorage(presigner, storageCfg.UploadTTL, log),
		Probes:      probes,
		GateOptions: gateOpts,
	})

	if err := httpserver.New(httpCfg, log).Run(ctx, router); err != nil {
		fatal(log, "server stopped with error", err)
	}
	log.InfoContext(ctx, "server stopped")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
