package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gobank/internal/adapter/http"
	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/gobank/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobank/internal/adapter/repository/redis"
	"github.com/iho/gobank/internal/infrastructure/auth"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/infrastructure/redis"
	"github.com/iho/gobank/internal/usecase"
)

// app is the fully wired server.
type app struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type storage struct {
	txManager     usecase.TransactionManager
	clientRepo    usecase.ClientRepository
	accountRepo   usecase.AccountRepository
	operationRepo usecase.OperationRepository
	userRepo      usecase.UserRepository
	retrier       usecase.Retrier
	ping          handler.Pinger
}

// newApp wires storage, use cases and the HTTP router from cfg. Business
// metrics are registered with reg and served from gatherer.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	a := &app{}

	store, err := a.openStorage(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	var (
		tokenStore       usecase.TokenStore = memoryRepo.NewTokenStore()
		idempotencyStore usecase.IdempotencyStore
		redisPing        handler.Pinger
	)

	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		logger.Info().Msg("connected to redis")

		tokenStore = redisRepo.NewTokenStore(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		redisPing = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	} else {
		logger.Warn().Msg("REDIS_URL not set: idempotency disabled, tokens kept in memory")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			a.Close()
			return nil, err
		}
		logger.Warn().Msg("JWT_SECRET not set: using an ephemeral signing key")
	}

	recorder := metrics.New(reg)
	idGen := postgresRepo.NewULIDGenerator()

	accountUC := usecase.NewAccountUseCase(
		store.txManager,
		store.clientRepo,
		store.accountRepo,
		store.operationRepo,
		idGen,
		store.retrier,
		recorder,
	)
	clientUC := usecase.NewClientUseCase(store.clientRepo, idGen, recorder)
	authUC := usecase.NewAuthUseCase(
		store.userRepo,
		auth.NewJWTManager(secret, cfg.JWTExpiration, cfg.JWTRefreshExpiration),
		tokenStore,
		idGen,
		recorder,
	)

	checks := map[string]handler.Pinger{}
	if store.ping != nil {
		checks["postgres"] = store.ping
	}
	if redisPing != nil {
		checks["redis"] = redisPing
	}

	routerCfg := httpAdapter.RouterConfig{
		ClientHandler:    handler.NewClientHandler(clientUC, accountUC),
		AccountHandler:   handler.NewAccountHandler(accountUC),
		AuthHandler:      handler.NewAuthHandler(authUC),
		HealthHandler:    handler.NewHealthHandler(checks),
		Logger:           &logger,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		MetricsHandler:   promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}

	if cfg.AuthEnabled {
		routerCfg.TokenValidator = authUC
	} else {
		logger.Warn().Msg("AUTH_ENABLED=false: business routes are not protected")
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		routerCfg.RateLimiter = a.rateLimiter
	}

	a.handler = httpAdapter.NewRouter(routerCfg)

	return a, nil
}

func (a *app) openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn().Msg("using in-memory storage: data is lost on restart")

		store := memoryRepo.NewStore()

		return &storage{
			txManager:     memoryRepo.NewTxManager(store),
			clientRepo:    memoryRepo.NewClientRepository(store),
			accountRepo:   memoryRepo.NewAccountRepository(store),
			operationRepo: memoryRepo.NewOperationRepository(store),
			userRepo:      memoryRepo.NewUserRepository(store),
		}, nil
	}

	if cfg.DatabaseAutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)
	logger.Info().Msg("connected to postgres")

	return &storage{
		txManager:     postgresRepo.NewTxManager(pool),
		clientRepo:    postgresRepo.NewClientRepository(pool),
		accountRepo:   postgresRepo.NewAccountRepository(pool),
		operationRepo: postgresRepo.NewOperationRepository(pool),
		userRepo:      postgresRepo.NewUserRepository(pool),
		retrier:       postgresRepo.NewRetrier(),
		ping:          handler.PingFunc(pool.Ping),
	}, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate signing key: %w", err)
	}

	return hex.EncodeToString(b), nil
}
