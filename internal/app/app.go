package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/swaritsharma001/welness-studio/internal/auth"
	"github.com/swaritsharma001/welness-studio/internal/config"
	"github.com/swaritsharma001/welness-studio/internal/event"
	handler "github.com/swaritsharma001/welness-studio/internal/handler/http"
	"github.com/swaritsharma001/welness-studio/internal/provider"
	"github.com/swaritsharma001/welness-studio/internal/provider/mock"
	"github.com/swaritsharma001/welness-studio/internal/provider/ziina"
	"github.com/swaritsharma001/welness-studio/internal/repository/postgres"
	redisrepo "github.com/swaritsharma001/welness-studio/internal/repository/redis"
	"github.com/swaritsharma001/welness-studio/internal/service"
	"github.com/swaritsharma001/welness-studio/migrations"
	"github.com/swaritsharma001/welness-studio/pkg/database"
	"github.com/swaritsharma001/welness-studio/pkg/health"
	"github.com/swaritsharma001/welness-studio/pkg/httpclient"
	pkgkafka "github.com/swaritsharma001/welness-studio/pkg/kafka"
	"github.com/swaritsharma001/welness-studio/pkg/middleware"
)

// App wires together all dependencies and runs the studio backend.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *goredis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// PostgreSQL connection pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "studio")

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis for carts and the intent status cache.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("port", cfg.RedisPort),
	)

	// Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Payment provider. Ziina goes behind a retrying client and a circuit
	// breaker; the mock provider is for local development.
	var payments provider.Provider
	switch cfg.PaymentProvider {
	case "mock":
		payments = mock.NewProvider()
	default:
		baseClient := httpclient.New(httpclient.DefaultConfig())
		cbClient := httpclient.NewCircuitBreakerClient(baseClient, httpclient.DefaultCircuitBreakerConfig("ziina"), logger)
		payments = ziina.NewProvider(ziina.Config{
			BaseURL:    cfg.ZiinaBaseURL,
			APIKey:     cfg.ZiinaAPIKey,
			SuccessURL: cfg.ZiinaSuccessURL,
			CancelURL:  cfg.ZiinaCancelURL,
			FailureURL: cfg.ZiinaFailureURL,
			Test:       cfg.ZiinaTestMode,
		}, cbClient)
	}
	logger.Info("payment provider initialized", slog.String("provider", payments.Name()))

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	instructorRepo := postgres.NewInstructorRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	cartRepo := redisrepo.NewCartRepository(redisClient, cfg.CartTTL)
	intentCache := redisrepo.NewIntentStatusCache(redisClient, cfg.IntentStatusTTL)

	eventProducer := event.NewProducer(producer, logger)
	reconciler := service.NewReconciler(payments, intentCache, logger)

	userService := service.NewUserService(userRepo, jwtManager, eventProducer, logger)
	catalogService := service.NewCatalogService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(cartRepo, productRepo, orderRepo, payments, eventProducer, reconciler, logger)
	bookingService := service.NewBookingService(instructorRepo, sessionRepo, userRepo, payments, eventProducer, reconciler, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	guard := handler.NewGuard(jwtManager, userRepo)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, cfg.CookieSecure(), logger),
		UserHandler:    handler.NewUserHandler(userService, logger),
		StoreHandler:   handler.NewStoreHandler(catalogService, cartService, checkoutService, logger),
		BookingHandler: handler.NewBookingHandler(bookingService, logger),
		Guard:          guard,
		Health:         healthHandler,
		Logger:         logger,
		CORS:           corsCfg,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: the HTTP server drains
// in-flight requests first, then the Kafka producer flushes, then the data
// stores close.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
