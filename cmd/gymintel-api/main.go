package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a-deal/gym-finder/config"
	"github.com/a-deal/gym-finder/internal/handlers"
	gymrepo "github.com/a-deal/gym-finder/internal/repositories/gym"
	metrorepo "github.com/a-deal/gym-finder/internal/repositories/metroarea"
	searchrepo "github.com/a-deal/gym-finder/internal/repositories/search"
	"github.com/a-deal/gym-finder/pkg/database"
	"github.com/a-deal/gym-finder/pkg/events"
	"github.com/a-deal/gym-finder/pkg/geocode"
	"github.com/a-deal/gym-finder/pkg/httpclient"
	"github.com/a-deal/gym-finder/pkg/kafka"
	"github.com/a-deal/gym-finder/pkg/matching"
	"github.com/a-deal/gym-finder/pkg/middleware"
	"github.com/a-deal/gym-finder/pkg/providers/places"
	"github.com/a-deal/gym-finder/pkg/providers/yelp"
	"github.com/a-deal/gym-finder/pkg/redis"
	"github.com/a-deal/gym-finder/pkg/routes/health"
	"github.com/a-deal/gym-finder/pkg/search"
	"github.com/a-deal/gym-finder/pkg/startup"
	"github.com/a-deal/gym-finder/pkg/tracing"
	"github.com/a-deal/gym-finder/pkg/tracing/exporters"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("Service exited with error")
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) ectologger.Logger {
	zapCfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	zapLogger, err := zapCfg.Build()
	if err != nil {
		zapLogger = zap.NewNop()
	}

	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func run(ctx context.Context, cfg *config.Config, logger ectologger.Logger) error {
	if cfg.TracingEnabled {
		shutdown, err := tracing.Init(ctx, cfg.AppName, exporters.OTLPConfig{
			Endpoint: cfg.TracingEndpoint,
			Protocol: cfg.TracingProtocol,
			Insecure: true,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shut down tracing")
			}
		}()
	}

	var (
		db          database.DB
		redisClient *redis.Client
		producer    *kafka.Producer
	)

	graph := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	graph.AddDependency(&startup.Func{
		Name: "database",
		StartFn: func(ctx context.Context) error {
			dsn := fmt.Sprintf(
				"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName,
				cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
			)

			sqlxDB, err := sqlx.ConnectContext(ctx, cfg.DatabaseDriver, dsn)
			if err != nil {
				return err
			}

			sqlxDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
			sqlxDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
			sqlxDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

			driver, err := postgres.WithInstance(sqlxDB.DB, &postgres.Config{})
			if err != nil {
				return err
			}

			migrations := database.NewMigrationService(logger, &database.MigrationConfig{
				MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
				Version:             uint(cfg.DatabaseMigrationVersion),
			})
			if err := migrations.Migrate(cfg.DatabaseName, driver); err != nil {
				return err
			}

			db = database.NewDatabaseInstance(sqlxDB, logger)
			return nil
		},
		StopFn: func(_ context.Context) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
	})

	graph.AddDependency(&startup.Func{
		Name: "redis",
		StartFn: func(_ context.Context) error {
			if !cfg.RedisEnabled {
				return nil
			}
			client, err := redis.NewClient(redis.Config{
				Host:     cfg.RedisHost,
				Port:     cfg.RedisPort,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			}, logger)
			if err != nil {
				return err
			}
			redisClient = client
			return nil
		},
		StopFn: func(_ context.Context) error {
			if redisClient == nil {
				return nil
			}
			return redisClient.Close()
		},
	})

	graph.AddDependency(&startup.Func{
		Name: "kafka",
		StartFn: func(_ context.Context) error {
			if !cfg.KafkaEnabled {
				return nil
			}
			producer = kafka.NewProducer(kafka.ProducerConfig{
				Brokers:      cfg.KafkaBrokers,
				Topic:        cfg.KafkaOutputTopic,
				BatchSize:    cfg.KafkaBatchSize,
				BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
				RequiredAcks: cfg.KafkaRequiredAcks,
				Compression:  cfg.KafkaCompression,
			}, logger)
			return nil
		},
		StopFn: func(_ context.Context) error {
			if producer == nil {
				return nil
			}
			return producer.Close()
		},
	})

	if err := graph.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := graph.Stop(stopCtx); err != nil {
			logger.WithError(err).Error("Failed to stop dependencies")
		}
	}()

	httpConfig := httpclient.DefaultConfig()
	httpConfig.Timeout = time.Duration(cfg.ProviderTimeoutSeconds) * time.Second
	httpClient := httpclient.NewClient(httpConfig, logger)

	yelpClient := yelp.NewClient(httpClient, cfg.YelpAPIKey, logger)
	placesClient := places.NewClient(httpClient, cfg.GooglePlacesAPIKey, logger)

	geocoder := geocode.NewGeocoder(
		httpClient,
		cfg.NominatimBaseURL,
		cfg.NominatimUserAgent,
		geocode.NYCZipTable(),
		logger,
	)

	engine := matching.NewEngine(logger, matching.Config{
		Threshold:         cfg.MatchThreshold,
		Strategy:          matching.Strategy(cfg.MatchStrategy),
		EnablePhoneSuffix: cfg.EnablePhoneSuffix,
		Weights:           matching.DefaultWeights(),
	})

	gyms := gymrepo.NewRepository(db, logger)
	history := searchrepo.NewRepository(db, logger)
	metros := metrorepo.NewRepository(db, logger)

	var cache *redis.SearchCache
	if redisClient != nil {
		cache = redis.NewSearchCache(redisClient, time.Duration(cfg.SearchCacheTTLMinutes)*time.Minute, logger)
	}

	emitter := events.NewEmitter(producer, logger)

	searchConfig := search.DefaultConfig()
	searchConfig.DefaultRadiusMiles = cfg.DefaultRadiusMiles
	searchConfig.MaxRadiusMiles = cfg.MaxRadiusMiles
	searchConfig.EnableEnrichment = cfg.EnableEnrichment
	searchConfig.MetroConcurrency = cfg.MetroConcurrency

	service := search.NewService(
		geocoder,
		yelpClient,
		placesClient,
		placesClient,
		engine,
		gyms,
		history,
		cache,
		emitter,
		searchConfig,
		logger,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}
	e.HTTPErrorHandler = middleware.Error(logger)

	var redisPinger health.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	checker := health.NewChecker(db, redisPinger, version)
	checker.RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	handlers.NewSearchHandler(service, history, logger).Register(api.Group("/searches"))
	handlers.NewGymHandler(gyms, logger).Register(api.Group("/gyms"))
	handlers.NewMetroHandler(metros, service, logger).Register(api.Group("/metros"))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           e,
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Infof("Starting %s on port %d", cfg.AppName, cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	checker.SetReady(true)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	checker.SetReady(false)
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
