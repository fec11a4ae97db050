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

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lo-site/config"
	httpLayer "lo-site/http"
	"lo-site/repository"
	"lo-site/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, ".env")
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := applyLogConfig(cfg); err != nil {
			return err
		}
		return runServer(cmd.Context(), cfg)
	},
}

func applyLogConfig(cfg *config.Config) error {
	if verbose {
		return nil
	}
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	l, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

func runServer(ctx context.Context, cfg *config.Config) error {
	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient = repository.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect to redis %s: %w", cfg.Redis.Addr, err)
		}
	}

	var cache repository.CacheRepository = repository.NewMemoryCache()
	if cfg.Cache.Driver == config.DriverRedis {
		cache = repository.NewRedisCache(redisClient, "lo-site:")
	}

	var store repository.RateLimitStore
	if cfg.RateLimit.Store == config.DriverRedis {
		store = repository.NewRedisRateLimitStore(redisClient, "lo-site:ratelimit:")
	} else {
		memStore, err := repository.NewMemoryRateLimitStore(cfg.RateLimit.Sweep)
		if err != nil {
			return err
		}
		defer memStore.Stop()
		store = memStore
		logger.Warn("rate limiting is process-local; counts are not shared between instances")
	}

	var profileRepo repository.ProfileRepository
	if cfg.Profiles.BaseURL != "" {
		profileRepo = repository.NewHTTPProfileRepository(cfg.Profiles.BaseURL, cfg.Profiles.APIKey, cfg.Profiles.Timeout)
	} else {
		profileRepo = repository.NewStaticProfileRepository(cfg.Profiles.Static)
	}

	var leadRepo repository.LeadRepository
	if cfg.Leads.ForwardURL != "" {
		leadRepo = repository.NewHTTPLeadRepository(cfg.Leads.ForwardURL, cfg.Leads.APIKey, cfg.Leads.ForwardTimeout)
	} else {
		leadRepo = repository.NewLeadRepositoryMemory()
		logger.Warn("leads.forward_url not set; leads are kept in memory only")
	}

	var generator service.HeadlineGenerator
	if cfg.Headlines.GeminiAPIKey != "" {
		g, err := repository.NewGeminiGenerator(ctx, cfg.Headlines.GeminiAPIKey, cfg.Headlines.Model)
		if err != nil {
			return err
		}
		generator = g
	}

	router := httpLayer.NewRouter(httpLayer.Dependencies{
		Programs:    service.NewProgramService(cfg.ProgramDefaults()),
		Leads:       service.NewLeadService(leadRepo, cfg.LeadOptions(), logger),
		Profiles:    service.NewProfileService(profileRepo, cache, cfg.Profiles.CacheTTL, logger),
		Headlines:   service.NewHeadlineService(generator, logger),
		LeadLimiter: httpLayer.NewRateLimiter(store, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, "lead:", logger),
		Tenants: httpLayer.TenantOptions{
			RootDomain:  cfg.Tenants.RootDomain,
			DefaultSlug: cfg.Tenants.DefaultSlug,
		},
		Logger: logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.Bool("leads_always_ack", cfg.LeadOptions().AlwaysAck),
			zap.String("rate_limit_store", cfg.RateLimit.Store),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", zap.Error(err))
	}

	logger.Info("server exited")
	return nil
}
