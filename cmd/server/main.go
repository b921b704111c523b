package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arenatv/backend/internal/application"
	"github.com/arenatv/backend/internal/domain"
	"github.com/arenatv/backend/internal/infrastructure/feed"
	"github.com/arenatv/backend/internal/infrastructure/repository/postgres"
	"github.com/arenatv/backend/internal/infrastructure/storage"
	httpiface "github.com/arenatv/backend/internal/interfaces/http"
	"github.com/arenatv/backend/internal/interfaces/http/handlers"
	"github.com/arenatv/backend/internal/interfaces/http/middleware"
	"github.com/arenatv/backend/internal/pkg/config"
	"github.com/arenatv/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	logger.Init("info", true)
	log := logger.Get()

	log.Info().Msg("Starting ArenaTV Backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to PostgreSQL
	dbPool, err := connectDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	log.Info().Msg("Connected to PostgreSQL")

	runMigrations(dbPool, log)

	// Durable key-value storage for app state; fall back to in-memory when
	// Redis is unreachable so the server still comes up (state is then not
	// durable, matching the degraded mode of the storage contract).
	kv := connectStorage(cfg.Redis, log)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(dbPool)
	eventRepo := postgres.NewEventRepository(dbPool)
	settingsRepo := postgres.NewSettingsRepository(dbPool)

	// Initialize services
	notifier := application.LogNotifier{}
	authService := application.NewAuthService(
		userRepo,
		kv,
		cfg.Session.PasswordSalt,
		cfg.Session.JWTSecret,
		cfg.Session.ExpirationHours,
	)
	favoritesService := application.NewFavoritesService(kv, notifier)
	historyService := application.NewHistoryService(kv)
	sleepTimer := application.NewSleepTimer(notifier)
	feedClient := feed.NewClient(cfg.Feed.BaseURL, cfg.Feed.Timeout())
	autolinkService := application.NewAutoLinkService(eventRepo, feedClient)
	settingsService := application.NewSettingsService(settingsRepo)
	housekeeping := application.NewHousekeepingService(
		eventRepo,
		cfg.Housekeeping.DeactivateAfterHours,
		cfg.Housekeeping.PurgeAfterHours,
		cfg.Housekeeping.Interval(),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	libraryHandler := handlers.NewLibraryHandler(favoritesService, historyService)
	eventHandler := handlers.NewEventHandler(eventRepo, autolinkService)
	timerHandler := handlers.NewTimerHandler(sleepTimer, settingsService, func() {
		notifier.Notify(application.NotifyInfo, "Playback stopped by sleep timer")
	})
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := httpiface.NewRouter(authHandler, libraryHandler, eventHandler, timerHandler, settingsHandler, authMiddleware, &cfg.Server)
	router.SetupRoutes()

	// Startup tasks
	createDefaultUser(authService)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go housekeeping.Run(ctx)
	go runFeedSync(ctx, autolinkService, settingsService, cfg.Feed, log)

	// Start server in goroutine
	serverAddr := cfg.Server.Addr()
	go func() {
		log.Info().Str("address", serverAddr).Msg("Starting HTTP server")
		if err := router.Start(serverAddr); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancel()
	sleepTimer.Stop()
	if err := router.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
	if closer, ok := kv.(*storage.Redis); ok {
		closer.Close()
	}

	log.Info().Msg("Server stopped")
}

func connectDB(cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return pool, nil
}

func connectStorage(cfg config.RedisConfig, log *zerolog.Logger) storage.KV {
	kv, err := storage.NewRedis(cfg.URL, cfg.KeyPrefix, cfg.MaxValueBytes)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err = kv.Ping(ctx); err == nil {
			log.Info().Msg("Connected to Redis storage")
			return kv
		}
	}
	log.Warn().Err(err).Msg("Redis unavailable, using in-memory storage")
	return storage.NewMemory(cfg.MaxValueBytes)
}

func runMigrations(dbPool *pgxpool.Pool, log *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.Migrate(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	log.Info().Msg("Database migrations completed")
}

func createDefaultUser(authService *application.AuthService) {
	log := logger.Get()

	_, err := authService.CreateUser(
		"demo",
		"Ar3naTV!Demo2024",
		"Demo",
		time.Now().AddDate(0, 1, 0),
	)
	if err != nil {
		// Account likely exists already
		log.Debug().Err(err).Msg("Default user creation skipped")
	} else {
		log.Info().Msg("Created default user (demo)")
	}
}

// runFeedSync periodically reconciles every configured league feed. The
// league list and cadence come from the app settings, with the static
// configuration as the fallback, so an admin can retune the sync without a
// restart.
func runFeedSync(ctx context.Context, autolink *application.AutoLinkService, settings *application.SettingsService, cfg config.FeedConfig, log *zerolog.Logger) {
	if cfg.SyncMinutes <= 0 {
		return
	}

	leagues := func() []domain.LeagueInfo {
		if fromSettings := settings.Leagues(); len(fromSettings) > 0 {
			return fromSettings
		}
		out := make([]domain.LeagueInfo, 0, len(cfg.Leagues))
		for _, lc := range cfg.Leagues {
			out = append(out, domain.LeagueInfo{Sport: lc.Sport, League: lc.League})
		}
		return out
	}

	syncAll := func() {
		for _, league := range leagues() {
			if _, _, err := autolink.SyncLeague(ctx, league); err != nil {
				log.Error().Err(err).Str("league", league.League).Msg("Feed sync failed")
			}
		}
	}

	interval := func() time.Duration {
		return time.Duration(settings.FeedSyncMinutes()) * time.Minute
	}

	syncAll()
	timer := time.NewTimer(interval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			syncAll()
			timer.Reset(interval())
		}
	}
}
