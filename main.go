package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-gather/api"
	gameapi "github.com/beka-birhanu/vinom-gather/api/game"
	api_i "github.com/beka-birhanu/vinom-gather/api/i"
	"github.com/beka-birhanu/vinom-gather/api/identity"
	"github.com/beka-birhanu/vinom-gather/api/maps"
	"github.com/beka-birhanu/vinom-gather/config"
	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/beka-birhanu/vinom-gather/infrastruture/repo"
	"github.com/beka-birhanu/vinom-gather/infrastruture/snapshotstore"
	"github.com/beka-birhanu/vinom-gather/infrastruture/token"
	"github.com/beka-birhanu/vinom-gather/service"
	"github.com/beka-birhanu/vinom-gather/service/i"
	"github.com/beka-birhanu/vinom-gather/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const (
	connectTimeout = 30 * time.Second
	recordsTable   = "retired_players"
)

// Global variables for dependencies
var (
	cfg              config.Config
	appLogger        *slog.Logger
	gameWorld        *game.Game
	recordRepo       i.RecordRepo
	closeRecordRepo  func()
	snapshotStore    snapshot.Store
	snapshotListener *snapshot.Listener
	gameService      *service.GameService
	router           *api.Router
)

func fatal(msg string, err error) {
	appLogger.Error(msg, "error", err)
	os.Exit(1)
}

func initConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		slog.Error("Loading configuration", "error", err)
		os.Exit(1)
	}

	appLogger, err = config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		slog.Error("Creating logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(appLogger)
	gin.SetMode(cfg.GinMode)
}

func initGame() {
	gameConfig, err := config.LoadGameFile(cfg.GameConfigFile)
	if err != nil {
		fatal("Loading game config", err)
	}

	tokens, err := token.NewHexGenerator()
	if err != nil {
		fatal("Creating token generator", err)
	}

	gameWorld, err = gameConfig.NewGame(
		game.WithRandomSpawn(cfg.RandomizeSpawnPoints),
		game.WithTokenSource(tokens),
	)
	if err != nil {
		fatal("Creating game", err)
	}
	appLogger.Info("Game initialized", "maps", len(gameWorld.Maps()))
}

func initRecordRepo(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.LeaderboardBackend {
	case config.LeaderboardPostgres:
		pg, err := repo.NewPostgresRecordRepo(ctx, cfg.GameDBURL, cfg.DBMaxConns)
		if err != nil {
			fatal("Connecting to Postgres", err)
		}
		recordRepo, closeRecordRepo = pg, pg.Close

	case config.LeaderboardMongo:
		client, err := mongo.Connect(ctx, repo.MongoClientOptions(cfg.MongoURI, cfg.DBMaxConns))
		if err != nil {
			fatal("Failed to connect to MongoDB", err)
		}
		if err = client.Ping(ctx, nil); err != nil {
			fatal("MongoDB ping failed", err)
		}
		mr := repo.NewMongoRecordRepo(client, cfg.DBName, recordsTable)
		if err = mr.EnsureIndexes(ctx); err != nil {
			fatal("Creating MongoDB indexes", err)
		}
		recordRepo = mr
		closeRecordRepo = func() { _ = client.Disconnect(context.Background()) }

	case config.LeaderboardSQLite:
		sr, err := repo.NewSQLiteRecordRepo(ctx, cfg.SQLitePath)
		if err != nil {
			fatal("Opening SQLite", err)
		}
		recordRepo = sr
		closeRecordRepo = func() { _ = sr.Close() }
	}
	appLogger.Info("Record repository initialized", "backend", cfg.LeaderboardBackend)
}

func initSnapshots(ctx context.Context) {
	switch cfg.SnapshotBackend {
	case config.SnapshotNone:
		appLogger.Info("Snapshots disabled")
		return
	case config.SnapshotFile:
		snapshotStore = snapshotstore.NewFile(cfg.StateFile)
	case config.SnapshotRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			fatal("Redis ping failed", err)
		}
		snapshotStore = snapshotstore.NewRedis(client, cfg.SnapshotKey)
	}

	restored, err := snapshot.Load(ctx, snapshotStore, gameWorld)
	if err != nil {
		fatal("Restoring game state", err)
	}
	if restored {
		appLogger.Info("Game state restored", "players", gameWorld.Players().Count())
	}

	snapshotListener = snapshot.NewListener(snapshotStore, cfg.SaveStatePeriod, appLogger)
	appLogger.Info("Snapshots initialized", "backend", cfg.SnapshotBackend, "period", cfg.SaveStatePeriod)
}

func initGameService() {
	var err error
	gameService, err = service.NewGameService(&service.Config{
		Game:       gameWorld,
		Records:    recordRepo,
		Snapshots:  snapshotListener,
		TickPeriod: cfg.TickPeriod,
		Logger:     appLogger,
	})
	if err != nil {
		fatal("Creating game service", err)
	}
	appLogger.Info("Game service initialized", "tick_period", cfg.TickPeriod)
}

func initRouter() {
	router = api.NewRouter(api.Config{
		Addr:    fmt.Sprintf("%s:%v", cfg.HostIP, cfg.RESTPort),
		BaseURL: "/api",
		Controllers: []api_i.Controller{
			identity.NewIdentityServer(gameService),
			maps.NewController(gameService),
			gameapi.NewController(gameService),
		},
		AuthorizationMiddleware: identity.Authorize(gameService),
		StaticRoot:              cfg.WWWRoot,
		Logger:                  appLogger,
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	initConfig()
	initGame()
	initRecordRepo(ctx)
	defer closeRecordRepo()
	initSnapshots(ctx)
	initGameService()
	initRouter()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return router.Run(gctx) })
	g.Go(func() error { return gameService.Run(gctx) })
	runErr := g.Wait()

	// The signal context is done by now, save with a fresh one.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := gameService.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Saving final snapshot", "error", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		appLogger.Error("Server stopped", "error", runErr)
		closeRecordRepo()
		os.Exit(1)
	}
	appLogger.Info("Server exited")
}
