package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Snapshot backends.
const (
	SnapshotNone  = ""
	SnapshotFile  = "file"
	SnapshotRedis = "redis"
)

// Leaderboard backends.
const (
	LeaderboardPostgres = "postgres"
	LeaderboardMongo    = "mongo"
	LeaderboardSQLite   = "sqlite"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP               string        // Host IP for the server
	RESTPort             int           // Port for the REST API
	GinMode              string        // Mode for the Gin framework (e.g., release, debug, test)
	GameConfigFile       string        // Path of the maps and game rules file
	WWWRoot              string        // Directory of static files, empty to serve none
	TickPeriod           time.Duration // Automatic tick period, zero enables the manual tick endpoint
	RandomizeSpawnPoints bool          // Spawn new dogs at random road points

	SnapshotBackend string        // Where game state is saved: "", "file" or "redis"
	StateFile       string        // Snapshot file for the file backend
	SaveStatePeriod time.Duration // Game time between snapshots, zero saves on shutdown only
	RedisAddr       string        // Address of the redis server
	RedisPassword   string        // Password for the redis server
	RedisDB         int           // Redis database number
	SnapshotKey     string        // Redis key of the snapshot

	LeaderboardBackend string // Where retired dogs are recorded: "postgres", "mongo" or "sqlite"
	GameDBURL          string // Postgres connection string
	DBMaxConns         int    // Size of the database connection pool
	MongoURI           string // Connection string of the mongo server
	DBName             string // Name of the mongo database
	SQLitePath         string // Path of the sqlite database file

	LogLevel  string // debug, info, warn or error
	LogFormat string // json or text
}

// Load reads the configuration from the environment, loading a .env file
// first when one is present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found or could not be loaded", "error", err)
	}

	var p parser
	cfg := Config{
		HostIP:               getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:             p.getEnvAsInt("REST_PORT", 8080),
		GinMode:              getEnvWithDefault("GIN_MODE", "release"),
		GameConfigFile:       p.requireEnv("GAME_CONFIG_FILE"),
		WWWRoot:              getEnvWithDefault("WWW_ROOT", ""),
		TickPeriod:           p.getEnvAsMillis("TICK_PERIOD_MS", 0),
		RandomizeSpawnPoints: p.getEnvAsBool("RANDOMIZE_SPAWN_POINTS", false),

		SnapshotBackend: getEnvWithDefault("SNAPSHOT_BACKEND", SnapshotNone),
		StateFile:       getEnvWithDefault("STATE_FILE", ""),
		SaveStatePeriod: p.getEnvAsMillis("SAVE_STATE_PERIOD_MS", 0),
		RedisAddr:       getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:         p.getEnvAsInt("REDIS_DB", 0),
		SnapshotKey:     getEnvWithDefault("SNAPSHOT_KEY", "vinom-gather:state"),

		LeaderboardBackend: getEnvWithDefault("LEADERBOARD_BACKEND", LeaderboardPostgres),
		GameDBURL:          getEnvWithDefault("GAME_DB_URL", ""),
		DBMaxConns:         p.getEnvAsInt("DB_MAX_CONNS", runtime.NumCPU()),
		MongoURI:           getEnvWithDefault("MONGO_URI", ""),
		DBName:             getEnvWithDefault("DB_NAME", "vinom_gather"),
		SQLitePath:         getEnvWithDefault("SQLITE_PATH", "records.db"),

		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "json"),
	}
	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SnapshotBackend {
	case SnapshotNone:
	case SnapshotFile:
		if c.StateFile == "" {
			return fmt.Errorf("STATE_FILE is required by the %q snapshot backend", c.SnapshotBackend)
		}
	case SnapshotRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required by the %q snapshot backend", c.SnapshotBackend)
		}
	default:
		return fmt.Errorf("unknown SNAPSHOT_BACKEND %q", c.SnapshotBackend)
	}

	switch c.LeaderboardBackend {
	case LeaderboardPostgres:
		if c.GameDBURL == "" {
			return fmt.Errorf("GAME_DB_URL is required by the %q leaderboard backend", c.LeaderboardBackend)
		}
	case LeaderboardMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required by the %q leaderboard backend", c.LeaderboardBackend)
		}
	case LeaderboardSQLite:
	default:
		return fmt.Errorf("unknown LEADERBOARD_BACKEND %q", c.LeaderboardBackend)
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown GIN_MODE %q", c.GinMode)
	}

	if c.TickPeriod < 0 || c.SaveStatePeriod < 0 {
		return fmt.Errorf("TICK_PERIOD_MS and SAVE_STATE_PERIOD_MS must not be negative")
	}
	return nil
}

// parser remembers the first malformed variable.
type parser struct {
	err error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// requireEnv retrieves the value of an environment variable that must be set.
func (p *parser) requireEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		p.fail(fmt.Errorf("environment variable %s is not set", key))
	}
	return value
}

// getEnvAsInt retrieves the value of an environment variable as an integer.
func (p *parser) getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		p.fail(fmt.Errorf("environment variable %s must be an integer: %w", key, err))
		return defaultValue
	}
	return value
}

// getEnvAsBool retrieves the value of an environment variable as a boolean.
func (p *parser) getEnvAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		p.fail(fmt.Errorf("environment variable %s must be a boolean: %w", key, err))
		return defaultValue
	}
	return value
}

// getEnvAsMillis retrieves the value of an environment variable as a number of milliseconds.
func (p *parser) getEnvAsMillis(key string, defaultValue int) time.Duration {
	return time.Duration(p.getEnvAsInt(key, defaultValue)) * time.Millisecond
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
