// Glossary Core - a small glossary service.
//
// This is the main entry point. It serves a JSON API over HTTP for managing
// glossary terms stored in SQLite, with optional change events on MQTT and
// per-request metrics in InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/glossary-core/migrations"

	"github.com/nerrad567/glossary-core/internal/api"
	"github.com/nerrad567/glossary-core/internal/infrastructure/config"
	"github.com/nerrad567/glossary-core/internal/infrastructure/database"
	"github.com/nerrad567/glossary-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/glossary-core/internal/infrastructure/logging"
	"github.com/nerrad567/glossary-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/glossary-core/internal/term"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

const (
	// defaultConfigPath is used when neither --config nor GLOSSARY_CONFIG is set.
	defaultConfigPath = "configs/config.yaml"

	// configEnvVar names the environment variable holding the config path.
	configEnvVar = "GLOSSARY_CONFIG"
)

func main() {
	// Cancel on Ctrl+C or SIGTERM for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the serve command, separated from main for testability.
// It blocks until ctx is cancelled and returns nil on clean shutdown.
func run(ctx context.Context, configFlag string) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Glossary Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath, explicit := getConfigPath(configFlag)
	cfg, err := loadConfig(configPath, explicit)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database ready", "path", cfg.Database.Path)

	deps := api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		DB:      db,
		Terms:   term.NewSQLiteRepository(db),
		Version: version,
	}

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT, log.With("component", "mqtt"))
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		deps.Events = mqttClient
	} else {
		log.Info("MQTT disabled, term events go to WebSocket subscribers only")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB, log.With("component", "influxdb"))
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		deps.Metrics = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	apiServer, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API server, InfluxDB, MQTT, database.
	log.Info("Glossary Core stopped")
	return nil
}

// getConfigPath returns the configuration file path and whether it was
// chosen explicitly. The --config flag wins over GLOSSARY_CONFIG, which wins
// over the default.
func getConfigPath(flag string) (string, bool) {
	if flag != "" {
		return flag, true
	}
	if path := os.Getenv(configEnvVar); path != "" {
		return path, true
	}
	return defaultConfigPath, false
}

// loadConfig reads the config file. A missing file at the default location
// is not an error: the built-in defaults (plus environment overrides) apply.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	return nil, err
}

// openDatabase opens the SQLite file and applies the embedded schema.
func openDatabase(ctx context.Context, cfg *config.Config, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
		Echo:        cfg.Database.Echo,
		Logger:      log.With("component", "database"),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // Already failing
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return db, nil
}

// healthCheck verifies all infrastructure connections are healthy.
// The MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
