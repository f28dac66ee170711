package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the Glossary Core configuration. Values come from built-in
// defaults, then the YAML file, then GLOSSARY_* environment variables.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`

	// Echo logs every SQL statement and its arguments at info level.
	Echo bool `yaml:"echo"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig holds HTTP server timeouts in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

func (t APITimeoutConfig) ReadTimeout() time.Duration  { return seconds(t.Read) }
func (t APITimeoutConfig) WriteTimeout() time.Duration { return seconds(t.Write) }
func (t APITimeoutConfig) IdleTimeout() time.Duration  { return seconds(t.Idle) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains settings for the term change event stream.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
// When Enabled is false no broker connection is attempted.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings for request metrics.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates. A missing file is reported with an
// error wrapping fs.ErrNotExist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return finalise(cfg)
}

// Default returns the built-in configuration with environment overrides
// applied, for running without a config file.
func Default() (*Config, error) {
	return finalise(defaultConfig())
}

func finalise(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./glossary.db", WALMode: true, BusyTimeout: 5},
		API: APIConfig{
			Host:     "0.0.0.0",
			Port:     8000,
			Timeouts: APITimeoutConfig{Read: 30, Write: 30, Idle: 60},
		},
		WebSocket: WebSocketConfig{Path: "/ws", MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10},
		MQTT: MQTTConfig{
			Broker:    MQTTBrokerConfig{Host: "localhost", Port: 1883, ClientID: "glossary-core"},
			QoS:       1,
			Reconnect: MQTTReconnectConfig{InitialDelay: 1, MaxDelay: 60},
		},
		InfluxDB: InfluxDBConfig{Org: "glossary", Bucket: "requests", BatchSize: 100, FlushInterval: 10},
		Logging:  LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
	}
}

// envBinding maps one GLOSSARY_* variable onto a config field. set reports
// false when the value cannot be parsed; the field then keeps its value.
type envBinding struct {
	name string
	set  func(string) bool
}

func envString(dst *string) func(string) bool {
	return func(v string) bool { *dst = v; return true }
}

func envInt(dst *int) func(string) bool {
	return func(v string) bool {
		n, err := strconv.Atoi(v)
		if err == nil {
			*dst = n
		}
		return err == nil
	}
}

func envBool(dst *bool) func(string) bool {
	return func(v string) bool {
		b, err := strconv.ParseBool(v)
		if err == nil {
			*dst = b
		}
		return err == nil
	}
}

func envBindings(cfg *Config) []envBinding {
	return []envBinding{
		{"GLOSSARY_DATABASE_PATH", envString(&cfg.Database.Path)},
		{"GLOSSARY_DATABASE_ECHO", envBool(&cfg.Database.Echo)},
		{"GLOSSARY_API_HOST", envString(&cfg.API.Host)},
		{"GLOSSARY_API_PORT", envInt(&cfg.API.Port)},
		{"GLOSSARY_MQTT_ENABLED", envBool(&cfg.MQTT.Enabled)},
		{"GLOSSARY_MQTT_HOST", envString(&cfg.MQTT.Broker.Host)},
		{"GLOSSARY_MQTT_USERNAME", envString(&cfg.MQTT.Auth.Username)},
		{"GLOSSARY_MQTT_PASSWORD", envString(&cfg.MQTT.Auth.Password)},
		{"GLOSSARY_INFLUXDB_ENABLED", envBool(&cfg.InfluxDB.Enabled)},
		{"GLOSSARY_INFLUXDB_URL", envString(&cfg.InfluxDB.URL)},
		{"GLOSSARY_INFLUXDB_TOKEN", envString(&cfg.InfluxDB.Token)},
		{"GLOSSARY_LOG_LEVEL", envString(&cfg.Logging.Level)},
		{"GLOSSARY_LOG_FORMAT", envString(&cfg.Logging.Format)},
	}
}

// applyEnvOverrides copies set, non-empty GLOSSARY_* variables into cfg.
// Malformed numbers and booleans are ignored.
func applyEnvOverrides(cfg *Config) {
	for _, b := range envBindings(cfg) {
		if v := os.Getenv(b.name); v != "" {
			b.set(v)
		}
	}
}

// Validate reports every problem at once, joined with "; ".
func (c *Config) Validate() error {
	var errs []string
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, msg)
		}
	}

	check(c.Database.Path != "", "database.path is required")
	check(c.API.Port >= 1 && c.API.Port <= 65535, "api.port must be between 1 and 65535")
	check(c.MQTT.QoS >= 0 && c.MQTT.QoS <= 2, "mqtt.qos must be 0, 1, or 2")
	if c.MQTT.Enabled {
		check(c.MQTT.Broker.Host != "", "mqtt.broker.host is required when mqtt is enabled")
	}
	if c.InfluxDB.Enabled {
		check(c.InfluxDB.URL != "", "influxdb.url is required when influxdb is enabled")
		check(c.InfluxDB.Bucket != "", "influxdb.bucket is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
