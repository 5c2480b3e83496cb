package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrNilConfig is returned when a nil config is passed to a function.
var ErrNilConfig = errors.New("nil config")

// CORSConfig is the CORS configuration for the HTTP server.
type CORSConfig struct {
	AllowedHeaders []string `env:"ALLOWED_HEADERS" yaml:"allowed_headers"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	AllowedMethods []string `env:"ALLOWED_METHODS" yaml:"allowed_methods"`
}

// HTTPConfig is the HTTP configuration for the server.
type HTTPConfig struct {
	// ListenAddr is the address on which the HTTP server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// PublicURL is the public URL of the HTTP server.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`

	// CORS is the CORS configuration of the management API.
	CORS CORSConfig `envPrefix:"CORS_" yaml:"cors"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// ListenAddr is the address on which the stats server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// DBConfig is the database connection configuration.
type DBConfig struct {
	// Driver is the driver for the database.
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is the database data source name.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`
}

// RedisConfig is the configuration of the Redis cache backend.
type RedisConfig struct {
	// Addr is the Redis address [host][:port].
	Addr string `env:"ADDR" yaml:"addr"`

	// Username is the Redis username.
	Username string `env:"USERNAME" yaml:"username"`

	// Password is the Redis password.
	Password string `env:"PASSWORD" yaml:"password"`

	// DB is the Redis database.
	DB int `env:"DB" yaml:"db"`
}

// CacheConfig is the configuration of the webhook subscription cache.
type CacheConfig struct {
	// Backend is the cache backend.
	// Valid values are "lru", "noop", and "redis".
	Backend string `env:"BACKEND" yaml:"backend"`

	// Size is the number of entries kept by the lru backend.
	Size int `env:"SIZE" yaml:"size"`

	// TTL is how long cached entries live. Zero keeps them until they are
	// evicted or invalidated.
	TTL time.Duration `env:"TTL" yaml:"ttl"`

	// Redis is the configuration of the redis backend.
	Redis RedisConfig `envPrefix:"REDIS_" yaml:"redis"`
}

// WebhookConfig is the configuration of webhook delivery.
type WebhookConfig struct {
	// Timeout bounds every automatic delivery.
	Timeout time.Duration `env:"TIMEOUT" yaml:"timeout"`

	// TestTimeout bounds manual test deliveries.
	TestTimeout time.Duration `env:"TEST_TIMEOUT" yaml:"test_timeout"`

	// Workers is the number of concurrent deliveries per event.
	Workers int `env:"WORKERS" yaml:"workers"`

	// Async enqueues events instead of dispatching them within the request.
	Async bool `env:"ASYNC" yaml:"async"`

	// QueueSize is the number of events buffered when Async is set.
	QueueSize int `env:"QUEUE_SIZE" yaml:"queue_size"`

	// QueueWorkers is the number of events dispatched concurrently when Async is set.
	QueueWorkers int `env:"QUEUE_WORKERS" yaml:"queue_workers"`

	// MaxResponseBytes caps the response body kept in the delivery log.
	MaxResponseBytes int64 `env:"MAX_RESPONSE_BYTES" yaml:"max_response_bytes"`

	// BlockPrivateNetworks refuses to deliver to loopback, private and
	// link-local addresses.
	BlockPrivateNetworks bool `env:"BLOCK_PRIVATE_NETWORKS" yaml:"block_private_networks"`
}

// TracingConfig is the configuration of delivery tracing.
type TracingConfig struct {
	// Exporter is where spans are sent: "otlp", "stdout", or empty to
	// disable tracing.
	Exporter string `env:"EXPORTER" yaml:"exporter"`

	// Endpoint is the OTLP/HTTP collector address, host:port. When empty the
	// exporter honors the OTEL_EXPORTER_OTLP_* environment variables.
	Endpoint string `env:"ENDPOINT" yaml:"endpoint"`

	// Insecure sends spans over plain HTTP.
	Insecure bool `env:"INSECURE" yaml:"insecure"`

	// SampleRatio is the fraction of deliveries traced, between 0 and 1.
	SampleRatio float64 `env:"SAMPLE_RATIO" yaml:"sample_ratio"`
}

// JobsConfig is the configuration for cron jobs.
type JobsConfig struct {
	// PruneWebhookLogs is the cron spec of the delivery log retention job.
	// Leave empty to keep delivery logs forever.
	PruneWebhookLogs string `env:"PRUNE_WEBHOOK_LOGS" yaml:"prune_webhook_logs"`

	// WebhookLogRetention is the age after which delivery logs are pruned.
	WebhookLogRetention time.Duration `env:"WEBHOOK_LOG_RETENTION" yaml:"webhook_log_retention"`
}

// Config is the configuration for Taskmill.
type Config struct {
	// Name is the name of the server.
	Name string `env:"NAME" yaml:"name"`

	// HTTP is the configuration for the HTTP server.
	HTTP HTTPConfig `envPrefix:"HTTP_" yaml:"http"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// DB is the database configuration.
	DB DBConfig `envPrefix:"DB_" yaml:"db"`

	// Cache is the subscription cache configuration.
	Cache CacheConfig `envPrefix:"CACHE_" yaml:"cache"`

	// Webhook is the webhook delivery configuration.
	Webhook WebhookConfig `envPrefix:"WEBHOOK_" yaml:"webhook"`

	// Tracing is the delivery tracing configuration.
	Tracing TracingConfig `envPrefix:"TRACING_" yaml:"tracing"`

	// Jobs is the configuration for cron jobs
	Jobs JobsConfig `envPrefix:"JOBS_" yaml:"jobs"`

	// DataPath is the path to the directory where Taskmill will store its data.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// Environ returns the config as a list of environment variables.
func (c *Config) Environ() []string {
	envs := []string{}
	if c == nil {
		return envs
	}

	// TODO: do this dynamically
	envs = append(envs, []string{
		fmt.Sprintf("TASKMILL_DATA_PATH=%s", c.DataPath),
		fmt.Sprintf("TASKMILL_NAME=%s", c.Name),
		fmt.Sprintf("TASKMILL_HTTP_LISTEN_ADDR=%s", c.HTTP.ListenAddr),
		fmt.Sprintf("TASKMILL_HTTP_PUBLIC_URL=%s", c.HTTP.PublicURL),
		fmt.Sprintf("TASKMILL_HTTP_CORS_ALLOWED_HEADERS=%s", strings.Join(c.HTTP.CORS.AllowedHeaders, ",")),
		fmt.Sprintf("TASKMILL_HTTP_CORS_ALLOWED_ORIGINS=%s", strings.Join(c.HTTP.CORS.AllowedOrigins, ",")),
		fmt.Sprintf("TASKMILL_HTTP_CORS_ALLOWED_METHODS=%s", strings.Join(c.HTTP.CORS.AllowedMethods, ",")),
		fmt.Sprintf("TASKMILL_STATS_LISTEN_ADDR=%s", c.Stats.ListenAddr),
		fmt.Sprintf("TASKMILL_LOG_FORMAT=%s", c.Log.Format),
		fmt.Sprintf("TASKMILL_LOG_TIME_FORMAT=%s", c.Log.TimeFormat),
		fmt.Sprintf("TASKMILL_LOG_PATH=%s", c.Log.Path),
		fmt.Sprintf("TASKMILL_DB_DRIVER=%s", c.DB.Driver),
		fmt.Sprintf("TASKMILL_DB_DATA_SOURCE=%s", c.DB.DataSource),
		fmt.Sprintf("TASKMILL_CACHE_BACKEND=%s", c.Cache.Backend),
		fmt.Sprintf("TASKMILL_CACHE_SIZE=%d", c.Cache.Size),
		fmt.Sprintf("TASKMILL_CACHE_TTL=%s", c.Cache.TTL),
		fmt.Sprintf("TASKMILL_CACHE_REDIS_ADDR=%s", c.Cache.Redis.Addr),
		fmt.Sprintf("TASKMILL_CACHE_REDIS_USERNAME=%s", c.Cache.Redis.Username),
		fmt.Sprintf("TASKMILL_CACHE_REDIS_PASSWORD=%s", c.Cache.Redis.Password),
		fmt.Sprintf("TASKMILL_CACHE_REDIS_DB=%d", c.Cache.Redis.DB),
		fmt.Sprintf("TASKMILL_WEBHOOK_TIMEOUT=%s", c.Webhook.Timeout),
		fmt.Sprintf("TASKMILL_WEBHOOK_TEST_TIMEOUT=%s", c.Webhook.TestTimeout),
		fmt.Sprintf("TASKMILL_WEBHOOK_WORKERS=%d", c.Webhook.Workers),
		fmt.Sprintf("TASKMILL_WEBHOOK_ASYNC=%t", c.Webhook.Async),
		fmt.Sprintf("TASKMILL_WEBHOOK_QUEUE_SIZE=%d", c.Webhook.QueueSize),
		fmt.Sprintf("TASKMILL_WEBHOOK_QUEUE_WORKERS=%d", c.Webhook.QueueWorkers),
		fmt.Sprintf("TASKMILL_WEBHOOK_MAX_RESPONSE_BYTES=%d", c.Webhook.MaxResponseBytes),
		fmt.Sprintf("TASKMILL_WEBHOOK_BLOCK_PRIVATE_NETWORKS=%t", c.Webhook.BlockPrivateNetworks),
		fmt.Sprintf("TASKMILL_TRACING_EXPORTER=%s", c.Tracing.Exporter),
		fmt.Sprintf("TASKMILL_TRACING_ENDPOINT=%s", c.Tracing.Endpoint),
		fmt.Sprintf("TASKMILL_TRACING_INSECURE=%t", c.Tracing.Insecure),
		fmt.Sprintf("TASKMILL_TRACING_SAMPLE_RATIO=%g", c.Tracing.SampleRatio),
		fmt.Sprintf("TASKMILL_JOBS_PRUNE_WEBHOOK_LOGS=%s", c.Jobs.PruneWebhookLogs),
		fmt.Sprintf("TASKMILL_JOBS_WEBHOOK_LOG_RETENTION=%s", c.Jobs.WebhookLogRetention),
	}...)

	return envs
}

// IsDebug returns true if the server is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("TASKMILL_DEBUG"))
	return debug
}

// IsVerbose returns true if the server is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("TASKMILL_VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// parseEnv parses the environment variables as a configuration file.
func parseEnv(cfg *Config) error {
	// Merge allowed origins from both config file and environment variables.
	origins := append([]string{}, cfg.HTTP.CORS.AllowedOrigins...)

	// Override with environment variables
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: "TASKMILL_",
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	if os.Getenv("TASKMILL_HTTP_CORS_ALLOWED_ORIGINS") != "" {
		cfg.HTTP.CORS.AllowedOrigins = append(origins, cfg.HTTP.CORS.AllowedOrigins...)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment variables.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if err := c.ParseFile(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o644) // nolint: errcheck, gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the TASKMILL_DATA_PATH environment variable if set, otherwise it
// uses "data".
func DefaultDataPath() string {
	dp := os.Getenv("TASKMILL_DATA_PATH")
	if dp == "" {
		dp = "data"
	}

	return dp
}

// ConfigPath returns the path to the config file.
// TASKMILL_CONFIG_LOCATION takes precedence when it points to an existing file.
func (c *Config) ConfigPath() string { // nolint:revive
	if path := os.Getenv("TASKMILL_CONFIG_LOCATION"); exist(path) {
		return path
	}

	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(c.ConfigPath())
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	cfg := &Config{
		Name:     "Taskmill",
		DataPath: DefaultDataPath(),
		HTTP: HTTPConfig{
			ListenAddr: ":8080",
			PublicURL:  "http://localhost:8080",
			CORS: CORSConfig{
				AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Language", "Content-Type", "Origin", "X-Requested-With"},
				AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
			},
		},
		Stats: StatsConfig{
			ListenAddr: "localhost:8081",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DataSource: "taskmill.db" +
				"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		Cache: CacheConfig{
			Backend: "lru",
			Size:    128,
			TTL:     time.Minute,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Webhook: WebhookConfig{
			Timeout:          10 * time.Second,
			TestTimeout:      5 * time.Second,
			Workers:          8,
			Async:            true,
			QueueSize:        256,
			QueueWorkers:     4,
			MaxResponseBytes: 64 << 10,
		},
		Tracing: TracingConfig{
			SampleRatio: 1,
		},
		Jobs: JobsConfig{
			WebhookLogRetention: 30 * 24 * time.Hour,
		},
	}

	cfg.HTTP.CORS.AllowedOrigins = []string{cfg.HTTP.PublicURL}

	return cfg
}

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.HTTP.PublicURL = strings.TrimSuffix(c.HTTP.PublicURL, "/")

	if strings.HasPrefix(c.DB.Driver, "sqlite") && !filepath.IsAbs(c.DB.DataSource) {
		c.DB.DataSource = filepath.Join(c.DataPath, c.DB.DataSource)
	}

	switch c.Cache.Backend {
	case "", "lru", "noop", "redis":
	default:
		return fmt.Errorf("invalid cache backend: %q", c.Cache.Backend)
	}

	if c.Webhook.Timeout <= 0 || c.Webhook.TestTimeout <= 0 {
		return errors.New("webhook timeouts must be positive")
	}

	switch c.Tracing.Exporter {
	case "", "otlp", "stdout":
	default:
		return fmt.Errorf("invalid tracing exporter: %q", c.Tracing.Exporter)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return errors.New("tracing sample ratio must be between 0 and 1")
	}

	if c.Webhook.Workers < 0 || c.Webhook.QueueSize < 0 || c.Webhook.QueueWorkers < 0 {
		return errors.New("webhook worker and queue sizes must not be negative")
	}

	return nil
}
