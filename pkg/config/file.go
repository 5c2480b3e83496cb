package config

import (
	"bytes"
	"text/template"
)

var configFileTmpl = template.Must(template.New("config").Parse(`# Taskmill Server configurations

# The name of the server.
name: "{{ .Name }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"
  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"
  # Path to the log file. Leave empty to write to stderr.
  #path: "{{ .Log.Path }}"

# The HTTP server configuration.
http:
  # The address on which the HTTP server will listen.
  listen_addr: "{{ .HTTP.ListenAddr }}"

  # The public URL of the HTTP server.
  public_url: "{{ .HTTP.PublicURL }}"

  # CORS settings of the management API.
  cors:
    allowed_headers:{{ range .HTTP.CORS.AllowedHeaders }}
      - "{{ . }}"{{ end }}
    allowed_origins:{{ range .HTTP.CORS.AllowedOrigins }}
      - "{{ . }}"{{ end }}
    allowed_methods:{{ range .HTTP.CORS.AllowedMethods }}
      - "{{ . }}"{{ end }}

# The stats server configuration.
stats:
  # The address on which the stats server will listen.
  listen_addr: "{{ .Stats.ListenAddr }}"

# The database configuration.
db:
  # The database driver to use.
  # Valid values are "sqlite" and "postgres".
  driver: "{{ .DB.Driver }}"
  # The database data source name.
  # This is driver specific and can be a file path or connection string.
  data_source: "{{ .DB.DataSource }}"

# The webhook subscription cache.
cache:
  # Valid values are "lru", "noop", and "redis".
  backend: "{{ .Cache.Backend }}"
  # Number of entries kept by the lru backend.
  size: {{ .Cache.Size }}
  # Lifetime of entries in the redis backend.
  ttl: "{{ .Cache.TTL }}"
  redis:
    addr: "{{ .Cache.Redis.Addr }}"
    #username: "{{ .Cache.Redis.Username }}"
    #password: "{{ .Cache.Redis.Password }}"
    db: {{ .Cache.Redis.DB }}

# Webhook delivery.
webhook:
  # Timeout of automatic deliveries.
  timeout: "{{ .Webhook.Timeout }}"
  # Timeout of manual test deliveries.
  test_timeout: "{{ .Webhook.TestTimeout }}"
  # Concurrent deliveries per event.
  workers: {{ .Webhook.Workers }}
  # Queue events and deliver them in the background.
  async: {{ .Webhook.Async }}
  queue_size: {{ .Webhook.QueueSize }}
  queue_workers: {{ .Webhook.QueueWorkers }}
  # Maximum number of response bytes kept in the delivery log.
  max_response_bytes: {{ .Webhook.MaxResponseBytes }}
  # Refuse deliveries to loopback and private networks.
  block_private_networks: {{ .Webhook.BlockPrivateNetworks }}

# Delivery tracing.
tracing:
  # Span exporter: "otlp", "stdout", or empty to disable tracing.
  exporter: "{{ .Tracing.Exporter }}"
  # OTLP/HTTP collector address (host:port).
  #endpoint: "{{ .Tracing.Endpoint }}"
  insecure: {{ .Tracing.Insecure }}
  # Fraction of deliveries traced.
  sample_ratio: {{ .Tracing.SampleRatio }}

# Cron jobs.
jobs:
  # Cron spec of the delivery log retention job. Leave empty to disable.
  prune_webhook_logs: "{{ .Jobs.PruneWebhookLogs }}"
  # Delivery logs older than this are pruned.
  webhook_log_retention: "{{ .Jobs.WebhookLogRetention }}"
`))

func newConfigFile(cfg *Config) string {
	var b bytes.Buffer
	configFileTmpl.Execute(&b, cfg) // nolint: errcheck
	return b.String()
}
