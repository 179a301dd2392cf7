package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the Open Platform app, the webhook
// server, the database, the message outbox and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// Lark contains the Open Platform app credentials and client settings
	Lark struct {
		// AppID and AppSecret identify the app
		AppID     string `env:"LARK_APP_ID"     yaml:"appId"`
		AppSecret string `env:"LARK_APP_SECRET" yaml:"appSecret"`
		// AppType is self_built or marketplace
		AppType string `env:"LARK_APP_TYPE" env-default:"self_built" yaml:"appType"`
		// BaseURL is https://open.feishu.cn or https://open.larksuite.com
		BaseURL string `env:"LARK_BASE_URL" env-default:"https://open.feishu.cn" yaml:"baseUrl"`
		// Timeout bounds a single API call including its retries
		Timeout time.Duration `env:"LARK_CLIENT_TIMEOUT" env-default:"1m" yaml:"timeout"`
		// MaxRetries is how many times a failed call is retried
		MaxRetries int `env:"LARK_MAX_RETRIES" env-default:"2" yaml:"maxRetries"`
		// RateLimit is the client-side limit in requests per second; 0 disables it
		RateLimit float64 `env:"LARK_RATE_LIMIT" env-default:"0" yaml:"rateLimit"`
		// RateBurst is the burst allowed by RateLimit
		RateBurst int `env:"LARK_RATE_BURST" env-default:"1" yaml:"rateBurst"`
		// VerificationToken checks that event callbacks come from the platform
		VerificationToken string `env:"LARK_VERIFICATION_TOKEN" yaml:"verificationToken"`
		// EncryptKey decrypts event callbacks and verifies their signature
		EncryptKey string `env:"LARK_ENCRYPT_KEY" yaml:"encryptKey"`
		// SharedTokenCache stores tokens and app tickets in the database instead of memory
		SharedTokenCache bool `env:"LARK_SHARED_TOKEN_CACHE" env-default:"true" yaml:"sharedTokenCache"`
	} `yaml:"lark"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// WebhookPath defines the URL path receiving event callbacks
		WebhookPath string `env:"HTTP_WEBHOOK_PATH" env-default:"/webhook/event" yaml:"webhookPath"`
		// AdminSecret signs the HS256 tokens accepted by the deliveries API; the API is disabled when empty
		AdminSecret string `env:"HTTP_ADMIN_SECRET" yaml:"adminSecret"`
		// EnablePprof serves the runtime profiles under /debug/pprof
		EnablePprof bool `env:"HTTP_ENABLE_PPROF" env-default:"false" yaml:"enablePprof"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"openlark" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Notifier contains the message outbox settings
	Notifier struct {
		// MaxAttempts is the number of failed sends after which a delivery is marked failed
		MaxAttempts int `env:"NOTIFIER_MAX_ATTEMPTS" env-default:"5" yaml:"maxAttempts"`
		// MaxWorkers limits the number of deliveries sent concurrently
		MaxWorkers int `env:"NOTIFIER_MAX_WORKERS" env-default:"20" yaml:"maxWorkers"`
	} `yaml:"notifier"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
