package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// auth, mobile money, compliance, delivery channels and background workers.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

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
		// RateLimit is the steady per-client request rate (requests per second)
		RateLimit float64 `env:"HTTP_RATE_LIMIT" env-default:"20" yaml:"rateLimit"`
		// RateBurst is the per-client burst size on top of RateLimit
		RateBurst int `env:"HTTP_RATE_BURST" env-default:"40" yaml:"rateBurst"`
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
		DatabaseName string `env:"DATABASE_NAME" env-default:"wefund" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// JWT holds the RS256 key pair and token lifetime
	JWT struct {
		// PrivateKey is the PEM-encoded RSA private key used to sign tokens
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
		// PublicKey is the PEM-encoded RSA public key used to verify tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// TTL is the access token lifetime
		TTL time.Duration `env:"JWT_TTL" env-default:"24h" yaml:"ttl"`
	} `yaml:"jwt"`

	// MoMo configures the mobile money collection channel
	MoMo struct {
		// PhoneNumber is the personal number all deposits are routed to
		PhoneNumber string `env:"MOMO_PHONE_NUMBER" env-default:"678394294" yaml:"phoneNumber"`
		// Provider is the rail of the collection number
		Provider string `env:"MOMO_PROVIDER" env-default:"mtn_money" yaml:"provider"`
		// AccountName is the registered holder of the collection number
		AccountName string `env:"MOMO_ACCOUNT_NAME" env-default:"WeFund Collections" yaml:"accountName"`
		// MinDeposit is the smallest accepted deposit in XAF
		MinDeposit int64 `env:"MOMO_MIN_DEPOSIT" env-default:"100" yaml:"minDeposit"`
		// MinWithdrawal is the smallest accepted withdrawal in XAF
		MinWithdrawal int64 `env:"MOMO_MIN_WITHDRAWAL" env-default:"500" yaml:"minWithdrawal"`
		// BankTransfersEnabled gates momo-to-bank sweeps
		BankTransfersEnabled bool `env:"MOMO_BANK_TRANSFERS_ENABLED" env-default:"false" yaml:"bankTransfersEnabled"`
	} `yaml:"momo"`

	// Investment caps per verification level, in XAF
	Investment struct {
		// UnverifiedCap is the lifetime invested total allowed before any verification
		UnverifiedCap int64 `env:"INVESTMENT_UNVERIFIED_CAP" env-default:"100000" yaml:"unverifiedCap"`
		// VerifiedCap applies once KYC is approved
		VerifiedCap int64 `env:"INVESTMENT_VERIFIED_CAP" env-default:"5000000" yaml:"verifiedCap"`
		// PremiumCap applies to premium accounts; 0 means unlimited
		PremiumCap int64 `env:"INVESTMENT_PREMIUM_CAP" env-default:"0" yaml:"premiumCap"`
	} `yaml:"investment"`

	// Compliance configures the AML screening provider
	Compliance struct {
		// BaseURL of the screening provider API
		BaseURL string `env:"COMPLIANCE_BASE_URL" env-default:"" yaml:"baseURL"`
		// APIKey authenticates against the provider
		APIKey string `env:"COMPLIANCE_API_KEY" env-default:"" yaml:"apiKey"`
		// MaxDocumentBytes limits uploaded KYC document payloads
		MaxDocumentBytes int64 `env:"COMPLIANCE_MAX_DOCUMENT_BYTES" env-default:"5242880" yaml:"maxDocumentBytes"`
	} `yaml:"compliance"`

	// FCM configures push delivery
	FCM struct {
		// ServerKey is the legacy FCM server key
		ServerKey string `env:"FCM_SERVER_KEY" env-default:"" yaml:"serverKey"`
	} `yaml:"fcm"`

	// SMTP configures outbound email
	SMTP struct {
		Host     string `env:"SMTP_HOST" env-default:"localhost" yaml:"host"`
		Port     int    `env:"SMTP_PORT" env-default:"25" yaml:"port"`
		Username string `env:"SMTP_USERNAME" env-default:"" yaml:"username"`
		Password string `env:"SMTP_PASSWORD" env-default:"" yaml:"password"`
		// From is the sender address on outbound mail
		From string `env:"SMTP_FROM" env-default:"no-reply@wefund.example" yaml:"from"`
	} `yaml:"smtp"`

	// Worker contains background worker configurations
	Worker struct {
		// MaxWorkers caps concurrent River job execution
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"10" yaml:"maxWorkers"`
		// MaxAttempts is the per-job retry budget
		MaxAttempts int `env:"WORKER_MAX_ATTEMPTS" env-default:"5" yaml:"maxAttempts"`
	} `yaml:"worker"`

	// PublicBaseURL is the externally reachable base URL, used in links
	// embedded in outbound email
	PublicBaseURL string `env:"PUBLIC_BASE_URL" env-default:"http://localhost:8080" yaml:"publicBaseURL"`

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
