package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Booking    BookingConfig
	Notifier   NotifierConfig
	Encryption EncryptionConfig
	Metrics    MetricsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" required:"true"`
	Password    string `envconfig:"DB_PASSWORD" required:"true"`
	DBName      string `envconfig:"DB_NAME" required:"true"`
	SSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone    string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns    int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret               string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration  time.Duration `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"15m"`
	RefreshTokenDuration time.Duration `envconfig:"JWT_REFRESH_TOKEN_DURATION" default:"168h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

// Empty Addr disables Redis backed rate limiting.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type RateLimitConfig struct {
	FailOpen     bool          `envconfig:"RATE_LIMIT_FAIL_OPEN" default:"true"`
	Window       time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	PublicLimit  int           `envconfig:"RATE_LIMIT_PUBLIC" default:"60"`
	AuthLimit    int           `envconfig:"RATE_LIMIT_AUTH" default:"10"`
	APILimit     int           `envconfig:"RATE_LIMIT_API" default:"120"`
	BookingLimit int           `envconfig:"RATE_LIMIT_BOOKING" default:"5"`
	KeyPrefix    string        `envconfig:"RATE_LIMIT_KEY_PREFIX" default:"rl"`
}

type BookingConfig struct {
	TimeZone           string        `envconfig:"BOOKING_TIMEZONE" default:"America/Guayaquil"`
	SlotStep           time.Duration `envconfig:"BOOKING_SLOT_STEP" default:"15m"`
	MaxServiceIDs      int           `envconfig:"BOOKING_MAX_SERVICE_IDS" default:"20"`
	NotesMaxLength     int           `envconfig:"BOOKING_NOTES_MAX_LENGTH" default:"1000"`
	ReasonMaxLength    int           `envconfig:"BOOKING_CANCEL_REASON_MAX_LENGTH" default:"500"`
	IdempotencyTTL     time.Duration `envconfig:"BOOKING_IDEMPOTENCY_TTL" default:"24h"`
	IdempotencyLease   time.Duration `envconfig:"BOOKING_IDEMPOTENCY_LEASE" default:"30s"`
	IdempotencySweep   time.Duration `envconfig:"BOOKING_IDEMPOTENCY_SWEEP_INTERVAL" default:"1h"`
	TransactionTimeout time.Duration `envconfig:"BOOKING_TX_TIMEOUT" default:"5s"`
}

type NotifierConfig struct {
	Provider  string `envconfig:"NOTIFIER_PROVIDER" default:"log"` // log | sendgrid | ses
	APIKey    string `envconfig:"SENDGRID_API_KEY" default:""`
	FromEmail string `envconfig:"NOTIFIER_FROM_EMAIL" default:"no-reply@example.com"`
	FromName  string `envconfig:"NOTIFIER_FROM_NAME" default:"Salon Booking"`
	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1"`
	QueueSize int    `envconfig:"NOTIFIER_QUEUE_SIZE" default:"100"`
	Workers   int    `envconfig:"NOTIFIER_WORKERS" default:"2"`

	MaxAttempts       int           `envconfig:"NOTIFIER_MAX_ATTEMPTS" default:"5"`
	SendTimeout       time.Duration `envconfig:"NOTIFIER_SEND_TIMEOUT" default:"10s"`
	RedeliverInterval time.Duration `envconfig:"NOTIFIER_REDELIVER_INTERVAL" default:"1m"`
	// RedeliverGrace keeps the sweep away from jobs the dispatcher is still handling.
	RedeliverGrace time.Duration `envconfig:"NOTIFIER_REDELIVER_GRACE" default:"2m"`
	// RedeliverLease is how long a swept job stays hidden from other sweeps.
	RedeliverLease time.Duration `envconfig:"NOTIFIER_REDELIVER_LEASE" default:"5m"`
	RetryDelay     time.Duration `envconfig:"NOTIFIER_RETRY_DELAY" default:"1m"`
}

type EncryptionConfig struct {
	Secret string `envconfig:"ENCRYPTION_SECRET" required:"true"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if len(cfg.Encryption.Secret) < 32 {
		return Config{}, fmt.Errorf("ENCRYPTION_SECRET must be at least 32 characters")
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
			MinConns: 1,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:               "test-secret-key-for-unit-tests-only",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		RateLimit: RateLimitConfig{
			FailOpen:     true,
			Window:       time.Minute,
			PublicLimit:  60,
			AuthLimit:    10,
			APILimit:     120,
			BookingLimit: 5,
			KeyPrefix:    "rl-test",
		},
		Booking: BookingConfig{
			TimeZone:           "UTC",
			SlotStep:           15 * time.Minute,
			MaxServiceIDs:      20,
			NotesMaxLength:     1000,
			ReasonMaxLength:    500,
			IdempotencyTTL:     24 * time.Hour,
			IdempotencyLease:   30 * time.Second,
			IdempotencySweep:   time.Hour,
			TransactionTimeout: 5 * time.Second,
		},
		Notifier: NotifierConfig{
			Provider:  "log",
			FromEmail: "no-reply@example.com",
			FromName:  "Salon Booking",
			QueueSize: 10,
			Workers:   1,

			MaxAttempts:       3,
			SendTimeout:       time.Second,
			RedeliverInterval: time.Minute,
			RedeliverGrace:    2 * time.Minute,
			RedeliverLease:    5 * time.Minute,
			RetryDelay:        time.Minute,
		},
		Encryption: EncryptionConfig{
			Secret: "0123456789abcdef0123456789abcdef",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Path:    "/metrics",
		},
	}
}
