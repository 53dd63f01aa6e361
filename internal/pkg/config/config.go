package config

import (
	"fmt"
	"os"
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
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Booking   BookingConfig
	Storage   StorageConfig
	Stripe    StripeConfig
	SendGrid  SendGridConfig
	Kafka     KafkaConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
	// PublicURL is used to build payment return links.
	PublicURL string `envconfig:"PUBLIC_URL" default:"http://localhost:3000"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Europe/Copenhagen"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Europe/Copenhagen"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"3600"` // 1*60*60
	// Color switches debug-mode output to the colorized console handler.
	Color bool `envconfig:"LOG_COLOR" default:"true"`
}

// JWTConfig only validates tokens; issuance belongs to the identity service.
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

type BookingConfig struct {
	PolicyFile      string        `envconfig:"POLICY_FILE"`
	SessionTTL      time.Duration `envconfig:"BOOKING_SESSION_TTL" default:"2h"`
	CreateTimeout   time.Duration `envconfig:"BOOKING_CREATE_TIMEOUT" default:"15s"`
	IdempotencyTTL  time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	AvailabilityDay int           `envconfig:"AVAILABILITY_MAX_DAYS" default:"366"`
}

type StorageConfig struct {
	Endpoint  string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"STORAGE_ACCESS_KEY" required:"true"`
	SecretKey string `envconfig:"STORAGE_SECRET_KEY" required:"true"`
	Bucket    string `envconfig:"STORAGE_BUCKET" default:"license-documents"`
	UseSSL    bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

type StripeConfig struct {
	SecretKey string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	Currency  string `envconfig:"STRIPE_CURRENCY" default:"dkk"`
}

type SendGridConfig struct {
	APIKey    string `envconfig:"SENDGRID_API_KEY" required:"true"`
	FromEmail string `envconfig:"SENDGRID_FROM_EMAIL" default:"bookings@example.com"`
	FromName  string `envconfig:"SENDGRID_FROM_NAME" default:"Rental Bookings"`
}

type KafkaConfig struct {
	Brokers  []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic    string   `envconfig:"KAFKA_BOOKING_TOPIC" default:"booking-events"`
	ClientID string   `envconfig:"KAFKA_CLIENT_ID" default:"rental-engine"`
	Enabled  bool     `envconfig:"KAFKA_ENABLED" default:"true"`
}

type SchedulerConfig struct {
	OutboxSpec      string `envconfig:"SCHEDULER_OUTBOX_SPEC" default:"@every 10s"`
	OutboxBatchSize int    `envconfig:"SCHEDULER_OUTBOX_BATCH" default:"50"`
	MaxAttempts     int    `envconfig:"SCHEDULER_MAX_ATTEMPTS" default:"5"`
	PurgeSpec       string `envconfig:"SCHEDULER_PURGE_SPEC" default:"@hourly"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// LoadConfig reads the environment. A .env file is honoured when present so
// local runs do not need exported variables.
func LoadConfig() (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:      "8889", // Test port
			PublicURL: "http://localhost:3000",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Europe/Copenhagen",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Europe/Copenhagen",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 3600,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Booking: BookingConfig{
			SessionTTL:      time.Hour,
			CreateTimeout:   5 * time.Second,
			IdempotencyTTL:  24 * time.Hour,
			AvailabilityDay: 366,
		},
		Scheduler: SchedulerConfig{
			OutboxSpec:      "@every 1s",
			OutboxBatchSize: 10,
			MaxAttempts:     3,
			PurgeSpec:       "@hourly",
		},
	}
}
