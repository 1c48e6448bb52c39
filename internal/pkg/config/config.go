package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (DB connection, etc.), security settings
// - default: Values common across all environments (timezone, cron cadence, TTLs), standard settings
// -----------------------------------------------------------------------------

const EnvProduction = "production"

type Config struct {
	App   AppConfig
	Jobs  JobsConfig
	Lock  LockConfig
	Redis RedisConfig
	DB    DBConfig
	Kafka KafkaConfig
	Ops   OpsConfig
	CORS  CORSConfig
	Log   LogConfig
	Trace TraceConfig
}

type AppConfig struct {
	Env string `envconfig:"APP_ENV" default:"development" validate:"oneof=development test staging production"`
}

type JobsConfig struct {
	BookingExpirationCron string `envconfig:"BOOKING_EXPIRATION_CRON" default:"0 * * * *" validate:"required"`
	PaymentReminderCron   string `envconfig:"PAYMENT_REMINDER_CRON" default:"30 * * * *" validate:"required"`
	TimeZone              string `envconfig:"CRON_TZ" default:"Asia/Kolkata" validate:"required"`
	RunOnStartup          bool   `envconfig:"RUN_ON_STARTUP" default:"true"`
	PaymentReminderDays   int    `envconfig:"PAYMENT_REMINDER_DAYS" default:"3" validate:"gt=0"`
	PaymentDisputeDays    int    `envconfig:"PAYMENT_DISPUTE_DAYS" default:"7" validate:"gtfield=PaymentReminderDays"`
}

// FailOpen stays a string so that "unset" can be told apart from "false".
type LockConfig struct {
	TTLMs                int    `envconfig:"JOB_LOCK_TTL_MS" default:"600000" validate:"gt=0"`
	PaymentReminderTTLMs int    `envconfig:"PAYMENT_REMINDER_LOCK_TTL_MS" default:"600000" validate:"gt=0"`
	RefreshMs            int    `envconfig:"JOB_LOCK_REFRESH_MS" default:"0" validate:"gte=0"`
	Prefix               string `envconfig:"JOB_LOCK_PREFIX" default:"locks:jobs" validate:"required"`
	Backend              string `envconfig:"JOB_LOCK_BACKEND" default:"redis" validate:"oneof=redis memory"`
	Disabled             bool   `envconfig:"DISABLE_JOB_LOCK" default:"false"`
	FailOpen             string `envconfig:"JOB_LOCK_FAIL_OPEN"`
	CancelOnLoss         bool   `envconfig:"JOB_LOCK_CANCEL_ON_LOSS" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	Disabled     bool          `envconfig:"DISABLE_REDIS" default:"false"`
	RetryBackoff time.Duration `envconfig:"REDIS_RETRY_BACKOFF" default:"60s" validate:"gt=0"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s" validate:"gt=0"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
}

type KafkaConfig struct {
	Brokers           []string      `envconfig:"KAFKA_BROKERS"`
	NotificationTopic string        `envconfig:"KAFKA_NOTIFICATION_TOPIC" default:"booking-notifications"`
	WriteTimeout      time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`
}

type OpsConfig struct {
	Port string `envconfig:"OPS_PORT" default:"9090"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	Format         string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

type TraceConfig struct {
	Stdout bool `envconfig:"TRACE_STDOUT" default:"false"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

func (c LockConfig) TTL() time.Duration {
	return time.Duration(c.TTLMs) * time.Millisecond
}

func (c LockConfig) PaymentReminderTTL() time.Duration {
	return time.Duration(c.PaymentReminderTTLMs) * time.Millisecond
}

// RefreshInterval returns zero when unset; the lock manager then uses TTL/2.
func (c LockConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMs) * time.Millisecond
}

// ResolveFailOpen applies the degraded-mode policy: an explicit
// JOB_LOCK_FAIL_OPEN always wins, otherwise only non-production runs unlocked.
func (c Config) ResolveFailOpen() bool {
	if v := strings.TrimSpace(c.Lock.FailOpen); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return !c.App.IsProduction()
}

func (c JobsConfig) ReminderAfter() time.Duration {
	return time.Duration(c.PaymentReminderDays) * 24 * time.Hour
}

func (c JobsConfig) DisputeAfter() time.Duration {
	return time.Duration(c.PaymentDisputeDays) * 24 * time.Hour
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if raw := strings.TrimSpace(cfg.Lock.FailOpen); raw != "" {
		if _, err := strconv.ParseBool(raw); err != nil {
			return fmt.Errorf("invalid config: JOB_LOCK_FAIL_OPEN=%q is not a boolean", raw)
		}
	}
	// A lease must be renewed before it expires.
	if refresh := cfg.Lock.RefreshMs; refresh > 0 && (refresh >= cfg.Lock.TTLMs || refresh >= cfg.Lock.PaymentReminderTTLMs) {
		return fmt.Errorf("invalid config: JOB_LOCK_REFRESH_MS=%d must be below every lock TTL", refresh)
	}
	if _, err := time.LoadLocation(cfg.Jobs.TimeZone); err != nil {
		return fmt.Errorf("invalid config: CRON_TZ: %w", err)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		App: AppConfig{Env: "test"},
		Jobs: JobsConfig{
			BookingExpirationCron: "0 * * * *",
			PaymentReminderCron:   "30 * * * *",
			TimeZone:              "Asia/Kolkata",
			RunOnStartup:          false,
			PaymentReminderDays:   3,
			PaymentDisputeDays:    7,
		},
		Lock: LockConfig{
			TTLMs:                600000,
			PaymentReminderTTLMs: 600000,
			Prefix:               "locks:jobs",
			Backend:              "memory",
		},
		Redis: RedisConfig{
			RetryBackoff: 60 * time.Second,
			DialTimeout:  time.Second,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
		},
		Kafka: KafkaConfig{
			NotificationTopic: "booking-notifications",
			WriteTimeout:      time.Second,
		},
		Ops: OpsConfig{
			Port: "19090",
		},
		CORS: CORSConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			Format:         "text",
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
	}
}
