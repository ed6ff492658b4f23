package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/movieplatform/user-service/internal/domain"
	pkgconfig "github.com/movieplatform/user-service/pkg/config"
)

// Config holds all configuration for the user service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"USER_HTTP_PORT" envDefault:"8006"`

	// PostgreSQL
	PostgresHost          string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort          int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser          string `env:"POSTGRES_USER" envDefault:"movieplatform"`
	PostgresPass          string `env:"POSTGRES_PASSWORD" envDefault:"movieplatform_secret"`
	PostgresDB            string `env:"USER_DB_NAME" envDefault:"user_db"`
	PostgresSSL           string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns            int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int    `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int    `env:"DB_MAX_CONN_IDLE_MINUTES" envDefault:"30"`
	SlowQueryThresholdMs  int    `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// pprof
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`

	// Domain validation rules. Each pair feeds a length rule: min must be
	// strictly below max or Load fails.
	NameMinLength     int `env:"USER_NAME_MIN_LENGTH" envDefault:"2"`
	NameMaxLength     int `env:"USER_NAME_MAX_LENGTH" envDefault:"200"`
	UsernameMinLength int `env:"USER_USERNAME_MIN_LENGTH" envDefault:"3"`
	UsernameMaxLength int `env:"USER_USERNAME_MAX_LENGTH" envDefault:"50"`
	EmailMinLength    int `env:"USER_EMAIL_MIN_LENGTH" envDefault:"5"`
	EmailMaxLength    int `env:"USER_EMAIL_MAX_LENGTH" envDefault:"254"`
	StreetMinLength   int `env:"USER_STREET_MIN_LENGTH" envDefault:"5"`
	StreetMaxLength   int `env:"USER_STREET_MAX_LENGTH" envDefault:"200"`
	CityMinLength     int `env:"USER_CITY_MIN_LENGTH" envDefault:"2"`
	CityMaxLength     int `env:"USER_CITY_MAX_LENGTH" envDefault:"100"`
	StateMinLength    int `env:"USER_STATE_MIN_LENGTH" envDefault:"2"`
	StateMaxLength    int `env:"USER_STATE_MAX_LENGTH" envDefault:"100"`
	CountryMinLength  int `env:"USER_COUNTRY_MIN_LENGTH" envDefault:"2"`
	CountryMaxLength  int `env:"USER_COUNTRY_MAX_LENGTH" envDefault:"100"`

	// Format patterns and the launch-date floor for creation-date searches.
	// Operators can tune formats without a code change.
	PhonePattern   string `env:"USER_PHONE_PATTERN" envDefault:"^\\+?[1-9]\\d{1,14}$"`
	ZipCodePattern string `env:"USER_ZIP_PATTERN" envDefault:"^\\d{5}-?\\d{3}$"`
	LaunchDate     string `env:"USER_LAUNCH_DATE" envDefault:"2020-01-01"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load user config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// Fail fast on malformed domain rules rather than at first request.
	if _, err := cfg.DomainOptions(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}

// DomainOptions builds the immutable domain rule set from the loaded
// configuration.
func (c *Config) DomainOptions() (*domain.Options, error) {
	type ruleSpec struct {
		field    string
		min, max int
		dst      *domain.LengthRule
	}

	opts := &domain.Options{}
	rules := []ruleSpec{
		{"name", c.NameMinLength, c.NameMaxLength, &opts.Name},
		{"username", c.UsernameMinLength, c.UsernameMaxLength, &opts.Username},
		{"email", c.EmailMinLength, c.EmailMaxLength, &opts.Email},
		{"street", c.StreetMinLength, c.StreetMaxLength, &opts.Street},
		{"city", c.CityMinLength, c.CityMaxLength, &opts.City},
		{"state", c.StateMinLength, c.StateMaxLength, &opts.State},
		{"country", c.CountryMinLength, c.CountryMaxLength, &opts.Country},
	}

	for _, r := range rules {
		rule, err := domain.NewLengthRule(r.min, r.max)
		if err != nil {
			return nil, fmt.Errorf("length rule for %s: %w", r.field, err)
		}
		*r.dst = rule
	}

	phone, err := regexp.Compile(c.PhonePattern)
	if err != nil {
		return nil, fmt.Errorf("compile phone pattern %q: %w", c.PhonePattern, err)
	}
	opts.PhonePattern = phone

	zip, err := regexp.Compile(c.ZipCodePattern)
	if err != nil {
		return nil, fmt.Errorf("compile zip pattern %q: %w", c.ZipCodePattern, err)
	}
	opts.ZipCodePattern = zip

	launch, err := time.Parse("2006-01-02", c.LaunchDate)
	if err != nil {
		return nil, fmt.Errorf("parse launch date %q: %w", c.LaunchDate, err)
	}
	opts.LaunchDate = launch

	return opts, nil
}
