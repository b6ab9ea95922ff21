package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.4"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Security    SecurityConfig
	Tracing     TracingConfig
	Mailer      MailerConfig
	Redis       RedisConfig
	Automation  AutomationConfig
	RateLimit   RateLimitConfig
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port            int
	Host            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
}

type SecurityConfig struct {
	// HS256 secret used to sign and verify admin API tokens
	JWTSecret []byte
}

type TracingConfig struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64

	// "jaeger", "zipkin", "none"
	TraceExporter  string
	JaegerEndpoint string
	ZipkinEndpoint string

	// "prometheus", "none"
	MetricsExporter string
	PrometheusPort  int
}

type MailerConfig struct {
	// "smtp", "ses" or "console"
	Provider  string
	FromEmail string
	FromName  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	SESRegion    string
	SESAccessKey string
	SESSecretKey string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AutomationConfig struct {
	AdminNotificationEmail string
	InactivityScanSchedule string
	InactivityWindow       time.Duration
	SchedulerInterval      time.Duration
	SchedulerBatchSize     int
}

type RateLimitConfig struct {
	FormSubmitMax    int
	FormSubmitWindow time.Duration
	// TrustedProxies lists the CIDRs or IPs allowed to set X-Forwarded-For
	TrustedProxies   []string
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "60s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "lumiere")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	v.SetDefault("EMAIL_PROVIDER", "smtp")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("FROM_NAME", "Lumiere Academy")
	v.SetDefault("SES_REGION", "eu-west-3")

	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("INACTIVITY_SCAN_SCHEDULE", "0 * * * *")
	v.SetDefault("INACTIVITY_WINDOW", "24h")
	v.SetDefault("EXECUTION_SCHEDULER_INTERVAL", "30s")
	v.SetDefault("EXECUTION_BATCH_SIZE", 50)

	v.SetDefault("FORM_SUBMIT_MAX", 10)
	v.SetDefault("FORM_SUBMIT_WINDOW", "1m")

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "lumiere-api")
	v.SetDefault("TRACING_SAMPLING_PROBABILITY", 0.1)
	v.SetDefault("TRACING_TRACE_EXPORTER", "none")
	v.SetDefault("TRACING_JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	v.SetDefault("TRACING_ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans")
	v.SetDefault("TRACING_METRICS_EXPORTER", "none")
	v.SetDefault("TRACING_PROMETHEUS_PORT", 9464)

	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			Host:            v.GetString("SERVER_HOST"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Security: SecurityConfig{
			JWTSecret: []byte(v.GetString("JWT_SECRET")),
		},
		Mailer: MailerConfig{
			Provider:     strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			FromEmail:    v.GetString("FROM_EMAIL"),
			FromName:     v.GetString("FROM_NAME"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUsername: v.GetString("SMTP_USERNAME"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			SESRegion:    v.GetString("SES_REGION"),
			SESAccessKey: v.GetString("SES_ACCESS_KEY"),
			SESSecretKey: v.GetString("SES_SECRET_KEY"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Automation: AutomationConfig{
			AdminNotificationEmail: v.GetString("ADMIN_NOTIFICATION_EMAIL"),
			InactivityScanSchedule: v.GetString("INACTIVITY_SCAN_SCHEDULE"),
			InactivityWindow:       v.GetDuration("INACTIVITY_WINDOW"),
			SchedulerInterval:      v.GetDuration("EXECUTION_SCHEDULER_INTERVAL"),
			SchedulerBatchSize:     v.GetInt("EXECUTION_BATCH_SIZE"),
		},
		RateLimit: RateLimitConfig{
			FormSubmitMax:    v.GetInt("FORM_SUBMIT_MAX"),
			FormSubmitWindow: v.GetDuration("FORM_SUBMIT_WINDOW"),
			TrustedProxies:   splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Tracing: TracingConfig{
			Enabled:             v.GetBool("TRACING_ENABLED"),
			ServiceName:         v.GetString("TRACING_SERVICE_NAME"),
			SamplingProbability: v.GetFloat64("TRACING_SAMPLING_PROBABILITY"),
			TraceExporter:       v.GetString("TRACING_TRACE_EXPORTER"),
			JaegerEndpoint:      v.GetString("TRACING_JAEGER_ENDPOINT"),
			ZipkinEndpoint:      v.GetString("TRACING_ZIPKIN_ENDPOINT"),
			MetricsExporter:     v.GetString("TRACING_METRICS_EXPORTER"),
			PrometheusPort:      v.GetInt("TRACING_PROMETHEUS_PORT"),
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	if len(c.Security.JWTSecret) == 0 && !c.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Mailer.Provider {
	case "smtp":
		if c.Mailer.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when EMAIL_PROVIDER is smtp")
		}
	case "ses":
		if c.Mailer.SESRegion == "" {
			return fmt.Errorf("SES_REGION is required when EMAIL_PROVIDER is ses")
		}
	case "console":
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER: %s", c.Mailer.Provider)
	}

	if c.Automation.InactivityWindow <= 0 {
		return fmt.Errorf("INACTIVITY_WINDOW must be positive")
	}

	for _, proxy := range c.RateLimit.TrustedProxies {
		if _, _, err := net.ParseCIDR(proxy); err != nil && net.ParseIP(proxy) == nil {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry: %s", proxy)
		}
	}

	return nil
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
