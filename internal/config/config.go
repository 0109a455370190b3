// Package config - Application configuration management.
//
// Использует Viper для:
// - Загрузки из YAML файлов
// - Переменных окружения (и файла .env через godotenv)
// - Значений по умолчанию
//
// Порядок приоритета (от высшего к низшему):
// 1. Environment variables
// 2. Config file
// 3. Default values
package config

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения (PAYTOGETHER_SERVER_PORT и т.д.).
const EnvPrefix = "PAYTOGETHER"

const insecureSecret = "change-me-in-production"

// ============================================
// Main Configuration
// ============================================

// Config - главная структура конфигурации приложения.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Keycloak  KeycloakConfig  `mapstructure:"keycloak"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

// ============================================
// App Configuration
// ============================================

// AppConfig - конфигурация приложения.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	BuildTime   string `mapstructure:"build_time"`
	GitCommit   string `mapstructure:"git_commit"`
}

// IsDevelopment возвращает true если окружение development.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction возвращает true если окружение production.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// ============================================
// Server Configuration
// ============================================

// ServerConfig - конфигурация HTTP сервера.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address возвращает полный адрес сервера.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ============================================
// Database Configuration
// ============================================

// DatabaseConfig - конфигурация базы данных.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConnections  int32         `mapstructure:"max_connections"`
	MinConnections  int32         `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	// AutoMigrate - применять миграции при старте API
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// DSN возвращает строку подключения к PostgreSQL.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// ============================================
// Auth Configuration
// ============================================

// AuthConfig - проверка access токенов и cookie.
type AuthConfig struct {
	// PublicKey - PEM ключ realm (RS256). Если пуст, используется JWTSecret (HS256).
	PublicKey    string        `mapstructure:"public_key"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	Issuer       string        `mapstructure:"issuer"`
	Leeway       time.Duration `mapstructure:"leeway"`
	CookieDomain string        `mapstructure:"cookie_domain"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

// KeycloakConfig - подключение к identity provider.
type KeycloakConfig struct {
	URL           string        `mapstructure:"url"`
	Realm         string        `mapstructure:"realm"`
	ClientID      string        `mapstructure:"client_id"`
	ClientSecret  string        `mapstructure:"client_secret"`
	AdminRealm    string        `mapstructure:"admin_realm"`
	AdminClientID string        `mapstructure:"admin_client_id"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// IssuerURL - issuer токенов realm.
func (c *KeycloakConfig) IssuerURL() string {
	if c.URL == "" || c.Realm == "" {
		return ""
	}
	return strings.TrimRight(c.URL, "/") + "/realms/" + c.Realm
}

// ============================================
// Storage Configuration
// ============================================

// StorageConfig - MinIO и ограничения загрузки файлов.
type StorageConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	Region        string        `mapstructure:"region"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PublicURL     string        `mapstructure:"public_url"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	MaxFileSize   int64         `mapstructure:"max_file_size"` // байты
	AllowedTypes  []string      `mapstructure:"allowed_types"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// ============================================
// Redis / NATS / Tracing
// ============================================

// RedisConfig - хранилище отозванных токенов.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// NATSConfig - брокер доменных событий. Пустой URL - события только логируются.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
	ClientName    string `mapstructure:"client_name"`
}

// TracingConfig - экспорт трасс OTLP/HTTP.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// ============================================
// CORS Configuration
// ============================================

// CORSConfig - конфигурация CORS.
type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	ExposedHeaders   []string      `mapstructure:"exposed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// ============================================
// Rate Limit Configuration
// ============================================

// RateLimitConfig - конфигурация rate limiting.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"`
	// CleanupSchedule - cron выражение очистки неактивных limiters
	CleanupSchedule string `mapstructure:"cleanup_schedule"`
}

// ============================================
// Scheduler Configuration
// ============================================

// SchedulerConfig - фоновые задачи.
type SchedulerConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	ImageCleanupSchedule string        `mapstructure:"image_cleanup_schedule"`
	ImageGracePeriod     time.Duration `mapstructure:"image_grace_period"`
	ImageBatchSize       int           `mapstructure:"image_batch_size"`
	OutboxSchedule       string        `mapstructure:"outbox_schedule"`
	OutboxBatchSize      int           `mapstructure:"outbox_batch_size"`
	OutboxMaxRetries     int           `mapstructure:"outbox_max_retries"`
	OutboxRetention      time.Duration `mapstructure:"outbox_retention"`
}

// ============================================
// Log Configuration
// ============================================

// LogConfig - конфигурация логирования.
type LogConfig struct {
	Level     string `mapstructure:"level"`  // debug, info, warn, error
	Format    string `mapstructure:"format"` // json, console
	Output    string `mapstructure:"output"` // stdout, stderr
	AddCaller bool   `mapstructure:"add_caller"`
}

// ============================================
// Configuration Loading
// ============================================

// Load загружает конфигурацию из файла и переменных окружения.
//
// configPath - путь к директории с конфигурацией (например, "configs")
// configName - имя файла конфигурации без расширения (например, "config")
//
// Файл .env в рабочей директории (если есть) загружается в окружение первым
// и не перекрывает уже установленные переменные.
func Load(configPath, configName string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/paytogether")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Файл не найден - используем defaults и env vars
	}

	return unmarshal(v)
}

// LoadFromEnv загружает конфигурацию только из переменных окружения.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()
	return unmarshal(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = cfg.Keycloak.IssuerURL()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults устанавливает значения по умолчанию.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "paytogether-bff")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.build_time", "")
	v.SetDefault("app.git_commit", "")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.database", "paytogether")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.migrations_path", "migrations")

	// Auth defaults (пустые значения нужны, чтобы viper видел ключи из env)
	v.SetDefault("auth.public_key", "")
	v.SetDefault("auth.jwt_secret", insecureSecret)
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.cookie_domain", "")
	v.SetDefault("auth.leeway", "30s")
	v.SetDefault("auth.cookie_secure", false)

	// Keycloak defaults
	v.SetDefault("keycloak.url", "http://localhost:8180")
	v.SetDefault("keycloak.realm", "paytogether")
	v.SetDefault("keycloak.client_id", "paytogether-bff")
	v.SetDefault("keycloak.client_secret", "")
	v.SetDefault("keycloak.admin_username", "")
	v.SetDefault("keycloak.admin_password", "")
	v.SetDefault("keycloak.admin_realm", "master")
	v.SetDefault("keycloak.admin_client_id", "admin-cli")
	v.SetDefault("keycloak.timeout", "10s")

	// Storage defaults
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.access_key", "minioadmin")
	v.SetDefault("storage.secret_key", "minioadmin")
	v.SetDefault("storage.bucket", "paytogether")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.public_url", "")
	v.SetDefault("storage.key_prefix", "uploads")
	v.SetDefault("storage.max_file_size", 10<<20)
	v.SetDefault("storage.allowed_types", []string{"image/jpeg", "image/png", "image/webp", "image/gif"})
	v.SetDefault("storage.presign_expiry", "15m")

	// Redis defaults
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "paytogether:")

	// NATS defaults
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "paytogether")
	v.SetDefault("nats.client_name", "paytogether-bff")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID", "Retry-After"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", "12h")

	// Rate Limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("rate_limit.idle_ttl", "10m")
	v.SetDefault("rate_limit.cleanup_schedule", "@every 1m")

	// Scheduler defaults
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.image_cleanup_schedule", "0 3 * * *")
	v.SetDefault("scheduler.image_grace_period", "24h")
	v.SetDefault("scheduler.image_batch_size", 500)
	v.SetDefault("scheduler.outbox_schedule", "@every 5s")
	v.SetDefault("scheduler.outbox_batch_size", 100)
	v.SetDefault("scheduler.outbox_max_retries", 5)
	v.SetDefault("scheduler.outbox_retention", "168h")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.add_caller", true)
}

// bindEnvVars привязывает переменные окружения без префикса,
// которые обычно выставляет docker-compose / k8s.
func bindEnvVars(v *viper.Viper) {
	// Database
	_ = v.BindEnv("database.host", EnvPrefix+"_DATABASE_HOST", "DB_HOST")
	_ = v.BindEnv("database.port", EnvPrefix+"_DATABASE_PORT", "DB_PORT")
	_ = v.BindEnv("database.user", EnvPrefix+"_DATABASE_USER", "DB_USER")
	_ = v.BindEnv("database.password", EnvPrefix+"_DATABASE_PASSWORD", "DB_PASSWORD")
	_ = v.BindEnv("database.database", EnvPrefix+"_DATABASE_DATABASE", "DB_NAME")

	// Identity provider
	_ = v.BindEnv("keycloak.url", EnvPrefix+"_KEYCLOAK_URL", "KEYCLOAK_URL")
	_ = v.BindEnv("keycloak.realm", EnvPrefix+"_KEYCLOAK_REALM", "KEYCLOAK_REALM")
	_ = v.BindEnv("keycloak.client_secret", EnvPrefix+"_KEYCLOAK_CLIENT_SECRET", "KEYCLOAK_CLIENT_SECRET")
	_ = v.BindEnv("keycloak.admin_password", EnvPrefix+"_KEYCLOAK_ADMIN_PASSWORD", "KEYCLOAK_ADMIN_PASSWORD")

	// Auth
	_ = v.BindEnv("auth.jwt_secret", EnvPrefix+"_AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("auth.public_key", EnvPrefix+"_AUTH_PUBLIC_KEY", "JWT_PUBLIC_KEY")

	// Storage
	_ = v.BindEnv("storage.endpoint", EnvPrefix+"_STORAGE_ENDPOINT", "MINIO_ENDPOINT")
	_ = v.BindEnv("storage.access_key", EnvPrefix+"_STORAGE_ACCESS_KEY", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("storage.secret_key", EnvPrefix+"_STORAGE_SECRET_KEY", "MINIO_SECRET_KEY")

	// Brokers
	_ = v.BindEnv("redis.addr", EnvPrefix+"_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("nats.url", EnvPrefix+"_NATS_URL", "NATS_URL")

	// Server
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")

	// App
	_ = v.BindEnv("app.environment", EnvPrefix+"_APP_ENVIRONMENT", "ENVIRONMENT", "ENV")
}

// ============================================
// Configuration Validation
// ============================================

// Validate валидирует конфигурацию.
func (c *Config) Validate() error {
	// Проверяем критичные настройки в production
	if c.App.IsProduction() {
		if c.Auth.PublicKey == "" && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == insecureSecret) {
			return errors.New("auth public key or a non-default JWT secret is required in production")
		}
		if !c.Auth.CookieSecure {
			return errors.New("auth cookie must be secure in production")
		}
		// Браузер отправит cookie access_token любому origin.
		if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
			return errors.New("cors wildcard origin with credentials is not allowed in production")
		}
	}

	if c.Auth.PublicKey == "" && c.Auth.JWTSecret == "" {
		return errors.New("auth public key or JWT secret is required")
	}

	if c.Database.Host == "" {
		return errors.New("database host is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.Bucket == "" {
		return errors.New("storage bucket is required")
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("invalid storage max file size: %d", c.Storage.MaxFileSize)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate limit requires positive requests_per_second and burst")
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return errors.New("tracing endpoint is required when tracing is enabled")
	}

	return nil
}

// ============================================
// Development Helpers
// ============================================

// Development возвращает конфигурацию для разработки.
func Development() *Config {
	return &Config{
		App: AppConfig{
			Name:        "paytogether-bff",
			Version:     "dev",
			Environment: "development",
			Debug:       true,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			Database:        "paytogether",
			SSLMode:         "disable",
			MaxConnections:  10,
			MinConnections:  2,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
			ConnectTimeout:  5 * time.Second,
			AutoMigrate:     true,
			MigrationsPath:  "migrations",
		},
		Auth: AuthConfig{
			JWTSecret: "dev-secret-key",
			Issuer:    "http://localhost:8180/realms/paytogether",
			Leeway:    30 * time.Second,
		},
		Keycloak: KeycloakConfig{
			URL:           "http://localhost:8180",
			Realm:         "paytogether",
			ClientID:      "paytogether-bff",
			AdminRealm:    "master",
			AdminClientID: "admin-cli",
			AdminUsername: "admin",
			AdminPassword: "admin",
			Timeout:       10 * time.Second,
		},
		Storage: StorageConfig{
			Endpoint:      "localhost:9000",
			AccessKey:     "minioadmin",
			SecretKey:     "minioadmin",
			Bucket:        "paytogether",
			Region:        "us-east-1",
			KeyPrefix:     "uploads",
			MaxFileSize:   10 << 20,
			AllowedTypes:  []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
			PresignExpiry: 15 * time.Minute,
		},
		Redis: RedisConfig{
			Enabled:   true,
			Addr:      "localhost:6379",
			KeyPrefix: "paytogether:",
		},
		NATS: NATSConfig{
			SubjectPrefix: "paytogether",
			ClientName:    "paytogether-bff",
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4318",
			Insecure:    true,
			SampleRatio: 1,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
			IdleTTL:           10 * time.Minute,
			CleanupSchedule:   "@every 1m",
		},
		Scheduler: SchedulerConfig{
			Enabled:              true,
			ImageCleanupSchedule: "0 3 * * *",
			ImageGracePeriod:     24 * time.Hour,
			ImageBatchSize:       500,
			OutboxSchedule:       "@every 5s",
			OutboxBatchSize:      100,
			OutboxMaxRetries:     5,
			OutboxRetention:      7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:     "debug",
			Format:    "console",
			Output:    "stdout",
			AddCaller: true,
		},
	}
}

// Test возвращает конфигурацию для тестов.
func Test() *Config {
	cfg := Development()
	cfg.App.Environment = "test"
	cfg.Database.Database = "paytogether_test"
	cfg.Database.AutoMigrate = false
	cfg.Redis.Enabled = false
	cfg.RateLimit.Enabled = false
	cfg.Scheduler.Enabled = false
	cfg.Log.Level = "error" // Меньше шума в тестах
	return cfg
}
