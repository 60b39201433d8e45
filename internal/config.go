package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"

	DefaultStoreKey = "mvdsai-local-data"
)

type Config struct {
	Env           string              `mapstructure:"env"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Store         StoreConfig         `mapstructure:"store"`
	Mirror        MirrorConfig        `mapstructure:"mirror"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	OpenAPIFile       string        `mapstructure:"openapi_file"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the backend holding the state snapshot. Source is a
// file path for sqlite and a connection URL for postgres.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"omitempty,oneof=memory sqlite postgres redis"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StoreConfig struct {
	Key          string `mapstructure:"key"`
	SeedDefaults bool   `mapstructure:"seed_defaults"`
}

// MirrorConfig describes the optional S3-compatible snapshot mirror.
type MirrorConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	Prefix          string `mapstructure:"prefix"`
	PathStyle       bool   `mapstructure:"path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type SecurityConfig struct {
	JWTAccessSecret      string        `mapstructure:"jwt_access_secret" validate:"required,min=16"`
	JWTRefreshSecret     string        `mapstructure:"jwt_refresh_secret" validate:"required,min=16"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m,max=24h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=4,max=15"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
}

// ApplyDefaults fills the settings a minimal config file may leave out.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Store.Key == "" {
		c.Store.Key = DefaultStoreKey
	}
	if c.Security.AccessTokenDuration == 0 {
		c.Security.AccessTokenDuration = 15 * time.Minute
	}
	if c.Security.RefreshTokenDuration == 0 {
		c.Security.RefreshTokenDuration = 7 * 24 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = "/metrics"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// LoadConfigFromEnv builds the configuration from plain environment variables
// for container deployments without a config file.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 8080),
			BaseURL:        getEnv("BASE_URL", ""),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
			OpenAPIFile:    getEnv("OPENAPI_FILE", "./api/openapi.yml"),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", DriverPostgres),
			Source:       getEnv("DATABASE_URL", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Store: StoreConfig{
			Key:          getEnv("STORE_KEY", DefaultStoreKey),
			SeedDefaults: getEnvAsBool("STORE_SEED_DEFAULTS", true),
		},
		Mirror: MirrorConfig{
			Enabled:         getEnvAsBool("MIRROR_ENABLED", false),
			Bucket:          getEnv("MIRROR_BUCKET", ""),
			Region:          getEnv("MIRROR_REGION", "us-east-1"),
			Endpoint:        getEnv("MIRROR_ENDPOINT", ""),
			Prefix:          getEnv("MIRROR_PREFIX", ""),
			PathStyle:       getEnvAsBool("MIRROR_PATH_STYLE", false),
			AccessKeyID:     getEnv("MIRROR_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("MIRROR_SECRET_ACCESS_KEY", ""),
		},
		Security: SecurityConfig{
			JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
			JWTRefreshSecret:     getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 10),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnvAsBool("METRICS_ENABLED", true),
				Path:    getEnv("METRICS_PATH", "/metrics"),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// AllowedOriginList splits the comma separated origin setting.
func (c *ServerConfig) AllowedOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if c.Database.Driver == DriverRedis && c.Redis.Addr == "" {
		errs = append(errs, "redis config: addr is required for the redis driver")
	}

	if err := c.Mirror.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("mirror config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	for _, origin := range c.AllowedOriginList() {
		if origin == "*" {
			continue
		}
		if _, err := url.Parse(origin); err != nil {
			return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "", DriverMemory, DriverRedis:
	case DriverSQLite, DriverPostgres:
		if c.Source == "" {
			return fmt.Errorf("source is required for the %s driver", c.Driver)
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *MirrorConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Bucket == "" {
		return errors.New("bucket is required when the mirror is enabled")
	}
	if c.Endpoint != "" {
		if _, err := url.ParseRequestURI(c.Endpoint); err != nil {
			return fmt.Errorf("invalid endpoint: %w", err)
		}
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTAccessSecret) < 16 {
		return errors.New("jwt_access_secret must be at least 16 characters")
	}
	if len(c.JWTRefreshSecret) < 16 {
		return errors.New("jwt_refresh_secret must be at least 16 characters")
	}
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 4 and 15")
	}
	return nil
}
