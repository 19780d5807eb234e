package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret   = "your-secret-key"
	defaultAppPassword = "default-password"
)

var ErrInsecureDefaults = errors.New("default secrets are not allowed in production")

type Config struct {
	App      AppConfig      `toml:"app"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Blob     BlobConfig     `toml:"blob"`
	Storage  StorageConfig  `toml:"storage"`
	Upload   UploadConfig   `toml:"upload"`
	MySQL    MySQLConfig    `toml:"mysql"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
}

type AppConfig struct {
	Name     string `toml:"name"`
	Env      string `toml:"env"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	GinMode  string `toml:"gin_mode"`
	LogLevel string `toml:"log_level"`
	// TrustedProxies lists the proxy CIDRs whose forwarding headers are
	// honoured. Empty means the socket peer address is the client IP.
	TrustedProxies []string `toml:"trusted_proxies"`
}

type AuthConfig struct {
	JWTSecret          string `toml:"jwt_secret"`
	JWTExpireMinute    int    `toml:"jwt_expire_minute"`
	AppPassword        string `toml:"app_password"`
	AppPasswordHash    string `toml:"app_password_hash"`
	CookieName         string `toml:"cookie_name"`
	LoginRatePerMinute int    `toml:"login_rate_per_minute"`
	LoginBurst         int    `toml:"login_burst"`
}

// RedisConfig selects the key-value backend for messages and content.
// URL wins over the KV REST pair, which wins over Addr. All empty means the
// in-memory store is used.
type RedisConfig struct {
	URL          string `toml:"url"`
	RESTAPIURL   string `toml:"rest_api_url"`
	RESTAPIToken string `toml:"rest_api_token"`
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
}

type BlobConfig struct {
	Token     string `toml:"token"`
	BaseURL   string `toml:"base_url"`
	Prefix    string `toml:"prefix"`
	ListLimit int    `toml:"list_limit"`
}

type StorageConfig struct {
	LocalDir      string `toml:"local_dir"`
	PublicBaseURL string `toml:"public_base_url"`
}

type UploadConfig struct {
	MaxSizeMB    int      `toml:"max_size_mb"`
	AllowedTypes []string `toml:"allowed_types"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type RabbitMQConfig struct {
	URL          string `toml:"url"`
	ArchiveQueue string `toml:"archive_queue"`
}

func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg := Default()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid app port %d", c.App.Port)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("jwt secret is empty")
	}
	if c.Auth.AppPassword == "" && c.Auth.AppPasswordHash == "" {
		return errors.New("app password is empty")
	}
	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("invalid upload max size %d", c.Upload.MaxSizeMB)
	}
	if c.IsProduction() {
		if c.Auth.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("%w: JWT_SECRET", ErrInsecureDefaults)
		}
		if c.Auth.AppPasswordHash == "" && c.Auth.AppPassword == defaultAppPassword {
			return fmt.Errorf("%w: APP_PASSWORD", ErrInsecureDefaults)
		}
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) UploadMaxBytes() int64 {
	return int64(c.Upload.MaxSizeMB) << 20
}

// UploadsRoutePath is the URL path local uploads are served under. The public
// base URL may be absolute; only its path is routed.
func (c *Config) UploadsRoutePath() string {
	p := c.Storage.PublicBaseURL
	if parsed, err := url.Parse(p); err == nil && parsed.Host != "" {
		p = parsed.Path
	}
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return "/uploads"
	}
	return p
}

func (c *Config) MySQLEnabled() bool {
	return c.MySQL.Host != ""
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQ.URL != ""
}

func (c *Config) BlobEnabled() bool {
	return c.Blob.Token != ""
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.URL != "" || c.Redis.Addr != "" ||
		(c.Redis.RESTAPIURL != "" && c.Redis.RESTAPIToken != "")
}

// RedisURL resolves the Redis connection URL. A KV REST endpoint is mapped
// onto the Redis protocol port of the same host, with the REST token as the
// password.
func (c *Config) RedisURL() (string, error) {
	if c.Redis.URL != "" {
		return c.Redis.URL, nil
	}
	if c.Redis.RESTAPIURL != "" && c.Redis.RESTAPIToken != "" {
		parsed, err := url.Parse(c.Redis.RESTAPIURL)
		if err != nil {
			return "", fmt.Errorf("parse kv rest api url failed: %w", err)
		}
		host := parsed.Hostname()
		if host == "" {
			return "", fmt.Errorf("kv rest api url %q has no host", c.Redis.RESTAPIURL)
		}
		u := url.URL{
			Scheme: "rediss",
			User:   url.UserPassword("default", c.Redis.RESTAPIToken),
			Host:   host + ":6379",
		}
		return u.String(), nil
	}
	if c.Redis.Addr != "" {
		u := url.URL{
			Scheme: "redis",
			Host:   c.Redis.Addr,
			Path:   "/" + strconv.Itoa(c.Redis.DB),
		}
		if c.Redis.Password != "" {
			u.User = url.UserPassword("", c.Redis.Password)
		}
		return u.String(), nil
	}
	return "", errors.New("redis is not configured")
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:     "dropit",
			Env:      "dev",
			Host:     "0.0.0.0",
			Port:     3000,
			GinMode:  "debug",
			LogLevel: "info",
		},
		Auth: AuthConfig{
			JWTSecret:          defaultJWTSecret,
			JWTExpireMinute:    24 * 60,
			AppPassword:        defaultAppPassword,
			CookieName:         "auth-token",
			LoginRatePerMinute: 10,
			LoginBurst:         5,
		},
		Blob: BlobConfig{
			BaseURL:   "https://blob.vercel-storage.com",
			Prefix:    "dropit/",
			ListLimit: 50,
		},
		Storage: StorageConfig{
			LocalDir:      "public/uploads",
			PublicBaseURL: "/uploads",
		},
		Upload: UploadConfig{
			MaxSizeMB: 10,
			AllowedTypes: []string{
				"image/jpeg",
				"image/png",
				"image/gif",
				"image/webp",
				"text/plain",
				"application/pdf",
				"application/msword",
				"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
				"video/mp4",
				"video/webm",
				"audio/mpeg",
				"audio/wav",
				"application/zip",
				"application/x-rar-compressed",
			},
		},
		MySQL: MySQLConfig{
			Port:   3306,
			User:   "root",
			DB:     "dropit",
			Params: "parseTime=true&loc=Local&charset=utf8mb4",
		},
		RabbitMQ: RabbitMQConfig{
			ArchiveQueue: "dropit.message.archive",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.App.TrustedProxies = getEnvAsList("TRUSTED_PROXIES", cfg.App.TrustedProxies)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTExpireMinute = getEnvAsInt("JWT_EXPIRE_MINUTE", cfg.Auth.JWTExpireMinute)
	cfg.Auth.AppPassword = getEnv("APP_PASSWORD", cfg.Auth.AppPassword)
	cfg.Auth.AppPasswordHash = getEnv("APP_PASSWORD_HASH", cfg.Auth.AppPasswordHash)
	cfg.Auth.LoginRatePerMinute = getEnvAsInt("LOGIN_RATE_PER_MINUTE", cfg.Auth.LoginRatePerMinute)
	cfg.Auth.LoginBurst = getEnvAsInt("LOGIN_BURST", cfg.Auth.LoginBurst)

	cfg.Redis.URL = getEnv("KV_URL", cfg.Redis.URL)
	cfg.Redis.RESTAPIURL = getEnv("KV_REST_API_URL", cfg.Redis.RESTAPIURL)
	cfg.Redis.RESTAPIToken = getEnv("KV_REST_API_TOKEN", cfg.Redis.RESTAPIToken)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.Blob.Token = getEnv("VERCEL_BLOB_READ_WRITE_TOKEN", cfg.Blob.Token)
	cfg.Blob.Token = getEnv("BLOB_READ_WRITE_TOKEN", cfg.Blob.Token)
	cfg.Blob.BaseURL = getEnv("BLOB_API_URL", cfg.Blob.BaseURL)

	cfg.Storage.LocalDir = getEnv("STORAGE_LOCAL_DIR", cfg.Storage.LocalDir)
	cfg.Storage.PublicBaseURL = getEnv("STORAGE_PUBLIC_BASE_URL", cfg.Storage.PublicBaseURL)

	cfg.Upload.MaxSizeMB = getEnvAsInt("UPLOAD_MAX_SIZE_MB", cfg.Upload.MaxSizeMB)
	cfg.Upload.AllowedTypes = getEnvAsList("UPLOAD_ALLOWED_TYPES", cfg.Upload.AllowedTypes)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.ArchiveQueue = getEnv("RABBITMQ_ARCHIVE_QUEUE", cfg.RabbitMQ.ArchiveQueue)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
