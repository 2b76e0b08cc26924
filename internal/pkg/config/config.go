package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	App        AppConfig        `mapstructure:"app"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Comment    CommentConfig    `mapstructure:"comment"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // postgres, memory
	Host         string `mapstructure:"host"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Port         string `mapstructure:"port"`
	SSLMode      string `mapstructure:"sslmode"`
	TimeZone     string `mapstructure:"timezone"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogLevel     string `mapstructure:"log_level"` // silent, error, warn, info
}

// DSN gorm 连接串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode, d.TimeZone)
}

// URL golang-migrate 使用的连接串
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

const (
	ProviderJWT   = "jwt"
	ProviderRedis = "redis"
)

type AuthConfig struct {
	Provider      string        `mapstructure:"provider"` // jwt, redis
	SessionPrefix string        `mapstructure:"session_prefix"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type AppConfig struct {
	Env        string `mapstructure:"env"`
	Debug      bool   `mapstructure:"debug"`
	AdminName  string `mapstructure:"admin_name"`
	AdminEmail string `mapstructure:"admin_email"`
}

type PaginationConfig struct {
	MaxLimit int `mapstructure:"max_limit"` // 0 表示不限制
}

type CommentConfig struct {
	DefaultStatus string `mapstructure:"default_status"` // PENDING, APPROVED
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return errors.New("database configuration is incomplete")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Auth.Provider {
	case ProviderJWT:
		if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
			return errors.New("please set a secure JWT secret")
		}
		if len(c.JWT.Secret) < 32 {
			return errors.New("JWT secret should be at least 32 characters")
		}
	case ProviderRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis address is required for redis sessions")
		}
	default:
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}

	switch c.Comment.DefaultStatus {
	case "PENDING", "APPROVED":
	default:
		return fmt.Errorf("comment.default_status must be PENDING or APPROVED, got %q", c.Comment.DefaultStatus)
	}

	if c.Pagination.MaxLimit < 0 {
		return errors.New("pagination.max_limit must not be negative")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "blog")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.provider", ProviderJWT)
	v.SetDefault("auth.session_prefix", "session:")
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)
	// 未出现在默认值或配置文件中的键不会被 AutomaticEnv 覆盖
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "blog-api")
	v.SetDefault("jwt.expire", 24)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.admin_name", "admin")
	v.SetDefault("app.admin_email", "admin@admin.com")
	v.SetDefault("pagination.max_limit", 100)
	v.SetDefault("comment.default_status", "APPROVED")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 100)
	v.SetDefault("rate_limit.burst", 200)
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("log.level", "info")
}

// Load 读取配置文件与环境变量
// path 为空时按 APP_ENV 在 ./configs 与 . 下查找 config[.env].yaml
func Load(path string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		env := os.Getenv("APP_ENV")
		configName := "config"
		if env != "" && env != "dev" {
			configName = "config." + env
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量，如 DATABASE_HOST、JWT_SECRET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 兼容旧的环境变量命名
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfig 加载配置到 GlobalConfig，失败直接退出
func LoadConfig() {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("%v", err)
	}
	GlobalConfig = *cfg
	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
