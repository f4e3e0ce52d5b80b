package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Reactions ReactionsConfig `mapstructure:"reactions"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Janitor   JanitorConfig   `mapstructure:"janitor"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres | sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	URLPrefix string `mapstructure:"url_prefix"`
	MaxBytes  int64  `mapstructure:"max_bytes"`
	MaxSide   int    `mapstructure:"max_side"`
	Quality   int    `mapstructure:"quality"`
}

type ReactionsConfig struct {
	MaxItems int           `mapstructure:"max_items"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type JanitorConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

// Load 读取配置：.env 文件 -> config.yaml -> APP_ 前缀环境变量（后者覆盖前者）
func Load() (*Config, error) {
	loadDotEnvs()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// loadDotEnvs 按优先级加载 .env 文件，已存在的环境变量不会被覆盖
func loadDotEnvs() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	for _, f := range []string{".env." + env + ".local", ".env.local", ".env." + env, ".env"} {
		_ = godotenv.Load(f)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=photogram port=5432 sslmode=disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("jwt.cookie_name", "token")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("tracing.service_name", "photogram")
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("upload.dir", "./media")
	v.SetDefault("upload.url_prefix", "/media")
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("upload.max_side", 800)
	v.SetDefault("upload.quality", 85)

	v.SetDefault("reactions.max_items", 200)
	v.SetDefault("reactions.cache_ttl", time.Minute)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 5)

	v.SetDefault("janitor.workers", 2)
	v.SetDefault("janitor.queue_size", 1024)
}
