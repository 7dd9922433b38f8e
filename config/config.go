package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Mongo MongoConfig
	Redis *RedisConfig
	Cache CacheConfig
	HTTP  HTTPConfig
	GRPC  GRPCConfig
	Log   LogConfig
}

type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
	// RequestTimeout bounds each store round-trip; expiry surfaces as
	// store unavailable.
	RequestTimeout time.Duration
	UniqueTitles   bool
}

type RedisConfig struct {
	Addr         string        `json:"addr"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns"`
	MaxRetries   int           `json:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	PoolTimeout  time.Duration `json:"pool_timeout"`
}

type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	MaxMemory string // e.g., "256mb", "1gb"
	Policy    string // eviction policy
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type GRPCConfig struct {
	// Addr of the gRPC health endpoint; empty disables it.
	Addr string
}

type LogConfig struct {
	Level  string
	Format string // json, console
}

// Default configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "plp_bookstore")
	v.SetDefault("MONGODB_COLLECTION", "books")
	v.SetDefault("MONGODB_MAX_POOL_SIZE", 100)
	v.SetDefault("MONGODB_MIN_POOL_SIZE", 5)
	v.SetDefault("MONGODB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("MONGODB_REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGODB_UNIQUE_TITLES", false)

	redis := DefaultRedisConfig()
	v.SetDefault("REDIS_ADDR", redis.Addr)
	v.SetDefault("REDIS_PASSWORD", redis.Password)
	v.SetDefault("REDIS_DB", redis.DB)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("CACHE_MAX_MEMORY", "")
	v.SetDefault("CACHE_POLICY", "")

	v.SetDefault("HTTP_ADDR", "localhost:8080")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second)
	v.SetDefault("GRPC_ADDR", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// NewViper loads envFile (if present) into the process environment and
// returns a viper instance reading environment variables over defaults.
func NewViper(envFile string) *viper.Viper {
	if envFile != "" {
		godotenv.Load(envFile)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func Load(v *viper.Viper) *Config {
	return &Config{
		Mongo: MongoConfig{
			URI:            v.GetString("MONGODB_URI"),
			Database:       v.GetString("MONGODB_DATABASE"),
			Collection:     v.GetString("MONGODB_COLLECTION"),
			MaxPoolSize:    v.GetUint64("MONGODB_MAX_POOL_SIZE"),
			MinPoolSize:    v.GetUint64("MONGODB_MIN_POOL_SIZE"),
			ConnectTimeout: v.GetDuration("MONGODB_CONNECT_TIMEOUT"),
			RequestTimeout: v.GetDuration("MONGODB_REQUEST_TIMEOUT"),
			UniqueTitles:   v.GetBool("MONGODB_UNIQUE_TITLES"),
		},
		Redis: LoadRedisConfig(v),
		Cache: CacheConfig{
			Enabled:   v.GetBool("CACHE_ENABLED"),
			TTL:       v.GetDuration("CACHE_TTL"),
			MaxMemory: v.GetString("CACHE_MAX_MEMORY"),
			Policy:    v.GetString("CACHE_POLICY"),
		},
		HTTP: HTTPConfig{
			Addr:            v.GetString("HTTP_ADDR"),
			ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
		},
		GRPC: GRPCConfig{Addr: v.GetString("GRPC_ADDR")},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// Load configuration from environment or file
func LoadRedisConfig(v *viper.Viper) *RedisConfig {
	config := DefaultRedisConfig()

	// Override with environment variables if present
	if addr := v.GetString("REDIS_ADDR"); addr != "" {
		config.Addr = addr
	}
	if password := v.GetString("REDIS_PASSWORD"); password != "" {
		config.Password = password
	}
	config.DB = v.GetInt("REDIS_DB")

	return config
}
