package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration for both the client and the stub
// backend. Unused sections are zero-valued and ignored.
type Config struct {
	Client Client
	Redis  Redis
	Stub   Stub
	Mongo  Mongo
	MinIO  MinIO
}

type Client struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	StateDir       string // empty means os.UserConfigDir()/getsuited
	LogLevel       string
}

// Redis configures the optional Redis-backed session store. When Addr is
// empty the client persists locally on disk.
type Redis struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

type Stub struct {
	Port         string
	Host         string
	JWTSecret    string
	TokenTTL     time.Duration
	RateLimitRPS float64
	RateBurst    int
}

type Mongo struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL under which stored objects are reachable
}

// Load reads configuration from environment variables and an optional .env
// file. All values have working local-development defaults except secrets.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("API_BASE_URL", "http://localhost:5001")
	viper.SetDefault("REQUEST_TIMEOUT", 15)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_NAMESPACE", "getsuited")
	viper.SetDefault("STUB_PORT", "5001")
	viper.SetDefault("STUB_HOST", "0.0.0.0")
	viper.SetDefault("STUB_TOKEN_TTL", 1440)
	viper.SetDefault("STUB_RATE_LIMIT_RPS", 20)
	viper.SetDefault("STUB_RATE_BURST", 40)
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("MINIO_BUCKET", "avatars")

	cfg := &Config{
		Client: Client{
			APIBaseURL:     viper.GetString("API_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("REQUEST_TIMEOUT")) * time.Second,
			StateDir:       viper.GetString("STATE_DIR"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
		},
		Redis: Redis{
			Addr:      viper.GetString("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        viper.GetInt("REDIS_DB"),
			Namespace: viper.GetString("REDIS_NAMESPACE"),
		},
		Stub: Stub{
			Port:         viper.GetString("STUB_PORT"),
			Host:         viper.GetString("STUB_HOST"),
			JWTSecret:    os.Getenv("STUB_JWT_SECRET"),
			TokenTTL:     time.Duration(viper.GetInt("STUB_TOKEN_TTL")) * time.Minute,
			RateLimitRPS: viper.GetFloat64("STUB_RATE_LIMIT_RPS"),
			RateBurst:    viper.GetInt("STUB_RATE_BURST"),
		},
		Mongo: Mongo{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		MinIO: MinIO{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			PublicURL: viper.GetString("MINIO_PUBLIC_URL"),
		},
	}

	return cfg, nil
}
