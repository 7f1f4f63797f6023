package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	OAuth     OAuthConfig
	Redis     RedisConfig
	Logging   LoggingConfig
	Estimator EstimatorConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that sets them.
	TrustProxy bool
}

// DatabaseConfig selects and configures the persistence backend.
// Driver is one of sqlite, postgres or mongo.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Path            string
	MongoURI        string
}

type AuthConfig struct {
	JWTSecret          string
	TokenExpiry        time.Duration
	BCryptCost         int
	SignupEmailPattern string
}

// OAuthConfig contains external login provider configuration
type OAuthConfig struct {
	Google  OAuthClientConfig
	GitHub  OAuthClientConfig
	Enabled bool
}

type OAuthClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port for the redis client
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string
}

// EstimatorConfig chooses between the built-in heuristic estimator and a
// remote prediction service.
type EstimatorConfig struct {
	Mode           string // heuristic or remote
	ServiceURL     string
	Timeout        time.Duration
	SimulatedDelay time.Duration
	OpenAIAPIKey   string
	OpenAIModel    string
}

type RateLimitConfig struct {
	Max         int
	Window      time.Duration
	GlobalRPS   float64
	GlobalBurst int
}

// StorageConfig configures where uploaded files go.
// Backend is one of local, s3 or gcs.
type StorageConfig struct {
	Backend       string
	UploadDir     string
	PublicBaseURL string
	MaxUploadSize int64
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	GCSBucket     string
	GCSCredFile   string
}

type WorkerConfig struct {
	StatsSchedule string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	port := getEnvAsInt("SERVER_PORT", getEnvAsInt("PORT", 5000))

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            port,
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			TrustProxy:      getEnvAsBool("TRUST_PROXY", false),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "projectcostai"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./projectcostai.db"),
			MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			TokenExpiry:        getEnvAsExpiry("JWT_EXPIRES_IN", 7*24*time.Hour),
			BCryptCost:         getEnvAsInt("BCRYPT_COST", 10),
			SignupEmailPattern: getEnv("SIGNUP_EMAIL_PATTERN", `^[a-zA-Z0-9._-]+@gmail\.com$`),
		},
		OAuth: OAuthConfig{
			Google: OAuthClientConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:5000/auth/oauth/google/callback"),
			},
			GitHub: OAuthClientConfig{
				ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
				ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("GITHUB_REDIRECT_URL", "http://localhost:5000/auth/oauth/github/callback"),
			},
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Estimator: EstimatorConfig{
			Mode:           getEnv("ESTIMATOR_MODE", "heuristic"),
			ServiceURL:     getEnv("ML_SERVICE_URL", "http://localhost:8000/predict"),
			Timeout:        getEnvAsDuration("ESTIMATOR_TIMEOUT", 10*time.Second),
			SimulatedDelay: getEnvAsDuration("ESTIMATOR_SIMULATED_DELAY", 0),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		RateLimit: RateLimitConfig{
			Max:         getEnvAsInt("RATE_LIMIT_MAX", 3),
			Window:      getEnvAsDuration("RATE_LIMIT_WINDOW", 60*time.Second),
			GlobalRPS:   getEnvAsFloat("RATE_LIMIT_GLOBAL_RPS", 50),
			GlobalBurst: getEnvAsInt("RATE_LIMIT_GLOBAL_BURST", 100),
		},
		Storage: StorageConfig{
			Backend:       getEnv("UPLOAD_BACKEND", "local"),
			UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
			PublicBaseURL: getEnv("UPLOAD_PUBLIC_URL", "/uploads"),
			MaxUploadSize: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Region:      getEnv("AWS_REGION", "us-east-1"),
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),
			S3AccessKey:   getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
			GCSBucket:     getEnv("GCS_BUCKET", ""),
			GCSCredFile:   getEnv("GCS_CREDENTIALS_FILE", ""),
		},
		Worker: WorkerConfig{
			StatsSchedule: getEnv("STATS_SCHEDULE", "@every 1m"),
		},
	}
	cfg.OAuth.Enabled = cfg.OAuth.Google.ClientID != "" || cfg.OAuth.GitHub.ClientID != ""

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres", "mongo":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	switch c.Estimator.Mode {
	case "heuristic":
	case "remote":
		if c.Estimator.ServiceURL == "" {
			return fmt.Errorf("ML_SERVICE_URL is required when ESTIMATOR_MODE=remote")
		}
	default:
		return fmt.Errorf("unsupported estimator mode: %s", c.Estimator.Mode)
	}

	if c.RateLimit.Max < 1 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit needs a positive max and window")
	}

	switch c.Storage.Backend {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when UPLOAD_BACKEND=s3")
		}
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when UPLOAD_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("unsupported upload backend: %s", c.Storage.Backend)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsExpiry accepts Go durations plus a day suffix ("7d").
func getEnvAsExpiry(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	d, err := ParseExpiry(valueStr)
	if err != nil {
		return defaultValue
	}
	return d
}

// ParseExpiry parses values like "7d", "12h" or "90m".
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
