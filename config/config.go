package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Storage    StorageConfig
	Completion CompletionConfig
}

type AppConfig struct {
	Port         string
	Env          string
	LogLevel     string
	PublicWebURL string
	PublicAPIURL string
}

type DBConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host          string
	Port          string
	Password      string
	DB            int
	TokenCacheTTL time.Duration
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type AuthConfig struct {
	Provider          string
	FirebaseProjectID string
	Secret            string
	Expiry            time.Duration
}

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderHMAC     = "hmac"
)

type StorageConfig struct {
	Backend         string
	Bucket          string
	CredentialsFile string
	LocalDir        string
	MaxUploadBytes  int64
}

const (
	StorageBackendGCS   = "gcs"
	StorageBackendLocal = "local"
)

type CompletionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LoadConfig reads the given env file when it exists and overlays process
// environment variables on top of it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	setDefaults(v)

	port := v.GetString("APP_PORT")
	if port == "" {
		port = v.GetString("PORT")
	}
	if port == "" {
		port = "3000"
	}

	config := &Config{
		App: AppConfig{
			Port:         port,
			Env:          v.GetString("APP_ENV"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			PublicWebURL: strings.TrimRight(v.GetString("PUBLIC_WEB_URL"), "/"),
			PublicAPIURL: strings.TrimRight(v.GetString("PUBLIC_API_URL"), "/"),
		},
		DB: DBConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Path:     v.GetString("DB_PATH"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:          v.GetString("REDIS_HOST"),
			Port:          v.GetString("REDIS_PORT"),
			Password:      v.GetString("REDIS_PASSWORD"),
			DB:            v.GetInt("REDIS_DB"),
			TokenCacheTTL: parseDuration(v.GetString("TOKEN_CACHE_TTL"), 10*time.Minute),
		},
		Auth: AuthConfig{
			Provider:          strings.ToLower(v.GetString("AUTH_PROVIDER")),
			FirebaseProjectID: v.GetString("FIREBASE_PROJECT_ID"),
			Secret:            v.GetString("JWT_SECRET"),
			Expiry:            parseDuration(v.GetString("JWT_EXPIRY"), time.Hour),
		},
		Storage: StorageConfig{
			Backend:         strings.ToLower(v.GetString("STORAGE_BACKEND")),
			Bucket:          v.GetString("STORAGE_BUCKET"),
			CredentialsFile: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
			LocalDir:        v.GetString("STORAGE_LOCAL_DIR"),
			MaxUploadBytes:  v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Completion: CompletionConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			BaseURL: strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
			Model:   v.GetString("OPENAI_MODEL"),
			Timeout: parseDuration(v.GetString("OPENAI_TIMEOUT"), 60*time.Second),
		},
	}

	if config.App.PublicAPIURL == "" {
		config.App.PublicAPIURL = "http://localhost:" + port
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PUBLIC_WEB_URL", "https://meditrackweb.vercel.app")
	v.SetDefault("DB_DRIVER", DBDriverPostgres)
	v.SetDefault("DB_PATH", "data/meditrack.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("AUTH_PROVIDER", AuthProviderFirebase)
	v.SetDefault("STORAGE_BACKEND", StorageBackendLocal)
	v.SetDefault("STORAGE_LOCAL_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 10*1024*1024)
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
