package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every tunable the process reads at startup. Values come
// from APP_-prefixed environment variables, with a .env file loaded first
// for local development.
type Config struct {
	DatabaseURL string `mapstructure:"database_url"`
	Port        string `mapstructure:"port"`
	DevMode     bool   `mapstructure:"dev_mode"`

	JWTSecret string `mapstructure:"jwt_secret"`

	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	GoogleClientID string `mapstructure:"google_client_id"`

	// StorageBackend selects where uploaded audio goes: "local" writes to
	// UploadDir and serves it under /uploads, "s3" uses the MinIO client,
	// "none" keeps bytes in memory for transcription only.
	StorageBackend string `mapstructure:"storage_backend"`
	UploadDir      string `mapstructure:"upload_dir"`
	PublicBaseURL  string `mapstructure:"public_base_url"`

	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3UseSSL    bool   `mapstructure:"s3_use_ssl"`
}

// Load reads .env (if present) and APP_* environment variables.
func Load() (*Config, error) {
	godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "3001")
	v.SetDefault("dev_mode", false)
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("storage_backend", "none")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("public_base_url", "http://localhost:3001")
	v.SetDefault("s3_bucket", "idea-dumps")

	// AutomaticEnv alone does not populate Unmarshal when no config file
	// is read, so bind each key explicitly.
	keys := []string{
		"database_url", "port", "dev_mode", "jwt_secret",
		"openai_api_key", "openai_base_url", "google_client_id",
		"storage_backend", "upload_dir", "public_base_url",
		"s3_endpoint", "s3_access_key", "s3_secret_key", "s3_bucket", "s3_use_ssl",
	}
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("APP_DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("APP_JWT_SECRET not set")
	}

	return &cfg, nil
}
