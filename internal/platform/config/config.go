package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AuthMode string

const (
	AuthModeDev  AuthMode = "dev"
	AuthModeJWT  AuthMode = "jwt"
	AuthModeOdin AuthMode = "odin"
)

type BlobDriver string

const (
	BlobDriverMemory BlobDriver = "memory"
	BlobDriverS3     BlobDriver = "s3"
)

// Config agrupa la configuración del proceso. Se carga una sola vez en main.
type Config struct {
	Port string

	// DBDSN vacío => repositorios in-memory (modo dev).
	DBDSN string

	LogLevel  string
	LogFormat string
	AppName   string

	AuthMode    AuthMode
	JWTSecret   string
	OdinBaseURL string
	OdinAPIKey  string

	BlobDriver  BlobDriver
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PublicURL string
	S3PathStyle bool
	PresignTTL  time.Duration
}

// Load lee .env (si existe) y luego el entorno del proceso.
// Las variables ya presentes en el entorno no se sobreescriben.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv construye la configuración a partir de un lookup (os.Getenv en prod).
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:        get("PORT", "8080"),
		DBDSN:       get("DB_DSN", ""),
		LogLevel:    get("LOG_LEVEL", "info"),
		LogFormat:   get("LOG_FORMAT", "text"),
		AppName:     get("APP_NAME", "union-ganadera"),
		AuthMode:    AuthMode(strings.ToLower(get("AUTH_MODE", string(AuthModeDev)))),
		JWTSecret:   get("JWT_SECRET", ""),
		OdinBaseURL: get("ODIN_BASE_URL", ""),
		OdinAPIKey:  get("ODIN_API_KEY", ""),
		BlobDriver:  BlobDriver(strings.ToLower(get("BLOB_DRIVER", string(BlobDriverMemory)))),
		S3Bucket:    get("S3_BUCKET_NAME", ""),
		S3Region:    get("S3_REGION", get("AWS_DEFAULT_REGION", "us-east-1")),
		S3Endpoint:  get("S3_ENDPOINT_URL", ""),
		S3PublicURL: get("S3_PUBLIC_URL", ""),
		S3PathStyle: strings.EqualFold(get("S3_PATH_STYLE", "false"), "true"),
		PresignTTL:  time.Hour,
	}

	if v := get("PRESIGN_TTL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("PRESIGN_TTL must be a positive duration, got %q", v)
		}
		cfg.PresignTTL = d
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.AuthMode {
	case AuthModeDev:
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case AuthModeOdin:
		if c.OdinBaseURL == "" || c.OdinAPIKey == "" {
			return errors.New("ODIN_BASE_URL and ODIN_API_KEY are required when AUTH_MODE=odin")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	switch c.BlobDriver {
	case BlobDriverMemory:
	case BlobDriverS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET_NAME is required when BLOB_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q", c.BlobDriver)
	}
	return nil
}

// Addr devuelve la dirección de escucha HTTP.
func (c Config) Addr() string {
	return ":" + c.Port
}
