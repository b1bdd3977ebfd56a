package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/kazz187/todo/pkg/clog"
)

type BaseEnv struct {
	Env               string `envconfig:"ENV" default:"local"`
	HTTPHost          string `envconfig:"HTTP_HOST" default:""`
	HTTPPort          string `envconfig:"HTTP_PORT" default:"5000"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	CORSAllowedOrigin string `envconfig:"CORS_ALLOWED_ORIGIN" default:"http://localhost:5173"`
}

const (
	StorageTypeLocal    = "local"
	StorageTypeS3       = "s3"
	StorageTypePostgres = "postgres"
)

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".todo/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket   string `envconfig:"S3_BUCKET"`
	S3Prefix   string `envconfig:"S3_PREFIX" default:"todo/"`
	S3Region   string `envconfig:"S3_REGION" default:"ap-northeast-1"`
	S3Endpoint string `envconfig:"S3_ENDPOINT"`
	// Postgres settings (used when Type == "postgres")
	DatabaseURL            string        `envconfig:"DATABASE_URL"`
	DatabaseConnectTimeout time.Duration `envconfig:"DATABASE_CONNECT_TIMEOUT" default:"10s"`
}

type Env struct {
	BaseEnv
	StorageEnv
}

const namespace = "TODO"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (e *Env) validate() error {
	switch e.StorageEnv.Type {
	case StorageTypeLocal:
	case StorageTypeS3:
		if e.S3Bucket == "" {
			return fmt.Errorf("%s_S3_BUCKET is required when %s_STORAGE_TYPE=s3", namespace, namespace)
		}
	case StorageTypePostgres:
		if e.DatabaseURL == "" {
			return fmt.Errorf("%s_DATABASE_URL is required when %s_STORAGE_TYPE=postgres", namespace, namespace)
		}
	default:
		return fmt.Errorf("unknown storage type %q", e.StorageEnv.Type)
	}
	return nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	return clog.ParseLevel(e.LogLevel)
}
