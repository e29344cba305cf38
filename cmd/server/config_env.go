package main

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/creativ-studio/media-store/pkg/mediastore/config"
	s3storage "github.com/creativ-studio/media-store/pkg/mediastore/storage/s3"
)

type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	JWTSecret   string `env:"JWT_SECRET" env-default:"dev-secret"`

	Mongo mongoEnv
	S3    s3Env
}

type mongoEnv struct {
	URI      string `env:"MONGO_URI" env-default:""`
	Database string `env:"MONGO_DATABASE" env-default:"mediastore"`
}

type s3Env struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Bucket          string `env:"AWS_S3_BUCKET" env-default:""`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	PublicBaseURL   string `env:"AWS_S3_PUBLIC_BASE_URL" env-default:""`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// loadServerConfigFromEnv reads process environment variables into the
// library configuration. Absent Mongo/S3 settings select the in-memory
// backends, which keeps local development dependency-free.
func loadServerConfigFromEnv() (*config.ServerConfig, error) {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	opts := []config.Option{
		config.WithPort(env.Port),
		config.WithEnvironment(env.Environment),
		config.WithJWTSecret(env.JWTSecret),
	}

	if env.Mongo.URI != "" {
		opts = append(opts, config.WithMongo(env.Mongo.URI, env.Mongo.Database))
	}

	if env.S3.Bucket != "" {
		opts = append(opts, config.WithS3(s3storage.Config{
			Region:                 env.S3.Region,
			Bucket:                 env.S3.Bucket,
			AccessKeyID:            env.S3.AccessKeyID,
			SecretAccessKey:        env.S3.SecretAccessKey,
			Endpoint:               env.S3.Endpoint,
			UsePathStyle:           env.S3.UsePathStyle,
			PublicBaseURL:          env.S3.PublicBaseURL,
			CreateBucketIfNotExist: env.S3.CreateBucket,
		}))
	}

	return config.Load(opts...)
}
