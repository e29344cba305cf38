package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/creativ-studio/media-store/pkg/mediastore"
	memoryrepo "github.com/creativ-studio/media-store/pkg/mediastore/repo/memory"
	mongorepo "github.com/creativ-studio/media-store/pkg/mediastore/repo/mongo"
	memorystorage "github.com/creativ-studio/media-store/pkg/mediastore/storage/memory"
	s3storage "github.com/creativ-studio/media-store/pkg/mediastore/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		Environment:   "development",
		DatabaseType:  "memory",
		MongoDatabase: "mediastore",
		StorageType:   "memory",
	}
}

// ServerConfig represents server configuration for the media-store service.
// It is the single validated source for every path: ingestion, single delete
// and bulk delete all operate on the storage backend it builds.
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Metadata store configuration
	DatabaseType  string // "memory", "mongo"
	MongoURI      string
	MongoDatabase string

	// Object store configuration
	StorageType string // "memory", "s3"
	S3          s3storage.Config

	// Identity configuration
	JWTSecret string
}

// WithPort sets the HTTP port.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the runtime environment.
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		c.Environment = env
		return nil
	}
}

// WithMongo selects the MongoDB metadata store.
func WithMongo(uri, database string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = "mongo"
		c.MongoURI = uri
		if database != "" {
			c.MongoDatabase = database
		}
		return nil
	}
}

// WithS3 selects the S3-compatible object store.
func WithS3(cfg s3storage.Config) Option {
	return func(c *ServerConfig) error {
		c.StorageType = "s3"
		c.S3 = cfg
		return nil
	}
}

// WithJWTSecret sets the HS256 secret verifying request identities.
func WithJWTSecret(secret string) Option {
	return func(c *ServerConfig) error {
		c.JWTSecret = secret
		return nil
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "mongo" {
		return errors.New("database type must be 'memory' or 'mongo'")
	}
	if c.DatabaseType == "mongo" && c.MongoURI == "" {
		return errors.New("mongo uri is required when using mongo")
	}

	if c.StorageType != "memory" && c.StorageType != "s3" {
		return errors.New("storage type must be 'memory' or 's3'")
	}
	if c.StorageType == "s3" && c.S3.Bucket == "" {
		return errors.New("s3 bucket is required when using s3")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(logger *slog.Logger) (mediastore.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to build storage backend: %w", err)
	}

	options := []mediastore.Option{
		mediastore.WithRepository(repo),
		mediastore.WithBlobStore(store),
	}
	if logger != nil {
		options = append(options, mediastore.WithLogger(logger))
	}

	return mediastore.New(options...)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (mediastore.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memoryrepo.New(), nil
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(c.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("mongo ping failed: %w", err)
		}
		return mongorepo.New(client.Database(c.MongoDatabase)), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildStorage creates a BlobStore based on the configuration
func (c *ServerConfig) buildStorage() (mediastore.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "s3":
		return s3storage.New(c.S3)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}
