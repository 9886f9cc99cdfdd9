package main

import (
	"context"

	"github.com/ericogr/kids-games/internal/config"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/media"
	"github.com/ericogr/kids-games/internal/storage"
	"gorm.io/gorm"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.Load(path)
	if err != nil {
		logging.Fatal("Missing or invalid kids games configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func openDatabaseOrExit(cfg *config.LoadedConfig) *gorm.DB {
	db, err := storage.OpenAndMigrate(storage.DBConfig{
		Driver:        cfg.DBDriver,
		Path:          cfg.DBPath,
		MySQLAddr:     cfg.MySQLAddr,
		MySQLUser:     cfg.MySQLUser,
		MySQLPassword: cfg.MySQLPassword,
		MySQLDatabase: cfg.MySQLDatabase,
	})
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"driver": cfg.DBDriver})
	}
	return db
}

// mediaBackendOrExit picks the configured media store. The database
// backend reuses the repository's blob table.
func mediaBackendOrExit(ctx context.Context, cfg *config.LoadedConfig, blobs storage.BlobRepository) media.Backend {
	if cfg.MediaBackend != config.MediaBackendS3 {
		return media.NewDBBackend(blobs, cfg.BaseURL)
	}
	b, err := media.NewS3Backend(ctx, media.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		Prefix:          cfg.S3Prefix,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretKey,
		PresignTTL:      cfg.S3PresignTTL,
	})
	if err != nil {
		logging.Fatal("Failed to initialize S3 media backend", err, logging.Fields{"bucket": cfg.S3Bucket})
	}
	return b
}
