package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/azzam2912/xseon-real/internal/config"
	"github.com/azzam2912/xseon-real/internal/photostore"
	"github.com/azzam2912/xseon-real/internal/photostore/local"
	"github.com/azzam2912/xseon-real/internal/photostore/s3"
	"github.com/azzam2912/xseon-real/internal/store/csvstore"
	"github.com/azzam2912/xseon-real/internal/store/sheets"
	"github.com/azzam2912/xseon-real/internal/store/sqlite"
)

// Open builds the backend named by cfg.StoreBackend. The sheets backend
// always uploads to Drive; the others use cfg.UploadSink.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	switch cfg.StoreBackend {
	case config.BackendSheets:
		s, err := sheets.New(ctx, sheets.Config{
			SpreadsheetName:    cfg.SpreadsheetName,
			SpreadsheetID:      cfg.SpreadsheetID,
			ServiceAccountFile: cfg.ServiceAccountFile,
			ServiceAccountInfo: cfg.ServiceAccountInfo,
			DriveFolderName:    cfg.DriveFolderName,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sheets backend: %w", err)
		}
		logger.Info("store opened", "backend", cfg.StoreBackend)
		return s, nil

	case config.BackendSQLite:
		sink, err := openSink(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s, err := sqlite.New(cfg.DBPath, sink, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite backend: %w", err)
		}
		logger.Info("store opened", "backend", cfg.StoreBackend, "path", cfg.DBPath, "upload_sink", cfg.UploadSink)
		return s, nil

	default:
		sink, err := openSink(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s, err := csvstore.New(cfg.DataDir, sink, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open csv backend: %w", err)
		}
		logger.Info("store opened", "backend", cfg.StoreBackend, "dir", cfg.DataDir, "upload_sink", cfg.UploadSink)
		return s, nil
	}
}

func openSink(ctx context.Context, cfg *config.Config) (photostore.Sink, error) {
	switch cfg.UploadSink {
	case config.SinkS3:
		sink, err := s3.New(ctx, s3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
			KeyPrefix:       cfg.S3.KeyPrefix,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 upload sink: %w", err)
		}
		return sink, nil
	default:
		sink, err := local.NewLocalPhotoStore(cfg.UploadDir, cfg.UploadURLPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create local upload sink: %w", err)
		}
		return sink, nil
	}
}
