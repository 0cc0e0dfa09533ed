package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/podium/backend/internal/config"
	"github.com/podium/backend/internal/docstore"
	"github.com/podium/backend/internal/handlers"
	"github.com/podium/backend/internal/middleware"
	"github.com/podium/backend/internal/repositories"
	"github.com/podium/backend/internal/services"
	"github.com/podium/backend/internal/storage"
	"github.com/podium/backend/internal/videos"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, database docstore.Database, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, error) {
	blobs, err := blobStore(ctx, cfg.ObjectStore, logger)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	users := repositories.NewUserRepository(database)
	posts := repositories.NewPostRepository(database)

	return handlers.Dependencies{
		Users:         services.NewUserService(users, blobs),
		Posts:         services.NewPostService(posts, blobs),
		Training:      services.NewTrainingVideoService(repositories.NewTrainingVideoRepository(database), blobs, metadataProvider(cfg)),
		Opportunities: services.NewOpportunityService(repositories.NewOpportunityRepository(database)),
		UploadLimiter: middleware.NewUploadRateLimiter(cfg.Uploads),
		StoreBackend:  database.Backend(),
	}, nil
}

func blobStore(ctx context.Context, cfg config.ObjectStoreConfig, logger *slog.Logger) (storage.BlobStore, error) {
	if !cfg.Enabled() {
		logger.Warn("object storage credentials missing, uploads are disabled")
		return storage.Disabled{}, nil
	}
	s3, err := storage.NewS3Storage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("configure object storage: %w", err)
	}
	logger.Info("object storage configured", "bucket", cfg.Bucket, "region", cfg.Region)
	return s3, nil
}

// metadataProvider returns nil when no yt-dlp binary is configured; linked
// videos then keep their placeholder duration and views.
func metadataProvider(cfg config.Config) videos.Provider {
	if cfg.YTDLPPath == "" {
		return nil
	}
	return videos.NewCachingProvider(videos.NewYTDLPProvider(cfg.YTDLPPath, cfg.YTDLPTimeout), cfg.MetadataCacheTTL)
}
