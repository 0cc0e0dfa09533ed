package repositories

import (
	"context"

	"github.com/podium/backend/internal/docstore"
	"github.com/podium/backend/internal/models"
)

// TrainingVideoRepository exposes data access for training videos.
type TrainingVideoRepository interface {
	List(ctx context.Context) ([]models.TrainingVideo, error)
	Create(ctx context.Context, video models.TrainingVideo) (models.TrainingVideo, error)
}

// DocumentTrainingVideoRepository stores videos in "training_videos".
type DocumentTrainingVideoRepository struct {
	coll docstore.Collection
}

// NewTrainingVideoRepository constructs a training video repository.
func NewTrainingVideoRepository(database docstore.Database) *DocumentTrainingVideoRepository {
	return &DocumentTrainingVideoRepository{coll: database.Collection(CollectionTrainingVideos)}
}

// List returns training videos, newest first.
func (r *DocumentTrainingVideoRepository) List(ctx context.Context) ([]models.TrainingVideo, error) {
	docs, err := r.coll.Find(ctx, nil, newestFirst)
	if err != nil {
		return nil, translate(err, "list training videos")
	}
	videos, err := docstore.DecodeAll[models.TrainingVideo](docs)
	return videos, translate(err, "decode training videos")
}

// Create persists a new training video.
func (r *DocumentTrainingVideoRepository) Create(ctx context.Context, video models.TrainingVideo) (models.TrainingVideo, error) {
	doc, err := docstore.Encode(video)
	if err != nil {
		return models.TrainingVideo{}, translate(err, "encode training video")
	}
	if _, err := r.coll.Insert(ctx, doc); err != nil {
		return models.TrainingVideo{}, translate(err, "insert training video")
	}
	return video, nil
}

var _ TrainingVideoRepository = (*DocumentTrainingVideoRepository)(nil)
