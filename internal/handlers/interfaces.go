package handlers

import (
	"context"

	"github.com/podium/backend/internal/models"
	"github.com/podium/backend/internal/services"
)

// UserService captures the profile operations required by the user handlers.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	GetProfile(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, in services.ProfileInput) (models.User, error)
	Update(ctx context.Context, id string, patch map[string]any) (models.User, error)
	UploadProfileImage(ctx context.Context, id string, up services.Upload) (services.ImageUploadResult, error)
	UploadCoverImage(ctx context.Context, id string, up services.Upload) (services.ImageUploadResult, error)
}

// PostService captures feed, like and comment operations.
type PostService interface {
	Feed(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	Create(ctx context.Context, in services.CreatePostInput) (models.Post, error)
	Like(ctx context.Context, postID string) (services.LikeResult, error)
	Comments(ctx context.Context, postID string) ([]models.Comment, error)
	AddComment(ctx context.Context, postID, authorID, content string) (models.Comment, error)
}

// TrainingVideoService captures the training library operations.
type TrainingVideoService interface {
	List(ctx context.Context) ([]models.TrainingVideo, error)
	Create(ctx context.Context, in services.CreateTrainingVideoInput) (models.TrainingVideo, error)
}

// OpportunityService lists opportunity postings.
type OpportunityService interface {
	List(ctx context.Context) ([]models.Opportunity, error)
}
