package services

import (
	"context"
	"strings"

	"github.com/podium/backend/internal/logging"
	"github.com/podium/backend/internal/models"
	"github.com/podium/backend/internal/repositories"
	"github.com/podium/backend/internal/storage"
	"github.com/podium/backend/internal/videos"
)

// CreateTrainingVideoInput describes a new training video. Type selects
// between an uploaded File and a linked VideoURL.
type CreateTrainingVideoInput struct {
	Title       string
	Author      string
	Description *string
	Type        string
	VideoURL    string
	File        *Upload
}

// TrainingVideoService manages the training video library.
type TrainingVideoService struct {
	videos   repositories.TrainingVideoRepository
	blobs    storage.BlobStore
	metadata videos.Provider
}

// NewTrainingVideoService wires a TrainingVideoService. metadata may be nil,
// in which case linked videos keep the default duration and view strings.
func NewTrainingVideoService(repo repositories.TrainingVideoRepository, blobs storage.BlobStore, metadata videos.Provider) *TrainingVideoService {
	return &TrainingVideoService{videos: repo, blobs: blobs, metadata: metadata}
}

// List returns the most recent training videos.
func (s *TrainingVideoService) List(ctx context.Context) ([]models.TrainingVideo, error) {
	return orEmpty(s.videos.List(ctx))
}

// Create stores a training video.
func (s *TrainingVideoService) Create(ctx context.Context, in CreateTrainingVideoInput) (models.TrainingVideo, error) {
	ctx, span := logging.StartSpan(ctx, "training.create")
	defer span.End()

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return models.TrainingVideo{}, invalidArgument("title and author are required")
	}

	video := models.TrainingVideo{
		ID:          newID(),
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Type:        in.Type,
		Duration:    videos.Metadata{}.Duration(),
		Views:       videos.Metadata{}.Views(),
		Categories:  []string{},
	}

	switch in.Type {
	case models.VideoTypeFile:
		if in.File == nil {
			return models.TrainingVideo{}, invalidArgument("File is required for file upload type")
		}
		url, err := storeUpload(ctx, s.blobs, *in.File, "training", "")
		if err != nil {
			return models.TrainingVideo{}, err
		}
		video.VideoURL = url
	case models.VideoTypeLink:
		link := strings.TrimSpace(in.VideoURL)
		if link == "" {
			return models.TrainingVideo{}, invalidArgument("Video URL is required for link type")
		}
		video.VideoURL = link
		if id, ok := videos.ExtractVideoID(link); ok {
			thumb := videos.ThumbnailURL(id)
			video.VideoURL = id
			video.ThumbnailURL = &thumb
			s.enrich(ctx, videos.WatchURL(id), &video)
		}
	default:
		return models.TrainingVideo{}, invalidArgument("type must be %q or %q", models.VideoTypeFile, models.VideoTypeLink)
	}

	return s.videos.Create(ctx, video)
}

// enrich only ever receives canonical YouTube watch URLs, never raw user input.
func (s *TrainingVideoService) enrich(ctx context.Context, link string, video *models.TrainingVideo) {
	if s.metadata == nil {
		return
	}
	meta, err := s.metadata.Lookup(ctx, link)
	if err != nil {
		logging.FromContext(ctx).Warn("video metadata lookup failed", "url", link, "error", err)
		return
	}
	video.Duration = meta.Duration()
	video.Views = meta.Views()
}

// OpportunityService lists opportunity postings.
type OpportunityService struct {
	opportunities repositories.OpportunityRepository
}

// NewOpportunityService wires an OpportunityService.
func NewOpportunityService(repo repositories.OpportunityRepository) *OpportunityService {
	return &OpportunityService{opportunities: repo}
}

// List returns the most recent opportunities.
func (s *OpportunityService) List(ctx context.Context) ([]models.Opportunity, error) {
	return orEmpty(s.opportunities.List(ctx))
}
