package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/podium/backend/internal/logging"
	"github.com/podium/backend/internal/models"
	"github.com/podium/backend/internal/repositories"
	"github.com/podium/backend/internal/storage"
)

// CreatePostInput describes a new feed post. Media is optional.
type CreatePostInput struct {
	AuthorID string
	Content  string
	Type     string
	Media    *Upload
}

// LikeResult reports a post's like counter after an increment.
type LikeResult struct {
	Likes int `json:"likes"`
}

// PostService implements the feed, likes and comments.
type PostService struct {
	posts   repositories.PostRepository
	blobs   storage.BlobStore
	nowFunc func() time.Time
}

// NewPostService wires a PostService.
func NewPostService(posts repositories.PostRepository, blobs storage.BlobStore) *PostService {
	return &PostService{posts: posts, blobs: blobs, nowFunc: time.Now}
}

// Feed returns the most recent posts.
func (s *PostService) Feed(ctx context.Context) ([]models.Post, error) {
	return orEmpty(s.posts.List(ctx))
}

// ListByUser returns the most recent posts written by userID.
func (s *PostService) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return orEmpty(s.posts.ListByAuthor(ctx, userID))
}

// Create uploads the optional media and then stores the post with zeroed counters.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (models.Post, error) {
	ctx, span := logging.StartSpan(ctx, "posts.create")
	defer span.End()

	if strings.TrimSpace(in.AuthorID) == "" || strings.TrimSpace(in.Type) == "" {
		return models.Post{}, invalidArgument("user_id and type are required")
	}

	post := models.Post{
		ID:       newID(),
		AuthorID: in.AuthorID,
		Content:  in.Content,
		Type:     in.Type,
	}

	if in.Media != nil {
		url, err := storeUpload(ctx, s.blobs, *in.Media, "posts", "")
		if err != nil {
			return models.Post{}, err
		}
		post.MediaURL = &url
	}

	return s.posts.Create(ctx, post)
}

// Like increments the like counter of a post.
func (s *PostService) Like(ctx context.Context, postID string) (LikeResult, error) {
	likes, err := s.posts.IncrementLikes(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return LikeResult{}, notFound("Post not found")
	}
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Likes: likes}, nil
}

// Comments lists a post's comments oldest first.
func (s *PostService) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	return orEmpty(s.posts.ListComments(ctx, postID))
}

// AddComment stores a comment and then bumps the post's comment counter.
// The two writes are independent: if the counter update fails the comment is
// kept and the failure is logged.
func (s *PostService) AddComment(ctx context.Context, postID, authorID, content string) (models.Comment, error) {
	if strings.TrimSpace(authorID) == "" || strings.TrimSpace(content) == "" {
		return models.Comment{}, invalidArgument("author_id and content are required")
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Comment{}, notFound("Post not found")
		}
		return models.Comment{}, err
	}

	comment, err := s.posts.CreateComment(ctx, models.Comment{
		ID:        newID(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.nowFunc().UTC().Truncate(time.Millisecond),
	})
	if err != nil {
		return models.Comment{}, err
	}

	if _, err := s.posts.IncrementComments(ctx, postID); err != nil {
		logging.FromContext(ctx).Warn("comment stored but counter not updated", "postId", postID, "commentId", comment.ID, "error", err)
	}

	return comment, nil
}

// orEmpty turns a nil result into an empty slice so it encodes as [].
func orEmpty[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
