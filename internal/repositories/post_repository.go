package repositories

import (
	"context"

	"github.com/podium/backend/internal/docstore"
	"github.com/podium/backend/internal/models"
)

// PostRepository exposes data access for posts and their comments.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	FindByID(ctx context.Context, id string) (models.Post, error)
	Create(ctx context.Context, post models.Post) (models.Post, error)
	IncrementLikes(ctx context.Context, id string) (int, error)
	IncrementComments(ctx context.Context, id string) (int, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error)
}

// DocumentPostRepository stores posts in "posts" and comments in "comments".
type DocumentPostRepository struct {
	posts    docstore.Collection
	comments docstore.Collection
}

// NewPostRepository constructs a post repository over the given database.
func NewPostRepository(database docstore.Database) *DocumentPostRepository {
	return &DocumentPostRepository{
		posts:    database.Collection(CollectionPosts),
		comments: database.Collection(CollectionComments),
	}
}

// List returns the feed, newest first.
func (r *DocumentPostRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, nil)
}

// ListByAuthor returns a user's posts, newest first.
func (r *DocumentPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return r.find(ctx, docstore.Filter{"author_id": authorID})
}

func (r *DocumentPostRepository) find(ctx context.Context, filter docstore.Filter) ([]models.Post, error) {
	docs, err := r.posts.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, translate(err, "list posts")
	}
	posts, err := docstore.DecodeAll[models.Post](docs)
	return posts, translate(err, "decode posts")
}

// FindByID fetches a single post.
func (r *DocumentPostRepository) FindByID(ctx context.Context, id string) (models.Post, error) {
	doc, err := r.posts.FindOne(ctx, docstore.ByID(id))
	if err != nil {
		return models.Post{}, translate(err, "find post")
	}
	var post models.Post
	if err := docstore.Decode(doc, &post); err != nil {
		return models.Post{}, translate(err, "decode post")
	}
	return post, nil
}

// Create persists a new post.
func (r *DocumentPostRepository) Create(ctx context.Context, post models.Post) (models.Post, error) {
	doc, err := docstore.Encode(post)
	if err != nil {
		return models.Post{}, translate(err, "encode post")
	}
	if _, err := r.posts.Insert(ctx, doc); err != nil {
		return models.Post{}, translate(err, "insert post")
	}
	return post, nil
}

// IncrementLikes atomically bumps the like counter and returns the new value.
func (r *DocumentPostRepository) IncrementLikes(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "likes")
}

// IncrementComments atomically bumps the comment counter and returns the new value.
func (r *DocumentPostRepository) IncrementComments(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "comments")
}

func (r *DocumentPostRepository) increment(ctx context.Context, id, field string) (int, error) {
	doc, err := r.posts.Increment(ctx, docstore.ByID(id), field, 1)
	if err != nil {
		return 0, translate(err, "increment post "+field)
	}
	var post models.Post
	if err := docstore.Decode(doc, &post); err != nil {
		return 0, translate(err, "decode post")
	}
	if field == "likes" {
		return post.Likes, nil
	}
	return post.Comments, nil
}

// ListComments returns a post's comments oldest first.
func (r *DocumentPostRepository) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	docs, err := r.comments.Find(ctx, docstore.Filter{"post_id": postID}, docstore.FindOptions{
		Sort:  &docstore.Sort{Field: "created_at", Direction: docstore.Ascending},
		Limit: DefaultListLimit,
	})
	if err != nil {
		return nil, translate(err, "list comments")
	}
	comments, err := docstore.DecodeAll[models.Comment](docs)
	return comments, translate(err, "decode comments")
}

// CreateComment persists a new comment. It does not touch the post's counter.
func (r *DocumentPostRepository) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	doc, err := docstore.Encode(comment)
	if err != nil {
		return models.Comment{}, translate(err, "encode comment")
	}
	if _, err := r.comments.Insert(ctx, doc); err != nil {
		return models.Comment{}, translate(err, "insert comment")
	}
	return comment, nil
}

var _ PostRepository = (*DocumentPostRepository)(nil)
