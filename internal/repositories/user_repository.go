package repositories

import (
	"context"

	"github.com/podium/backend/internal/docstore"
	"github.com/podium/backend/internal/models"
)

// UserRepository defines the data access contract for user profiles.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, id string, patch map[string]any) (models.User, error)
	UpdateProfileImage(ctx context.Context, id, url string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, url string) (models.User, error)
}

// DocumentUserRepository stores users in the "users" collection.
type DocumentUserRepository struct {
	coll docstore.Collection
}

// NewUserRepository constructs a user repository over the given database.
func NewUserRepository(database docstore.Database) *DocumentUserRepository {
	return &DocumentUserRepository{coll: database.Collection(CollectionUsers)}
}

// List returns up to UserListLimit users, newest first.
func (r *DocumentUserRepository) List(ctx context.Context) ([]models.User, error) {
	docs, err := r.coll.Find(ctx, nil, docstore.FindOptions{Limit: UserListLimit})
	if err != nil {
		return nil, translate(err, "list users")
	}
	users, err := docstore.DecodeAll[models.User](docs)
	return users, translate(err, "decode users")
}

// FindByID fetches a single user.
func (r *DocumentUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	doc, err := r.coll.FindOne(ctx, docstore.ByID(id))
	if err != nil {
		return models.User{}, translate(err, "find user")
	}
	var user models.User
	if err := docstore.Decode(doc, &user); err != nil {
		return models.User{}, translate(err, "decode user")
	}
	return user, nil
}

// Create persists a new user and returns it as stored.
func (r *DocumentUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	doc, err := docstore.Encode(user)
	if err != nil {
		return models.User{}, translate(err, "encode user")
	}
	if _, err := r.coll.Insert(ctx, doc); err != nil {
		return models.User{}, translate(err, "insert user")
	}
	return user, nil
}

// Update sets the given top-level fields and returns the resulting user.
func (r *DocumentUserRepository) Update(ctx context.Context, id string, patch map[string]any) (models.User, error) {
	matched, err := r.coll.Update(ctx, docstore.ByID(id), docstore.Document(patch))
	if err != nil {
		return models.User{}, translate(err, "update user")
	}
	if matched == 0 {
		return models.User{}, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// UpdateProfileImage records the URL of the user's profile picture.
func (r *DocumentUserRepository) UpdateProfileImage(ctx context.Context, id, url string) (models.User, error) {
	return r.Update(ctx, id, map[string]any{"profile_image": url})
}

// UpdateCoverImage records the URL of the user's cover picture.
func (r *DocumentUserRepository) UpdateCoverImage(ctx context.Context, id, url string) (models.User, error) {
	return r.Update(ctx, id, map[string]any{"cover_image": url})
}

var _ UserRepository = (*DocumentUserRepository)(nil)
