package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strings"

	"github.com/podium/backend/internal/logging"
	"github.com/podium/backend/internal/models"
	"github.com/podium/backend/internal/repositories"
	"github.com/podium/backend/internal/storage"
)

// ProfileInput is the payload accepted when creating a profile.
type ProfileInput struct {
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Sport    string  `json:"sport"`
	Headline *string `json:"headline"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Category *string `json:"category"`
}

// ImageUploadResult is returned after a profile or cover picture is stored.
type ImageUploadResult struct {
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}

var (
	patchStringFields = []string{
		"name", "role", "sport", "headline", "bio", "location", "category",
		"weight", "height", "playing_hand", "age_category", "academy",
	}
	patchIntFields = []string{"age", "years_of_experience"}
	patchRequired  = []string{"name", "role", "sport"}
	supportedRoles = []string{models.RoleAthlete, models.RoleCoach}
)

// UserService implements profile management.
type UserService struct {
	users repositories.UserRepository
	blobs storage.BlobStore
}

// NewUserService wires a UserService.
func NewUserService(users repositories.UserRepository, blobs storage.BlobStore) *UserService {
	return &UserService{users: users, blobs: blobs}
}

// List returns every user, newest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return orEmpty(s.users.List(ctx))
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.find(ctx, id, "User not found")
}

// GetProfile returns the profile for a user id.
func (s *UserService) GetProfile(ctx context.Context, id string) (models.User, error) {
	return s.find(ctx, id, "Profile not found")
}

func (s *UserService) find(ctx context.Context, id, missing string) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, notFound(missing)
	}
	return user, err
}

// Create stores a new profile with a fresh id and empty optional fields.
func (s *UserService) Create(ctx context.Context, in ProfileInput) (models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Sport = strings.TrimSpace(in.Sport)
	if in.Name == "" || in.Role == "" || in.Sport == "" {
		return models.User{}, invalidArgument("name, role and sport are required")
	}
	if err := validateRole(in.Role); err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:         newID(),
		Name:       in.Name,
		Role:       in.Role,
		Sport:      in.Sport,
		Headline:   in.Headline,
		Bio:        in.Bio,
		Location:   in.Location,
		Category:   in.Category,
		Skills:     []models.Skill{},
		Experience: []models.Experience{},
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	logging.FromContext(ctx).Info("profile created", "userId", created.ID, "role", created.Role)
	return created, nil
}

// Update applies the provided fields to a profile. Fields absent from patch are
// left untouched and an empty patch returns the stored profile.
func (s *UserService) Update(ctx context.Context, id string, patch map[string]any) (models.User, error) {
	fields, err := normalizePatch(patch)
	if err != nil {
		return models.User{}, err
	}
	if len(fields) == 0 {
		return s.GetProfile(ctx, id)
	}

	user, err := s.users.Update(ctx, id, fields)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, notFound("Profile not found")
	}
	return user, err
}

// UploadProfileImage stores the user's profile picture and records its URL.
// Repeated uploads reuse the same object name.
func (s *UserService) UploadProfileImage(ctx context.Context, id string, up Upload) (ImageUploadResult, error) {
	ctx, span := logging.StartSpan(ctx, "users.upload_profile_image")
	defer span.End()

	if _, err := s.GetProfile(ctx, id); err != nil {
		return ImageUploadResult{}, err
	}

	url, err := storeUpload(ctx, s.blobs, up, "profiles", derivedName(id, "profile", up.Filename))
	if err != nil {
		return ImageUploadResult{}, err
	}
	if _, err := s.users.UpdateProfileImage(ctx, id, url); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ImageUploadResult{}, notFound("Profile not found")
		}
		return ImageUploadResult{}, err
	}

	return ImageUploadResult{Message: "Profile image uploaded", ImageURL: url}, nil
}

// UploadCoverImage stores the user's cover picture and records its URL.
func (s *UserService) UploadCoverImage(ctx context.Context, id string, up Upload) (ImageUploadResult, error) {
	ctx, span := logging.StartSpan(ctx, "users.upload_cover_image")
	defer span.End()

	if _, err := s.GetProfile(ctx, id); err != nil {
		return ImageUploadResult{}, err
	}

	url, err := storeUpload(ctx, s.blobs, up, "covers", derivedName(id, "cover", up.Filename))
	if err != nil {
		return ImageUploadResult{}, err
	}
	if _, err := s.users.UpdateCoverImage(ctx, id, url); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ImageUploadResult{}, notFound("Profile not found")
		}
		return ImageUploadResult{}, err
	}

	return ImageUploadResult{Message: "Cover image uploaded", ImageURL: url}, nil
}

func validateRole(role string) error {
	if slices.Contains(supportedRoles, role) {
		return nil
	}
	return invalidArgument("role must be one of: %s", strings.Join(supportedRoles, ", "))
}

// normalizePatch keeps the editable profile fields and checks their types.
// Unknown keys are ignored.
func normalizePatch(patch map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(patch))
	for key, value := range patch {
		switch {
		case slices.Contains(patchStringFields, key):
			if value == nil {
				if slices.Contains(patchRequired, key) {
					return nil, invalidArgument("%s cannot be null", key)
				}
				fields[key] = nil
				continue
			}
			str, ok := value.(string)
			if !ok {
				return nil, invalidArgument("%s must be a string", key)
			}
			if key == "role" {
				if err := validateRole(str); err != nil {
					return nil, err
				}
			}
			fields[key] = str
		case slices.Contains(patchIntFields, key):
			if value == nil {
				fields[key] = nil
				continue
			}
			n, ok := toInt(value)
			if !ok {
				return nil, invalidArgument("%s must be an integer", key)
			}
			fields[key] = n
		}
	}
	return fields, nil
}

func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

