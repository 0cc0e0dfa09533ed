package repositories

import (
	"errors"
	"fmt"

	"github.com/podium/backend/internal/docstore"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would reuse an existing identifier.
	ErrConflict = errors.New("record conflict")
)

// Collection names shared by every backend.
const (
	CollectionUsers          = "users"
	CollectionPosts          = "posts"
	CollectionComments       = "comments"
	CollectionTrainingVideos = "training_videos"
	CollectionOpportunities  = "opportunities"
)

// Page sizes applied to list queries.
const (
	UserListLimit    = 1000
	DefaultListLimit = 100
)

// newestFirst lists by insertion order. Ids are not compared: fixture ids
// such as "p1" would otherwise outrank every generated one.
var newestFirst = docstore.FindOptions{Limit: DefaultListLimit}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, docstore.ErrConflict):
		return ErrConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
