package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnavailable is returned by every upload when object storage is not configured.
var ErrUnavailable = errors.New("object storage is not configured")

// Object describes a file to be stored.
type Object struct {
	Body        io.Reader
	ContentType string
	// Folder is the key prefix, e.g. "profiles".
	Folder string
	// Name fixes the object name so repeated uploads overwrite each other.
	// When empty a random name keeping Filename's extension is generated.
	Name     string
	Filename string
}

// BlobStore stores objects and returns a public URL for them.
type BlobStore interface {
	Put(ctx context.Context, obj Object) (string, error)
}

// Disabled is the BlobStore used when no credentials are configured.
type Disabled struct{}

// Put always fails with ErrUnavailable.
func (Disabled) Put(context.Context, Object) (string, error) {
	return "", ErrUnavailable
}

// ObjectKey derives the storage key for obj.
func ObjectKey(obj Object) string {
	name := strings.TrimSpace(obj.Name)
	if name == "" {
		name = uuid.NewString() + filepath.Ext(obj.Filename)
	}
	return strings.TrimLeft(path.Join(strings.Trim(obj.Folder, "/"), name), "/")
}
