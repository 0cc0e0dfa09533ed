package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/podium/backend/internal/logging"
	"github.com/podium/backend/internal/storage"
)

// Upload is a file received from a client.
type Upload struct {
	Body        io.Reader
	Filename    string
	ContentType string
}

// AllowedMediaTypes lists the content types accepted for any upload.
var AllowedMediaTypes = []string{
	"image/jpeg", "image/png", "image/jpg", "image/webp",
	"video/mp4", "video/webm",
}

// ValidateUpload rejects uploads whose declared content type is not allowed.
func ValidateUpload(up Upload) error {
	if !slices.Contains(AllowedMediaTypes, strings.ToLower(strings.TrimSpace(up.ContentType))) {
		return invalidArgument("Invalid file type. Allowed types: %s", strings.Join(AllowedMediaTypes, ", "))
	}
	return nil
}

// storeUpload validates and stores up under folder. An empty name lets the
// blob store generate one.
func storeUpload(ctx context.Context, blobs storage.BlobStore, up Upload, folder, name string) (string, error) {
	if err := ValidateUpload(up); err != nil {
		return "", err
	}
	if blobs == nil {
		return "", unavailable("Object storage is not configured")
	}

	ctx, span := logging.StartSpan(ctx, "storage.put")
	defer span.End()

	url, err := blobs.Put(ctx, storage.Object{
		Body:        up.Body,
		ContentType: up.ContentType,
		Folder:      folder,
		Name:        name,
		Filename:    up.Filename,
	})
	if err != nil {
		span.Fail(err)
		if errors.Is(err, storage.ErrUnavailable) {
			return "", unavailable("Object storage is not configured")
		}
		return "", fmt.Errorf("upload to %s: %w", folder, err)
	}
	return url, nil
}

func derivedName(id, suffix, filename string) string {
	return fmt.Sprintf("%s_%s%s", id, suffix, filepath.Ext(filename))
}
