package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Folders uploads may target.
var uploadFolders = map[string]bool{
	"gallery": true,
	"events":  true,
}

// extensionByMIME maps the allow-listed image types to file
// extensions; it doubles as the MIME allow-list.
var extensionByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

var (
	// ErrUnsupportedMediaType is returned for MIME types outside the
	// image allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrUnknownFolder is returned for folders outside the allow-list.
	ErrUnknownFolder = errors.New("unknown upload folder")
)

// ObjectStore is the slice of the storage layer uploads need.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// UploadService stores admin-uploaded images and hands back their
// public URL.
type UploadService struct {
	store ObjectStore
}

func NewUploadService(store ObjectStore) *UploadService {
	return &UploadService{store: store}
}

// UploadResult identifies a stored object.
type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Store writes one buffered image to object storage under
// folder/timestamp-random.ext and returns its key and public URL.
func (s *UploadService) Store(ctx context.Context, folder, contentType string, data []byte) (UploadResult, error) {
	if !uploadFolders[folder] {
		return UploadResult{}, ErrUnknownFolder
	}
	ext, ok := extensionByMIME[contentType]
	if !ok {
		return UploadResult{}, ErrUnsupportedMediaType
	}

	key := fmt.Sprintf("%s/%s-%s.%s",
		folder,
		time.Now().UTC().Format("20060102T150405"),
		uuid.NewString()[:8],
		ext,
	)

	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return UploadResult{}, err
	}

	return UploadResult{Path: key, URL: s.store.PublicURL(key)}, nil
}
