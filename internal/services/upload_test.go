package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	keys        []string
	contentType string
	size        int64
}

func (f *fakeObjectStore) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	f.keys = append(f.keys, key)
	f.contentType = contentType
	f.size = size
	_, err := io.Copy(io.Discard, r)
	return err
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "https://media.example.com/" + key
}

func TestUploadStore(t *testing.T) {
	store := &fakeObjectStore{}
	svc := NewUploadService(store)

	data := []byte("fake png bytes")
	result, err := svc.Store(context.Background(), "gallery", "image/png", data)
	require.NoError(t, err)

	require.Len(t, store.keys, 1)
	key := store.keys[0]
	assert.True(t, strings.HasPrefix(key, "gallery/"), "key %q should live under the folder", key)
	assert.True(t, strings.HasSuffix(key, ".png"), "key %q should carry the png extension", key)
	assert.Equal(t, "image/png", store.contentType)
	assert.Equal(t, int64(len(data)), store.size)

	assert.Equal(t, key, result.Path)
	assert.Equal(t, "https://media.example.com/"+key, result.URL)
}

func TestUploadStoreUniqueKeys(t *testing.T) {
	store := &fakeObjectStore{}
	svc := NewUploadService(store)

	for i := 0; i < 5; i++ {
		_, err := svc.Store(context.Background(), "events", "image/jpeg", []byte("x"))
		require.NoError(t, err)
	}

	seen := make(map[string]bool)
	for _, key := range store.keys {
		assert.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}

func TestUploadStoreRejectsUnknownFolder(t *testing.T) {
	svc := NewUploadService(&fakeObjectStore{})

	_, err := svc.Store(context.Background(), "secrets", "image/png", []byte("x"))
	assert.ErrorIs(t, err, ErrUnknownFolder)
}

func TestUploadStoreRejectsNonImage(t *testing.T) {
	svc := NewUploadService(&fakeObjectStore{})

	_, err := svc.Store(context.Background(), "gallery", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	_, err = svc.Store(context.Background(), "gallery", "text/html", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}
