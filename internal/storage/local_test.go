package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/uploads/")
	require.NoError(t, err)

	require.NoError(t, s.Save("files/a.png", strings.NewReader("png")))

	data, err := os.ReadFile(filepath.Join(root, "files", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "/uploads/files/a.png", s.URL("files/a.png"))

	require.NoError(t, s.Delete("files/a.png"))
	_, err = os.Stat(filepath.Join(root, "files", "a.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete("files/a.png"), "deleting a missing file is not an error")
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(root, "store"), "/uploads")
	require.NoError(t, err)

	require.NoError(t, s.Save("../../escape.txt", strings.NewReader("x")))

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "store", "escape.txt"))
	assert.NoError(t, err)
}

func TestPublicBucketURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"aws", S3Config{Region: "eu-central-1", Bucket: "media"}, "https://media.s3.eu-central-1.amazonaws.com"},
		{"endpoint", S3Config{Bucket: "media", Endpoint: "http://localhost:9000/"}, "http://localhost:9000/media"},
		{"cdn", S3Config{Bucket: "media", Endpoint: "http://localhost:9000", PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBucketURL(tt.cfg))
		})
	}

	s := &S3Storage{publicURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/files/a.png", s.URL("files/a.png"))
}
