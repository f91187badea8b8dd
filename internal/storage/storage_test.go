package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	n, err := s.Upload(ctx, "course-1.svg", "image/svg+xml", strings.NewReader("<svg/>"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	_, err = s.Upload(ctx, "course-1.svg", "image/svg+xml", strings.NewReader("<svg></svg>"))
	require.NoError(t, err)

	obj, err := s.Download(ctx, "course-1.svg")
	require.NoError(t, err)
	defer obj.Body.Close()

	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(body), "upload overwrites")
	assert.Equal(t, "image/svg+xml", obj.ContentType)
	assert.Equal(t, int64(11), obj.Size)

	require.NoError(t, s.Delete(ctx, "course-1.svg"))
	require.NoError(t, s.Delete(ctx, "course-1.svg"))

	_, err = s.Download(ctx, "course-1.svg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "a.svg", "image/svg+xml", strings.NewReader("x"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.svg", entries[0].Name())
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"", ".", "..", "../etc/passwd", "a/b.svg", `a\b.svg`, ".hidden.svg", ".upload-123"} {
		assert.ErrorIs(t, ValidateKey(key), ErrInvalidKey, key)
	}
	assert.NoError(t, ValidateKey("course-2001.svg"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(base, "inner"))
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "../escape.svg", "image/svg+xml", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, statErr := os.Stat(filepath.Join(base, "escape.svg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStorage_HidesStagingFiles(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(base, ".upload-42"), []byte("partial"), 0o644))

	_, err = s.Download(context.Background(), ".upload-42")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNewStorage(t *testing.T) {
	logger := zap.NewNop()

	s, err := NewStorage(&config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(&config.StorageConfig{Mode: "azure"}, logger)
	assert.Error(t, err)

	_, err = NewStorage(&config.StorageConfig{Mode: "ftp"}, logger)
	assert.Error(t, err)
}
