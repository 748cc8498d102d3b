package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundtrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	documentID := uuid.New()
	content := "This agreement is made between the parties."

	path, err := store.Upload(ctx, documentID, "contract.txt", "text/plain", strings.NewReader(content))
	require.NoError(t, err)
	assert.Contains(t, path, documentID.String())

	reader, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestLocalStorageDownloadMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "ab/missing.txt")
	assert.ErrorContains(t, err, "not found")
}

func TestLocalStorageDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	path, err := store.Upload(ctx, uuid.New(), "contract.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))

	_, err = store.Download(ctx, path)
	assert.Error(t, err)

	// Deleting an already-deleted document is not an error
	assert.NoError(t, store.Delete(ctx, path))
}

func TestStoragePathSanitizesFilename(t *testing.T) {
	documentID := uuid.New()
	path := storagePath(documentID, "my contract/v2 final.pdf")

	assert.True(t, strings.HasPrefix(path, documentID.String()[:2]+"/"))
	assert.NotContains(t, path[3:], "/")
	assert.NotContains(t, path, " ")
	assert.True(t, strings.HasSuffix(path, ".pdf"))
}
