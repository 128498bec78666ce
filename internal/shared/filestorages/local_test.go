package filestorages

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) FileStorage {
	t.Helper()
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}

func TestNewLocalStorage_EmptyRootDir(t *testing.T) {
	t.Parallel()

	_, err := NewLocalStorage("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRootDir)
}

func TestPut_ValidKey(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	validKeys := []string{
		"file.txt",
		"input/access.log",
		"nested/deep/path/file.txt",
		"file-with-dashes.txt",
		"file_with_underscores.txt",
		"reports/top_pages.txt",
	}

	for _, key := range validKeys {
		t.Run(key, func(t *testing.T) {
			data := "test data"
			reader := strings.NewReader(data)

			result, err := storage.Put(ctx, key, reader, PutOptions{AllowOverwrite: false})
			require.NoError(t, err, "key %q should be valid", key)
			assert.Equal(t, key, result.FileKey)

			fullPath := filepath.Join(storage.(*localStorage).dir, key)
			content, err := os.ReadFile(fullPath)
			require.NoError(t, err)
			assert.Equal(t, data, string(content))
		})
	}
}

func TestPut_InvalidKey(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	invalidKeys := []string{
		"",
		"..",
		".",
		"../outside.txt",
		"nested/../../outside.txt",
		"/absolute/path.txt",
	}

	for _, key := range invalidKeys {
		t.Run(key, func(t *testing.T) {
			_, err := storage.Put(ctx, key, strings.NewReader("x"), PutOptions{})
			assert.ErrorIs(t, err, ErrInvalidKey, "key %q should be rejected", key)
		})
	}
}

func TestPut_AllowOverwriteFalse_FileExists(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	key := "test.txt"
	_, err := storage.Put(ctx, key, strings.NewReader("initial data"), PutOptions{AllowOverwrite: false})
	require.NoError(t, err)

	_, err = storage.Put(ctx, key, strings.NewReader("second write"), PutOptions{AllowOverwrite: false})
	assert.ErrorIs(t, err, ErrFileAlreadyExists)

	// Original content must survive the failed write.
	rc, err := storage.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "initial data", string(content))
}

func TestPut_AllowOverwriteTrue_Replaces(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	key := "reports/total_requests.txt"
	_, err := storage.Put(ctx, key, strings.NewReader("first"), PutOptions{AllowOverwrite: true})
	require.NoError(t, err)
	_, err = storage.Put(ctx, key, strings.NewReader("second"), PutOptions{AllowOverwrite: true})
	require.NoError(t, err)

	rc, err := storage.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)

	_, err := storage.Get(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestList_PrefixFiltering(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	files := []string{
		"input/2024-06-01.log",
		"input/2024-06-02.log",
		"input/archive/2024-05-31.log.gz",
		"reports/total_requests.txt",
	}
	for _, key := range files {
		_, err := storage.Put(ctx, key, strings.NewReader("x"), PutOptions{AllowOverwrite: true})
		require.NoError(t, err)
	}

	keys, err := storage.List(ctx, "input/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"input/2024-06-01.log",
		"input/2024-06-02.log",
		"input/archive/2024-05-31.log.gz",
	}, keys, "keys must be ascending and restricted to the prefix")

	keys, err = storage.List(ctx, "reports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/total_requests.txt"}, keys)
}

func TestList_EmptyPrefix(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)

	keys, err := storage.List(context.Background(), "input/")
	require.NoError(t, err)
	assert.Empty(t, keys, "empty prefix should list no keys, not fail")
}
