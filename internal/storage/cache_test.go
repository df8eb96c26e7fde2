package storage_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mini-maxit/modelboard/internal/storage"
	"github.com/mini-maxit/modelboard/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBucket = "models"

func newInitializedCache(t *testing.T, dir string) storage.ArtifactCache {
	cache := storage.NewFileCache(dir)
	require.NoError(t, cache.InitCache())
	return cache
}

func TestFileCache_InitCache(t *testing.T) {
	cachedir := filepath.Join(t.TempDir(), "cache")
	newInitializedCache(t, cachedir)

	info, err := os.Stat(cachedir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileCache_PutAndGet(t *testing.T) {
	cache := newInitializedCache(t, t.TempDir())

	require.NoError(t, cache.Put(testBucket, "owner/model.py", []byte("def train_model(): pass")))

	data, found, err := cache.Get(testBucket, "owner/model.py")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "def train_model(): pass", string(data))
}

func TestFileCache_Get_NotFound(t *testing.T) {
	cache := newInitializedCache(t, t.TempDir())

	data, found, err := cache.Get(testBucket, "nonexistent/file.py")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestFileCache_CleanExpiredCache(t *testing.T) {
	cachedir := t.TempDir()
	cache := newInitializedCache(t, cachedir)

	require.NoError(t, cache.Put(testBucket, "owner/expired.py", []byte("expired")))

	// Rewrite persisted metadata so every entry looks older than the TTL.
	metadataPath := filepath.Join(cachedir, constants.CacheMetadataFile)
	raw, err := os.ReadFile(metadataPath)
	require.NoError(t, err)

	var metadata storage.CacheMetadata
	require.NoError(t, json.Unmarshal(raw, &metadata))
	for key, entry := range metadata.Entries {
		entry.CachedAt = time.Now().Add(-(constants.CacheTTLHours + 1) * time.Hour)
		metadata.Entries[key] = entry
	}
	modified, err := json.MarshalIndent(metadata, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(metadataPath, modified, 0644))

	cache2 := newInitializedCache(t, cachedir)

	_, found, err := cache2.Get(testBucket, "owner/expired.py")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileCache_SurvivesRestart(t *testing.T) {
	cachedir := t.TempDir()
	cache := newInitializedCache(t, cachedir)
	require.NoError(t, cache.Put(testBucket, "owner/persistent.py", []byte("persistent")))

	cache2 := newInitializedCache(t, cachedir)
	data, found, err := cache2.Get(testBucket, "owner/persistent.py")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "persistent", string(data))
}

func TestFileCache_DifferentBucketsSamePath(t *testing.T) {
	cache := newInitializedCache(t, t.TempDir())

	require.NoError(t, cache.Put("bucket1", "common/model.py", []byte("bucket1 content")))
	require.NoError(t, cache.Put("bucket2", "common/model.py", []byte("bucket2 content")))

	data1, found1, err := cache.Get("bucket1", "common/model.py")
	require.NoError(t, err)
	require.True(t, found1)
	data2, found2, err := cache.Get("bucket2", "common/model.py")
	require.NoError(t, err)
	require.True(t, found2)

	assert.Equal(t, "bucket1 content", string(data1))
	assert.Equal(t, "bucket2 content", string(data2))
}

func TestFileCache_OverwriteExistingEntry(t *testing.T) {
	cache := newInitializedCache(t, t.TempDir())

	require.NoError(t, cache.Put(testBucket, "owner/model.py", []byte("first")))
	require.NoError(t, cache.Put(testBucket, "owner/model.py", []byte("second")))

	data, found, err := cache.Get(testBucket, "owner/model.py")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", string(data))
}

func TestFileCache_RemoveAndDeletedFile(t *testing.T) {
	cachedir := t.TempDir()
	cache := newInitializedCache(t, cachedir)

	require.NoError(t, cache.Put(testBucket, "owner/a.py", []byte("a")))
	require.NoError(t, cache.Remove(testBucket, "owner/a.py"))
	_, found, err := cache.Get(testBucket, "owner/a.py")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Put(testBucket, "owner/b.py", []byte("b")))
	entries, err := filepath.Glob(filepath.Join(cachedir, "*.py"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.Remove(entries[0]))

	_, found, err = cache.Get(testBucket, "owner/b.py")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileCache_SpecialCharactersInPath(t *testing.T) {
	cache := newInitializedCache(t, t.TempDir())
	objectPath := "owner/файл с пробелами and special-chars_123.py"

	require.NoError(t, cache.Put(testBucket, objectPath, []byte("special characters test")))

	data, found, err := cache.Get(testBucket, objectPath)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "special characters test", string(data))
}
