package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/pkg/constants"
	"go.uber.org/zap"
)

type CacheEntry struct {
	FilePath       string    `json:"file_path"`
	CachedAt       time.Time `json:"cached_at"`
	OriginalPath   string    `json:"original_path"`
	OriginalBucket string    `json:"original_bucket"`
}

type CacheMetadata struct {
	Entries map[string]CacheEntry `json:"entries"` // key is hash of bucket+path
}

// ArtifactCache keeps downloaded artifacts on local disk. Artifacts are immutable,
// so an entry is only dropped when it expires, is evicted or is explicitly removed.
type ArtifactCache interface {
	Get(bucket, objectPath string) ([]byte, bool, error)
	Put(bucket, objectPath string, data []byte) error
	Remove(bucket, objectPath string) error
	CleanExpiredCache() error
	InitCache() error
}

type fileCache struct {
	mu           sync.Mutex
	logger       *zap.SugaredLogger
	cacheDirPath string
	ttl          time.Duration
	maxEntries   int
	metadata     *CacheMetadata
}

func NewFileCache(cacheDirPath string) ArtifactCache {
	return &fileCache{
		logger:       logger.NewNamedLogger("cache"),
		cacheDirPath: cacheDirPath,
		ttl:          time.Duration(constants.CacheTTLHours) * time.Hour,
		maxEntries:   constants.CacheMaxEntries,
		metadata:     &CacheMetadata{Entries: make(map[string]CacheEntry)},
	}
}

// InitCache creates the cache directory, loads persisted metadata and drops expired entries.
func (c *fileCache) InitCache() error {
	if err := os.MkdirAll(c.cacheDirPath, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	c.mu.Lock()
	if err := c.loadMetadata(); err != nil {
		c.logger.Warnf("Failed to load cache metadata, starting empty: %v", err)
		c.metadata = &CacheMetadata{Entries: make(map[string]CacheEntry)}
	}
	c.mu.Unlock()

	if err := c.CleanExpiredCache(); err != nil {
		c.logger.Warnf("Failed to clean expired cache: %v", err)
	}

	return nil
}

func (c *fileCache) Get(bucket, objectPath string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.generateKey(bucket, objectPath)
	entry, exists := c.metadata.Entries[key]
	if !exists {
		return nil, false, nil
	}

	if time.Since(entry.CachedAt) > c.ttl {
		c.logger.Debugf("Cache expired for %s", objectPath)
		c.dropEntry(key, entry)
		return nil, false, nil
	}

	data, err := os.ReadFile(entry.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.logger.Debugf("Cached file no longer exists: %s", entry.FilePath)
			delete(c.metadata.Entries, key)
			return nil, false, c.saveMetadata()
		}
		return nil, false, err
	}

	c.logger.Debugf("Cache hit for %s", objectPath)
	return data, true, nil
}

func (c *fileCache) Put(bucket, objectPath string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.cacheDirPath, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	key := c.generateKey(bucket, objectPath)
	if _, exists := c.metadata.Entries[key]; !exists && len(c.metadata.Entries) >= c.maxEntries {
		c.evictOldestEntry()
	}

	cacheFilePath := filepath.Join(c.cacheDirPath, key+filepath.Ext(objectPath))
	if err := os.WriteFile(cacheFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file to cache: %w", err)
	}

	c.metadata.Entries[key] = CacheEntry{
		FilePath:       cacheFilePath,
		CachedAt:       time.Now(),
		OriginalPath:   objectPath,
		OriginalBucket: bucket,
	}

	c.logger.Debugf("Cached file %s", objectPath)
	return c.saveMetadata()
}

func (c *fileCache) Remove(bucket, objectPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.generateKey(bucket, objectPath)
	entry, exists := c.metadata.Entries[key]
	if !exists {
		return nil
	}
	c.dropEntry(key, entry)
	return c.saveMetadata()
}

// CleanExpiredCache removes expired cache entries and their files.
func (c *fileCache) CleanExpiredCache() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	cleaned := 0
	for key, entry := range c.metadata.Entries {
		if now.Sub(entry.CachedAt) > c.ttl {
			c.dropEntry(key, entry)
			cleaned++
		}
	}

	if cleaned > 0 {
		c.logger.Infof("Cleaned %d expired cache entries", cleaned)
		return c.saveMetadata()
	}
	return nil
}

func (c *fileCache) dropEntry(key string, entry CacheEntry) {
	if err := os.Remove(entry.FilePath); err != nil && !os.IsNotExist(err) {
		c.logger.Warnf("Failed to remove cache file %s: %v", entry.FilePath, err)
	}
	delete(c.metadata.Entries, key)
}

func (c *fileCache) evictOldestEntry() {
	var oldestKey string
	var oldestTime time.Time
	first := true

	for key, entry := range c.metadata.Entries {
		if first || entry.CachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.CachedAt
			first = false
		}
	}

	if entry, exists := c.metadata.Entries[oldestKey]; exists {
		c.dropEntry(oldestKey, entry)
		c.logger.Debugf("Evicted oldest cache entry: %s", entry.OriginalPath)
	}
}

func (c *fileCache) metadataPath() string {
	return filepath.Join(c.cacheDirPath, constants.CacheMetadataFile)
}

func (c *fileCache) loadMetadata() error {
	data, err := os.ReadFile(c.metadataPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	metadata := &CacheMetadata{}
	if err := json.Unmarshal(data, metadata); err != nil {
		return err
	}
	if metadata.Entries == nil {
		metadata.Entries = make(map[string]CacheEntry)
	}
	c.metadata = metadata
	return nil
}

func (c *fileCache) saveMetadata() error {
	data, err := json.MarshalIndent(c.metadata, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.metadataPath(), data, 0644)
}

func (c *fileCache) generateKey(bucket, objectPath string) string {
	hash := sha256.Sum256([]byte(bucket + ":" + objectPath))
	return hex.EncodeToString(hash[:])
}

type cachedStorage struct {
	BlobStorage
	cache  ArtifactCache
	logger *zap.SugaredLogger
}

// NewCachedStorage serves downloads from cache before falling back to inner.
// Cache failures are logged and never fail the download.
func NewCachedStorage(inner BlobStorage, cache ArtifactCache) BlobStorage {
	return &cachedStorage{
		BlobStorage: inner,
		cache:       cache,
		logger:      logger.NewNamedLogger("cachedStorage"),
	}
}

func (s *cachedStorage) Download(ctx context.Context, objectPath string) ([]byte, error) {
	data, found, err := s.cache.Get(s.Bucket(), objectPath)
	if err != nil {
		s.logger.Warnf("Artifact cache lookup failed for %s: %v", objectPath, err)
	}
	if found {
		return data, nil
	}

	data, err = s.BlobStorage.Download(ctx, objectPath)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(s.Bucket(), objectPath, data); err != nil {
		s.logger.Warnf("Failed to cache artifact %s: %v", objectPath, err)
	}
	return data, nil
}

func (s *cachedStorage) Delete(ctx context.Context, objectPath string) error {
	if err := s.cache.Remove(s.Bucket(), objectPath); err != nil {
		s.logger.Warnf("Failed to evict cached artifact %s: %v", objectPath, err)
	}
	return s.BlobStorage.Delete(ctx, objectPath)
}
