// Package caching keeps downloaded book text keyed by URL so a repeated fetch
// can skip the network.
package caching

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TextCache stores raw bodies by URL.
type TextCache interface {
	// Get returns the data and true on a fresh hit.
	Get(ctx context.Context, url string) ([]byte, bool)
	Set(ctx context.Context, url string, data []byte) error
	// Forget drops the entry for url. A missing entry is not an error.
	Forget(ctx context.Context, url string) error
	Close() error
}

// Cache keeps downloaded texts as files under dir, one per URL.
// Entries older than ttl are treated as absent; ttl <= 0 keeps them forever.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates dir when missing.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// key names the cache file of url.
func key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) file(url string) string {
	return filepath.Join(c.dir, key(url))
}

// Get reports a miss for absent, expired or unreadable entries.
func (c *Cache) Get(_ context.Context, url string) ([]byte, bool) {
	name := c.file(url)
	info, err := os.Stat(name)
	if err != nil || c.expired(info.ModTime()) {
		return nil, false
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) expired(written time.Time) bool {
	return c.ttl > 0 && time.Since(written) > c.ttl
}

// Set writes a temp file and renames it into place.
func (c *Cache) Set(_ context.Context, url string, data []byte) error {
	name := c.file(url)
	tmp := name + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := os.Rename(tmp, name); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}
	return nil
}

func (c *Cache) Forget(_ context.Context, url string) error {
	if err := os.Remove(c.file(url)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return nil
}

// Nop never hits and discards writes.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte) error  { return nil }
func (Nop) Forget(context.Context, string) error       { return nil }
func (Nop) Close() error                               { return nil }
