package dictionary

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CacheConfig controls the durable API cache.
type CacheConfig struct {
	Enabled   bool
	FilePath  string
	MaxSizeMB int
}

// APICache is the process-wide lookup cache: a flat key to JSON value mapping
// mirrored in memory and persisted as a pretty-printed JSON file. Entries
// have no expiry; they live until Clear. All methods are safe for concurrent
// use by lookup workers.
type APICache struct {
	config CacheConfig
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]json.RawMessage

	timerMu   sync.Mutex
	stopTimer chan struct{}
}

// NewAPICache creates an empty cache. Call Load to read the persisted file.
func NewAPICache(config CacheConfig, logger *slog.Logger) *APICache {
	return &APICache{
		config:  config,
		logger:  logger,
		entries: make(map[string]json.RawMessage),
	}
}

// Get returns the cached value for key. When caching is disabled every
// lookup misses.
func (c *APICache) Get(key string) (json.RawMessage, bool) {
	if !c.config.Enabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

// Put stores a successful lookup result. Null or empty results are never
// stored, so a failed lookup is retried on the next encounter.
func (c *APICache) Put(key string, value json.RawMessage) {
	if !c.config.Enabled {
		return
	}
	if len(value) == 0 || string(value) == "null" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Len returns the number of cached entries.
func (c *APICache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Load reads the persisted cache into memory. Any failure degrades to an
// empty cache with a warning; startup never fails because of the cache.
func (c *APICache) Load() {
	if !c.config.Enabled {
		c.logger.Info("API cache disabled in settings, not loading cache")
		return
	}

	contents, err := os.ReadFile(c.config.FilePath)
	if os.IsNotExist(err) {
		c.logger.Info("API cache file not found, starting with empty cache")
		return
	}
	if err != nil {
		c.logger.Warn("failed to read API cache file, starting with empty cache",
			"path", c.config.FilePath,
			"error", err)
		return
	}

	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(contents, &entries); err != nil {
		c.logger.Warn("failed to parse API cache file, starting with empty cache",
			"path", c.config.FilePath,
			"error", err)
		return
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	c.logger.Info("API cache loaded", "entries", len(entries))
}

// Flush atomically persists the in-memory mapping by writing a temporary
// file and renaming it over the cache file. After a successful flush the
// file size is checked against the configured maximum and a warning is
// logged when exceeded; the size limit is advisory, never an error.
func (c *APICache) Flush() error {
	if !c.config.Enabled {
		c.logger.Debug("API cache disabled in settings, not saving cache")
		return nil
	}

	c.mu.RLock()
	contents, err := json.MarshalIndent(c.entries, "", "    ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("json.MarshalIndent > %w", err)
	}

	dir := filepath.Dir(c.config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "api_cache-*.json")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tmpPath := tmpFile.Name()
	if _, err := tmpFile.Write(contents); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("tmpFile.Write > %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("tmpFile.Close > %w", err)
	}
	// CreateTemp uses 0600; the cache file should be readable like the logs.
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("os.Chmod > %w", err)
	}
	if err := os.Rename(tmpPath, c.config.FilePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("os.Rename > %w", err)
	}

	c.warnIfOversized()
	return nil
}

func (c *APICache) warnIfOversized() {
	if c.config.MaxSizeMB <= 0 {
		return
	}
	info, err := os.Stat(c.config.FilePath)
	if err != nil {
		return
	}
	sizeMB := float64(info.Size()) / (1024 * 1024)
	if sizeMB > float64(c.config.MaxSizeMB) {
		c.logger.Warn("API cache file exceeds configured maximum size, consider clearing the cache or raising the limit",
			"size_mb", fmt.Sprintf("%.2f", sizeMB),
			"max_size_mb", c.config.MaxSizeMB)
	}
}

// Clear empties the in-memory mapping and removes the persisted file.
func (c *APICache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]json.RawMessage)
	c.mu.Unlock()

	if err := os.Remove(c.config.FilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove > %w", err)
	}
	c.logger.Info("API cache cleared")
	return nil
}

// Stats describes the cache for maintenance commands.
type Stats struct {
	Entries    int
	FileSizeMB float64
	Enabled    bool
}

// GetStats returns entry count, persisted file size and the enabled flag.
func (c *APICache) GetStats() Stats {
	stats := Stats{
		Entries: c.Len(),
		Enabled: c.config.Enabled,
	}
	if info, err := os.Stat(c.config.FilePath); err == nil {
		stats.FileSizeMB = float64(info.Size()) / (1024 * 1024)
	}
	return stats
}

// StartPeriodicFlush (re)arms a recurring background flush. A non-positive
// interval, or caching being disabled, cancels any existing timer instead.
// Changing the interval re-arms the timer; timers never stack.
func (c *APICache) StartPeriodicFlush(interval time.Duration) {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()

	if c.stopTimer != nil {
		close(c.stopTimer)
		c.stopTimer = nil
	}
	if !c.config.Enabled || interval <= 0 {
		c.logger.Info("cache flush timer stopped (cache disabled or interval is zero)")
		return
	}

	stop := make(chan struct{})
	c.stopTimer = stop
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.Flush(); err != nil {
					c.logger.Warn("periodic cache flush failed", "error", err)
				}
			case <-stop:
				return
			}
		}
	}()
	c.logger.Info("cache flush timer armed", "interval", interval)
}

// StopPeriodicFlush cancels the background flush timer if one is running.
func (c *APICache) StopPeriodicFlush() {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()
	if c.stopTimer != nil {
		close(c.stopTimer)
		c.stopTimer = nil
		c.logger.Info("cache flush timer stopped")
	}
}
