package insight

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/logger"
	"github.com/julianstephens/blossom/internal/models"
	"github.com/julianstephens/blossom/internal/storage"
)

// Cache keeps at most one insight per calendar day in a KV store
type Cache struct {
	kv  storage.KV
	key string
}

// NewCache returns a cache stored under the daily insight key
func NewCache(kv storage.KV) *Cache {
	return &Cache{kv: kv, key: constants.InsightCacheKey}
}

// Key returns the KV key the cache entry lives under
func (c *Cache) Key() string {
	return c.key
}

// Entry returns the raw cache entry regardless of its age
func (c *Cache) Entry() (models.CachedInsight, bool, error) {
	raw, ok, err := c.kv.Get(c.key)
	if err != nil {
		return models.CachedInsight{}, false, fmt.Errorf("reading insight cache: %w", err)
	}
	if !ok {
		return models.CachedInsight{}, false, nil
	}

	var entry models.CachedInsight
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.CachedInsight{}, false, fmt.Errorf("decoding insight cache: %w", err)
	}
	return entry, true, nil
}

// Lookup returns the cached record when it was fetched on now's calendar day.
// Read and decode failures are logged and reported as a miss.
func (c *Cache) Lookup(now time.Time) (models.InsightRecord, bool) {
	entry, ok, err := c.Entry()
	if err != nil {
		logger.Warn("Ignoring unreadable insight cache", "key", c.key, "error", err)
		return models.InsightRecord{}, false
	}
	if !ok || !entry.Data.IsComplete() {
		return models.InsightRecord{}, false
	}
	if !SameDay(entry.FetchedAt(now.Location()), now) {
		logger.Debug("Insight cache is stale", "fetched_at", entry.FetchedAt(now.Location()).Format(constants.DateFormat))
		return models.InsightRecord{}, false
	}
	return entry.Data, true
}

// Store overwrites the cache entry with record stamped at now
func (c *Cache) Store(record models.InsightRecord, now time.Time) error {
	raw, err := json.Marshal(models.CachedInsight{Data: record, Timestamp: now.UnixMilli()})
	if err != nil {
		return fmt.Errorf("encoding insight cache: %w", err)
	}
	if err := c.kv.Set(c.key, raw); err != nil {
		return fmt.Errorf("writing insight cache: %w", err)
	}
	return nil
}

// Clear removes the cache entry
func (c *Cache) Clear() error {
	return c.kv.Delete(c.key)
}

// SameDay reports whether a and b fall on the same YYYY-MM-DD in b's location
func SameDay(a, b time.Time) bool {
	return a.In(b.Location()).Format(constants.DateFormat) == b.Format(constants.DateFormat)
}
