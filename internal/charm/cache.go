// ABOUTME: Prayer timing cache on Charm KV
// ABOUTME: Entries carry their fetch time so staleness can be judged by callers

package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/storage"
)

type cacheEntry struct {
	Day       *models.DayTimings `json:"day"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// GetCachedDay returns a cached day and when it was fetched.
func (c *Client) GetCachedDay(key string) (*models.DayTimings, time.Time, error) {
	data, err := c.Get([]byte(CachePrefix + key))
	if err != nil {
		if errors.Is(err, kv.ErrMissingKey) {
			return nil, time.Time{}, storage.ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("get cached day: %w", err)
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, time.Time{}, fmt.Errorf("unmarshal cached day: %w", err)
	}
	if entry.Day == nil {
		return nil, time.Time{}, storage.ErrNotFound
	}
	return entry.Day, entry.FetchedAt, nil
}

// PutCachedDay stores a day's timings, replacing any earlier entry.
// Cache writes are local only; they are not worth a sync round trip.
func (c *Client) PutCachedDay(key string, day *models.DayTimings) error {
	if c.readOnly {
		return storage.ErrReadOnly
	}
	data, err := json.Marshal(cacheEntry{Day: day, FetchedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal cached day: %w", err)
	}
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Set([]byte(CachePrefix+key), data)
	})
}
