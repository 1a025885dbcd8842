// ABOUTME: Read-through cache of prayer timings backed by the repository
// ABOUTME: Cache failures are logged and never fail a lookup

package prayer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/storage"
)

// CacheKey identifies one day of timings for a location and method.
func CacheKey(date time.Time, loc models.Location, method int) string {
	return fmt.Sprintf("%s|%.4f|%.4f|%d", date.Format("2006-01-02"), loc.Latitude, loc.Longitude, method)
}

// CachedClient serves timings from the cache and falls back to the service.
type CachedClient struct {
	client *Client
	cache  storage.PrayerCache
	logger *log.Logger
}

// NewCachedClient wraps client with cache. A nil logger uses the default logger.
func NewCachedClient(client *Client, cache storage.PrayerCache, logger *log.Logger) *CachedClient {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedClient{client: client, cache: cache, logger: logger}
}

// Timings implements Provider.
func (c *CachedClient) Timings(ctx context.Context, loc models.Location, date time.Time) (*models.DayTimings, error) {
	key := CacheKey(date, loc, c.client.Method())

	day, fetchedAt, err := c.cache.GetCachedDay(key)
	switch {
	case err == nil:
		c.logger.Debug("prayer times cache hit", "key", key, "fetched_at", fetchedAt)
		return day, nil
	case !errors.Is(err, storage.ErrNotFound):
		c.logger.Warn("prayer times cache read failed", "key", key, "err", err)
	}

	day, err = c.client.Timings(ctx, loc, date)
	if err != nil {
		return nil, err
	}
	c.put(key, day)
	return day, nil
}

// Calendar implements Provider. The month is always fetched and each day is
// written back to the cache.
func (c *CachedClient) Calendar(ctx context.Context, loc models.Location, year int, month time.Month) ([]models.DayTimings, error) {
	days, err := c.client.Calendar(ctx, loc, year, month)
	if err != nil {
		return nil, err
	}
	for i := range days {
		date, err := ParseGregorian(days[i].Date.Gregorian)
		if err != nil {
			c.logger.Debug("skipping cache write for undated day", "date", days[i].Date.Gregorian)
			continue
		}
		c.put(CacheKey(date, loc, c.client.Method()), &days[i])
	}
	return days, nil
}

func (c *CachedClient) put(key string, day *models.DayTimings) {
	if err := c.cache.PutCachedDay(key, day); err != nil && !errors.Is(err, storage.ErrReadOnly) {
		c.logger.Warn("prayer times cache write failed", "key", key, "err", err)
	}
}
