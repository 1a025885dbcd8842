// ABOUTME: Tests for the prayer timing client and its cache
// ABOUTME: Serves canned responses from httptest servers

package prayer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dayJSON = `{
  "timings": {"Fajr": "04:12", "Sunrise": "05:40", "Dhuhr": "11:51", "Asr": "15:12", "Maghrib": "18:02", "Isha": "19:32 (+03)"},
  "date": {
    "gregorian": {"date": "%s", "weekday": {"en": "Sunday"}},
    "hijri": {
      "day": "23", "month": {"number": 11, "en": "Dhū al-Qaʿdah", "ar": "ذوالقعدة"},
      "year": "1447", "designation": {"abbreviated": "AH"}
    }
  }
}`

func okBody(data string) string {
	return `{"code":200,"status":"OK","data":` + data + `}`
}

var riyadh = models.Location{Latitude: 24.7136, Longitude: 46.6753, City: "Riyadh"}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{WithBackoff(time.Millisecond)}, opts...)
	return NewClient(srv.URL+"/", opts...)
}

func TestClient_Timings(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = fmt.Fprint(w, okBody(fmt.Sprintf(dayJSON, "10-05-2026")))
	}))
	defer srv.Close()

	date := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	day, err := newTestClient(srv).Timings(context.Background(), riyadh, date)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("/timings/%d", date.Unix()), gotPath)
	assert.Contains(t, gotQuery, "latitude=24.7136")
	assert.Contains(t, gotQuery, "longitude=46.6753")
	assert.Contains(t, gotQuery, "method=4")

	assert.Equal(t, "04:12", day.Times.Fajr)
	assert.Equal(t, "19:32 (+03)", day.Times.Isha)
	assert.Equal(t, "10-05-2026", day.Date.Gregorian)
	assert.Equal(t, "Sunday", day.Date.Weekday)
	assert.Equal(t, "23", day.Date.Hijri.Day)
	assert.Equal(t, 11, day.Date.Hijri.Month.Number)
	assert.Equal(t, "ذوالقعدة", day.Date.Hijri.Month.Ar)
	assert.Equal(t, "1447", day.Date.Hijri.Year)
	assert.Equal(t, "AH", day.Date.Hijri.Designation)
}

func TestClient_Calendar(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendar", r.URL.Path)
		gotQuery = r.URL.RawQuery
		days := []string{fmt.Sprintf(dayJSON, "01-05-2026"), fmt.Sprintf(dayJSON, "02-05-2026")}
		_, _ = fmt.Fprint(w, okBody("["+strings.Join(days, ",")+"]"))
	}))
	defer srv.Close()

	days, err := newTestClient(srv, WithMethod(2)).Calendar(context.Background(), riyadh, 2026, time.May)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "02-05-2026", days[1].Date.Gregorian)
	assert.Contains(t, gotQuery, "month=5")
	assert.Contains(t, gotQuery, "year=2026")
	assert.Contains(t, gotQuery, "method=2")
}

func TestClient_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad_request", http.StatusBadRequest, `{"code":400,"status":"Bad Request","data":"bad latitude"}`},
		{"envelope_code", http.StatusOK, `{"code":400,"status":"Bad Request","data":"Please specify a valid latitude"}`},
		{"not_json", http.StatusOK, `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv).Timings(context.Background(), riyadh, time.Now())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUpstream)
		})
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, okBody(fmt.Sprintf(dayJSON, "10-05-2026")))
	}))
	defer srv.Close()

	day, err := newTestClient(srv).Timings(context.Background(), riyadh, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "04:12", day.Times.Fajr)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Timings(context.Background(), riyadh, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Timings(context.Background(), riyadh, time.Now())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(srv).Timings(ctx, riyadh, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultMethod, c.Method())

	c = NewClient("http://example.test/v1/", WithMethod(0))
	assert.Equal(t, "http://example.test/v1", c.baseURL)
	assert.Equal(t, DefaultMethod, c.Method())
}

func TestCacheKey(t *testing.T) {
	date := time.Date(2026, 5, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-10|24.7136|46.6753|4", CacheKey(date, riyadh, 4))
}

// memCache is an in-memory PrayerCache.
type memCache struct {
	mu       sync.Mutex
	days     map[string]models.DayTimings
	failRead bool
}

func newMemCache() *memCache {
	return &memCache{days: make(map[string]models.DayTimings)}
}

func (m *memCache) GetCachedDay(key string) (*models.DayTimings, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return nil, time.Time{}, errors.New("disk on fire")
	}
	d, ok := m.days[key]
	if !ok {
		return nil, time.Time{}, storage.ErrNotFound
	}
	return &d, time.Now(), nil
}

func (m *memCache) PutCachedDay(key string, day *models.DayTimings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[key] = *day
	return nil
}

func TestCachedClient_Timings(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = fmt.Fprint(w, okBody(fmt.Sprintf(dayJSON, "10-05-2026")))
	}))
	defer srv.Close()

	cache := newMemCache()
	cc := NewCachedClient(newTestClient(srv), cache, nil)
	date := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

	first, err := cc.Timings(context.Background(), riyadh, date)
	require.NoError(t, err)
	second, err := cc.Timings(context.Background(), riyadh, date.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, cache.days, CacheKey(date, riyadh, DefaultMethod))
}

func TestCachedClient_ReadFailureFallsBack(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = fmt.Fprint(w, okBody(fmt.Sprintf(dayJSON, "10-05-2026")))
	}))
	defer srv.Close()

	cache := newMemCache()
	cache.failRead = true
	cc := NewCachedClient(newTestClient(srv), cache, nil)

	day, err := cc.Timings(context.Background(), riyadh, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "04:12", day.Times.Fajr)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCachedClient_CalendarPopulatesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendar" {
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		days := []string{fmt.Sprintf(dayJSON, "01-05-2026"), fmt.Sprintf(dayJSON, "02-05-2026")}
		_, _ = fmt.Fprint(w, okBody("["+strings.Join(days, ",")+"]"))
	}))
	defer srv.Close()

	cache := newMemCache()
	cc := NewCachedClient(newTestClient(srv), cache, nil)

	days, err := cc.Calendar(context.Background(), riyadh, 2026, time.May)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Len(t, cache.days, 2)

	// A day covered by the calendar is now served without a timings request.
	day, err := cc.Timings(context.Background(), riyadh, time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "02-05-2026", day.Date.Gregorian)
}

func TestCachedClient_PropagatesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cache := newMemCache()
	_, err := NewCachedClient(newTestClient(srv), cache, nil).Timings(context.Background(), riyadh, time.Now())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, cache.days)
}
