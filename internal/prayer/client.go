// ABOUTME: Client for the aladhan prayer timing service
// ABOUTME: Fetches daily timings and monthly calendars for a location

package prayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/harper/salah/internal/models"
)

// ErrUpstream is returned when the timing service answers with an error.
var ErrUpstream = errors.New("prayer time service error")

// DefaultBaseURL is the public aladhan API.
const DefaultBaseURL = "https://api.aladhan.com/v1"

// DefaultMethod is the Umm al-Qura calculation method.
const DefaultMethod = 4

// Provider supplies prayer timings.
type Provider interface {
	Timings(ctx context.Context, loc models.Location, date time.Time) (*models.DayTimings, error)
	Calendar(ctx context.Context, loc models.Location, year int, month time.Month) ([]models.DayTimings, error)
}

// Client talks to the timing service over HTTP. It is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	method  int
	backoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.session = hc
	}
}

// WithMethod selects the calculation method.
func WithMethod(method int) Option {
	return func(c *Client) {
		if method > 0 {
			c.method = method
		}
	}
}

// WithBackoff sets the initial retry delay.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// NewClient builds a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		method:  DefaultMethod,
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Method returns the calculation method used for requests.
func (c *Client) Method() int {
	return c.method
}

// Timings fetches the timings for the day containing date.
func (c *Client) Timings(ctx context.Context, loc models.Location, date time.Time) (*models.DayTimings, error) {
	endpoint := fmt.Sprintf("%s/timings/%d?%s", c.baseURL, date.Unix(), c.query(loc, nil).Encode())

	var day apiDay
	if err := c.getJSON(ctx, endpoint, &day); err != nil {
		return nil, err
	}
	out := day.toModel()
	return &out, nil
}

// Calendar fetches every day of a Gregorian month.
func (c *Client) Calendar(ctx context.Context, loc models.Location, year int, month time.Month) ([]models.DayTimings, error) {
	q := c.query(loc, url.Values{
		"month": {strconv.Itoa(int(month))},
		"year":  {strconv.Itoa(year)},
	})
	endpoint := fmt.Sprintf("%s/calendar?%s", c.baseURL, q.Encode())

	var days []apiDay
	if err := c.getJSON(ctx, endpoint, &days); err != nil {
		return nil, err
	}
	out := make([]models.DayTimings, len(days))
	for i, d := range days {
		out[i] = d.toModel()
	}
	return out, nil
}

func (c *Client) query(loc models.Location, extra url.Values) url.Values {
	q := url.Values{
		"latitude":  {strconv.FormatFloat(loc.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(loc.Longitude, 'f', -1, 64)},
		"method":    {strconv.Itoa(c.method)},
	}
	for k, v := range extra {
		q[k] = v
	}
	return q
}

// envelope is the service's response wrapper.
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if env.Code != http.StatusOK {
		return fmt.Errorf("%w: code %d: %s", ErrUpstream, env.Code, env.Status)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrUpstream, err)
	}
	return nil
}

// apiDay mirrors one day in the service's JSON.
type apiDay struct {
	Timings models.PrayerTimes `json:"timings"`
	Date    struct {
		Gregorian struct {
			Date    string `json:"date"`
			Weekday struct {
				En string `json:"en"`
			} `json:"weekday"`
		} `json:"gregorian"`
		Hijri struct {
			Day   string `json:"day"`
			Month struct {
				Number int    `json:"number"`
				En     string `json:"en"`
				Ar     string `json:"ar"`
			} `json:"month"`
			Year        string `json:"year"`
			Designation struct {
				Abbreviated string `json:"abbreviated"`
			} `json:"designation"`
		} `json:"hijri"`
	} `json:"date"`
}

func (d apiDay) toModel() models.DayTimings {
	h := d.Date.Hijri
	return models.DayTimings{
		Times: d.Timings,
		Date: models.DateInfo{
			Gregorian: d.Date.Gregorian.Date,
			Weekday:   d.Date.Gregorian.Weekday.En,
			Hijri: models.HijriDate{
				Day:         h.Day,
				Month:       models.HijriMonth{Number: h.Month.Number, Ar: h.Month.Ar, En: h.Month.En},
				Year:        h.Year,
				Designation: h.Designation.Abbreviated,
			},
		},
	}
}

// ParseGregorian parses the service's DD-MM-YYYY date format.
func ParseGregorian(s string) (time.Time, error) {
	return time.Parse("02-01-2006", s)
}
