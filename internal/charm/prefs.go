// ABOUTME: Preference storage (location, settings, tasbeeh) on Charm KV
// ABOUTME: Each preference is one JSON document under the pref: prefix

package charm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/charm/kv"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/storage"
)

// Compile-time check that Client implements storage.Repository.
var _ storage.Repository = (*Client)(nil)

const (
	locationKey = PrefPrefix + "location"
	settingsKey = PrefPrefix + "settings"
	tasbeehKey  = PrefPrefix + "tasbeeh"
)

func (c *Client) getJSON(key string, v any) error {
	data, err := c.Get([]byte(key))
	if err != nil {
		if errors.Is(err, kv.ErrMissingKey) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

func (c *Client) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return c.Set([]byte(key), data)
}

// GetLocation returns the saved observer location.
func (c *Client) GetLocation() (*models.Location, error) {
	var loc models.Location
	if err := c.getJSON(locationKey, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// SetLocation saves the observer location.
func (c *Client) SetLocation(loc *models.Location) error {
	if err := models.ValidateCoordinates(loc.Latitude, loc.Longitude); err != nil {
		return err
	}
	return c.putJSON(locationKey, loc)
}

// ClearLocation forgets the observer location.
func (c *Client) ClearLocation() error {
	return c.Delete([]byte(locationKey))
}

// GetSettings returns saved settings, or defaults.
func (c *Client) GetSettings() (*models.Settings, error) {
	s := models.DefaultSettings()
	if err := c.getJSON(settingsKey, s); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return s, nil
}

// SaveSettings stores settings.
func (c *Client) SaveSettings(s *models.Settings) error {
	return c.putJSON(settingsKey, s)
}

// GetTasbeeh returns the saved counter, or a fresh one.
func (c *Client) GetTasbeeh() (*models.Tasbeeh, error) {
	t := models.NewTasbeeh()
	if err := c.getJSON(tasbeehKey, t); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return t, nil
}

// SaveTasbeeh stores the counter.
func (c *Client) SaveTasbeeh(t *models.Tasbeeh) error {
	return c.putJSON(tasbeehKey, t)
}
