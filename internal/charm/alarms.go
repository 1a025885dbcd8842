// ABOUTME: Alarm CRUD operations using Charm KV
// ABOUTME: Handles creation, retrieval, listing, update and deletion of alarms

package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/charm/kv"
	"github.com/google/uuid"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/storage"
)

func alarmKey(id uuid.UUID) []byte {
	return []byte(AlarmPrefix + id.String())
}

// CreateAlarm stores a new alarm.
func (c *Client) CreateAlarm(a *models.Alarm) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alarm: %w", err)
	}
	return c.Set(alarmKey(a.ID), data)
}

// GetAlarm retrieves an alarm by its UUID.
func (c *Client) GetAlarm(id uuid.UUID) (*models.Alarm, error) {
	data, err := c.Get(alarmKey(id))
	if err != nil {
		if errors.Is(err, kv.ErrMissingKey) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get alarm: %w", err)
	}

	var a models.Alarm
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal alarm: %w", err)
	}
	return &a, nil
}

// ListAlarms returns all alarms ordered by time of day.
func (c *Client) ListAlarms() ([]*models.Alarm, error) {
	alarms := []*models.Alarm{}
	prefix := []byte(AlarmPrefix)

	err := c.DoReadOnly(func(k *kv.KV) error {
		keys, err := k.Keys()
		if err != nil {
			return fmt.Errorf("list keys: %w", err)
		}

		for _, key := range keys {
			if !bytes.HasPrefix(key, prefix) {
				continue
			}

			data, err := k.Get(key)
			if err != nil {
				return fmt.Errorf("get alarm %s: %w", key, err)
			}

			var a models.Alarm
			if err := json.Unmarshal(data, &a); err != nil {
				return fmt.Errorf("unmarshal alarm: %w", err)
			}
			alarms = append(alarms, &a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	models.SortAlarms(alarms)
	return alarms, nil
}

// UpdateAlarm overwrites an existing alarm.
func (c *Client) UpdateAlarm(a *models.Alarm) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alarm: %w", err)
	}
	return c.Do(func(k *kv.KV) error {
		if _, err := k.Get(alarmKey(a.ID)); err != nil {
			if errors.Is(err, kv.ErrMissingKey) {
				return storage.ErrNotFound
			}
			return err
		}
		return k.Set(alarmKey(a.ID), data)
	})
}

// DeleteAlarm removes an alarm.
func (c *Client) DeleteAlarm(id uuid.UUID) error {
	return c.Do(func(k *kv.KV) error {
		if _, err := k.Get(alarmKey(id)); err != nil {
			if errors.Is(err, kv.ErrMissingKey) {
				return storage.ErrNotFound
			}
			return err
		}
		return k.Delete(alarmKey(id))
	})
}
