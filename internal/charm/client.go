// ABOUTME: Charm KV client wrapper using transactional Do API
// ABOUTME: Short-lived connections so the CLI, MCP server and HTTP API can share one store

package charm

import (
	"os"

	"github.com/charmbracelet/charm/kv"
	"github.com/harper/salah/internal/storage"
)

const (
	// DBName is the name of the Charm KV database for salah data.
	DBName = "salah"

	// DefaultCharmHost is the default Charm server to use.
	DefaultCharmHost = "charm.2389.dev"

	// Key prefixes, one per record kind.
	PrefPrefix  = "pref:"
	AlarmPrefix = "alarm:"
	CachePrefix = "cache:"
)

// Client is a Repository over Charm KV. It holds no open handle: every call
// opens the store, runs, and closes it again, so several salah processes can
// take turns on the same database.
type Client struct {
	dbName   string
	autoSync bool
	readOnly bool
}

// Config holds client configuration options.
type Config struct {
	// CharmHost is the Charm server to use (default: charm.2389.dev).
	CharmHost string
	// AutoSync pushes to the server after every write.
	AutoSync bool
	// ReadOnly rejects every write with storage.ErrReadOnly.
	ReadOnly bool
}

// DefaultConfig reads CHARM_HOST and enables AutoSync.
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = DefaultCharmHost
	}
	return &Config{CharmHost: host, AutoSync: true}
}

// NewClient exports CHARM_HOST for the kv package and returns a client on DBName.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := os.Setenv("CHARM_HOST", cfg.CharmHost); err != nil {
		return nil, err
	}
	return &Client{dbName: DBName, autoSync: cfg.AutoSync, readOnly: cfg.ReadOnly}, nil
}

// NewTestClient creates a client for testing without network access.
func NewTestClient(dbName string) (*Client, error) {
	return &Client{dbName: dbName}, nil
}

// Get retrieves a value by key.
func (c *Client) Get(key []byte) ([]byte, error) {
	var val []byte
	err := c.DoReadOnly(func(k *kv.KV) error {
		var err error
		val, err = k.Get(key)
		return err
	})
	return val, err
}

// Set stores a value under key.
func (c *Client) Set(key, value []byte) error {
	return c.Do(func(k *kv.KV) error { return k.Set(key, value) })
}

// Delete removes a key.
func (c *Client) Delete(key []byte) error {
	return c.Do(func(k *kv.KV) error { return k.Delete(key) })
}

// DoReadOnly runs fn against a read-only view; use it to batch several reads.
func (c *Client) DoReadOnly(fn func(k *kv.KV) error) error {
	return kv.DoReadOnly(c.dbName, fn)
}

// Do runs fn with write access, then syncs when AutoSync is on.
func (c *Client) Do(fn func(k *kv.KV) error) error {
	if c.readOnly {
		return storage.ErrReadOnly
	}
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil {
			return err
		}
		if !c.autoSync {
			return nil
		}
		return k.Sync()
	})
}

// Sync pulls and pushes changes with the Charm server.
func (c *Client) Sync() error {
	return kv.Do(c.dbName, func(k *kv.KV) error { return k.Sync() })
}

// Reset drops every key in the local database.
func (c *Client) Reset() error {
	if c.readOnly {
		return storage.ErrReadOnly
	}
	return kv.Do(c.dbName, func(k *kv.KV) error { return k.Reset() })
}

// IsReadOnly reports whether writes are rejected.
func (c *Client) IsReadOnly() bool {
	return c.readOnly
}

// Close is a no-op; there is no handle to release.
func (c *Client) Close() error {
	return nil
}
