package config

import (
	"strconv"
	"sync"

	"ai-workbench/internal/storage"
)

// Keys for AppSettings in DB
const (
	KeyCheckUpdates = "check_updates"
	KeyZoomLevel    = "zoom_level"
	KeyLastVersion  = "last_version"
)

// Zoom bounds for the hosted page.
const (
	DefaultZoom = 1.0
	MinZoom     = 0.5
	MaxZoom     = 3.0
)

// Store is the key-value backend. *storage.Storage implements it.
type Store interface {
	GetString(key string) (string, error)
	SetString(key, value string) error
}

type ConfigManager struct {
	storage Store
}

func NewConfigManager(s Store) *ConfigManager {
	return &ConfigManager{storage: s}
}

var _ Store = (*storage.Storage)(nil)

func (c *ConfigManager) GetCheckUpdates() bool {
	val, err := c.storage.GetString(KeyCheckUpdates)
	if err != nil {
		return true // Default True
	}
	return val != "false"
}

func (c *ConfigManager) SetCheckUpdates(enabled bool) error {
	return c.storage.SetString(KeyCheckUpdates, strconv.FormatBool(enabled))
}

// GetZoomLevel returns the persisted page zoom factor.
func (c *ConfigManager) GetZoomLevel() float64 {
	valStr, err := c.storage.GetString(KeyZoomLevel)
	if err != nil || valStr == "" {
		return DefaultZoom
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return DefaultZoom
	}
	return ClampZoom(val)
}

func (c *ConfigManager) SetZoomLevel(level float64) error {
	return c.storage.SetString(KeyZoomLevel, strconv.FormatFloat(ClampZoom(level), 'f', 2, 64))
}

func (c *ConfigManager) GetLastVersion() string {
	val, err := c.storage.GetString(KeyLastVersion)
	if err != nil {
		return ""
	}
	return val
}

func (c *ConfigManager) SetLastVersion(v string) error {
	return c.storage.SetString(KeyLastVersion, v)
}

// ClampZoom keeps level within [MinZoom, MaxZoom].
func ClampZoom(level float64) float64 {
	if level < MinZoom {
		return MinZoom
	}
	if level > MaxZoom {
		return MaxZoom
	}
	return level
}

// MemoryStore keeps settings for the lifetime of the process. It backs the
// ConfigManager when the database cannot be opened.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) GetString(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryStore) SetString(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
