// Package geometry persists the main window's last size, position and
// maximized state as a small JSON document in the user's config directory.
package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	DefaultWidth  = 1400
	DefaultHeight = 900

	// MinWidth and MinHeight are the smallest bounds the window may take.
	MinWidth  = 1000
	MinHeight = 600

	FileName = "window-config.json"
)

// Record is the persisted window geometry. X and Y are nil when the OS
// should choose the window placement.
type Record struct {
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	X           *int `json:"x,omitempty"`
	Y           *int `json:"y,omitempty"`
	IsMaximized bool `json:"isMaximized"`
}

// Defaults returns the record used when nothing valid is on disk.
func Defaults() Record {
	return Record{Width: DefaultWidth, Height: DefaultHeight}
}

// HasPosition reports whether both coordinates were recorded.
func (r Record) HasPosition() bool {
	return r.X != nil && r.Y != nil
}

// Clamp raises width and height to the given minimums.
func (r Record) Clamp(minWidth, minHeight int) Record {
	if r.Width < minWidth {
		r.Width = minWidth
	}
	if r.Height < minHeight {
		r.Height = minHeight
	}
	return r
}

// Window is the live window the store reads bounds from on Save.
type Window interface {
	Size() (width, height int)
	Position() (x, y int)
	IsMaximised() bool
}

// Store reads and writes the geometry record at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store writing to dir/window-config.json.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{
		path:   filepath.Join(dir, FileName),
		logger: logger,
	}
}

// Path returns the location of the geometry file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted record merged over Defaults. It never fails:
// a missing, unreadable or malformed file yields the defaults.
func (s *Store) Load() Record {
	rec := Defaults()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to read window config", "path", s.path, "error", err)
		}
		return rec
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		s.logger.Warn("Ignoring malformed window config", "path", s.path, "error", err)
		return rec
	}

	mergeFields(&rec, fields, s.logger)
	return rec
}

// mergeFields copies each individually valid field over rec.
func mergeFields(rec *Record, fields map[string]json.RawMessage, logger *slog.Logger) {
	positive := func(key string, dst *int) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		var v int
		if err := json.Unmarshal(raw, &v); err != nil || v <= 0 {
			logger.Debug("Dropping invalid window config field", "field", key, "value", string(raw))
			return
		}
		*dst = v
	}
	coord := func(key string, dst **int) {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			return
		}
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			logger.Debug("Dropping invalid window config field", "field", key, "value", string(raw))
			return
		}
		*dst = &v
	}

	positive("width", &rec.Width)
	positive("height", &rec.Height)
	coord("x", &rec.X)
	coord("y", &rec.Y)

	if raw, ok := fields["isMaximized"]; ok {
		var v bool
		if err := json.Unmarshal(raw, &v); err == nil {
			rec.IsMaximized = v
		}
	}
}

// Save captures the window's current bounds and overwrites the file.
// Errors are logged and dropped; the window itself is never affected.
func (s *Store) Save(w Window) {
	width, height := w.Size()
	x, y := w.Position()
	rec := Record{
		Width:       width,
		Height:      height,
		X:           &x,
		Y:           &y,
		IsMaximized: w.IsMaximised(),
	}
	if err := s.Write(rec); err != nil {
		s.logger.Error("Failed to save window config", "path", s.path, "error", err)
		return
	}
	s.logger.Debug("Window config saved", "width", width, "height", height, "x", x, "y", y, "maximized", rec.IsMaximized)
}

// Write replaces the file with rec.
func (s *Store) Write(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode window config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write window config: %w", err)
	}
	return nil
}
