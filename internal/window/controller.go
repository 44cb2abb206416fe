// Package window drives the main window: it restores persisted geometry,
// shows the window once the document is ready, persists geometry on
// resize/move/close and routes new-window requests to the system browser.
package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"ai-workbench/internal/debounce"
	"ai-workbench/internal/geometry"
)

// ErrUnsupportedScheme is returned by OpenExternal for URLs the shell refuses
// to hand to the system browser.
var ErrUnsupportedScheme = errors.New("unsupported url scheme")

// Runtime is the native window the controller drives.
type Runtime interface {
	geometry.Window
	SetSize(width, height int)
	SetPosition(x, y int)
	Maximise()
	Show()
	Hide()
	Reload()
	OpenURL(url string)
}

// GeometryStore persists window geometry. *geometry.Store implements it.
type GeometryStore interface {
	Load() geometry.Record
	Save(w geometry.Window)
}

// State is the window lifecycle state.
type State int

const (
	StateUnready State = iota
	StateReady         // created, hidden until the document is ready
	StateShown
	StateClosing
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUnready:
		return "unready"
	case StateReady:
		return "ready"
	case StateShown:
		return "shown"
	case StateClosing:
		return "closing"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Options tunes the controller. Zero values take the defaults.
type Options struct {
	// Quiet is how long resize/move must stop before geometry is saved.
	Quiet time.Duration
	// PollInterval is how often the watcher samples the window bounds.
	// Negative disables the watcher.
	PollInterval time.Duration
	MinWidth     int
	MinHeight    int
}

const (
	DefaultQuiet        = 500 * time.Millisecond
	DefaultPollInterval = 250 * time.Millisecond
)

func (o Options) withDefaults() Options {
	if o.Quiet <= 0 {
		o.Quiet = DefaultQuiet
	}
	if o.PollInterval == 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MinWidth <= 0 {
		o.MinWidth = geometry.MinWidth
	}
	if o.MinHeight <= 0 {
		o.MinHeight = geometry.MinHeight
	}
	return o
}

// Controller owns one main window from creation to destruction.
type Controller struct {
	mu        sync.Mutex
	rt        Runtime
	store     GeometryStore
	writer    *debounce.Writer
	logger    *slog.Logger
	opts      Options
	state     State
	stopWatch context.CancelFunc
}

// NewController returns a controller in StateUnready.
func NewController(rt Runtime, store GeometryStore, logger *slog.Logger, opts Options) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		rt:     rt,
		store:  store,
		writer: debounce.New(opts.Quiet),
		logger: logger,
		opts:   opts,
	}
}

// InitialGeometry loads the persisted record clamped to the window minimums.
// It is used to size the native window before it is first created.
func InitialGeometry(store GeometryStore) geometry.Record {
	return store.Load().Clamp(geometry.MinWidth, geometry.MinHeight)
}

// Create applies the persisted geometry and leaves the window hidden until
// MarkReady. reload re-requests the bundled document, for windows re-created
// after the previous one was destroyed.
func (c *Controller) Create(reload bool) geometry.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.store.Load().Clamp(c.opts.MinWidth, c.opts.MinHeight)
	if c.state != StateUnready {
		c.logger.Warn("Create called on existing window", "state", c.state)
		return rec
	}

	c.rt.SetSize(rec.Width, rec.Height)
	if rec.HasPosition() {
		c.rt.SetPosition(*rec.X, *rec.Y)
	}
	if rec.IsMaximized {
		c.rt.Maximise()
	}
	if reload {
		c.rt.Reload()
	}

	c.state = StateReady
	c.logger.Info("Window created", "width", rec.Width, "height", rec.Height, "maximized", rec.IsMaximized)
	return rec
}

// MarkReady shows the window once the hosted document has loaded.
func (c *Controller) MarkReady() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return
	}
	c.rt.Show()
	c.state = StateShown
	c.startWatcherLocked()
	c.logger.Debug("Window shown")
}

// OnResize schedules a geometry save after the quiet period.
func (c *Controller) OnResize() {
	c.scheduleSave("resize")
}

// OnMove schedules a geometry save after the quiet period.
func (c *Controller) OnMove() {
	c.scheduleSave("move")
}

func (c *Controller) scheduleSave(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateShown && c.state != StateReady {
		return
	}
	c.writer.Schedule(c.save)
	c.logger.Debug("Window geometry changed", "reason", reason)
}

// save runs on the debounce timer.
func (c *Controller) save() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateShown && c.state != StateReady {
		return
	}
	c.store.Save(c.rt)
}

// Close persists geometry synchronously, superseding any pending debounced
// save. It reports whether this call performed the transition to Closing.
func (c *Controller) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateShown && c.state != StateReady {
		return false
	}
	c.state = StateClosing
	c.writer.Cancel()
	c.stopWatcherLocked()
	c.store.Save(c.rt)
	c.logger.Info("Window closing")
	return true
}

// Destroy marks the window gone. No state is reachable afterwards; a new
// window needs a new Controller.
func (c *Controller) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDestroyed {
		return
	}
	c.writer.Cancel()
	c.stopWatcherLocked()
	c.state = StateDestroyed
	c.logger.Debug("Window destroyed")
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports whether the window is created and not closing.
func (c *Controller) IsOpen() bool {
	s := c.State()
	return s == StateReady || s == StateShown
}

// Focus brings a shown window to the front.
func (c *Controller) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateShown {
		c.rt.Show()
	}
}

// OpenExternal hands a new-window request to the default browser. The shell
// never opens a second native window.
func (c *Controller) OpenExternal(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	c.logger.Info("Opening external link", "url", u.String())
	c.rt.OpenURL(u.String())
	return nil
}
