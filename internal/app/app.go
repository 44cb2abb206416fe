// Package app is the lifecycle glue between Wails and the shell components.
// It owns the application state: at most one main window controller, the
// command dispatcher and the settings, and it reacts to startup, document
// ready, close, re-activation and shutdown.
package app

import (
	"context"
	"log/slog"
	"sync"

	"ai-workbench/internal/bridge"
	"ai-workbench/internal/command"
	"ai-workbench/internal/config"
	"ai-workbench/internal/logger"
	"ai-workbench/internal/platform"
	"ai-workbench/internal/storage"
	"ai-workbench/internal/updater"
	"ai-workbench/internal/version"
	"ai-workbench/internal/window"

	"github.com/wailsapp/wails/v2/pkg/options"
)

// JournalReader queries the command journal. *storage.Storage implements it.
type JournalReader interface {
	RecentCommands(limit int) ([]storage.CommandRecord, error)
	CountCommandsByStatus(status string) (int64, error)
}

// Deps are the services the App is built from. Journal, History and
// WailsHandler may be nil.
type Deps struct {
	Logger        *slog.Logger
	WailsHandler  *logger.WailsHandler
	Geometry      window.GeometryStore
	Config        *config.ConfigManager
	Journal       command.Journal
	History       JournalReader
	Updater       *updater.Checker
	LogDir        string
	GOOS          string
	NewHost       func(ctx context.Context) Host
	WindowOptions window.Options
}

// App struct is the main Wails application binding.
type App struct {
	logger       *slog.Logger
	wailsHandler *logger.WailsHandler
	geometry     window.GeometryStore
	cfg          *config.ConfigManager
	journal      command.Journal
	history      JournalReader
	updater      *updater.Checker
	logDir       string
	goos         string
	newHost      func(ctx context.Context) Host
	winOpts      window.Options

	mu          sync.Mutex
	ctx         context.Context
	host        Host
	window      *window.Controller // nil while no window is open
	dispatcher  *command.Dispatcher
	offExternal func()
	zoom        float64
	quitting    bool
	shutdown    bool
}

// NewApp creates a new App application struct with all dependencies injected.
func NewApp(d Deps) *App {
	if d.NewHost == nil {
		d.NewHost = NewWailsHost
	}
	return &App{
		logger:       d.Logger,
		wailsHandler: d.WailsHandler,
		geometry:     d.Geometry,
		cfg:          d.Config,
		journal:      d.Journal,
		history:      d.History,
		updater:      d.Updater,
		logDir:       d.LogDir,
		goos:         d.GOOS,
		newHost:      d.NewHost,
		winOpts:      d.WindowOptions,
		zoom:         config.DefaultZoom,
	}
}

// Startup is called when the app starts. The context is saved
// so we can call the runtime methods.
func (a *App) Startup(ctx context.Context) {
	if a.wailsHandler != nil {
		a.wailsHandler.SetContext(ctx)
	}

	host := a.newHost(ctx)
	dispatcher := command.NewDispatcher(host, a.journal, a.logger.With("component", "command"), command.Options{})
	offExternal := host.On(bridge.EventOpenExternal, a.handleOpenExternal)

	a.mu.Lock()
	a.ctx = ctx
	a.host = host
	a.dispatcher = dispatcher
	a.offExternal = offExternal
	a.zoom = a.cfg.GetZoomLevel()
	a.createWindowLocked(false)
	a.mu.Unlock()

	a.logger.Info("App started", "version", version.Version, "platform", a.goos)
	a.recordVersion()

	if a.cfg.GetCheckUpdates() && a.updater != nil {
		go a.checkForUpdates(false)
	}
}

// DomReady is called once the hosted document has loaded.
func (a *App) DomReady(ctx context.Context) {
	a.mu.Lock()
	w := a.window
	zoom := a.zoom
	host := a.host
	a.mu.Unlock()

	if w == nil {
		return
	}
	if zoom != config.DefaultZoom {
		host.ExecJS(zoomScript(zoom))
	}
	w.MarkReady()
}

// BeforeClose persists the window before the process exits. On macOS the
// close button only hides the app (HideWindowOnClose), so every call here is
// a quit request from the menu, the Dock or the system.
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.quitting = true
	if a.window != nil {
		a.window.Close()
	}
	return false // Allow close
}

// Shutdown releases everything registered at startup.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.shutdown {
		return
	}
	a.shutdown = true

	if a.window != nil {
		a.window.Close()
		a.destroyWindowLocked()
	}
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.offExternal != nil {
		a.offExternal()
		a.offExternal = nil
	}
	a.logger.Info("App shut down")
}

// SecondInstanceLaunch handles a relaunch while this instance is running.
func (a *App) SecondInstanceLaunch(data options.SecondInstanceData) {
	a.logger.Info("Second instance launched", "args", data.Args)
	a.Activate()
}

// Activate shows and focuses the main window, re-creating it if none is open.
func (a *App) Activate() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.host == nil || a.shutdown || a.quitting {
		return
	}
	if platform.IsMac(a.goos) {
		a.host.ShowApp()
	}
	if a.window != nil && a.window.IsOpen() {
		a.window.Focus()
		return
	}
	a.logger.Info("Re-activating with no open window")
	if a.window != nil {
		a.destroyWindowLocked()
	}
	a.createWindowLocked(true)
}

// Quit persists the open window and exits the process.
func (a *App) Quit() {
	a.mu.Lock()
	a.quitting = true
	if a.window != nil {
		a.window.Close()
	}
	host := a.host
	a.mu.Unlock()

	if host != nil {
		host.Quit()
	}
}

// HasWindow reports whether a main window currently exists.
func (a *App) HasWindow() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.window != nil
}

func (a *App) createWindowLocked(reload bool) {
	w := window.NewController(a.host, a.geometry, a.logger.With("component", "window"), a.winOpts)
	w.Create(reload)
	a.window = w
}

func (a *App) destroyWindowLocked() {
	a.window.Destroy()
	a.window = nil
}

func (a *App) handleOpenExternal(data ...interface{}) {
	if len(data) == 0 {
		return
	}
	url, ok := data[0].(string)
	if !ok {
		a.logger.Warn("Ignoring malformed open-external request")
		return
	}

	a.mu.Lock()
	w := a.window
	a.mu.Unlock()
	if w == nil {
		return
	}
	if err := w.OpenExternal(url); err != nil {
		a.logger.Warn("Refused to open external link", "url", url, "error", err)
	}
}

func (a *App) recordVersion() {
	last := a.cfg.GetLastVersion()
	if last == version.Version {
		return
	}
	if last != "" {
		a.logger.Info("Updated", "from", last, "to", version.Version)
	}
	if err := a.cfg.SetLastVersion(version.Version); err != nil {
		a.logger.Error("Failed to store version", "error", err)
	}
}
