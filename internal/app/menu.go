package app

import (
	"errors"
	"fmt"
	"math"

	"ai-workbench/internal/appmenu"
	"ai-workbench/internal/command"
	"ai-workbench/internal/config"
	"ai-workbench/internal/platform"
)

const zoomStep = 0.1

var _ appmenu.Handler = (*App)(nil)

// HandleRole performs a platform or webview behavior for a menu click.
func (a *App) HandleRole(r appmenu.Role) {
	host := a.currentHost()
	if host == nil {
		return
	}

	switch r {
	case appmenu.RoleUndo, appmenu.RoleRedo, appmenu.RoleCut, appmenu.RoleCopy,
		appmenu.RolePaste, appmenu.RoleSelectAll:
		host.ExecJS(editScript(r))
	case appmenu.RoleReload:
		host.ReloadPage()
	case appmenu.RoleForceReload:
		host.Reload()
	case appmenu.RoleResetZoom:
		a.setZoom(config.DefaultZoom)
	case appmenu.RoleZoomIn:
		a.setZoom(a.Zoom() + zoomStep)
	case appmenu.RoleZoomOut:
		a.setZoom(a.Zoom() - zoomStep)
	case appmenu.RoleToggleFullscreen:
		if host.IsFullscreen() {
			host.Unfullscreen()
		} else {
			host.Fullscreen()
		}
	case appmenu.RoleToggleDevTools:
		a.showDevToolsHint(host)
	case appmenu.RoleQuit:
		a.Quit()
	case appmenu.RoleAbout:
		a.ShowAbout()
	case appmenu.RoleHide:
		host.HideApp()
	case appmenu.RoleUnhide:
		host.ShowApp()
	default:
		a.logger.Warn("Unknown menu role", "role", r)
	}
}

// HandleCommand forwards a page command. Failures are logged, never shown.
func (a *App) HandleCommand(c command.Command) {
	a.mu.Lock()
	d := a.dispatcher
	a.mu.Unlock()
	if d == nil {
		return
	}
	if _, err := d.Dispatch(c); err != nil {
		if errors.Is(err, command.ErrThrottled) {
			a.logger.Debug("Command dropped", "command", c, "error", err)
			return
		}
		a.logger.Warn("Failed to dispatch command", "command", c, "error", err)
	}
}

// HandleAction runs a shell-owned menu action.
func (a *App) HandleAction(act appmenu.Action) {
	switch act {
	case appmenu.ActionAbout:
		a.ShowAbout()
	case appmenu.ActionCheckUpdates:
		go a.checkForUpdates(true)
	case appmenu.ActionOpenLogs:
		if err := openFolder(a.logDir); err != nil {
			a.logger.Error("Failed to open log folder", "path", a.logDir, "error", err)
		}
	case appmenu.ActionJournal:
		a.ShowJournal()
	case appmenu.ActionShowWindow:
		a.Activate()
	default:
		a.logger.Warn("Unknown menu action", "action", act)
	}
}

// Checked reports the current value of a settings toggle.
func (a *App) Checked(act appmenu.Action) bool {
	if act == appmenu.ActionStartupCheck {
		return a.cfg.GetCheckUpdates()
	}
	return false
}

// HandleToggle stores a settings toggle after it was clicked.
func (a *App) HandleToggle(act appmenu.Action, checked bool) {
	switch act {
	case appmenu.ActionStartupCheck:
		if err := a.cfg.SetCheckUpdates(checked); err != nil {
			a.logger.Error("Failed to store setting", "key", config.KeyCheckUpdates, "error", err)
			return
		}
		a.logger.Info("Startup update check changed", "enabled", checked)
	default:
		a.logger.Warn("Unknown menu toggle", "action", act)
	}
}

// openFolder is swapped in tests.
var openFolder = platform.OpenFolder

// Zoom returns the current page zoom factor.
func (a *App) Zoom() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.zoom
}

func (a *App) setZoom(level float64) {
	level = config.ClampZoom(math.Round(level*100) / 100)

	a.mu.Lock()
	a.zoom = level
	host := a.host
	a.mu.Unlock()

	host.ExecJS(zoomScript(level))
	if err := a.cfg.SetZoomLevel(level); err != nil {
		a.logger.Error("Failed to store zoom level", "error", err)
	}
}

func (a *App) currentHost() Host {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.host
}

func (a *App) showDevToolsHint(host Host) {
	msg := "Developer tools are available in debug builds via the webview context menu."
	if host.BuildType() == "production" {
		msg = "Developer tools are disabled in production builds."
	}
	if _, err := host.MessageDialog(DialogInfo, "Developer Tools", msg); err != nil {
		a.logger.Error("Failed to show dialog", "error", err)
	}
}

func zoomScript(level float64) string {
	return fmt.Sprintf("document.documentElement.style.zoom = %q;", fmt.Sprintf("%.2f", level))
}

func editScript(r appmenu.Role) string {
	return fmt.Sprintf("document.execCommand(%q);", string(r))
}
