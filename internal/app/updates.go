package app

import (
	"context"
	"time"

	"ai-workbench/internal/version"
)

const updateTimeout = 15 * time.Second

// checkForUpdates queries the release feed. The startup check only logs; a
// manual check reports every outcome in a dialog.
func (a *App) checkForUpdates(manual bool) {
	if a.updater == nil {
		return
	}

	a.mu.Lock()
	parent := a.ctx
	a.mu.Unlock()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, updateTimeout)
	defer cancel()

	a.logger.Info("Checking for updates", "current", version.Version, "manual", manual)
	rel, err := a.updater.CheckForUpdates(ctx, version.Version)
	if err != nil {
		a.logger.Error("Update check failed", "error", err)
		if manual {
			a.dialog(DialogError, "Check for Updates", "Could not check for updates.\n\n"+err.Error())
		}
		return
	}
	if rel == nil {
		a.logger.Info("No updates available")
		if manual {
			a.dialog(DialogInfo, "Check for Updates", version.Name+" "+version.Version+" is up to date.")
		}
		return
	}

	a.logger.Info("Update available", "version", rel.TagName)
	if !manual {
		return
	}
	choice := a.dialog(DialogQuestion, "Update Available",
		"Version "+rel.TagName+" is available. Open the download page?", "Open", "Later")
	if choice != "Open" || rel.HTMLURL == "" {
		return
	}

	a.mu.Lock()
	w := a.window
	host := a.host
	a.mu.Unlock()
	if w != nil {
		if err := w.OpenExternal(rel.HTMLURL); err != nil {
			a.logger.Warn("Refused to open release page", "url", rel.HTMLURL, "error", err)
		}
		return
	}
	host.OpenURL(rel.HTMLURL)
}

func (a *App) dialog(kind DialogKind, title, message string, buttons ...string) string {
	host := a.currentHost()
	if host == nil {
		return ""
	}
	choice, err := host.MessageDialog(kind, title, message, buttons...)
	if err != nil {
		a.logger.Error("Failed to show dialog", "title", title, "error", err)
	}
	return choice
}
