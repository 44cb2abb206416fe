// Package appmenu declares the application menu and builds it into a Wails menu.
//
// Every leaf is one of: a native role (clipboard, zoom, reload, quit...), a
// command forwarded to the hosted page, a shell action such as the About
// dialog, or a shell setting shown as a checkbox. The tree is static apart
// from the macOS app and Window groups and accelerators.
package appmenu

import (
	"ai-workbench/internal/command"
	"ai-workbench/internal/platform"

	"github.com/wailsapp/wails/v2/pkg/menu/keys"
)

// Kind tells how a menu item is handled.
type Kind int

const (
	KindSeparator Kind = iota
	KindRole
	KindCommand
	KindAction
	KindToggle
)

// Role is a well-known behavior provided by the platform or the webview.
type Role string

const (
	RoleUndo             Role = "undo"
	RoleRedo             Role = "redo"
	RoleCut              Role = "cut"
	RoleCopy             Role = "copy"
	RolePaste            Role = "paste"
	RoleSelectAll        Role = "selectAll"
	RoleReload           Role = "reload"
	RoleForceReload      Role = "forceReload"
	RoleResetZoom        Role = "resetZoom"
	RoleZoomIn           Role = "zoomIn"
	RoleZoomOut          Role = "zoomOut"
	RoleToggleFullscreen Role = "togglefullscreen"
	RoleToggleDevTools   Role = "toggleDevTools"
	RoleQuit             Role = "quit"
	RoleAbout            Role = "about"
	RoleHide             Role = "hide"
	RoleUnhide           Role = "unhide"
)

// Action is menu behavior owned by the shell itself.
type Action string

const (
	ActionAbout        Action = "about"
	ActionCheckUpdates Action = "checkUpdates"
	ActionOpenLogs     Action = "openLogs"
	ActionJournal      Action = "commandJournal"
	ActionShowWindow   Action = "showWindow"

	// ActionStartupCheck is a toggle backed by the check_updates setting.
	ActionStartupCheck Action = "startupUpdateCheck"
)

// Native selects a platform-provided submenu used instead of Items.
type Native int

const (
	NativeNone Native = iota
	NativeEdit
)

type Item struct {
	Label       string
	Accelerator *keys.Accelerator
	Kind        Kind
	Role        Role
	Command     command.Command
	Action      Action
}

type Group struct {
	Label  string
	Native Native // used on macOS only
	Items  []Item
}

func separator() Item { return Item{Kind: KindSeparator} }

func role(label string, accel *keys.Accelerator, r Role) Item {
	return Item{Label: label, Accelerator: accel, Kind: KindRole, Role: r}
}

func forward(label string, accel *keys.Accelerator, c command.Command) Item {
	return Item{Label: label, Accelerator: accel, Kind: KindCommand, Command: c}
}

func action(label string, accel *keys.Accelerator, a Action) Item {
	return Item{Label: label, Accelerator: accel, Kind: KindAction, Action: a}
}

func toggle(label string, a Action) Item {
	return Item{Label: label, Kind: KindToggle, Action: a}
}

// Template returns the menu tree for goos. On macOS an app group titled
// appName is prepended and a Window group is added before Help.
//
// Edit items carry no accelerators: on Windows and Linux the webview handles
// the clipboard keys itself, and on macOS the native Edit menu is used. A
// Paste clicked from the menu may be refused by the webview.
func Template(goos, appName string) []Group {
	mac := platform.IsMac(goos)

	file := []Item{
		forward("New Conversation", keys.CmdOrCtrl("n"), command.NewConversation),
		separator(),
		forward("Settings", keys.CmdOrCtrl(","), command.OpenSettings),
	}
	if !mac {
		file = append(file, separator(), role("Quit", keys.OptionOrAlt("f4"), RoleQuit))
	}

	groups := []Group{
		{Label: "File", Items: file},
		{
			Label:  "Edit",
			Native: NativeEdit,
			Items: []Item{
				role("Undo", nil, RoleUndo),
				role("Redo", nil, RoleRedo),
				separator(),
				role("Cut", nil, RoleCut),
				role("Copy", nil, RoleCopy),
				role("Paste", nil, RolePaste),
				role("Select All", nil, RoleSelectAll),
			},
		},
		{
			Label: "View",
			Items: []Item{
				forward("Toggle Sidebar", keys.CmdOrCtrl("\\"), command.ToggleSidebar),
				forward("Toggle Shared Background", keys.CmdOrCtrl("b"), command.ToggleSharedBackground),
				separator(),
				role("Reload", keys.CmdOrCtrl("r"), RoleReload),
				role("Force Reload", keys.Combo("r", keys.CmdOrCtrlKey, keys.ShiftKey), RoleForceReload),
				separator(),
				role("Actual Size", keys.CmdOrCtrl("0"), RoleResetZoom),
				role("Zoom In", keys.CmdOrCtrl("="), RoleZoomIn),
				role("Zoom Out", keys.CmdOrCtrl("-"), RoleZoomOut),
				separator(),
				role("Toggle Full Screen", keys.Key("f11"), RoleToggleFullscreen),
			},
		},
		{
			Label: "Conversation",
			Items: []Item{
				forward("Stop All Responses", keys.Key("escape"), command.StopAllResponses),
				separator(),
				forward("Clear Current Conversation", nil, command.ClearConversation),
				forward("Clear All History", nil, command.ClearAllHistory),
			},
		},
		{
			Label: "Developer",
			Items: []Item{
				role("Developer Tools", keys.Key("f12"), RoleToggleDevTools),
				action("Command Journal", nil, ActionJournal),
				action("Open Log Folder", nil, ActionOpenLogs),
			},
		},
	}

	if mac {
		groups = append(groups, Group{
			Label: "Window",
			Items: []Item{
				action("Show Main Window", keys.CmdOrCtrl("1"), ActionShowWindow),
			},
		})
	}

	groups = append(groups, Group{
		Label: "Help",
		Items: []Item{
			action("Check for Updates…", nil, ActionCheckUpdates),
			toggle("Check for Updates on Startup", ActionStartupCheck),
			separator(),
			action("About", nil, ActionAbout),
		},
	})

	if mac {
		app := Group{
			Label: appName,
			Items: []Item{
				role("About "+appName, nil, RoleAbout),
				separator(),
				role("Hide "+appName, keys.CmdOrCtrl("h"), RoleHide),
				role("Show All", nil, RoleUnhide),
				separator(),
				role("Quit "+appName, keys.CmdOrCtrl("q"), RoleQuit),
			},
		}
		groups = append([]Group{app}, groups...)
	}

	return groups
}
