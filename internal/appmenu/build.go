package appmenu

import (
	"ai-workbench/internal/command"
	"ai-workbench/internal/platform"

	"github.com/wailsapp/wails/v2/pkg/menu"
)

// Handler receives menu clicks. Command clicks carry no arguments and their
// result is not reported back to the menu.
type Handler interface {
	HandleRole(r Role)
	HandleCommand(c command.Command)
	HandleAction(a Action)

	// Checked gives the initial state of a toggle; HandleToggle receives the
	// state after a click.
	Checked(a Action) bool
	HandleToggle(a Action, checked bool)
}

// Build turns groups into a Wails application menu. On macOS, groups with a
// Native submenu use Wails' role menus so the system wires them.
func Build(groups []Group, goos string, h Handler) *menu.Menu {
	appMenu := menu.NewMenu()
	for _, g := range groups {
		if platform.IsMac(goos) && g.Native == NativeEdit {
			appMenu.Append(menu.EditMenu())
			continue
		}

		sub := appMenu.AddSubmenu(g.Label)
		for _, item := range g.Items {
			addItem(sub, item, h)
		}
	}
	return appMenu
}

func addItem(sub *menu.Menu, item Item, h Handler) {
	switch item.Kind {
	case KindSeparator:
		sub.AddSeparator()
	case KindRole:
		r := item.Role
		sub.AddText(item.Label, item.Accelerator, func(_ *menu.CallbackData) {
			h.HandleRole(r)
		})
	case KindCommand:
		c := item.Command
		sub.AddText(item.Label, item.Accelerator, func(_ *menu.CallbackData) {
			h.HandleCommand(c)
		})
	case KindAction:
		a := item.Action
		sub.AddText(item.Label, item.Accelerator, func(_ *menu.CallbackData) {
			h.HandleAction(a)
		})
	case KindToggle:
		a := item.Action
		// The frontend flips Checked before invoking the callback.
		sub.AddCheckbox(item.Label, h.Checked(a), item.Accelerator, func(cd *menu.CallbackData) {
			if cd == nil || cd.MenuItem == nil {
				return
			}
			h.HandleToggle(a, cd.MenuItem.Checked)
		})
	}
}
