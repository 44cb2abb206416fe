package app

import (
	"context"

	"ai-workbench/internal/command"
	"ai-workbench/internal/window"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// DialogKind selects the icon of a native message dialog.
type DialogKind int

const (
	DialogInfo DialogKind = iota
	DialogQuestion
	DialogError
)

// Host is everything the shell asks of the native runtime. The Wails
// implementation binds each call to the startup context.
type Host interface {
	window.Runtime
	command.Events

	ReloadPage()
	ExecJS(js string)
	IsFullscreen() bool
	Fullscreen()
	Unfullscreen()
	HideApp()
	ShowApp()
	Quit()
	MessageDialog(kind DialogKind, title, message string, buttons ...string) (string, error)
	BuildType() string
}

type wailsHost struct {
	ctx context.Context
}

// NewWailsHost binds a Host to the Wails runtime context from OnStartup.
func NewWailsHost(ctx context.Context) Host {
	return &wailsHost{ctx: ctx}
}

func (h *wailsHost) Size() (int, int)     { return runtime.WindowGetSize(h.ctx) }
func (h *wailsHost) Position() (int, int) { return runtime.WindowGetPosition(h.ctx) }
func (h *wailsHost) IsMaximised() bool    { return runtime.WindowIsMaximised(h.ctx) }
func (h *wailsHost) SetSize(w, ht int)    { runtime.WindowSetSize(h.ctx, w, ht) }
func (h *wailsHost) SetPosition(x, y int) { runtime.WindowSetPosition(h.ctx, x, y) }
func (h *wailsHost) Maximise()            { runtime.WindowMaximise(h.ctx) }
func (h *wailsHost) Show()                { runtime.WindowShow(h.ctx) }
func (h *wailsHost) Hide()                { runtime.WindowHide(h.ctx) }
func (h *wailsHost) Reload()              { runtime.WindowReloadApp(h.ctx) }
func (h *wailsHost) OpenURL(url string)   { runtime.BrowserOpenURL(h.ctx, url) }

func (h *wailsHost) Emit(name string, data ...interface{}) {
	runtime.EventsEmit(h.ctx, name, data...)
}

func (h *wailsHost) On(name string, cb func(data ...interface{})) func() {
	return runtime.EventsOn(h.ctx, name, cb)
}

func (h *wailsHost) ReloadPage()        { runtime.WindowReload(h.ctx) }
func (h *wailsHost) ExecJS(js string)   { runtime.WindowExecJS(h.ctx, js) }
func (h *wailsHost) IsFullscreen() bool { return runtime.WindowIsFullscreen(h.ctx) }
func (h *wailsHost) Fullscreen()        { runtime.WindowFullscreen(h.ctx) }
func (h *wailsHost) Unfullscreen()      { runtime.WindowUnfullscreen(h.ctx) }
func (h *wailsHost) HideApp()           { runtime.Hide(h.ctx) }
func (h *wailsHost) ShowApp()           { runtime.Show(h.ctx) }
func (h *wailsHost) Quit()              { runtime.Quit(h.ctx) }

func (h *wailsHost) MessageDialog(kind DialogKind, title, message string, buttons ...string) (string, error) {
	dialogType := runtime.InfoDialog
	switch kind {
	case DialogQuestion:
		dialogType = runtime.QuestionDialog
	case DialogError:
		dialogType = runtime.ErrorDialog
	}
	opts := runtime.MessageDialogOptions{
		Type:    dialogType,
		Title:   title,
		Message: message,
		Buttons: buttons,
	}
	if len(buttons) > 0 {
		opts.DefaultButton = buttons[0]
		opts.CancelButton = buttons[len(buttons)-1]
	}
	return runtime.MessageDialog(h.ctx, opts)
}

func (h *wailsHost) BuildType() string {
	return runtime.Environment(h.ctx).BuildType
}
