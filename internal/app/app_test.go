package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"ai-workbench/internal/appmenu"
	"ai-workbench/internal/bridge"
	"ai-workbench/internal/command"
	"ai-workbench/internal/config"
	"ai-workbench/internal/geometry"
	"ai-workbench/internal/storage"
	"ai-workbench/internal/updater"
	"ai-workbench/internal/version"
	"ai-workbench/internal/window"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/options"
)

type dialogCall struct {
	kind    DialogKind
	title   string
	message string
	buttons []string
}

type fakeHost struct {
	mu         sync.Mutex
	w, h, x, y int
	maximised  bool
	fullscreen bool
	calls      []string
	scripts    []string
	opened     []string
	emitted    []interface{}
	dialogs    []dialogCall
	answer     string
	handlers   map[string]func(data ...interface{})
}

func newFakeHost() *fakeHost {
	return &fakeHost{w: 1200, h: 800, x: 10, y: 20, handlers: map[string]func(data ...interface{}){}}
}

func (f *fakeHost) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeHost) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeHost) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w, f.h
}

func (f *fakeHost) Position() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.x, f.y
}

func (f *fakeHost) IsMaximised() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maximised
}

func (f *fakeHost) SetSize(w, h int) {
	f.mu.Lock()
	f.w, f.h = w, h
	f.mu.Unlock()
	f.record("size")
}

func (f *fakeHost) SetPosition(x, y int) {
	f.mu.Lock()
	f.x, f.y = x, y
	f.mu.Unlock()
	f.record("position")
}

func (f *fakeHost) Maximise()   { f.record("maximise") }
func (f *fakeHost) Show()       { f.record("show") }
func (f *fakeHost) Hide()       { f.record("hide") }
func (f *fakeHost) Reload()     { f.record("reload") }
func (f *fakeHost) ReloadPage() { f.record("reloadPage") }
func (f *fakeHost) HideApp()    { f.record("hideApp") }
func (f *fakeHost) ShowApp()    { f.record("showApp") }
func (f *fakeHost) Quit()       { f.record("quit") }

func (f *fakeHost) Fullscreen() {
	f.fullscreen = true
	f.record("fullscreen")
}

func (f *fakeHost) Unfullscreen() {
	f.fullscreen = false
	f.record("unfullscreen")
}

func (f *fakeHost) IsFullscreen() bool { return f.fullscreen }
func (f *fakeHost) BuildType() string  { return "production" }

func (f *fakeHost) OpenURL(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, url)
}

func (f *fakeHost) ExecJS(js string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts = append(f.scripts, js)
}

func (f *fakeHost) Emit(name string, data ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == command.EventCommand {
		f.emitted = append(f.emitted, data...)
	}
}

func (f *fakeHost) On(name string, cb func(data ...interface{})) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = cb
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, name)
	}
}

func (f *fakeHost) fire(name string, data ...interface{}) {
	f.mu.Lock()
	cb := f.handlers[name]
	f.mu.Unlock()
	if cb != nil {
		cb(data...)
	}
}

func (f *fakeHost) MessageDialog(kind DialogKind, title, message string, buttons ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dialogs = append(f.dialogs, dialogCall{kind, title, message, buttons})
	return f.answer, nil
}

type fixture struct {
	app  *App
	host *fakeHost
	geo  *geometry.Store
	cfg  *config.ConfigManager
	dir  string
}

func newFixture(t *testing.T, goos string, checker *updater.Checker) *fixture {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	host := newFakeHost()
	cfg := config.NewConfigManager(config.NewMemoryStore())
	require.NoError(t, cfg.SetCheckUpdates(false))
	geo := geometry.NewStore(dir, logger)

	a := NewApp(Deps{
		Logger:        logger,
		Geometry:      geo,
		Config:        cfg,
		Updater:       checker,
		LogDir:        dir,
		GOOS:          goos,
		NewHost:       func(context.Context) Host { return host },
		WindowOptions: window.Options{PollInterval: -1},
	})
	t.Cleanup(func() { a.Shutdown(context.Background()) })
	return &fixture{app: a, host: host, geo: geo, cfg: cfg, dir: dir}
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	f.app.Startup(context.Background())
	f.app.DomReady(context.Background())
}

func TestStartup_ShowsWindowAfterDomReady(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.app.Startup(context.Background())

	assert.True(t, f.app.HasWindow())
	assert.NotContains(t, f.host.Calls(), "show")

	f.app.DomReady(context.Background())
	assert.Contains(t, f.host.Calls(), "show")
	assert.Equal(t, version.Version, f.cfg.GetLastVersion())
}

func TestStartup_AppliesStoredZoom(t *testing.T) {
	f := newFixture(t, "linux", nil)
	require.NoError(t, f.cfg.SetZoomLevel(1.5))
	f.start(t)

	require.NotEmpty(t, f.host.scripts)
	assert.Contains(t, f.host.scripts[0], `"1.50"`)
}

func TestBeforeClose_PersistsAndAllowsClose(t *testing.T) {
	f := newFixture(t, "windows", nil)
	f.start(t)

	f.host.mu.Lock()
	f.host.w, f.host.h, f.host.x, f.host.y = 1300, 850, 40, 50
	f.host.mu.Unlock()

	assert.False(t, f.app.BeforeClose(context.Background()))

	rec := f.geo.Load()
	assert.Equal(t, 1300, rec.Width)
	assert.Equal(t, 850, rec.Height)
	require.True(t, rec.HasPosition())
	assert.Equal(t, 40, *rec.X)
}

func TestBeforeClose_MacQuitRequestIsAllowed(t *testing.T) {
	f := newFixture(t, "darwin", nil)
	f.start(t)

	f.host.mu.Lock()
	f.host.w, f.host.h = 1280, 820
	f.host.mu.Unlock()

	// Cmd+Q, Dock Quit and system shutdown all arrive here on macOS.
	assert.False(t, f.app.BeforeClose(context.Background()))
	assert.NotContains(t, f.host.Calls(), "hide")
	assert.Equal(t, 1280, f.geo.Load().Width)

	before := len(f.host.Calls())
	f.app.Activate()
	assert.Empty(t, f.host.Calls()[before:], "no re-activation while quitting")
}

func TestMacAppMenuQuit(t *testing.T) {
	f := newFixture(t, "darwin", nil)
	f.start(t)

	f.app.HandleRole(appmenu.RoleQuit)
	assert.Contains(t, f.host.Calls(), "quit")
	assert.False(t, f.app.BeforeClose(context.Background()))
}

func TestShowMainWindow(t *testing.T) {
	f := newFixture(t, "darwin", nil)
	f.start(t)
	f.app.HandleRole(appmenu.RoleHide)
	before := len(f.host.Calls())

	f.app.HandleAction(appmenu.ActionShowWindow)
	assert.Equal(t, []string{"showApp", "show"}, f.host.Calls()[before:])
}

func TestActivate_RecreatesDestroyedWindow(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.app.mu.Lock()
	f.app.window.Destroy()
	f.app.mu.Unlock()

	f.app.Activate()
	assert.True(t, f.app.HasWindow())
	assert.Contains(t, f.host.Calls(), "reload")

	f.app.DomReady(context.Background())
	f.app.mu.Lock()
	defer f.app.mu.Unlock()
	assert.True(t, f.app.window.IsOpen())
}

func TestSecondInstance_FocusesExistingWindow(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)
	before := len(f.host.Calls())

	f.app.SecondInstanceLaunch(options.SecondInstanceData{Args: []string{"--x"}})

	calls := f.host.Calls()[before:]
	assert.Equal(t, []string{"show"}, calls)
	assert.NotContains(t, calls, "reload")
}

func TestQuit_PersistsOpenWindow(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.app.Quit()
	assert.Contains(t, f.host.Calls(), "quit")
	rec := f.geo.Load()
	assert.Equal(t, 1400, rec.Width, "initial size was applied and saved")
}

func TestHandleCommand_EmitsEnvelope(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.app.HandleCommand(command.NewConversation)

	f.host.mu.Lock()
	defer f.host.mu.Unlock()
	require.Len(t, f.host.emitted, 1)
	env, ok := f.host.emitted[0].(command.Envelope)
	require.True(t, ok)
	assert.Equal(t, "newChat", env.Function)
	assert.NotEmpty(t, env.ID)
}

func TestHandleRole_Zoom(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.app.HandleRole(appmenu.RoleZoomIn)
	f.app.HandleRole(appmenu.RoleZoomIn)
	assert.InDelta(t, 1.2, f.app.Zoom(), 0.001)
	assert.InDelta(t, 1.2, f.cfg.GetZoomLevel(), 0.001)

	f.app.HandleRole(appmenu.RoleResetZoom)
	assert.Equal(t, config.DefaultZoom, f.app.Zoom())
	assert.Contains(t, f.host.scripts[len(f.host.scripts)-1], `"1.00"`)
}

func TestHandleRole_Fullscreen(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.app.HandleRole(appmenu.RoleToggleFullscreen)
	f.app.HandleRole(appmenu.RoleToggleFullscreen)
	calls := f.host.Calls()
	assert.Equal(t, []string{"fullscreen", "unfullscreen"}, calls[len(calls)-2:])
}

func TestHandleRole_EditAndReload(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.app.HandleRole(appmenu.RoleCopy)
	assert.Contains(t, f.host.scripts, `document.execCommand("copy");`)

	f.app.HandleRole(appmenu.RoleReload)
	f.app.HandleRole(appmenu.RoleForceReload)
	calls := f.host.Calls()
	assert.Equal(t, []string{"reloadPage", "reload"}, calls[len(calls)-2:])
}

func TestHandleAction_About(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.app.HandleAction(appmenu.ActionAbout)
	require.Len(t, f.host.dialogs, 1)
	d := f.host.dialogs[0]
	assert.Equal(t, "About "+version.Name, d.title)
	assert.Contains(t, d.message, version.Version)
	assert.Contains(t, d.message, version.Providers)
}

func TestHandleAction_OpenLogs(t *testing.T) {
	f := newFixture(t, "linux", nil)
	var opened string
	orig := openFolder
	openFolder = func(dir string) error { opened = dir; return nil }
	t.Cleanup(func() { openFolder = orig })

	f.app.HandleAction(appmenu.ActionOpenLogs)
	assert.Equal(t, f.dir, opened)
}

func TestOpenExternal_Event(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.host.fire(bridge.EventOpenExternal, "https://example.com/docs")
	f.host.fire(bridge.EventOpenExternal, "file:///etc/passwd")
	f.host.fire(bridge.EventOpenExternal, 42)

	assert.Equal(t, []string{"https://example.com/docs"}, f.host.opened)
}

func TestShutdown_ReleasesListeners(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.app.Shutdown(context.Background())
	assert.False(t, f.app.HasWindow())
	f.host.mu.Lock()
	defer f.host.mu.Unlock()
	assert.Empty(t, f.host.handlers)
}

func releaseServer(t *testing.T, tag string) *updater.Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/releases/%s"}`, tag, tag)
	}))
	t.Cleanup(srv.Close)
	c := updater.NewChecker("owner", "repo")
	c.BaseURL = srv.URL
	return c
}

func TestManualUpdateCheck_UpToDate(t *testing.T) {
	f := newFixture(t, "linux", releaseServer(t, "v"+version.Version))
	f.start(t)

	f.app.checkForUpdates(true)
	require.Len(t, f.host.dialogs, 1)
	assert.Equal(t, DialogInfo, f.host.dialogs[0].kind)
	assert.Contains(t, f.host.dialogs[0].message, "up to date")
}

func TestManualUpdateCheck_OpensReleasePage(t *testing.T) {
	f := newFixture(t, "linux", releaseServer(t, "v99.0.0"))
	f.start(t)
	f.host.answer = "Open"

	f.app.checkForUpdates(true)
	require.Len(t, f.host.dialogs, 1)
	assert.Equal(t, DialogQuestion, f.host.dialogs[0].kind)
	assert.Equal(t, []string{"https://example.com/releases/v99.0.0"}, f.host.opened)
}

func TestStartupUpdateCheck_OnlyLogs(t *testing.T) {
	f := newFixture(t, "linux", releaseServer(t, "v99.0.0"))
	f.start(t)

	f.app.checkForUpdates(false)
	assert.Empty(t, f.host.dialogs)
}

func TestStartupCheckToggle(t *testing.T) {
	f := newFixture(t, "linux", nil)
	assert.False(t, f.app.Checked(appmenu.ActionStartupCheck))

	f.app.HandleToggle(appmenu.ActionStartupCheck, true)
	assert.True(t, f.cfg.GetCheckUpdates())
	assert.True(t, f.app.Checked(appmenu.ActionStartupCheck))

	f.app.HandleToggle(appmenu.ActionStartupCheck, false)
	assert.False(t, f.cfg.GetCheckUpdates())
}

type fakeJournal struct {
	recs   []storage.CommandRecord
	counts map[string]int64
}

func (j fakeJournal) RecentCommands(limit int) ([]storage.CommandRecord, error) {
	if len(j.recs) > limit {
		return j.recs[:limit], nil
	}
	return j.recs, nil
}

func (j fakeJournal) CountCommandsByStatus(status string) (int64, error) {
	return j.counts[status], nil
}

func TestShowJournal(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)
	f.app.history = fakeJournal{
		recs: []storage.CommandRecord{
			{Command: "toggle_sidebar", Status: command.StatusUnhandled, Detail: "page function not defined", CreatedAt: "2026-10-19T10:00:00Z"},
			{Command: "new_conversation", Status: command.StatusDelivered, CreatedAt: "2026-10-19T09:59:00Z"},
		},
		counts: map[string]int64{command.StatusDelivered: 4, command.StatusUnhandled: 1},
	}

	f.app.HandleAction(appmenu.ActionJournal)
	require.Len(t, f.host.dialogs, 1)
	msg := f.host.dialogs[0].message
	assert.Contains(t, msg, "delivered: 4")
	assert.Contains(t, msg, "unhandled: 1")
	assert.Contains(t, msg, "timeout: 0")
	assert.Contains(t, msg, "toggle_sidebar  unhandled (page function not defined)")
	assert.Less(t, strings.Index(msg, "toggle_sidebar"), strings.Index(msg, "new_conversation"))
}

func TestShowJournal_NoDatabase(t *testing.T) {
	f := newFixture(t, "linux", nil)
	f.start(t)

	f.app.ShowJournal()
	require.Len(t, f.host.dialogs, 1)
	assert.Contains(t, f.host.dialogs[0].message, "unavailable")
}
