package main

import (
	"embed"
	"os"
	"path/filepath"
	"runtime"

	"ai-workbench/internal/app"
	"ai-workbench/internal/appmenu"
	"ai-workbench/internal/bridge"
	"ai-workbench/internal/command"
	"ai-workbench/internal/config"
	"ai-workbench/internal/geometry"
	"ai-workbench/internal/logger"
	"ai-workbench/internal/platform"
	"ai-workbench/internal/storage"
	"ai-workbench/internal/updater"
	"ai-workbench/internal/version"
	"ai-workbench/internal/window"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

const singleInstanceID = "a3f1c2d4-ai-workbench-shell"

func main() {
	dataDir, err := platform.DataDir()
	if err != nil {
		println("Error resolving data dir:", err.Error())
		dataDir = os.TempDir()
	}
	logDir := filepath.Join(dataDir, "logs")

	// Initialize Logger
	log, wailsHandler, logFile, err := logger.New(logDir, os.Stdout)
	if err != nil {
		println("Error initializing logger:", err.Error())
		log = logger.Fallback(os.Stdout)
	} else {
		defer logFile.Close()
	}

	// Settings and command journal; the shell runs without them if the
	// database is unusable.
	var (
		settings config.Store = config.NewMemoryStore()
		journal  command.Journal
		history  app.JournalReader
	)
	store, err := storage.NewStorage(dataDir)
	if err != nil {
		log.Error("Failed to open database, using defaults", "error", err)
	} else {
		defer store.Close()
		settings = store
		journal = store
		history = store
	}

	geo := geometry.NewStore(dataDir, log.With("component", "geometry"))
	initial := window.InitialGeometry(geo)

	application := app.NewApp(app.Deps{
		Logger:       log,
		WailsHandler: wailsHandler,
		Geometry:     geo,
		Config:       config.NewConfigManager(settings),
		Journal:      journal,
		History:      history,
		Updater:      updater.NewChecker(version.UpdateOwner, version.UpdateRepo),
		LogDir:       logDir,
		GOOS:         runtime.GOOS,
	})
	application.WaitForSignals()

	middleware, err := bridge.Middleware(bridge.Current())
	if err != nil {
		log.Error("Failed to build bridge script", "error", err)
		return
	}

	startState := options.Normal
	if initial.IsMaximized {
		startState = options.Maximised
	}

	appMenu := appmenu.Build(appmenu.Template(runtime.GOOS, version.Name), runtime.GOOS, application)

	// Create application with options
	err = wails.Run(&options.App{
		Title:            version.Name,
		Width:            initial.Width,
		Height:           initial.Height,
		MinWidth:         geometry.MinWidth,
		MinHeight:        geometry.MinHeight,
		WindowStartState: startState,
		StartHidden:      true,
		AssetServer: &assetserver.Options{
			Assets:     assets,
			Middleware: middleware,
		},
		BackgroundColour: &options.RGBA{R: 17, G: 24, B: 39, A: 1},
		Menu:             appMenu,
		OnStartup:        application.Startup,
		OnDomReady:       application.DomReady,
		OnBeforeClose:    application.BeforeClose,
		OnShutdown:       application.Shutdown,
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId:               singleInstanceID,
			OnSecondInstanceLaunch: application.SecondInstanceLaunch,
		},
		// macOS hides the app on close and keeps running; a Dock click unhides it.
		HideWindowOnClose: platform.KeepsRunningWithoutWindows(runtime.GOOS),
	})

	if err != nil {
		log.Error("Wails exited with error", "error", err)
	}
}
