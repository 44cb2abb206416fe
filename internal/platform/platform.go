// Package platform wraps the few OS conventions the shell depends on.
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// AppDirName is the per-user directory holding config, database and logs.
const AppDirName = "AIWorkbench"

// DataDir returns (and creates) the per-user application data directory.
func DataDir() (string, error) {
	appData, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config dir: %w", err)
	}
	dir := filepath.Join(appData, AppDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create app dir: %w", err)
	}
	return dir, nil
}

// IsMac reports whether goos follows the macOS application conventions.
func IsMac(goos string) bool {
	return goos == "darwin"
}

// KeepsRunningWithoutWindows reports whether an app on goos stays alive after
// its last window is closed. Only macOS does this.
func KeepsRunningWithoutWindows(goos string) bool {
	return IsMac(goos)
}

// OpenFolder opens the OS file manager at dir.
func OpenFolder(dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", absPath)
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
