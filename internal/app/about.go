package app

import (
	"fmt"
	"runtime"
	"strings"

	"ai-workbench/internal/version"

	hostinfo "github.com/shirou/gopsutil/v3/host"
)

// AboutText is the body of the About dialog.
func AboutText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Version %s\n\n", version.Version)
	fmt.Fprintf(&b, "%s\n\n", version.Summary)
	fmt.Fprintf(&b, "Supported providers: %s\n\n", version.Providers)
	b.WriteString(osLine())
	return b.String()
}

func osLine() string {
	info, err := hostinfo.Info()
	if err != nil || info.Platform == "" {
		return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch)
}

// ShowAbout opens the native About dialog.
func (a *App) ShowAbout() {
	host := a.currentHost()
	if host == nil {
		return
	}
	if _, err := host.MessageDialog(DialogInfo, "About "+version.Name, AboutText()); err != nil {
		a.logger.Error("Failed to show About dialog", "error", err)
	}
}
