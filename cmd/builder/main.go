// Package main wraps the wails CLI to build the AI Workbench shell.
// Usage: go run ./cmd/builder [check|build|release] [-version X.Y.Z]
package main

import (
	"archive/zip"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"ai-workbench/internal/version"
)

const (
	artifactName = "AIWorkbench"
	versionVar   = "ai-workbench/internal/version.Version"
	wailsBinDir  = "build/bin"
	releaseDir   = "build/release"
)

type target struct {
	goos   string
	goarch string
	nsis   bool
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	ver := fs.String("version", version.Version, "version stamped into the binary")
	fs.Parse(os.Args[2:])

	switch os.Args[1] {
	case "check":
		if !runCheck() {
			os.Exit(1)
		}
	case "build":
		mustCheck()
		t := target{goos: runtime.GOOS, goarch: runtime.GOARCH, nsis: runtime.GOOS == "windows"}
		if err := wailsBuild(t, *ver); err != nil {
			fmt.Printf("Build failed: %v\n", err)
			os.Exit(1)
		}
		printArtifacts(wailsBinDir)
	case "release":
		mustCheck()
		runRelease(*ver)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`
AI Workbench Build
==================

Usage: go run ./cmd/builder <command> [-version X.Y.Z]

Commands:
  check     Verify the go and wails toolchains are installed
  build     Build for the current platform
  release   Build and package for every platform this host can target
  help      Show this help message`)
}

func runCheck() bool {
	tools := []struct {
		name string
		args []string
	}{
		{"go", []string{"version"}},
		{"wails", []string{"version"}},
	}

	ok := true
	for _, tool := range tools {
		out, err := exec.Command(tool.name, tool.args...).Output()
		if err != nil {
			fmt.Printf("MISSING %s: not in PATH\n", tool.name)
			ok = false
			continue
		}
		fmt.Printf("OK %s: %s\n", tool.name, firstLine(string(out)))
	}
	return ok
}

func mustCheck() {
	if !runCheck() {
		fmt.Println("Install the missing tools and try again.")
		os.Exit(1)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// buildArgs returns the wails CLI arguments for t. The version is stamped
// through the linker so the About dialog and the page capability agree.
func buildArgs(t target, ver string) []string {
	args := []string{
		"build",
		"-platform", t.goos + "/" + t.goarch,
		"-ldflags", fmt.Sprintf("-X %s=%s", versionVar, ver),
		"-trimpath",
	}
	if t.nsis {
		args = append(args, "-nsis")
	}
	return args
}

func wailsBuild(t target, ver string) error {
	fmt.Printf("\nBuilding %s %s for %s/%s\n", version.Name, ver, t.goos, t.goarch)
	cmd := exec.Command("wails", buildArgs(t, ver)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func runRelease(ver string) {
	targets := []target{
		{"windows", "amd64", true},
		{"darwin", "universal", false},
		{"linux", "amd64", false},
	}

	if err := os.MkdirAll(releaseDir, 0755); err != nil {
		fmt.Printf("Failed to create %s: %v\n", releaseDir, err)
		os.Exit(1)
	}

	for _, t := range targets {
		// GUI builds need the native toolchain of the target OS.
		if t.goos != runtime.GOOS {
			fmt.Printf("Skipping %s/%s (cross-compiling the webview is not supported)\n", t.goos, t.goarch)
			continue
		}
		if err := wailsBuild(t, ver); err != nil {
			fmt.Printf("Build failed for %s/%s: %v\n", t.goos, t.goarch, err)
			continue
		}
		dest, err := packageBuild(t, ver)
		if err != nil {
			fmt.Printf("Packaging failed: %v\n", err)
			continue
		}
		fmt.Printf("Packaged %s\n", dest)
	}
}

// releaseName is the file name of a packaged artifact.
func releaseName(t target, ver string) string {
	switch t.goos {
	case "windows":
		if t.nsis {
			return fmt.Sprintf("%s-Setup-v%s.exe", artifactName, ver)
		}
		return fmt.Sprintf("%s-v%s-windows-%s.exe", artifactName, ver, t.goarch)
	case "darwin":
		return fmt.Sprintf("%s-v%s-macos-%s.zip", artifactName, ver, t.goarch)
	}
	return fmt.Sprintf("%s-v%s-%s-%s", artifactName, ver, t.goos, t.goarch)
}

func packageBuild(t target, ver string) (string, error) {
	dest := filepath.Join(releaseDir, releaseName(t, ver))

	var pattern string
	switch t.goos {
	case "windows":
		pattern = "*.exe"
		if t.nsis {
			pattern = "*-installer.exe"
		}
	case "darwin":
		pattern = "*.app"
	default:
		pattern = "*"
	}

	matches, _ := filepath.Glob(filepath.Join(wailsBinDir, pattern))
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s artifact in %s", pattern, wailsBinDir)
	}
	if t.goos == "darwin" {
		return dest, zipDirectory(matches[0], dest)
	}
	return dest, copyFile(matches[0], dest)
}

func printArtifacts(dir string) {
	fmt.Println("\nBuild artifacts:")
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		fmt.Printf("   %s (%.1f MB)\n", path, float64(info.Size())/(1024*1024))
		return nil
	})
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	_, err = io.Copy(destination, source)
	return err
}

// zipDirectory archives the source directory (an .app bundle) into target.
func zipDirectory(source, target string) error {
	zipFile, err := os.Create(target)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)
	defer archive.Close()

	return filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		relPath, _ := filepath.Rel(filepath.Dir(source), path)
		header.Name = filepath.ToSlash(relPath)
		if info.IsDir() {
			header.Name += "/"
		} else {
			header.Method = zip.Deflate
		}

		writer, err := archive.CreateHeader(header)
		if err != nil || info.IsDir() {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(writer, file)
		return err
	})
}
