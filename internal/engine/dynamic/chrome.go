package dynamic

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"
)

// ErrBrowserUnavailable is returned by Fetch when no browser was found at startup
var ErrBrowserUnavailable = errors.New("browser automation unavailable")

// Capability is the result of the startup browser probe
type Capability struct {
	Available bool
	ExecPath  string
	Reason    string
}

// Probe decides once whether dynamic fetching can be used. configured is an
// explicit executable path; disabled forces static-only operation.
func Probe(configured string, disabled bool) Capability {
	if disabled {
		return Capability{Reason: "disabled by configuration"}
	}
	if configured != "" {
		if isExecutable(configured) {
			return Capability{Available: true, ExecPath: configured}
		}
		log.Warn().Str("path", configured).Msg("Configured Chrome path is not executable")
	}
	if path := FindChrome(); path != "" {
		log.Debug().Str("path", path).Msg("Chrome found")
		return Capability{Available: true, ExecPath: path}
	}
	return Capability{Reason: "no Chrome or Chromium executable found"}
}

// Install locations searched by FindChrome, most specific first
var (
	macApps = []string{
		"Google Chrome.app/Contents/MacOS/Google Chrome",
		"Chromium.app/Contents/MacOS/Chromium",
		"Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		"Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		"Brave Browser.app/Contents/MacOS/Brave Browser",
	}
	windowsRoots = []string{"ProgramFiles", "ProgramFiles(x86)", "LocalAppData"}
	windowsExes  = []string{
		`Google\Chrome\Application\chrome.exe`,
		`Chromium\Application\chrome.exe`,
		`Microsoft\Edge\Application\msedge.exe`,
		`BraveSoftware\Brave-Browser\Application\brave.exe`,
	}
	unixPaths = []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/usr/bin/microsoft-edge",
		"/usr/bin/brave-browser",
	}
	flatpakApps = []string{"com.google.Chrome", "org.chromium.Chromium"}
	pathNames   = []string{
		"google-chrome-stable", "google-chrome", "chromium", "chromium-browser",
		"chrome", "msedge", "brave-browser",
	}
)

// chromeFinder walks the candidate locations of one platform. The lookups
// are fields so the search order can be exercised without a browser.
type chromeFinder struct {
	goos     string
	getenv   func(string) string
	isExec   func(string) bool
	lookPath func(string) (string, error)
}

var systemFinder = chromeFinder{
	goos:     runtime.GOOS,
	getenv:   os.Getenv,
	isExec:   isExecutable,
	lookPath: exec.LookPath,
}

// FindChrome locates a Chrome/Chromium executable, returning "" if none
// exists. CHROME_PATH wins over install locations, which win over PATH.
func FindChrome() string {
	return systemFinder.find()
}

func (f chromeFinder) find() string {
	for _, path := range f.candidates() {
		if f.isExec(path) {
			return path
		}
	}
	for _, name := range pathNames {
		if path, err := f.lookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func (f chromeFinder) candidates() []string {
	var out []string
	if path := f.getenv("CHROME_PATH"); path != "" {
		out = append(out, path)
	}
	home := f.getenv("HOME")

	switch f.goos {
	case "darwin":
		for _, app := range macApps {
			out = append(out, filepath.Join("/Applications", app))
		}
		if home != "" {
			for _, app := range macApps[:2] {
				out = append(out, filepath.Join(home, "Applications", app))
			}
		}
	case "windows":
		for _, root := range windowsRoots {
			base := f.getenv(root)
			if base == "" {
				continue
			}
			for _, exe := range windowsExes {
				out = append(out, filepath.Join(base, exe))
			}
		}
	default:
		out = append(out, unixPaths...)
		if home != "" {
			for _, app := range flatpakApps {
				out = append(out, filepath.Join(home, ".local/share/flatpak/exports/bin", app))
			}
		}
	}
	return out
}

// isExecutable reports whether path is a file this process could run.
// Windows has no execute bit, any regular file qualifies there.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return runtime.GOOS == "windows" || info.Mode().Perm()&0o111 != 0
}
