package dynamic

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeFinder reports the paths in executables as runnable
func fakeFinder(goos string, env map[string]string, executables []string, inPath map[string]string) chromeFinder {
	runnable := make(map[string]bool)
	for _, p := range executables {
		runnable[p] = true
	}
	return chromeFinder{
		goos:   goos,
		getenv: func(k string) string { return env[k] },
		isExec: func(p string) bool { return runnable[p] },
		lookPath: func(name string) (string, error) {
			if p, ok := inPath[name]; ok {
				return p, nil
			}
			return "", errors.New("not found")
		},
	}
}

func TestChromeFinder_Order(t *testing.T) {
	tests := []struct {
		name   string
		finder chromeFinder
		want   string
	}{
		{
			name: "CHROME_PATH wins",
			finder: fakeFinder("linux", map[string]string{"CHROME_PATH": "/opt/chrome"},
				[]string{"/opt/chrome", "/usr/bin/chromium"}, nil),
			want: "/opt/chrome",
		},
		{
			name: "non executable CHROME_PATH is skipped",
			finder: fakeFinder("linux", map[string]string{"CHROME_PATH": "/opt/chrome"},
				[]string{"/usr/bin/chromium"}, nil),
			want: "/usr/bin/chromium",
		},
		{
			name:   "stable before chromium",
			finder: fakeFinder("linux", nil, []string{"/usr/bin/chromium", "/usr/bin/google-chrome-stable"}, nil),
			want:   "/usr/bin/google-chrome-stable",
		},
		{
			name:   "flatpak under HOME",
			finder: fakeFinder("linux", map[string]string{"HOME": "/home/u"}, []string{"/home/u/.local/share/flatpak/exports/bin/org.chromium.Chromium"}, nil),
			want:   "/home/u/.local/share/flatpak/exports/bin/org.chromium.Chromium",
		},
		{
			name:   "mac user Applications",
			finder: fakeFinder("darwin", map[string]string{"HOME": "/Users/u"}, []string{"/Users/u/Applications/Chromium.app/Contents/MacOS/Chromium"}, nil),
			want:   "/Users/u/Applications/Chromium.app/Contents/MacOS/Chromium",
		},
		{
			name:   "PATH last",
			finder: fakeFinder("linux", nil, nil, map[string]string{"chromium": "/nix/bin/chromium"}),
			want:   "/nix/bin/chromium",
		},
		{
			name:   "nothing installed",
			finder: fakeFinder("linux", nil, nil, nil),
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.finder.find(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no execute bit on windows")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "chrome")
	doc := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(doc, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}

	if !isExecutable(bin) {
		t.Error("Expected executable file to be accepted")
	}
	if isExecutable(doc) {
		t.Error("Expected plain file to be rejected")
	}
	if isExecutable(dir) {
		t.Error("Expected directory to be rejected")
	}
	if isExecutable(filepath.Join(dir, "missing")) {
		t.Error("Expected missing file to be rejected")
	}
}
