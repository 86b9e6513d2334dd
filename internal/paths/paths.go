// Package paths resolves the configuration and data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// AppName is the directory name used under platform config roots.
const AppName = "storage-quest"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".storage-quest"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "STORAGE_QUEST_CONFIG_DIR"
	EnvDataDir   = "STORAGE_QUEST_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/storage-quest (fallback ~/.config/storage-quest)
// macOS:   ~/Library/Application Support/storage-quest
// Windows: %APPDATA%/storage-quest
func DefaultConfigDir() (string, error) {
	if platformDir.goos == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultDataDir returns $(CWD)/.storage-quest.
func DefaultDataDir() (string, error) {
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > STORAGE_QUEST_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok || err != nil {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml data_dir > STORAGE_QUEST_DATA_DIR > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir)); ok || err != nil {
		return dir, err
	}
	return DefaultDataDir()
}

// firstAbs returns the first non-empty candidate as an absolute path, with a
// leading ~ expanded to the home directory.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		expanded, err := expandHome(c)
		if err != nil {
			return "", false, err
		}
		abs, err := filepath.Abs(expanded)
		return abs, true, err
	}
	return "", false, nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
