// Package paths resolves where haras keeps its configuration, its horse
// store and the backups it exports.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform config and data roots.
const AppName = "haras"

// DefaultDataDirName is the data directory created under the current
// directory when nothing else is configured.
const DefaultDataDirName = ".haras-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "HARAS_CONFIG_DIR"
	EnvDataDir   = "HARAS_DATA_DIR"
	EnvExportDir = "HARAS_EXPORT_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/haras (fallback ~/.config/haras)
// macOS:   ~/Library/Application Support/haras
// Windows: %APPDATA%/haras
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	return userConfigSubdir()
}

func xdgDir(env, homeFallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, AppName), nil
}

// userConfigSubdir covers macOS and Windows.
func userConfigSubdir() (string, error) {
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > HARAS_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > HARAS_DATA_DIR env > $(CWD)/.haras-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	return resolve(flag, configYAMLValue, EnvDataDir, DefaultDataDirName)
}

// ResolveExportDir returns where filesystem backups go: flag >
// configYAMLValue > HARAS_EXPORT_DIR env > the current directory.
func ResolveExportDir(flag, configYAMLValue string) (string, error) {
	return resolve(flag, configYAMLValue, EnvExportDir, "")
}

func resolve(flag, configYAMLValue, env, cwdDefault string) (string, error) {
	for _, candidate := range []string{flag, configYAMLValue, os.Getenv(env)} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, cwdDefault), nil
}
