package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// GetConfigDir returns the platform-specific configuration directory
// Linux/Mac: ~/.config/todui
// Windows: C:\Users\username\.config\todui
func GetConfigDir() string {
	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		return filepath.Join(userProfile, ".config", "todui")
	}

	home := os.Getenv("HOME")
	return filepath.Join(home, ".config", "todui")
}

// GetCacheDir returns the platform-specific cache directory.
// Only the debug log lives here; todui persists no application state.
// Linux/Mac: ~/.cache/todui
// Windows: C:\Users\username\AppData\Local\todui
func GetCacheDir() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			localAppData = filepath.Join(userProfile, "AppData", "Local")
		}
		return filepath.Join(localAppData, "todui")
	}

	home := os.Getenv("HOME")
	return filepath.Join(home, ".cache", "todui")
}

// GetSettingsFilePath returns the path to settings.toml
func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "settings.toml")
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home := os.Getenv("HOME")
		if runtime.GOOS == "windows" {
			home = os.Getenv("USERPROFILE")
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
