package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings mirrors the on-disk settings.toml file.
type Settings struct {
	APIURL string `toml:"api_url"`
	Token  string `toml:"token,omitempty"`
}

// Config holds the resolved runtime configuration.
type Config struct {
	APIURL string
	Token  string
}

var Debug = false
var DebugLog *log.Logger

func CheckDebug() bool {
	debug := os.Getenv("TODUI_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens the debug log in the cache directory. A nil DebugLog
// means debug logging is disabled; callers must guard every use.
func InitDebugLog() {
	if !CheckDebug() {
		return
	}

	Debug = true
	cacheDir := GetCacheDir()
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create cache directory %s: %v\n", cacheDir, err)
		return
	}
	logPath := filepath.Join(cacheDir, "debug.log")

	// 0600: the log may echo request paths and user ids
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (TODUI_DEBUG=%s) ===", os.Getenv("TODUI_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func (c *Config) applyEnvOverrides() {
	if apiURL := os.Getenv("TODUI_API_URL"); apiURL != "" {
		c.APIURL = apiURL
	} else if apiURL := os.Getenv("NEXT_PUBLIC_API_URL"); apiURL != "" {
		// The web client reads the same backend URL from this variable;
		// honoring it lets both clients share one environment.
		c.APIURL = apiURL
	}
	if token := os.Getenv("TODUI_TOKEN"); token != "" {
		c.Token = token
	}
}

// Load reads settings.toml if present, then applies environment overrides.
// Missing settings fall back to defaults, so a bare environment still works.
func Load() (*Config, error) {
	settings := DefaultSettings()

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		if _, err := toml.DecodeFile(settingsPath, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", settingsPath, err)
		}
		if settings.APIURL == "" {
			settings.APIURL = DefaultAPIURL
		}
	}

	cfg := &Config{
		APIURL: settings.APIURL,
		Token:  settings.Token,
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}
