package config

import "os"

// DefaultAPIURL matches the backend's local development address.
const DefaultAPIURL = "http://localhost:8000"

func DefaultSettings() *Settings {
	return &Settings{
		APIURL: DefaultAPIURL,
	}
}

// WriteSettingsTemplate creates the config directory and writes a commented
// settings.toml, leaving an existing file alone.
func WriteSettingsTemplate() error {
	if err := os.MkdirAll(GetConfigDir(), 0700); err != nil {
		return err
	}
	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		return nil
	}
	return os.WriteFile(settingsPath, []byte(GenerateSettingsTemplate()), 0600)
}

func GenerateSettingsTemplate() string {
	return `# todui Configuration
# Location: ~/.config/todui/settings.toml
# This file uses TOML format: https://toml.io

# Base URL of the todo app backend
api_url = "http://localhost:8000"

# Bearer token issued by the todo app (optional; TODUI_TOKEN overrides)
# token = ""
`
}
