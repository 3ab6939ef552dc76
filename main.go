package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"todui/api"
	"todui/auth"
	"todui/config"
	"todui/model"
	"todui/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	// Write a settings template on first run so users have something to edit
	settingsPath := config.GetSettingsFilePath()
	if !config.FileExists(settingsPath) {
		if err := config.WriteSettingsTemplate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write settings template: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		errorModal := ui.NewErrorModal("Configuration Error",
			fmt.Sprintf("%v\n\nFix or delete the file and restart todui.", err))
		p := tea.NewProgram(
			errorModal,
			tea.WithAltScreen(),
		)
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	config.InitDebugLog()
	if config.DebugLog != nil {
		config.DebugLog.Printf("todui %s starting, backend %s", Version, cfg.APIURL)
	}

	provider := auth.NewTokenProvider(cfg.Token)
	client := api.NewClient(cfg.APIURL)
	dataModel := model.NewModel(cfg, provider, client, Version, License)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running todui: %v\n", err)
		os.Exit(1)
	}
}
