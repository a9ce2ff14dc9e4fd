package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"patui/agent"
	"patui/config"
	appmodel "patui/model"
	"patui/storage"
	"patui/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	ui.ApplyTheme(cfg.Theme)

	chatStorage, err := storage.NewChatStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize chat storage: %v\n", err)
		os.Exit(1)
	}
	defer chatStorage.Close()

	history, err := appmodel.LoadHistory(chatStorage)
	if err != nil {
		// A damaged archive should not keep the app from starting
		if config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to load chat history: %v", err)
		}
		history = nil
	}

	gateway := agent.NewClient(cfg.ServerURL, cfg.APIKey)
	summarizer := agent.NewSummarizer(cfg)

	p := tea.NewProgram(
		ui.NewAppView(cfg, gateway, summarizer, chatStorage, history, Version),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running patui: %v\n", err)
		os.Exit(1)
	}
}
