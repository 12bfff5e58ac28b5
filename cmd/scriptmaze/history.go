package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/scriptmaze/internal/platform/tui"
	"github.com/vovakirdan/scriptmaze/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded runs",
	Long: `Open an interactive browser over the run history: every finished or
abandoned run per level, with outcome, steps and duration.

Controls:
  Tab/Shift+Tab  - Switch level
  Up/Down        - Scroll runs
  Esc            - Back
  Q              - Quit

Examples:
  scriptmaze history
  scriptmaze history --db ./scriptmaze.db`,
	Run: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	registerLevels(cfg)

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if _, err := tui.RunHistory(store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
