package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scriptmaze/internal/levels"
)

var flagLevelsDir string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all available levels",
	Long: `Shows the built-in campaign plus any YAML levels from --dir or the
configured levels directory.`,
	Run: runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagLevelsDir, "dir", "", "Directory of YAML level files to include")
}

func runLevels(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if flagLevelsDir != "" {
		cfg.Levels.Dir = flagLevelsDir
	}
	registerLevels(cfg)

	infos := levels.List()

	if len(infos) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, info := range infos {
		if len(info.ID) > maxIDLen {
			maxIDLen = len(info.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Name")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "----")

	// Print levels
	for _, info := range infos {
		name := info.Name
		if info.Timed {
			name += " (timed)"
		}
		fmt.Printf("  %-*s  %s\n", maxIDLen, info.ID, name)
	}

	fmt.Println()
	fmt.Println("Run 'scriptmaze play <id>' to play a level.")
}
