// scriptmaze is a grid puzzle you solve by scripting the player.
//
// Usage:
//
//	scriptmaze play [level]     - Play interactively
//	scriptmaze run <script.js>  - Run a script without the TUI
//	scriptmaze levels           - List available levels
//	scriptmaze gen              - Generate a level
//	scriptmaze history          - Browse recorded runs
//	scriptmaze serve            - Start SSH server for remote play
//	scriptmaze watch <url>      - Watch someone else's run
//
// Global flags:
//
//	--config <path> - Config file (default: ~/.scriptmaze/config.yaml)
//	--db <path>     - Database path override
//	--fps <rate>    - Tick rate override
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scriptmaze/internal/config"
	"github.com/vovakirdan/scriptmaze/internal/levels"
)

var (
	// Global flags
	flagConfig string
	flagDB     string
	flagFPS    int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scriptmaze",
	Short: "A maze you solve by scripting the player",
	Long: `scriptmaze is a terminal puzzle: a player in a walled maze with keys,
doors, boxes, lava and buttons, driven by JavaScript from a built-in
console. Type step() to move, or write whole solver scripts.

Available commands:
  play     - Play interactively (console + keyboard)
  run      - Execute a script headless
  levels   - Show all available levels
  gen      - Generate a random level
  history  - Browse recorded runs
  serve    - Start SSH server for remote play
  watch    - Follow someone else's run read-only

Examples:
  scriptmaze play
  scriptmaze play 03-lock-and-key
  scriptmaze run solve.js --level 08-the-gauntlet
  scriptmaze serve --ssh :2222
  scriptmaze watch ws://localhost:8089/watch`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = config value)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if flagDB != "" {
		cfg.Storage.Path = flagDB
	}
	if flagFPS > 0 {
		cfg.Game.TickRateHz = flagFPS
	}
	return cfg
}

// registerLevels merges the configured levels directory into the registry.
func registerLevels(cfg config.Config) {
	if cfg.Levels.Dir == "" {
		return
	}
	if _, err := levels.RegisterDir(cfg.Levels.Dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: levels directory: %v\n", err)
	}
}
