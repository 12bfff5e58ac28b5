package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/scriptmaze/internal/platform/headless"
	"github.com/vovakirdan/scriptmaze/internal/platform/web"
	"github.com/vovakirdan/scriptmaze/internal/storage"
)

var (
	flagRunLevel  string
	flagWatchAddr string
)

var runCmd = &cobra.Command{
	Use:   "run <script.js>",
	Short: "Run a script without the TUI",
	Long: `Execute a script headless and print its transcript to stdout.

The script drives the same primitives as the console: step(), left(),
right(), toggle(), level(name), restart(), help(). The exit code is 0
unless the script throws or the level fails to load.

With --watch, a read-only websocket feed of the run is served so
'scriptmaze watch' clients can follow along.

Examples:
  scriptmaze run solve.js --level 03-lock-and-key
  scriptmaze run solve.js --level 08-the-gauntlet --watch :8089
  scriptmaze run explore.js          # script picks its own level`,
	Args: cobra.ExactArgs(1),
	Run:  runScript,
}

func init() {
	runCmd.Flags().StringVar(&flagRunLevel, "level", "", "Level to load before the script starts")
	runCmd.Flags().StringVar(&flagWatchAddr, "watch", "", "Serve an observer feed on this address (e.g. :8089)")
}

func runScript(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	registerLevels(cfg)

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}

	opts := headless.Options{
		Config: cfg,
		Store:  store,
		Source: string(source),
		Level:  flagRunLevel,
		Out:    os.Stdout,
	}

	var server *web.Server
	if flagWatchAddr != "" {
		logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "scriptmaze-watch"})
		feed := web.NewFeed(logger)
		server = web.NewServer(flagWatchAddr, feed, logger)
		server.Start()
		opts.Feed = feed
	}

	runErr := headless.Run(opts)

	if server != nil {
		_ = server.Shutdown()
	}
	store.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Script error: %v\n", runErr)
		os.Exit(1)
	}
}
