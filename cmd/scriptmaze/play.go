package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scriptmaze/internal/levels"
	"github.com/vovakirdan/scriptmaze/internal/platform/tui"
	"github.com/vovakirdan/scriptmaze/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level interactively",
	Long: `Start the interactive console. Without a level argument a picker
opens first.

The console takes JavaScript: step(), left(), right(), toggle(),
level(name), restart(), help(). Multi-line blocks keep prompting with
... until the brackets close; an empty line submits what is buffered.

Controls:
  Tab        - Switch between console and keyboard play
  Up         - Step forward (keyboard play)
  Left/Right - Turn (keyboard play)
  T          - Toggle button or door (keyboard play)
  Ctrl+R     - Restart the level
  Ctrl+C     - Quit

Examples:
  scriptmaze play
  scriptmaze play 03-lock-and-key
  scriptmaze play --db ./scriptmaze.db`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	registerLevels(cfg)

	levelID := ""
	if len(args) > 0 {
		levelID = args[0]
		if !levels.Exists(levelID) {
			fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
			fmt.Fprintln(os.Stderr, "Run 'scriptmaze levels' to see available levels.")
			os.Exit(1)
		}
	}

	// The session manager persists the played level on every switch, so a
	// broken database means no restart() and no level("$").
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}

	if levelID == "" {
		result, menuErr := tui.RunMenu(store)
		if menuErr != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", menuErr)
			os.Exit(1)
		}
		if result.Quit {
			store.Close()
			return
		}
		levelID = result.LevelID
	}

	runErr := tui.Run(tui.Options{
		Config:     cfg,
		Store:      store,
		FirstLevel: levelID,
	})

	store.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
