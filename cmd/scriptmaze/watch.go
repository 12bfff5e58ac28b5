package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scriptmaze/internal/platform/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <url>",
	Short: "Watch someone else's run",
	Long: `Connect to a 'scriptmaze run --watch' feed and mirror the run
read-only: the maze, the transcript, and the run status.

Examples:
  scriptmaze watch ws://localhost:8089/watch
  scriptmaze watch localhost:8089          # scheme and path filled in`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) {
	url := args[0]
	if !strings.Contains(url, "://") {
		url = "ws://" + url
	}
	if !strings.HasSuffix(url, "/watch") {
		url = strings.TrimSuffix(url, "/") + "/watch"
	}

	if err := tui.RunWatch(url); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
