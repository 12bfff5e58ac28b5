package config

import (
	_ "embed"
)

//go:embed defaults/scriptmaze.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration, used when no config
// file is found and as the base the found file is merged over.
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			TickRateHz: 30,
			Animations: AnimationConfig{
				MoveMs:    280,
				TurnMs:    250,
				BoxFallMs: 420,
				PressMs:   150,
			},
		},
		Channel: ChannelConfig{
			CapacityCells:  16384,
			AwaitTimeoutMs: 10000,
		},
		Levels: LevelsConfig{
			Dir: "",
		},
		Storage: StorageConfig{
			Path: "~/.scriptmaze/scriptmaze.db",
		},
		Server: ServerConfig{
			SSHAddr:   ":23234",
			WatchAddr: ":8089",
		},
	}
}
