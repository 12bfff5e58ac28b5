// Package config provides YAML-based runtime configuration for the
// scriptmaze program: play-loop tuning, mailbox sizing, level sources,
// persistence, and server addresses.
package config

// Config is the complete runtime configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Channel ChannelConfig `yaml:"channel"`
	Levels  LevelsConfig  `yaml:"levels"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// GameConfig tunes the play loop.
type GameConfig struct {
	TickRateHz int             `yaml:"tick_rate_hz"`
	Animations AnimationConfig `yaml:"animations"`
}

// AnimationConfig holds per-command animation durations in milliseconds.
// Zero completes that command on the tick it is issued.
type AnimationConfig struct {
	MoveMs    int `yaml:"move_ms"`
	TurnMs    int `yaml:"turn_ms"`
	BoxFallMs int `yaml:"box_fall_ms"`
	PressMs   int `yaml:"press_ms"`
}

// ChannelConfig tunes the worker mailbox.
type ChannelConfig struct {
	CapacityCells  int `yaml:"capacity_cells"`
	AwaitTimeoutMs int `yaml:"await_timeout_ms"`
}

// LevelsConfig points at level sources beyond the built-ins.
type LevelsConfig struct {
	Dir string `yaml:"dir"` // directory of *.yaml level files, empty to skip
}

// StorageConfig locates the persistence database.
type StorageConfig struct {
	Path string `yaml:"path"` // ~ expands to the home directory
}

// ServerConfig configures the SSH server and the observer feed.
type ServerConfig struct {
	SSHAddr   string `yaml:"ssh_addr"`
	WatchAddr string `yaml:"watch_addr"`
}
