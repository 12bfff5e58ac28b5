package levels

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlLevel is the on-disk YAML structure for a level file.
type yamlLevel struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Grid          []string `yaml:"grid"`
	TimeLimitSecs int      `yaml:"time_limit_secs,omitempty"`
}

// ParseYAML parses one level file. The grid must describe a playable world.
func ParseYAML(data []byte) (Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, fmt.Errorf("level file has no id")
	}

	lvl := Level{
		ID:        yl.ID,
		Name:      yl.Name,
		Grid:      yl.Grid,
		TimeLimit: time.Duration(yl.TimeLimitSecs) * time.Second,
	}
	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}
	if err := lvl.Validate(); err != nil {
		return Level{}, err
	}
	return lvl, nil
}

// EncodeYAML renders a level in the same format ParseYAML reads. Used by the
// generator to write level files.
func EncodeYAML(lvl Level) ([]byte, error) {
	yl := yamlLevel{
		ID:            lvl.ID,
		Name:          lvl.Name,
		Grid:          lvl.Grid,
		TimeLimitSecs: int(lvl.TimeLimit / time.Second),
	}
	data, err := yaml.Marshal(yl)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}
