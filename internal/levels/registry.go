package levels

import (
	"fmt"
	"sort"
	"sync"
)

// Info contains display metadata about a registered level.
type Info struct {
	ID    string
	Name  string
	Timed bool
}

var (
	registered = make(map[string]Level)
	mu         sync.RWMutex
)

// Register adds a level to the registry. Typically called from init() for
// built-in levels. Panics if the ID is already taken, since a collision is a
// programming error.
func Register(lvl Level) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registered[lvl.ID]; exists {
		panic(fmt.Sprintf("levels: level %q already registered", lvl.ID))
	}
	registered[lvl.ID] = lvl
}

// List returns information about all registered levels, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(registered))
	for _, lvl := range registered {
		result = append(result, Info{
			ID:    lvl.ID,
			Name:  lvl.Name,
			Timed: lvl.TimeLimit > 0,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns the level with the given ID.
func Get(id string) (Level, bool) {
	mu.RLock()
	defer mu.RUnlock()

	lvl, ok := registered[id]
	return lvl, ok
}

// Exists checks if a level with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := registered[id]
	return ok
}
