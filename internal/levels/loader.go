package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir recursively scans a directory for .yaml/.yml level files.
// Files that fail to parse or validate are skipped so one bad file cannot
// take down the whole catalog. Results are sorted by ID.
func LoadDir(root string) ([]Level, error) {
	var found []Level

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		lvl, err := ParseYAML(data)
		if err != nil {
			// Skip invalid files
			return nil
		}

		found = append(found, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", root, err)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].ID < found[j].ID
	})
	return found, nil
}

// RegisterDir loads a directory and registers every level whose ID is not
// already taken. Returns how many levels were added.
func RegisterDir(root string) (int, error) {
	found, err := LoadDir(root)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, lvl := range found {
		if Exists(lvl.ID) {
			continue
		}
		Register(lvl)
		added++
	}
	return added, nil
}
