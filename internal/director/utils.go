package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ivlev/spotlight/internal/system"
)

// ScriptsDir is where generated scripts are stored by default
var ScriptsDir = filepath.Join("input", "scripts")

// ScriptExtensions are the file types scanned for scripts
var ScriptExtensions = []string{".yaml", ".yml"}

// GenerateScriptPath creates a timestamped script filename in ScriptsDir
func GenerateScriptPath() string {
	return filepath.Join(ScriptsDir, "script_"+time.Now().Format("2006-01-02_15-04-05")+".yaml")
}

// FindLatestScript returns the newest file in dir that loads as a script.
// Files that fail to parse or have no keyframes are skipped.
func FindLatestScript(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read scripts dir: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !system.HasExtension(entry.Name(), ScriptExtensions) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})

	for _, c := range candidates {
		if _, err := ReadScript(c.path); err == nil {
			return c.path, nil
		}
	}
	return "", fmt.Errorf("no valid scripts in %s", dir)
}
