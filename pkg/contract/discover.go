package contract

import (
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultStartDirs returns the working directory and the executable's directory.
func DefaultStartDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// Find walks each start directory and its parents looking for RelativePath.
func Find(startDirs []string) (string, bool) {
	seen := map[string]struct{}{}
	for _, start := range startDirs {
		if start == "" {
			continue
		}
		abs, err := filepath.Abs(start)
		if err != nil {
			continue
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}

		for current := abs; ; {
			candidate := filepath.Join(current, filepath.FromSlash(RelativePath))
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	return "", false
}

// Load discovers the contract from startDirs. A missing or unreadable
// document falls back to Builtin; Load never fails.
func Load(startDirs []string, logger *slog.Logger) *Contract {
	if logger == nil {
		logger = slog.Default()
	}

	path, ok := Find(startDirs)
	if !ok {
		logger.Debug("Validation contract not found, using builtin", "relative_path", RelativePath)
		return Builtin()
	}

	c, err := LoadFile(path)
	if err != nil {
		logger.Warn("Validation contract unusable, using builtin", "path", path, "error", err)
		return Builtin()
	}

	logger.Debug("Validation contract loaded", "path", path,
		"triggers", len(c.triggers), "action_types", len(c.actionTypes))
	return c
}
