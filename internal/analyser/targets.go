package analyser

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abapscan/abapscan/internal/remediate"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/files"
)

// Target is a single source file scheduled for scanning.
type Target struct {
	Path string // absolute path on disk
	Rel  string // forward-slash path relative to the scan root
}

// CollectTargets walks the target tree and collects source files matching the
// configured extensions. Hidden directories are skipped, and paths escaping
// the root through symlinks are rejected. A target pointing at a single file
// is scheduled as-is, regardless of its extension.
func CollectTargets(cfg *config.Config, root string) ([]Target, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target path %q: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("target path is not accessible: %w", err)
	}
	if !info.IsDir() {
		return []Target{{Path: absRoot, Rel: filepath.Base(absRoot)}}, nil
	}

	exts := sourceExtensions(cfg)

	var targets []Target
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !matchesExtension(d.Name(), exts) {
			return nil
		}

		abs, err := files.EnsureWithinRoot(absRoot, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil {
			return fmt.Errorf("failed to relativize %q: %w", abs, err)
		}

		targets = append(targets, Target{Path: abs, Rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk target tree: %w", err)
	}

	return targets, nil
}

// LoadUnits reads and parses an exported units file.
func LoadUnits(inputFile string) ([]remediate.Unit, error) {
	path, err := files.ExpandPath(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to expand input file path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read units file: %w", err)
	}

	units, err := remediate.LoadUnitsFile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse units file %q: %w", inputFile, err)
	}
	return units, nil
}

// sourceExtensions returns the configured source extensions. The config layer
// normalizes them, the fallback covers callers with a hand-built config.
func sourceExtensions(cfg *config.Config) []string {
	if cfg == nil || len(cfg.Abapscan.SourceExtensions) == 0 {
		return config.DefaultSourceExtensions
	}
	return cfg.Abapscan.SourceExtensions
}

func matchesExtension(name string, exts []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	for _, candidate := range exts {
		if ext == candidate {
			return true
		}
	}
	return false
}
