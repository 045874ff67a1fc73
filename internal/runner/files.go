package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/donaldgifford/jrefactor/internal/config"
)

// collectFiles expands paths into the list of files to process. Files named
// directly are always included; directories contribute the files matching
// an include pattern and no exclude pattern, relative to the directory.
// The result keeps argument order, with each directory's files sorted and
// duplicates dropped.
func collectFiles(paths []string, files config.FilesConfig) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			// Missing files are reported when they are read.
			add(path)
			continue
		}

		matches, err := walk(path, files)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func walk(dir string, files config.FilesConfig) ([]string, error) {
	fsys := os.DirFS(dir)
	var matches []string
	for _, pattern := range files.Include {
		found, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q in %s: %w", pattern, dir, err)
		}
		matches = append(matches, found...)
	}
	slices.Sort(matches)
	matches = slices.Compact(matches)

	out := matches[:0]
	for _, m := range matches {
		if !excluded(m, files.Exclude) {
			out = append(out, filepath.Join(dir, filepath.FromSlash(m)))
		}
	}
	return out, nil
}

func excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
