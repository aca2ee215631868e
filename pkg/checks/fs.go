package checks

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
)

// FileExists reports whether any direct child of dir has a name matching
// pattern. The match is unanchored.
func FileExists(dir, pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("read directory %s: %w", dir, err)
	}
	for _, e := range entries {
		if re.MatchString(e.Name()) {
			return true, nil
		}
	}
	return false, nil
}

// IsSpecialFolder reports whether name is an ignored, documentation or
// external schema folder.
func IsSpecialFolder(name string, opts Options) bool {
	return slices.Contains(opts.IgnoreFolders, name) ||
		slices.Contains(opts.DocFolders, name) ||
		slices.Contains(opts.ExternalSchemaFolders, name)
}

// ContainsModelFolders reports whether dir has a subdirectory that is not a
// special folder, i.e. whether dir is a category node.
func ContainsModelFolders(dir string, opts Options) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("read directory %s: %w", dir, err)
	}
	for _, e := range entries {
		if !isDirEntry(dir, e) {
			continue
		}
		if !IsSpecialFolder(e.Name(), opts) {
			return true, nil
		}
	}
	return false, nil
}

// isDirEntry reports whether a directory entry is a directory, without
// following symbolic links.
func isDirEntry(dir string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink != 0 {
		return false
	}
	if e.IsDir() {
		return true
	}
	info, err := os.Lstat(filepath.Join(dir, e.Name()))
	return err == nil && info.IsDir()
}

// isDir reports whether path exists and is a directory.
func isDir(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}
