package watcher

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// RecursiveWatcher wraps fsnotify with recursive directory support.
// fsnotify is NOT recursive on Linux/POSIX, so we must explicitly
// watch all subdirectories and dynamically add watchers for new directories.
type RecursiveWatcher struct {
	*fsnotify.Watcher
}

// New creates a new RecursiveWatcher.
func New() (*RecursiveWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &RecursiveWatcher{Watcher: w}, nil
}

// AddRecursive adds a directory and all its subdirectories to the watcher.
func (w *RecursiveWatcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip inaccessible directories
		}
		if d.IsDir() {
			// Skip hidden directories (e.g., .git)
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				return nil // Skip, don't fail entirely
			}
		}
		return nil
	})
}

// HandleNewDirectory checks if an event created a directory and, if so,
// adds it (and its subtree) to the watcher. Returns true if one was added.
func (w *RecursiveWatcher) HandleNewDirectory(event fsnotify.Event, isDir func(string) bool) bool {
	if !event.Has(fsnotify.Create) || !isDir(event.Name) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	w.AddRecursive(event.Name)
	return true
}

// IsPromptFile checks if a path is a prompt definition or fragment source.
func IsPromptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}
