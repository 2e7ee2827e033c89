package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestWatchTreeRegistersSubdirectories(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "season1", "extras")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("create nested dirs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "season1", "e01.mkv"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("create watcher: %v", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, root); err != nil {
		t.Fatalf("watchTree failed: %v", err)
	}

	watched := make(map[string]bool)
	for _, path := range watcher.WatchList() {
		watched[path] = true
	}
	for _, want := range []string{root, filepath.Join(root, "season1"), nested} {
		if !watched[want] {
			t.Errorf("directory not watched: %s (watching %v)", want, watcher.WatchList())
		}
	}
	if watched[filepath.Join(root, "season1", "e01.mkv")] {
		t.Error("plain files must not be registered individually")
	}
}
