package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckFindsBinaryOnPath(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "fake-transcriber")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	t.Setenv("PATH", dir)

	statuses := Check(Defaults("fake-transcriber", "also-missing"))
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Errorf("transcriber should be available: %+v", statuses[0])
	}
	if statuses[1].Available {
		t.Errorf("ffmpeg should be missing: %+v", statuses[1])
	}
	if statuses[1].Detail == "" {
		t.Error("missing binary should carry a detail message")
	}
	if AllAvailable(statuses) {
		t.Error("AllAvailable should be false with a missing requirement")
	}
}

func TestCheckEmptyCommand(t *testing.T) {
	statuses := Check([]Requirement{{Name: "transcriber", Command: "  "}})
	if statuses[0].Available {
		t.Error("blank command should not be available")
	}
	if statuses[0].Detail != "command not configured" {
		t.Errorf("unexpected detail: %q", statuses[0].Detail)
	}
}

func TestModelCached(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if ModelCached("base") {
		t.Error("empty cache should report not cached")
	}

	cacheDir := filepath.Join(home, ".cache", "whisper")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatalf("create cache dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, "base.pt"), []byte("weights"), 0o644); err != nil {
		t.Fatalf("write model file: %v", err)
	}
	if !ModelCached("base") {
		t.Error("model file should report cached")
	}
}

func TestAllAvailableIgnoresOptional(t *testing.T) {
	statuses := []Status{
		{Name: "transcriber", Available: true},
		{Name: "extra", Optional: true, Available: false},
	}
	if !AllAvailable(statuses) {
		t.Error("optional requirements must not gate availability")
	}
}
