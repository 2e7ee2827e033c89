package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLIRunEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)
	videoDir := filepath.Join(env.baseDir, "videos")
	writeTestVideos(t, videoDir, "a.mp4", "b.mkv")

	out, _, err := runCLI(t, env.configPath, "run", videoDir, "--no-progress", "--offset", "1.75")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireContains(t, out, "completed")
	requireContains(t, out, "Processing complete!")

	for _, name := range []string{"a.srt", "b.srt"} {
		content, readErr := os.ReadFile(filepath.Join(videoDir, name))
		if readErr != nil {
			t.Fatalf("expected subtitle %s: %v", name, readErr)
		}
		if !strings.Contains(string(content), "00:00:02,750 --> 00:00:04,250") {
			t.Errorf("offset not applied to %s:\n%s", name, content)
		}
	}

	out, _, err = runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history after run: %v", err)
	}
	requireContains(t, out, "completed")
	requireContains(t, out, "2/2")
}

func TestCLIRunSkipsExisting(t *testing.T) {
	env := setupCLITestEnv(t)
	videoDir := filepath.Join(env.baseDir, "videos")
	writeTestVideos(t, videoDir, "a.mp4")
	seeded := filepath.Join(videoDir, "a.srt")
	if err := os.WriteFile(seeded, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed subtitle: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "run", videoDir, "--no-progress")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireContains(t, out, "Skipping (subtitle exists): a.mp4")

	content, err := os.ReadFile(seeded)
	if err != nil {
		t.Fatalf("read seeded subtitle: %v", err)
	}
	if string(content) != "existing" {
		t.Fatal("existing subtitle was replaced without --overwrite")
	}
}

func TestCLIRunEmptyFolder(t *testing.T) {
	env := setupCLITestEnv(t)
	emptyDir := filepath.Join(env.baseDir, "empty")
	if err := os.MkdirAll(emptyDir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}

	_, _, err := runCLI(t, env.configPath, "run", emptyDir, "--no-progress")
	if err == nil || !strings.Contains(err.Error(), "no video files found") {
		t.Fatalf("expected no-files error, got %v", err)
	}
}
