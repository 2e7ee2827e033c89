package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"srtforge/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantLogDir := filepath.Join(tempHome, ".local", "share", "srtforge", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Transcriber.Binary != "whisper" {
		t.Fatalf("unexpected transcriber binary: %q", cfg.Transcriber.Binary)
	}
	if cfg.Transcriber.Profile != "fast" {
		t.Fatalf("unexpected default profile: %q", cfg.Transcriber.Profile)
	}
	if cfg.Subtitles.OverwriteExisting {
		t.Fatal("expected overwrite disabled by default")
	}
	if cfg.Subtitles.OffsetSeconds != 0 {
		t.Fatalf("unexpected default offset: %v", cfg.Subtitles.OffsetSeconds)
	}
	if cfg.Watch.SettleSeconds != 5 {
		t.Fatalf("unexpected settle seconds: %d", cfg.Watch.SettleSeconds)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[transcriber]
binary = "whisper-cpp"
profile = "BALANCED"
language = "en"
translate = true

[subtitles]
offset_seconds = -2.5
overwrite_existing = true

[estimator.seconds_per_mb]
balanced = 3.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Transcriber.Binary != "whisper-cpp" {
		t.Errorf("binary = %q", cfg.Transcriber.Binary)
	}
	if cfg.Transcriber.Profile != "balanced" {
		t.Errorf("profile not lowercased: %q", cfg.Transcriber.Profile)
	}
	if !cfg.Transcriber.Translate {
		t.Error("translate not set")
	}
	if cfg.Subtitles.OffsetSeconds != -2.5 {
		t.Errorf("offset = %v", cfg.Subtitles.OffsetSeconds)
	}
	if !cfg.Subtitles.OverwriteExisting {
		t.Error("overwrite not set")
	}
	if cfg.Estimator.SecondsPerMB["balanced"] != 3.5 {
		t.Errorf("estimator override missing: %v", cfg.Estimator.SecondsPerMB)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"empty binary", "[transcriber]\nbinary = \" \"\n", "transcriber.binary"},
		{"huge offset", "[subtitles]\noffset_seconds = 4000.0\n", "offset_seconds"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"bad format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"zero coefficient", "[estimator.seconds_per_mb]\nfast = 0.0\n", "seconds_per_mb"},
		{"zero settle", "[watch]\nsettle_seconds = 0\n", "settle_seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
