package whisper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"srtforge/internal/profile"
)

func fastPreset(t *testing.T) profile.Profile {
	t.Helper()
	preset, err := profile.NewRegistry().Select(profile.Fast)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	return preset
}

func TestBuildArgs(t *testing.T) {
	preset := fastPreset(t)
	args := BuildArgs(Request{
		Input:     "/videos/a.mkv",
		OutputDir: "/videos",
		Profile:   preset,
	})
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"/videos/a.mkv",
		"--model base",
		"--output_format srt",
		"--output_dir /videos",
		"--temperature 0.1",
		"--beam_size 2",
		"--best_of 2",
		"--no_speech_threshold 0.4",
		"--compression_ratio_threshold 2.2",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if strings.Contains(joined, "--language") {
		t.Errorf("language flag present without language: %s", joined)
	}
	if strings.Contains(joined, "--task") {
		t.Errorf("task flag present without translate: %s", joined)
	}
}

func TestBuildArgsLanguageAndTranslate(t *testing.T) {
	args := BuildArgs(Request{
		Input:     "/videos/a.mkv",
		OutputDir: "/videos",
		Profile:   fastPreset(t),
		Language:  "en",
		Translate: true,
	})
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--language en") {
		t.Errorf("missing language flag: %s", joined)
	}
	if !strings.Contains(joined, "--task translate") {
		t.Errorf("missing translate task: %s", joined)
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-whisper")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestTranscribeSuccess(t *testing.T) {
	service := NewService(writeScript(t, "exit 0\n"), nil)
	err := service.Transcribe(context.Background(), Request{
		Input:   filepath.Join(t.TempDir(), "a.mkv"),
		Profile: fastPreset(t),
	}, nil)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
}

func TestTranscribeFailureSurfacesStderr(t *testing.T) {
	service := NewService(writeScript(t, "echo 'model load failed' >&2\nexit 3\n"), nil)
	err := service.Transcribe(context.Background(), Request{
		Input:   filepath.Join(t.TempDir(), "a.mkv"),
		Profile: fastPreset(t),
	}, nil)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "model load failed") {
		t.Errorf("stderr text missing from error: %v", err)
	}
}

func TestTranscribeCancellationKillsProcess(t *testing.T) {
	service := NewService(writeScript(t, "sleep 30\n"), nil)
	start := time.Now()
	err := service.Transcribe(context.Background(), Request{
		Input:   filepath.Join(t.TempDir(), "a.mkv"),
		Profile: fastPreset(t),
	}, func() bool { return true })
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
}

func TestTranscribeRequiresInput(t *testing.T) {
	service := NewService("whisper", nil)
	if err := service.Transcribe(context.Background(), Request{Profile: fastPreset(t)}, nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
