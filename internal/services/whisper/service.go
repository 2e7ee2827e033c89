package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"srtforge/internal/logging"
	"srtforge/internal/profile"
)

// ErrCancelled reports that a transcription was killed by a cancellation
// request rather than failing on its own.
var ErrCancelled = errors.New("transcription cancelled")

// pollInterval bounds how long a cancellation request can go unnoticed while
// the external process runs.
const pollInterval = 100 * time.Millisecond

// Request describes one transcription invocation.
type Request struct {
	Input     string
	OutputDir string
	Profile   profile.Profile
	Language  string
	Translate bool
}

// Service shells out to the whisper binary.
type Service struct {
	binary string
	logger *slog.Logger
}

// NewService creates a whisper service for the given binary.
func NewService(binary string, logger *slog.Logger) *Service {
	if binary == "" {
		binary = "whisper"
	}
	return &Service{
		binary: binary,
		logger: logging.WithComponent(logger, "whisper"),
	}
}

// BuildArgs assembles the whisper argv for a request, minus the binary name.
func BuildArgs(req Request) []string {
	preset := req.Profile
	args := []string{
		req.Input,
		"--model", preset.Model,
		"--output_format", "srt",
		"--output_dir", req.OutputDir,
		"--threads", strconv.Itoa(preset.Threads),
		"--temperature", formatFloat(preset.Temperature),
		"--beam_size", strconv.Itoa(preset.BeamSize),
		"--best_of", strconv.Itoa(preset.BestOf),
		"--no_speech_threshold", formatFloat(preset.NoSpeechThreshold),
		"--compression_ratio_threshold", formatFloat(preset.CompressionRatioThreshold),
	}
	if req.Language != "" {
		args = append(args, "--language", req.Language)
	}
	if req.Translate {
		args = append(args, "--task", "translate")
	}
	return args
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Transcribe runs the whisper binary for one file and blocks until it exits
// or cancellation is observed. The cancelled callback is polled roughly every
// 100ms; when it reports true the child process is killed and ErrCancelled is
// returned. A non-zero exit surfaces the captured stderr text.
func (s *Service) Transcribe(ctx context.Context, req Request, cancelled func() bool) error {
	if strings.TrimSpace(req.Input) == "" {
		return errors.New("transcribe: input path required")
	}
	if req.OutputDir == "" {
		req.OutputDir = filepath.Dir(req.Input)
	}
	if cancelled == nil {
		cancelled = func() bool { return false }
	}

	args := BuildArgs(req)
	cmd := exec.Command(s.binary, args...) //nolint:gosec
	threads := strconv.Itoa(req.Profile.Threads)
	cmd.Env = append(os.Environ(),
		"OMP_NUM_THREADS="+threads,
		"MKL_NUM_THREADS="+threads,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	s.logger.Debug("launching transcriber",
		logging.String("binary", s.binary),
		logging.String("input", req.Input),
		logging.String("model", req.Profile.Model),
	)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", s.binary, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("%s: %w: %s", s.binary, err, strings.TrimSpace(stderr.String()))
			}
			return nil
		case <-ticker.C:
			if cancelled() || ctx.Err() != nil {
				_ = cmd.Process.Kill()
				<-done
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrCancelled
			}
		}
	}
}
