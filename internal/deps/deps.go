// Package deps verifies the external binaries srtforge shells out to.
package deps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Requirement defines an external dependency srtforge relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Defaults returns the requirements for a working installation. The ffmpeg
// check verifies the decoding environment only; srtforge never invokes it
// for transformation.
func Defaults(transcriberBinary, ffmpegBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "transcriber",
			Command:     transcriberBinary,
			Description: "speech-recognition CLI that writes SRT files",
		},
		{
			Name:        "ffmpeg",
			Command:     ffmpegBinary,
			Description: "audio/video decoder the transcriber depends on",
		},
	}
}

// Check evaluates the provided requirements against PATH.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     command,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(command); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", command)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// AllAvailable reports whether every non-optional requirement is satisfied.
func AllAvailable(statuses []Status) bool {
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			return false
		}
	}
	return true
}

// ModelCached reports whether a whisper model file is already present in the
// standard cache location. Missing models are not an error; whisper downloads
// them on first use, which makes the first file of a batch much slower.
func ModelCached(model string) bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(home, ".cache", "whisper", model+".pt"))
	return err == nil && !info.IsDir()
}

// InstallTranscriber makes one best-effort attempt to install the whisper
// CLI through pip. It is only ever called once per doctor invocation; there
// is no retry or fallback installer.
func InstallTranscriber(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "pip", "install", "openai-whisper")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pip install openai-whisper: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
