// Package estimate produces size-based processing-time guesses. The numbers
// come from per-preset seconds-per-MB coefficients, so they are approximate
// by design and should be presented as such.
package estimate

import (
	"os"
	"time"

	"srtforge/internal/discover"
	"srtforge/internal/profile"
)

const bytesPerMB = 1024 * 1024

// FallbackSingleSeconds is returned when a file cannot be stat'd.
const FallbackSingleSeconds = 60

// TotalMinutes estimates the whole-batch duration in minutes for the given
// preset.
func TotalMinutes(files []discover.File, preset profile.Profile) float64 {
	totalMB := float64(discover.TotalSize(files)) / bytesPerMB
	return totalMB * preset.SecondsPerMB / 60
}

// SingleSeconds estimates one file's processing time in seconds. A stat
// failure falls back to a flat minute rather than propagating.
func SingleSeconds(path string, preset profile.Profile) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return FallbackSingleSeconds
	}
	return float64(info.Size()) / bytesPerMB * preset.SecondsPerMB
}

// ETA describes the running estimate for an in-flight batch.
type ETA struct {
	Elapsed    time.Duration
	AvgPerFile time.Duration
	Remaining  time.Duration
}

// Running derives the average-per-file and remaining estimates from elapsed
// wall time and counters. Before any file completes only Elapsed is
// meaningful, signalled by ok == false.
func Running(elapsed time.Duration, processed, total int) (ETA, bool) {
	eta := ETA{Elapsed: elapsed}
	if processed <= 0 {
		return eta, false
	}
	eta.AvgPerFile = elapsed / time.Duration(processed)
	remaining := total - processed
	if remaining < 0 {
		remaining = 0
	}
	eta.Remaining = eta.AvgPerFile * time.Duration(remaining)
	return eta, true
}
